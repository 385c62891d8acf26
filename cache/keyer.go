package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
)

// Keyer generates deterministic cache keys from query parameters.
//
// Contract:
// - Determinism: the same family and parameter set must produce the same
//   key regardless of map iteration order.
// - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	// Key generates a cache key for one logical query.
	Key(family string, params map[string]string) (string, error)
}

// FingerprintKeyer generates SHA-256 based cache keys.
type FingerprintKeyer struct{}

// NewFingerprintKeyer creates a new fingerprint keyer.
func NewFingerprintKeyer() *FingerprintKeyer {
	return &FingerprintKeyer{}
}

// Key generates a deterministic cache key.
// Format: <family>:<hash>
// where hash is the first 16 characters of SHA-256(canonical JSON(params)).
// Two queries collide on a key only if they share family and parameters,
// so a hit can be served without re-checking the parameters themselves.
func (k *FingerprintKeyer) Key(family string, params map[string]string) (string, error) {
	if family == "" {
		return "", fmt.Errorf("cache: %w: empty family", ErrInvalidKey)
	}

	canonical, err := canonicalize(params)
	if err != nil {
		return "", fmt.Errorf("cache: failed to canonicalize params: %w", err)
	}

	hash := sha256.Sum256(canonical)
	hashStr := hex.EncodeToString(hash[:8]) // First 8 bytes = 16 hex chars

	return fmt.Sprintf("%s:%s", family, hashStr), nil
}

// canonicalize produces a deterministic JSON object with keys in sorted
// order. nil and empty maps canonicalize identically.
func canonicalize(params map[string]string) ([]byte, error) {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := []byte("{")
	for i, k := range keys {
		if i > 0 {
			result = append(result, ',')
		}

		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		result = append(result, keyBytes...)
		result = append(result, ':')

		valBytes, err := json.Marshal(params[k])
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	result = append(result, '}')

	return result, nil
}

// Ensure FingerprintKeyer implements Keyer
var _ Keyer = (*FingerprintKeyer)(nil)
