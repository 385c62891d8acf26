package cache

import (
	"context"
	"errors"
	"strings"
	"time"
)

// MaxKeyLength is the maximum allowed length for a cache key.
const MaxKeyLength = 512

// Sentinel errors for cache operations.
var (
	ErrNilStore   = errors.New("cache: store is nil")
	ErrInvalidKey = errors.New("cache: key is invalid")
	ErrKeyTooLong = errors.New("cache: key exceeds max length")
)

// Store holds upstream response payloads keyed by query fingerprint.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - TTL: ttl <= 0 stores the entry permanently; it can only leave the store
//   through Delete or capacity eviction.
// - Errors: Get never errors; it returns (nil, false) on miss, on expiry,
//   and on any backend fault. A cache fault must never fail a fetch.
type Store interface {
	// Get retrieves a cached payload. Returns (nil, false) on miss.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores a payload. Overwrites any existing entry under the key,
	// including a permanent one. ttl <= 0 means the entry never expires.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a cached payload. Idempotent, no error on miss.
	Delete(ctx context.Context, key string) error

	// PurgeExpired removes entries whose deadline has passed and reports
	// how many were dropped.
	PurgeExpired(ctx context.Context) (int, error)

	// Len reports the number of live entries, expired ones included until
	// they are purged or read.
	Len(ctx context.Context) (int, error)

	// Stats reports cumulative hit, miss, and eviction counters.
	Stats() Stats
}

// Stats are cumulative counters for one store.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// ValidateKey checks if a key is valid for caching.
func ValidateKey(key string) error {
	if key == "" || strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	// Reject keys with newlines or carriage returns
	if strings.ContainsAny(key, "\n\r") {
		return ErrInvalidKey
	}
	return nil
}
