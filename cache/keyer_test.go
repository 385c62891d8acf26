package cache

import (
	"strings"
	"testing"
)

func TestFingerprintKeyer_Deterministic(t *testing.T) {
	keyer := NewFingerprintKeyer()

	key1, err := keyer.Key("teams", map[string]string{"search": "arsenal", "league": "39"})
	if err != nil {
		t.Fatalf("Key failed: %v", err)
	}
	key2, err := keyer.Key("teams", map[string]string{"league": "39", "search": "arsenal"})
	if err != nil {
		t.Fatalf("Key failed: %v", err)
	}

	if key1 != key2 {
		t.Errorf("same logical query produced different keys: %q vs %q", key1, key2)
	}
}

func TestFingerprintKeyer_Format(t *testing.T) {
	keyer := NewFingerprintKeyer()

	key, err := keyer.Key("fixtures", map[string]string{"team": "33"})
	if err != nil {
		t.Fatalf("Key failed: %v", err)
	}

	family, hash, ok := strings.Cut(key, ":")
	if !ok {
		t.Fatalf("key %q missing family separator", key)
	}
	if family != "fixtures" {
		t.Errorf("key family = %q, want %q", family, "fixtures")
	}
	if len(hash) != 16 {
		t.Errorf("key hash %q has length %d, want 16", hash, len(hash))
	}
	if err := ValidateKey(key); err != nil {
		t.Errorf("generated key failed validation: %v", err)
	}
}

func TestFingerprintKeyer_DistinctInputs(t *testing.T) {
	keyer := NewFingerprintKeyer()

	base, _ := keyer.Key("teams", map[string]string{"search": "arsenal"})

	cases := []struct {
		name   string
		family string
		params map[string]string
	}{
		{"different value", "teams", map[string]string{"search": "chelsea"}},
		{"different param", "teams", map[string]string{"id": "42"}},
		{"different family", "fixtures", map[string]string{"search": "arsenal"}},
		{"extra param", "teams", map[string]string{"search": "arsenal", "league": "39"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			key, err := keyer.Key(tc.family, tc.params)
			if err != nil {
				t.Fatalf("Key failed: %v", err)
			}
			if key == base {
				t.Errorf("distinct query collided with base key %q", base)
			}
		})
	}
}

func TestFingerprintKeyer_EmptyParams(t *testing.T) {
	keyer := NewFingerprintKeyer()

	nilKey, err := keyer.Key("leagues", nil)
	if err != nil {
		t.Fatalf("Key with nil params failed: %v", err)
	}
	emptyKey, err := keyer.Key("leagues", map[string]string{})
	if err != nil {
		t.Fatalf("Key with empty params failed: %v", err)
	}
	if nilKey != emptyKey {
		t.Errorf("nil and empty params should fingerprint identically: %q vs %q", nilKey, emptyKey)
	}
}

func TestFingerprintKeyer_EmptyFamily(t *testing.T) {
	keyer := NewFingerprintKeyer()

	if _, err := keyer.Key("", map[string]string{"a": "1"}); err == nil {
		t.Error("Key with empty family should fail")
	}
}
