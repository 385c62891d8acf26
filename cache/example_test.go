package cache_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sportops/sportops/cache"
)

func ExampleNewMemoryStore() {
	s := cache.NewMemoryStore(1000)
	ctx := context.Background()

	// Store a payload for an hour
	_ = s.Set(ctx, "teams:abc123", []byte(`{"team":{"id":33}}`), time.Hour)

	// Retrieve it
	value, ok := s.Get(ctx, "teams:abc123")
	if ok {
		fmt.Println("Payload:", string(value))
	}
	// Output:
	// Payload: {"team":{"id":33}}
}

func ExampleMemoryStore_Set_permanent() {
	s := cache.NewMemoryStore(1000)
	ctx := context.Background()

	// ttl <= 0 stores the entry permanently; finished match results never
	// change, so they never need to be refetched.
	_ = s.Set(ctx, "fixtures:def456", []byte(`{"score":"2-1"}`), 0)

	value, ok := s.Get(ctx, "fixtures:def456")
	fmt.Println("Found:", ok)
	fmt.Println("Payload:", string(value))
	// Output:
	// Found: true
	// Payload: {"score":"2-1"}
}

func ExampleNewFingerprintKeyer() {
	keyer := cache.NewFingerprintKeyer()

	// Deterministic regardless of map iteration order
	key1, _ := keyer.Key("teams", map[string]string{"search": "arsenal", "league": "39"})
	key2, _ := keyer.Key("teams", map[string]string{"league": "39", "search": "arsenal"})
	fmt.Println("Keys match:", key1 == key2)

	// Different parameters produce a different key
	key3, _ := keyer.Key("teams", map[string]string{"search": "chelsea"})
	fmt.Println("Different query, different key:", key1 != key3)
	// Output:
	// Keys match: true
	// Different query, different key: true
}

func ExampleValidateKey() {
	fmt.Println("normal key:", cache.ValidateKey("teams:abc123def4567890") == nil)
	fmt.Println("empty:", errors.Is(cache.ValidateKey(""), cache.ErrInvalidKey))
	fmt.Println("with newline:", errors.Is(cache.ValidateKey("key\nvalue"), cache.ErrInvalidKey))
	// Output:
	// normal key: true
	// empty: true
	// with newline: true
}
