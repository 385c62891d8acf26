package cache

import (
	"container/list"
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultMaxEntries bounds the memory store when no capacity is configured.
const DefaultMaxEntries = 1000

// MemoryStore is an in-memory LRU store. Expired entries are collected
// lazily on read and eagerly when capacity forces an eviction.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*list.Element
	order   *list.List // front = most recently used
	max     int
	nowFunc func() time.Time // for testing; defaults to time.Now

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

type memoryEntry struct {
	key       string
	value     []byte
	expiresAt time.Time // zero = permanent
}

func (e *memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// NewMemoryStore creates an in-memory store holding at most maxEntries
// payloads. maxEntries <= 0 selects DefaultMaxEntries.
func NewMemoryStore(maxEntries int) *MemoryStore {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &MemoryStore{
		entries: make(map[string]*list.Element),
		order:   list.New(),
		max:     maxEntries,
		nowFunc: time.Now,
	}
}

// Get retrieves a payload. A hit refreshes the entry's recency. Expired
// entries are removed on the way out and reported as misses.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.entries[key]
	if !ok {
		s.misses.Add(1)
		return nil, false
	}

	entry := el.Value.(*memoryEntry)
	if entry.expired(s.nowFunc()) {
		s.removeLocked(el)
		s.misses.Add(1)
		return nil, false
	}

	s.order.MoveToFront(el)
	s.hits.Add(1)
	return entry.value, true
}

// Set stores a payload, overwriting any existing entry under the key.
// ttl <= 0 stores the entry permanently.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFunc()
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = now.Add(ttl)
	}

	if el, ok := s.entries[key]; ok {
		entry := el.Value.(*memoryEntry)
		entry.value = value
		entry.expiresAt = expiresAt
		s.order.MoveToFront(el)
		return nil
	}

	for len(s.entries) >= s.max {
		s.evictOneLocked(now)
	}

	el := s.order.PushFront(&memoryEntry{key: key, value: value, expiresAt: expiresAt})
	s.entries[key] = el
	return nil
}

// Delete removes a payload. Idempotent, no error on miss.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.entries[key]; ok {
		s.removeLocked(el)
	}
	return nil
}

// PurgeExpired removes all entries whose deadline has passed.
func (s *MemoryStore) PurgeExpired(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFunc()
	purged := 0
	for el := s.order.Back(); el != nil; {
		prev := el.Prev()
		if el.Value.(*memoryEntry).expired(now) {
			s.removeLocked(el)
			purged++
		}
		el = prev
	}
	return purged, nil
}

// Len reports the number of stored entries, expired ones included.
func (s *MemoryStore) Len(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries), nil
}

// Stats reports cumulative counters.
func (s *MemoryStore) Stats() Stats {
	return Stats{
		Hits:      s.hits.Load(),
		Misses:    s.misses.Load(),
		Evictions: s.evictions.Load(),
	}
}

// evictOneLocked frees one slot. Preference order: any expired entry, then
// the least recently used non-permanent entry, then the least recently used
// permanent entry. Permanent entries go last because they were judged to
// never go stale.
func (s *MemoryStore) evictOneLocked(now time.Time) {
	for el := s.order.Back(); el != nil; el = el.Prev() {
		if el.Value.(*memoryEntry).expired(now) {
			s.removeLocked(el)
			s.evictions.Add(1)
			return
		}
	}
	for el := s.order.Back(); el != nil; el = el.Prev() {
		if !el.Value.(*memoryEntry).expiresAt.IsZero() {
			s.removeLocked(el)
			s.evictions.Add(1)
			return
		}
	}
	if el := s.order.Back(); el != nil {
		s.removeLocked(el)
		s.evictions.Add(1)
	}
}

func (s *MemoryStore) removeLocked(el *list.Element) {
	entry := el.Value.(*memoryEntry)
	s.order.Remove(el)
	delete(s.entries, entry.key)
}

// Ensure MemoryStore implements Store
var _ Store = (*MemoryStore)(nil)
