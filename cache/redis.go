package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a Redis-backed store for deployments that share one quota
// budget across processes. All operations fail soft: if Redis is
// unreachable, reads report a miss and writes are silently discarded, so
// the fetch path degrades to uncached rather than failing.
type RedisStore struct {
	rdb *redis.Client

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// RedisConfig configures the Redis store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(cfg RedisConfig) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &RedisStore{rdb: rdb}
}

// Get retrieves a payload. Returns (nil, false) on miss or when Redis is
// unreachable.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		s.misses.Add(1)
		return nil, false
	}
	s.hits.Add(1)
	return val, true
}

// Set stores a payload. ttl <= 0 stores it without expiration. Write
// failures are discarded.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if ttl < 0 {
		ttl = 0
	}
	_ = s.rdb.Set(ctx, key, value, ttl).Err()
	return nil
}

// Delete removes a payload. Idempotent, failures are discarded.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	_ = s.rdb.Del(ctx, key).Err()
	return nil
}

// PurgeExpired is a no-op: Redis expires keys server-side.
func (s *RedisStore) PurgeExpired(_ context.Context) (int, error) {
	return 0, nil
}

// Len reports the size of the selected database.
func (s *RedisStore) Len(ctx context.Context) (int, error) {
	n, err := s.rdb.DBSize(ctx).Result()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// Stats reports cumulative counters. Evictions happen server-side and are
// not observed here.
func (s *RedisStore) Stats() Stats {
	return Stats{
		Hits:      s.hits.Load(),
		Misses:    s.misses.Load(),
		Evictions: s.evictions.Load(),
	}
}

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Close closes the underlying Redis client.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

// Ensure RedisStore implements Store
var _ Store = (*RedisStore)(nil)
