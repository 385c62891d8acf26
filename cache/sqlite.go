package cache

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists cached payloads across restarts. Permanent entries
// are stored with a NULL deadline. Expiry is lazy on read plus explicit
// PurgeExpired sweeps; there is no capacity bound.
type SQLiteStore struct {
	db      *sql.DB
	nowFunc func() time.Time

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

const createEntriesTable = `
CREATE TABLE IF NOT EXISTS cache_entries (
	key TEXT PRIMARY KEY,
	value BLOB NOT NULL,
	expires_at INTEGER
);
`

// NewSQLiteStore opens (and migrates) the store at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("cache: open sqlite store: %w", err)
	}
	if _, err := db.Exec(createEntriesTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: migrate sqlite store: %w", err)
	}
	return &SQLiteStore{db: db, nowFunc: time.Now}, nil
}

// Get retrieves a payload. Expired entries are deleted on the way out and
// reported as misses.
func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, bool) {
	var value []byte
	var expiresAt sql.NullInt64

	err := s.db.QueryRowContext(ctx,
		`SELECT value, expires_at FROM cache_entries WHERE key = ?`, key,
	).Scan(&value, &expiresAt)
	if err != nil {
		s.misses.Add(1)
		return nil, false
	}

	if expiresAt.Valid && s.nowFunc().UnixMilli() > expiresAt.Int64 {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE key = ?`, key)
		s.misses.Add(1)
		return nil, false
	}

	s.hits.Add(1)
	return value, true
}

// Set stores a payload, overwriting any existing entry. ttl <= 0 stores the
// entry with a NULL deadline so it never expires.
func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	var expiresAt any
	if ttl > 0 {
		expiresAt = s.nowFunc().Add(ttl).UnixMilli()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO cache_entries (key, value, expires_at) VALUES (?, ?, ?)`,
		key, value, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("cache: sqlite set: %w", err)
	}
	return nil
}

// Delete removes a payload. Idempotent, no error on miss.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE key = ?`, key); err != nil {
		return fmt.Errorf("cache: sqlite delete: %w", err)
	}
	return nil
}

// PurgeExpired removes entries whose deadline has passed. NULL deadlines
// survive every sweep.
func (s *SQLiteStore) PurgeExpired(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM cache_entries WHERE expires_at IS NOT NULL AND expires_at < ?`,
		s.nowFunc().UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("cache: sqlite purge: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("cache: sqlite purge: %w", err)
	}
	s.evictions.Add(uint64(n))
	return int(n), nil
}

// Len reports the number of stored entries.
func (s *SQLiteStore) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cache_entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("cache: sqlite len: %w", err)
	}
	return n, nil
}

// Stats reports cumulative counters.
func (s *SQLiteStore) Stats() Stats {
	return Stats{
		Hits:      s.hits.Load(),
		Misses:    s.misses.Load(),
		Evictions: s.evictions.Load(),
	}
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ensure SQLiteStore implements Store
var _ Store = (*SQLiteStore)(nil)
