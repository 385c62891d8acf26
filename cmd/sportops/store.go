package main

import (
	"fmt"

	"github.com/sportops/sportops/cache"
	"github.com/sportops/sportops/config"
)

// buildStore constructs the configured payload store. The returned closer is
// a no-op for backends without a connection to release.
func buildStore(cfg *config.Config) (cache.Store, func() error, error) {
	if !cfg.Cache.Enabled {
		return nil, func() error { return nil }, nil
	}

	switch cfg.Cache.Backend {
	case "memory":
		return cache.NewMemoryStore(cfg.Cache.MaxEntries), func() error { return nil }, nil
	case "redis":
		s := cache.NewRedisStore(cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
		return s, s.Close, nil
	case "sqlite":
		s, err := cache.NewSQLiteStore(cfg.Cache.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}
