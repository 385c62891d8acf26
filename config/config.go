package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sportops/sportops/freshness"
	"github.com/sportops/sportops/observe"
	"github.com/sportops/sportops/quota"
	"github.com/sportops/sportops/secret"
	"github.com/sportops/sportops/sports"
)

// Config is the full service configuration.
type Config struct {
	Upstream UpstreamConfig `mapstructure:"upstream"`
	Quota    QuotaConfig    `mapstructure:"quota"`
	Cache    CacheConfig    `mapstructure:"cache"`
	TTL      TTLConfig      `mapstructure:"ttl"`
	Observe  ObserveConfig  `mapstructure:"observe"`
	Server   ServerConfig   `mapstructure:"server"`
}

// UpstreamConfig configures the API-Sports client.
type UpstreamConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`

	// MaxConcurrent caps upstream calls in flight at once. Zero disables
	// the cap; admission still bounds the rate either way.
	MaxConcurrent int `mapstructure:"max_concurrent"`
}

// QuotaConfig configures the admission gate.
type QuotaConfig struct {
	PerMinute   int           `mapstructure:"per_minute"`
	PerDay      int           `mapstructure:"per_day"`
	MaxWait     time.Duration `mapstructure:"max_wait"`
	Burst       int           `mapstructure:"burst"`
	BackoffBase time.Duration `mapstructure:"backoff_base"`
	BackoffMax  time.Duration `mapstructure:"backoff_max"`
}

// CacheConfig configures the payload store.
type CacheConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Backend    string `mapstructure:"backend"` // memory|redis|sqlite
	MaxEntries int    `mapstructure:"max_entries"`

	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`

	SQLitePath string `mapstructure:"sqlite_path"`
}

// TTLConfig overrides storage durations per query family. Families absent
// from the map keep their class defaults.
type TTLConfig struct {
	Overrides map[string]time.Duration `mapstructure:"overrides"`
}

// ObserveConfig configures telemetry.
type ObserveConfig struct {
	Tracing struct {
		Enabled   bool    `mapstructure:"enabled"`
		Exporter  string  `mapstructure:"exporter"`
		SamplePct float64 `mapstructure:"sample_pct"`
	} `mapstructure:"tracing"`
	Metrics struct {
		Enabled  bool   `mapstructure:"enabled"`
		Exporter string `mapstructure:"exporter"`
	} `mapstructure:"metrics"`
	Logging struct {
		Enabled bool   `mapstructure:"enabled"`
		Level   string `mapstructure:"level"`
	} `mapstructure:"logging"`
}

// ServerConfig configures the HTTP surface for health and metrics.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Load reads configuration from the given file (optional) and the
// environment, resolves the upstream credential, and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("SPORTOPS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if cfg.Upstream.APIKey != "" {
		resolver := secret.NewResolver(true, secret.NewEnvProvider(), secret.NewFileProvider())
		key, err := resolver.Resolve(context.Background(), cfg.Upstream.APIKey)
		if err != nil {
			return nil, fmt.Errorf("config: resolve api key: %w", err)
		}
		cfg.Upstream.APIKey = key
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("upstream.base_url", "https://v3.football.api-sports.io")
	v.SetDefault("upstream.timeout", 30*time.Second)
	v.SetDefault("upstream.max_concurrent", 8)

	v.SetDefault("quota.per_minute", 30)
	v.SetDefault("quota.per_day", 100)
	v.SetDefault("quota.max_wait", 90*time.Second)
	v.SetDefault("quota.backoff_base", time.Second)
	v.SetDefault("quota.backoff_max", 5*time.Minute)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.max_entries", 1000)
	v.SetDefault("cache.sqlite_path", "sportops-cache.db")

	// Standings move with every matchday, so they age out faster than the
	// rest of the medium class.
	v.SetDefault("ttl.overrides", map[string]time.Duration{
		"standings": 30 * time.Minute,
	})

	v.SetDefault("observe.logging.enabled", true)
	v.SetDefault("observe.logging.level", "info")
	v.SetDefault("observe.metrics.enabled", true)
	v.SetDefault("observe.metrics.exporter", "prometheus")
	v.SetDefault("observe.tracing.enabled", false)
	v.SetDefault("observe.tracing.exporter", "none")
	v.SetDefault("observe.tracing.sample_pct", 1.0)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
}

var validBackends = map[string]bool{
	"memory": true,
	"redis":  true,
	"sqlite": true,
}

// Validate checks the configuration for values no component would accept.
// The API key is not required here; commands that talk to the upstream
// enforce it themselves so cache maintenance can run without a credential.
func (c *Config) Validate() error {
	if c.Quota.PerMinute <= 0 {
		return fmt.Errorf("config: quota.per_minute must be positive, got %d", c.Quota.PerMinute)
	}
	if c.Quota.PerDay <= 0 {
		return fmt.Errorf("config: quota.per_day must be positive, got %d", c.Quota.PerDay)
	}
	if c.Upstream.MaxConcurrent < 0 {
		return fmt.Errorf("config: upstream.max_concurrent must not be negative, got %d", c.Upstream.MaxConcurrent)
	}
	if c.Cache.Enabled && !validBackends[c.Cache.Backend] {
		return fmt.Errorf("config: unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.Enabled && c.Cache.Backend == "redis" && c.Cache.Redis.Addr == "" {
		return fmt.Errorf("config: cache.redis.addr is required for the redis backend")
	}
	for name := range c.TTL.Overrides {
		if !sports.Family(name).Valid() {
			return fmt.Errorf("config: ttl override for unknown family %q", name)
		}
	}
	return nil
}

// ClientConfig builds the upstream client configuration.
func (c *Config) ClientConfig() sports.ClientConfig {
	return sports.ClientConfig{
		BaseURL: c.Upstream.BaseURL,
		APIKey:  c.Upstream.APIKey,
		Timeout: c.Upstream.Timeout,
	}
}

// LimiterConfig builds the admission gate configuration.
func (c *Config) LimiterConfig() quota.Config {
	return quota.Config{
		PerMinute:   c.Quota.PerMinute,
		PerDay:      c.Quota.PerDay,
		MaxWait:     c.Quota.MaxWait,
		Burst:       c.Quota.Burst,
		BackoffBase: c.Quota.BackoffBase,
		BackoffMax:  c.Quota.BackoffMax,
	}
}

// TTLPolicy builds the freshness policy with the configured overrides.
func (c *Config) TTLPolicy() freshness.TTLPolicy {
	if len(c.TTL.Overrides) == 0 {
		return freshness.TTLPolicy{}
	}
	overrides := make(map[sports.Family]time.Duration, len(c.TTL.Overrides))
	for name, d := range c.TTL.Overrides {
		overrides[sports.Family(name)] = d
	}
	return freshness.TTLPolicy{Overrides: overrides}
}

// ObserveConfig builds the telemetry configuration.
func (c *Config) ObserveConfig() observe.Config {
	cfg := observe.Config{
		ServiceName: "sportops",
	}
	cfg.Tracing.Enabled = c.Observe.Tracing.Enabled
	cfg.Tracing.Exporter = c.Observe.Tracing.Exporter
	cfg.Tracing.SamplePct = c.Observe.Tracing.SamplePct
	cfg.Metrics.Enabled = c.Observe.Metrics.Enabled
	cfg.Metrics.Exporter = c.Observe.Metrics.Exporter
	cfg.Logging.Enabled = c.Observe.Logging.Enabled
	cfg.Logging.Level = c.Observe.Logging.Level
	return cfg
}
