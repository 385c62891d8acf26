package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sportops/sportops/sports"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Upstream.BaseURL != "https://v3.football.api-sports.io" {
		t.Errorf("base_url = %q, want the production endpoint", cfg.Upstream.BaseURL)
	}
	if cfg.Quota.PerMinute != 30 || cfg.Quota.PerDay != 100 {
		t.Errorf("quota = %d/min %d/day, want 30/100", cfg.Quota.PerMinute, cfg.Quota.PerDay)
	}
	if !cfg.Cache.Enabled || cfg.Cache.Backend != "memory" || cfg.Cache.MaxEntries != 1000 {
		t.Errorf("cache = %+v, want enabled memory backend with 1000 entries", cfg.Cache)
	}
	if cfg.TTL.Overrides["standings"] != 30*time.Minute {
		t.Errorf("standings override = %v, want 30m", cfg.TTL.Overrides["standings"])
	}
	if cfg.Observe.Logging.Level != "info" {
		t.Errorf("log level = %q, want info", cfg.Observe.Logging.Level)
	}
	if cfg.Upstream.MaxConcurrent != 8 {
		t.Errorf("max_concurrent = %d, want 8", cfg.Upstream.MaxConcurrent)
	}
}

func TestLoad_FileOverrides(t *testing.T) {
	path := writeConfig(t, `
quota:
  per_minute: 10
  per_day: 50
cache:
  backend: sqlite
  sqlite_path: /tmp/test-cache.db
server:
  addr: ":9090"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Quota.PerMinute != 10 || cfg.Quota.PerDay != 50 {
		t.Errorf("quota = %d/%d, want 10/50", cfg.Quota.PerMinute, cfg.Quota.PerDay)
	}
	if cfg.Cache.Backend != "sqlite" || cfg.Cache.SQLitePath != "/tmp/test-cache.db" {
		t.Errorf("cache = %+v, want the sqlite backend", cfg.Cache)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("server addr = %q, want :9090", cfg.Server.Addr)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SPORTOPS_QUOTA_PER_DAY", "25")
	t.Setenv("SPORTOPS_OBSERVE_LOGGING_LEVEL", "debug")
	t.Setenv("SPORTOPS_UPSTREAM_MAX_CONCURRENT", "2")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Quota.PerDay != 25 {
		t.Errorf("per_day = %d, want 25 from the environment", cfg.Quota.PerDay)
	}
	if cfg.Upstream.MaxConcurrent != 2 {
		t.Errorf("max_concurrent = %d, want 2 from the environment", cfg.Upstream.MaxConcurrent)
	}
	if cfg.Observe.Logging.Level != "debug" {
		t.Errorf("log level = %q, want debug from the environment", cfg.Observe.Logging.Level)
	}
}

func TestLoad_ResolvesAPIKey(t *testing.T) {
	t.Setenv("API_SPORTS_KEY", "8f42c1d9")
	path := writeConfig(t, `
upstream:
  api_key: "${API_SPORTS_KEY}"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Upstream.APIKey != "8f42c1d9" {
		t.Errorf("api_key = %q, want the resolved value", cfg.Upstream.APIKey)
	}
}

func TestLoad_MissingAPIKeyEnv(t *testing.T) {
	path := writeConfig(t, `
upstream:
  api_key: "${SPORTOPS_TEST_DEFINITELY_UNSET}"
`)

	if _, err := Load(path); err == nil {
		t.Error("Load with an unset credential variable should fail")
	}
}

func TestLoad_SecretRefAPIKey(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), "api_key")
	if err := os.WriteFile(keyPath, []byte("8f42c1d9\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	path := writeConfig(t, "upstream:\n  api_key: \"secretref:file:"+keyPath+"\"\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Upstream.APIKey != "8f42c1d9" {
		t.Errorf("api_key = %q, want the file contents trimmed", cfg.Upstream.APIKey)
	}
}

func TestValidate_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero per_minute", func(c *Config) { c.Quota.PerMinute = 0 }},
		{"negative max_concurrent", func(c *Config) { c.Upstream.MaxConcurrent = -1 }},
		{"negative per_day", func(c *Config) { c.Quota.PerDay = -1 }},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "memcached" }},
		{"redis without addr", func(c *Config) { c.Cache.Backend = "redis" }},
		{"unknown ttl family", func(c *Config) {
			c.TTL.Overrides = map[string]time.Duration{"horoscopes": time.Hour}
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Load("")
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate should reject the mutated config")
			}
		})
	}
}

func TestConfig_Builders(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	lc := cfg.LimiterConfig()
	if lc.PerMinute != 30 || lc.PerDay != 100 || lc.MaxWait != 90*time.Second {
		t.Errorf("limiter config = %+v, want the defaults carried over", lc)
	}

	policy := cfg.TTLPolicy()
	if d, ok := policy.Overrides[sports.FamilyStandings]; !ok || d != 30*time.Minute {
		t.Errorf("standings TTL = %v, want 30m", d)
	}

	oc := cfg.ObserveConfig()
	if oc.ServiceName != "sportops" || oc.Metrics.Exporter != "prometheus" {
		t.Errorf("observe config = %+v, want sportops with prometheus metrics", oc)
	}

	cc := cfg.ClientConfig()
	if cc.BaseURL != "https://v3.football.api-sports.io" || cc.Timeout != 30*time.Second {
		t.Errorf("client config = %+v, want default endpoint and timeout", cc)
	}
}
