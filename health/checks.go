package health

import (
	"context"
	"fmt"
	"time"

	"github.com/sportops/sportops/cache"
	"github.com/sportops/sportops/quota"
)

// Pinger reports whether the upstream API is reachable. sports.Client
// satisfies this.
type Pinger interface {
	Ping(ctx context.Context) error
}

// UpstreamChecker verifies the upstream API answers at all. A ping spends a
// real request, so readiness probes should run it sparingly.
type UpstreamChecker struct {
	pinger Pinger
}

// NewUpstreamChecker creates an upstream reachability checker.
func NewUpstreamChecker(pinger Pinger) *UpstreamChecker {
	return &UpstreamChecker{pinger: pinger}
}

func (c *UpstreamChecker) Name() string {
	return "upstream"
}

func (c *UpstreamChecker) Check(ctx context.Context) Result {
	if c.pinger == nil {
		return Unhealthy("no upstream configured", ErrCheckFailed)
	}
	start := time.Now()
	if err := c.pinger.Ping(ctx); err != nil {
		return Unhealthy("upstream unreachable", err)
	}
	return Healthy("upstream reachable").WithDetails(map[string]any{
		"latency_ms": float64(time.Since(start).Milliseconds()),
	})
}

// QuotaCheckerConfig configures the quota headroom checker.
type QuotaCheckerConfig struct {
	// Limiter is the admission gate to inspect. Required.
	Limiter *quota.Limiter

	// DegradedBelow is the remaining daily call count at which the check
	// reports degraded.
	// Default: 10
	DegradedBelow int
}

// QuotaChecker reports how much of the upstream budget is left. It reads the
// limiter's counters without spending anything.
type QuotaChecker struct {
	config QuotaCheckerConfig
}

// NewQuotaChecker creates a quota headroom checker.
func NewQuotaChecker(config QuotaCheckerConfig) *QuotaChecker {
	if config.DegradedBelow <= 0 {
		config.DegradedBelow = 10
	}
	return &QuotaChecker{config: config}
}

func (c *QuotaChecker) Name() string {
	return "quota"
}

func (c *QuotaChecker) Check(ctx context.Context) Result {
	if c.config.Limiter == nil {
		return Unhealthy("no limiter configured", ErrCheckFailed)
	}

	minute, day := c.config.Limiter.Remaining()
	backoff := c.config.Limiter.BackoffRemaining()

	details := map[string]any{
		"minute_remaining": minute,
		"day_remaining":    day,
	}
	if backoff > 0 {
		details["backoff_remaining"] = backoff.String()
	}

	switch {
	case day == 0:
		return Unhealthy("daily quota exhausted", ErrCheckFailed).WithDetails(details)
	case backoff > 0:
		return Degraded(fmt.Sprintf("upstream backoff active for %s", backoff.Round(time.Second))).WithDetails(details)
	case day < c.config.DegradedBelow:
		return Degraded(fmt.Sprintf("only %d daily calls left", day)).WithDetails(details)
	default:
		return Healthy(fmt.Sprintf("%d daily calls left", day)).WithDetails(details)
	}
}

// CacheChecker reports on the payload store: reachability for backed stores
// and hit-rate counters for all of them.
type CacheChecker struct {
	store cache.Store
}

// NewCacheChecker creates a cache store checker.
func NewCacheChecker(store cache.Store) *CacheChecker {
	return &CacheChecker{store: store}
}

func (c *CacheChecker) Name() string {
	return "cache"
}

func (c *CacheChecker) Check(ctx context.Context) Result {
	if c.store == nil {
		return Healthy("cache disabled")
	}

	entries, err := c.store.Len(ctx)
	if err != nil {
		// The fetch path tolerates a faulted store, so the service is
		// degraded rather than down.
		return Degraded("cache backend unreachable: " + err.Error())
	}

	stats := c.store.Stats()
	details := map[string]any{
		"entries":   entries,
		"hits":      stats.Hits,
		"misses":    stats.Misses,
		"evictions": stats.Evictions,
	}
	if total := stats.Hits + stats.Misses; total > 0 {
		details["hit_rate"] = float64(stats.Hits) / float64(total)
	}
	return Healthy(fmt.Sprintf("%d entries", entries)).WithDetails(details)
}
