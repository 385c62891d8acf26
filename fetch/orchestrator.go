package fetch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/sportops/sportops/cache"
	"github.com/sportops/sportops/freshness"
	"github.com/sportops/sportops/observe"
	"github.com/sportops/sportops/quota"
	"github.com/sportops/sportops/resilience"
	"github.com/sportops/sportops/sports"
)

// Upstream performs one raw API call for a query family. sports.Client
// satisfies this.
type Upstream interface {
	Fetch(ctx context.Context, family sports.Family, params map[string]string) ([]byte, error)
}

// Config configures the Orchestrator.
type Config struct {
	// Upstream performs the raw API call. Required.
	Upstream Upstream

	// Limiter is the shared admission gate. Required: every upstream call
	// in the process must pass through the same budget.
	Limiter *quota.Limiter

	// Store holds cached payloads. Required unless DisableCache.
	Store cache.Store

	// Keyer fingerprints queries.
	// Default: cache.NewFingerprintKeyer()
	Keyer cache.Keyer

	// TTL maps freshness classes to storage durations.
	TTL freshness.TTLPolicy

	// DisableCache skips both lookup and store. Admission still applies;
	// bypassing the cache never bypasses the budget.
	DisableCache bool

	// Retry tunes transport-failure retries. RetryIf is always replaced
	// with the transient-failure predicate; quota and upstream rejections
	// are never retried.
	Retry resilience.RetryConfig

	// Timeout bounds a single upstream attempt.
	// Default: 30 seconds
	Timeout time.Duration

	// Bulkhead optionally limits concurrent upstream calls.
	Bulkhead *resilience.Bulkhead

	// Breaker optionally stops calls to a failing upstream. Its IsFailure
	// should exclude quota rejections so a tight budget cannot trip it.
	Breaker *resilience.CircuitBreaker

	// Logger defaults to a noop.
	Logger observe.Logger

	// Metrics defaults to a noop.
	Metrics observe.Metrics
}

// Orchestrator serves query payloads, consulting the cache before spending
// quota and collapsing concurrent identical misses into one upstream call.
// All methods are safe for concurrent use.
type Orchestrator struct {
	upstream Upstream
	limiter  *quota.Limiter
	store    cache.Store
	keyer    cache.Keyer
	ttl      freshness.TTLPolicy
	noCache  bool

	retry    *resilience.Retry
	timeout  *resilience.Timeout
	bulkhead *resilience.Bulkhead
	breaker  *resilience.CircuitBreaker

	group   singleflight.Group
	logger  observe.Logger
	metrics observe.Metrics
}

// New creates an Orchestrator.
func New(cfg Config) (*Orchestrator, error) {
	if cfg.Upstream == nil {
		return nil, errors.New("fetch: upstream is required")
	}
	if cfg.Limiter == nil {
		return nil, errors.New("fetch: limiter is required")
	}
	if cfg.Store == nil && !cfg.DisableCache {
		return nil, cache.ErrNilStore
	}
	if cfg.Keyer == nil {
		cfg.Keyer = cache.NewFingerprintKeyer()
	}
	if cfg.Logger == nil {
		cfg.Logger = observe.NoopLogger()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = observe.NoopMetrics()
	}

	cfg.Retry.RetryIf = transient

	return &Orchestrator{
		upstream: cfg.Upstream,
		limiter:  cfg.Limiter,
		store:    cfg.Store,
		keyer:    cfg.Keyer,
		ttl:      cfg.TTL,
		noCache:  cfg.DisableCache,
		retry:    resilience.NewRetry(cfg.Retry),
		timeout:  resilience.NewTimeout(resilience.TimeoutConfig{Timeout: cfg.Timeout}),
		bulkhead: cfg.Bulkhead,
		breaker:  cfg.Breaker,
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,
	}, nil
}

// Fetch returns the payload for one logical query, from cache when fresh
// enough and from upstream otherwise. Concurrent calls for the same
// fingerprint share a single upstream flight; a caller that abandons its
// context detaches without disturbing the others.
func (o *Orchestrator) Fetch(ctx context.Context, family sports.Family, params map[string]string) ([]byte, error) {
	key, err := o.keyer.Key(family.String(), params)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvariantViolation, err)
	}

	if !o.noCache {
		if payload, ok := o.store.Get(ctx, key); ok {
			o.metrics.RecordCacheLookup(ctx, family.String(), true)
			return payload, nil
		}
		o.metrics.RecordCacheLookup(ctx, family.String(), false)
	}

	// The flight runs on a detached context so the leader abandoning its
	// wait cannot fail everyone else sharing the key.
	flightCtx := context.WithoutCancel(ctx)
	ch := o.group.DoChan(key, func() (any, error) {
		return o.fetchMiss(flightCtx, family, params, key)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

// fetchMiss is the single-flight body: admission, upstream call, store.
func (o *Orchestrator) fetchMiss(ctx context.Context, family sports.Family, params map[string]string, key string) ([]byte, error) {
	// A finished flight may have stored the payload between the caller's
	// miss and this flight starting.
	if !o.noCache {
		if payload, ok := o.store.Get(ctx, key); ok {
			return payload, nil
		}
	}

	if err := o.limiter.AcquireBlocking(ctx); err != nil {
		if quotaExhausted(err) {
			o.metrics.RecordAdmission(ctx, family.String(), "reject")
			o.logger.Warn(ctx, "admission rejected",
				observe.Field{Key: "family", Value: family.String()},
				observe.Field{Key: "error", Value: err.Error()},
			)
			return nil, fmt.Errorf("%w: %w", ErrQuotaExhausted, err)
		}
		return nil, err
	}
	o.metrics.RecordAdmission(ctx, family.String(), "admit")

	payload, err := o.callUpstream(ctx, family, params)
	if err != nil {
		if retryAfter, ok := sports.IsQuota(err); ok {
			o.limiter.RecordOutcome(false, retryAfter)
			o.logger.Warn(ctx, "upstream quota rejection",
				observe.Field{Key: "family", Value: family.String()},
				observe.Field{Key: "retry_after", Value: retryAfter.String()},
			)
			return nil, fmt.Errorf("%w: %w", ErrQuotaExhausted, err)
		}
		if sports.IsUpstream(err) {
			return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrTransportFailure, err)
	}
	o.limiter.RecordOutcome(true, 0)

	if !o.noCache {
		class := freshness.Classify(family, params, payload)
		if ttl, cacheable := o.ttl.TTL(family, class); cacheable {
			if err := o.store.Set(ctx, key, payload, ttl); err != nil {
				// A cache fault never fails a fetch.
				o.logger.Warn(ctx, "cache store failed",
					observe.Field{Key: "family", Value: family.String()},
					observe.Field{Key: "error", Value: err.Error()},
				)
			}
		}
	}

	return payload, nil
}

// callUpstream runs one admitted call through the resilience stack:
// bulkhead, breaker, retry, per-attempt timeout, in that order.
func (o *Orchestrator) callUpstream(ctx context.Context, family sports.Family, params map[string]string) ([]byte, error) {
	var payload []byte

	attempt := func(ctx context.Context) error {
		return o.timeout.Execute(ctx, func(ctx context.Context) error {
			start := time.Now()
			raw, err := o.upstream.Fetch(ctx, family, params)
			o.metrics.RecordUpstreamCall(ctx, family.String(), time.Since(start), err)
			if err != nil {
				return err
			}
			payload = raw
			return nil
		})
	}

	call := func(ctx context.Context) error {
		return o.retry.Execute(ctx, attempt)
	}
	if o.breaker != nil {
		inner := call
		call = func(ctx context.Context) error {
			return o.breaker.Execute(ctx, inner)
		}
	}
	if o.bulkhead != nil {
		inner := call
		call = func(ctx context.Context) error {
			return o.bulkhead.Execute(ctx, inner)
		}
	}

	if err := call(ctx); err != nil {
		return nil, err
	}
	return payload, nil
}
