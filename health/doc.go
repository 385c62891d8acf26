// Package health reports on the moving parts of the mediation service: the
// upstream API, the quota budget, and the payload cache.
//
// # Core Concepts
//
// A Checker is any component that can report its health status. The Status
// type represents the health state: Healthy, Degraded, or Unhealthy.
//
// # Domain Checkers
//
//	// Quota headroom: reads the limiter's counters, spends nothing.
//	quotaCheck := health.NewQuotaChecker(health.QuotaCheckerConfig{
//	    Limiter: limiter,
//	})
//
//	// Cache store reachability and hit rate.
//	cacheCheck := health.NewCacheChecker(store)
//
//	// Upstream reachability. A ping spends a real request.
//	upCheck := health.NewUpstreamChecker(client)
//
// # Aggregating Health Checks
//
// Use Aggregator to combine multiple health checks into a single composite check:
//
//	agg := health.NewAggregator()
//	agg.Register("quota", quotaCheck)
//	agg.Register("cache", cacheCheck)
//
//	results := agg.CheckAll(ctx)
//	overall := agg.OverallStatus(results)
//
// # HTTP Endpoints
//
// RegisterHandlers mounts the endpoints a scheduler and an operator need:
//
//	// Liveness: the process is up
//	http.Handle("/healthz", health.LivenessHandler())
//
//	// Readiness: every registered component answers
//	http.Handle("/readyz", health.ReadinessHandler(aggregator))
//
//	// Detailed per-component report
//	http.Handle("/health", health.DetailedHandler(aggregator))
package health
