// Package resilience hardens the upstream call path.
//
// Quota admission is a separate concern with its own package; what lives
// here are the failure-shape patterns wrapped around a single admitted
// upstream call:
//
//   - Retry: re-attempts transient transport failures with exponential
//     backoff and jitter. Upstream rejections and quota errors are never
//     retried here; they are the orchestrator's decision.
//
//   - Circuit Breaker: stops hammering an upstream that keeps failing and
//     probes it again after a cooldown.
//
//   - Bulkhead: caps how many upstream calls run at once so a slow API
//     cannot pile up goroutines behind it.
//
//   - Timeout: bounds a single attempt.
//
// Each pattern is independent; the orchestrator composes the ones it is
// configured with.
package resilience
