// Package fetch orchestrates the maybe-cached, otherwise
// rate-limited-fetch-then-store protocol that every query follows.
//
// A fetch resolves in this order: fingerprint the query, probe the cache (a
// hit costs nothing), collapse concurrent misses for the same key into one
// flight, acquire quota admission, call upstream through the resilience
// stack, then classify the payload and store it under its freshness TTL.
//
// Errors surface through four sentinels so callers can branch with
// errors.Is: ErrQuotaExhausted, ErrTransportFailure, ErrUpstream, and
// ErrInvariantViolation. The typed cause stays reachable through errors.As.
package fetch
