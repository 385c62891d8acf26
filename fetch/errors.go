package fetch

import (
	"errors"

	"github.com/sportops/sportops/quota"
	"github.com/sportops/sportops/resilience"
	"github.com/sportops/sportops/sports"
)

// Sentinel errors for fetch outcomes.
var (
	// ErrQuotaExhausted means the call budget could not admit the query:
	// either the local windows rejected it or the upstream answered 429.
	ErrQuotaExhausted = errors.New("fetch: quota exhausted")

	// ErrTransportFailure means the upstream could not be reached or did not
	// answer usably after retries. The wrapped cause says which.
	ErrTransportFailure = errors.New("fetch: transport failure")

	// ErrUpstream means the upstream understood the request and rejected it.
	// Never retried, never cached.
	ErrUpstream = errors.New("fetch: upstream rejected request")

	// ErrInvariantViolation means internal bookkeeping produced an impossible
	// state, such as an unkeyable query.
	ErrInvariantViolation = errors.New("fetch: internal invariant violation")
)

// quotaExhausted reports whether err is a local admission failure.
func quotaExhausted(err error) bool {
	return errors.Is(err, quota.ErrDailyQuotaExhausted) ||
		errors.Is(err, quota.ErrWaitCeilingExceeded)
}

// transient reports whether an upstream call error is worth repeating.
// Only connectivity-level failures qualify; a per-attempt timeout counts
// because the next attempt gets a fresh deadline.
func transient(err error) bool {
	if err == nil {
		return false
	}
	return sports.IsTransport(err) || errors.Is(err, resilience.ErrTimeout)
}
