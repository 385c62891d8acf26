package sports

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for the upstream transport.
var (
	// ErrUnknownFamily is returned for a family the client has no endpoint for.
	ErrUnknownFamily = errors.New("sports: unknown query family")

	// ErrMissingAPIKey is returned when the client is constructed without a credential.
	ErrMissingAPIKey = errors.New("sports: api key is required")
)

// QuotaError reports an upstream quota rejection (HTTP 429). RetryAfter is
// zero when the response carried no Retry-After header.
type QuotaError struct {
	RetryAfter time.Duration
}

func (e *QuotaError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("sports: upstream quota rejected, retry after %s", e.RetryAfter)
	}
	return "sports: upstream quota rejected"
}

// TransportError reports a transient connectivity or decoding failure. The
// wrapped cause is reachable through errors.Unwrap.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("sports: transport failure during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// UpstreamError reports a well-formed rejection from the remote service,
// either a non-retryable status code or errors embedded in a 200 envelope.
// It is never retried and never cached.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("sports: upstream rejected request (status %d): %s", e.StatusCode, e.Message)
	}
	return "sports: upstream rejected request: " + e.Message
}

// IsQuota reports whether err is (or wraps) a quota rejection, returning the
// retry-after hint when present.
func IsQuota(err error) (time.Duration, bool) {
	var qe *QuotaError
	if errors.As(err, &qe) {
		return qe.RetryAfter, true
	}
	return 0, false
}

// IsTransport reports whether err is (or wraps) a transient transport failure.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsUpstream reports whether err is (or wraps) a non-retryable upstream rejection.
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
