package quota

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Sentinel errors for admission.
var (
	// ErrDailyQuotaExhausted is returned when the day window cannot free
	// capacity within the configured maximum wait.
	ErrDailyQuotaExhausted = errors.New("quota: daily quota exhausted")

	// ErrWaitCeilingExceeded is returned when admission could not be obtained
	// within the maximum wait budget.
	ErrWaitCeilingExceeded = errors.New("quota: admission wait ceiling exceeded")
)

// DecisionKind classifies an admission decision.
type DecisionKind int

const (
	// Admit means the call may proceed now; a reservation has been recorded.
	Admit DecisionKind = iota
	// Wait means the call should be retried after Decision.Delay.
	Wait
	// Reject means no admission is possible within the wait ceiling.
	Reject
)

func (k DecisionKind) String() string {
	switch k {
	case Admit:
		return "admit"
	case Wait:
		return "wait"
	case Reject:
		return "reject"
	default:
		return "unknown"
	}
}

// Decision is the outcome of a single admission attempt. Decisions are
// produced fresh per attempt and never stored.
type Decision struct {
	Kind   DecisionKind
	Delay  time.Duration // populated for Wait
	Reason string        // populated for Reject
}

// Config configures the Limiter.
type Config struct {
	// PerMinute is the call budget for the sliding 60-second window.
	// Default: 30
	PerMinute int

	// PerDay is the call budget for the sliding 24-hour window.
	// Default: 100
	PerDay int

	// Burst smooths short spikes through a token bucket sized Burst that
	// refills at PerMinute per minute. Zero disables the gate.
	Burst int

	// MaxWait is the ceiling on how long a caller may be held waiting for
	// admission, and the horizon beyond which day-window exhaustion becomes
	// a rejection rather than a wait.
	// Default: 90 seconds
	MaxWait time.Duration

	// BackoffBase is the first backoff delay after an upstream quota
	// rejection that carries no Retry-After hint. Doubles per consecutive
	// rejection.
	// Default: 1 second
	BackoffBase time.Duration

	// BackoffMax caps the computed backoff delay.
	// Default: 5 minutes
	BackoffMax time.Duration

	// Jitter adds up to the given fraction of the computed backoff delay
	// (additive only, so consecutive backoffs stay non-decreasing).
	// Default: 0.25
	Jitter float64
}

// window is a sliding call-count window. Timestamps are appended in order,
// so eviction only ever trims the front.
type window struct {
	span   time.Duration
	limit  int
	stamps []time.Time
}

// evict drops timestamps that have aged out of the window span.
func (w *window) evict(now time.Time) {
	cutoff := now.Add(-w.span)
	i := 0
	for i < len(w.stamps) && !w.stamps[i].After(cutoff) {
		i++
	}
	if i > 0 {
		w.stamps = append(w.stamps[:0], w.stamps[i:]...)
	}
}

// freeIn returns how long until the window next frees a slot. Zero means a
// slot is available now.
func (w *window) freeIn(now time.Time) time.Duration {
	if len(w.stamps) < w.limit {
		return 0
	}
	oldest := w.stamps[len(w.stamps)-w.limit]
	return oldest.Add(w.span).Sub(now)
}

// fill inflates the window to its limit, forcing subsequent admissions to
// wait a full span. Used when the upstream rejects on quota despite local
// admission, meaning local bookkeeping undercounted.
func (w *window) fill(now time.Time) {
	for len(w.stamps) < w.limit {
		w.stamps = append(w.stamps, now)
	}
}

// Limiter is the process-wide admission gate for upstream calls. All methods
// are safe for concurrent use.
type Limiter struct {
	cfg Config

	mu             sync.Mutex
	minute         window
	day            window
	gate           *rate.Limiter
	backoffUntil   time.Time
	consecutive429 int
	nowFunc        func() time.Time // for testing; defaults to time.Now
}

// NewLimiter creates a Limiter with the given configuration.
func NewLimiter(cfg Config) *Limiter {
	if cfg.PerMinute <= 0 {
		cfg.PerMinute = 30
	}
	if cfg.PerDay <= 0 {
		cfg.PerDay = 100
	}
	if cfg.MaxWait <= 0 {
		cfg.MaxWait = 90 * time.Second
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = time.Second
	}
	if cfg.BackoffMax <= 0 {
		cfg.BackoffMax = 5 * time.Minute
	}
	if cfg.Jitter < 0 {
		cfg.Jitter = 0
	}
	if cfg.Jitter == 0 {
		cfg.Jitter = 0.25
	}

	l := &Limiter{
		cfg:     cfg,
		minute:  window{span: time.Minute, limit: cfg.PerMinute},
		day:     window{span: 24 * time.Hour, limit: cfg.PerDay},
		nowFunc: time.Now,
	}
	if cfg.Burst > 0 {
		l.gate = rate.NewLimiter(rate.Limit(float64(cfg.PerMinute)/60.0), cfg.Burst)
	}
	return l
}

// Acquire makes a single admission attempt. An Admit decision records a
// reservation in both windows; Wait and Reject record nothing.
func (l *Limiter) Acquire(ctx context.Context) (Decision, error) {
	if err := ctx.Err(); err != nil {
		return Decision{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.nowFunc()
	l.minute.evict(now)
	l.day.evict(now)

	// The day window dominates: if it cannot free a slot within the wait
	// ceiling there is no point holding the caller.
	delay := l.day.freeIn(now)
	if delay > l.cfg.MaxWait {
		return Decision{Kind: Reject, Reason: "daily quota exhausted"}, nil
	}
	if d := l.minute.freeIn(now); d > delay {
		delay = d
	}
	if until := l.backoffUntil.Sub(now); until > delay {
		delay = until
	}
	if delay > 0 {
		return Decision{Kind: Wait, Delay: delay}, nil
	}

	// Burst gate last: window capacity exists, smooth the spike.
	if l.gate != nil {
		res := l.gate.ReserveN(now, 1)
		if d := res.DelayFrom(now); d > 0 {
			res.CancelAt(now)
			return Decision{Kind: Wait, Delay: d}, nil
		}
	}

	l.minute.stamps = append(l.minute.stamps, now)
	l.day.stamps = append(l.day.stamps, now)
	return Decision{Kind: Admit}, nil
}

// AcquireBlocking runs the wait-then-retry admission loop. It returns nil
// once admitted, ErrDailyQuotaExhausted on rejection, ErrWaitCeilingExceeded
// when the cumulative wait would pass MaxWait, or the context error if the
// caller abandons the wait.
func (l *Limiter) AcquireBlocking(ctx context.Context) error {
	deadline := l.nowFunc().Add(l.cfg.MaxWait)

	for {
		d, err := l.Acquire(ctx)
		if err != nil {
			return err
		}

		switch d.Kind {
		case Admit:
			return nil
		case Reject:
			return fmt.Errorf("%w: %s", ErrDailyQuotaExhausted, d.Reason)
		}

		if l.nowFunc().Add(d.Delay).After(deadline) {
			return ErrWaitCeilingExceeded
		}

		timer := time.NewTimer(d.Delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// RecordOutcome reports the result of an admitted upstream call. A quota
// rejection from upstream means local bookkeeping undercounted, so the
// minute window is inflated to its limit and a backoff floor is installed:
// the Retry-After hint verbatim when present, otherwise exponential growth
// per consecutive rejection with additive jitter, capped at BackoffMax.
func (l *Limiter) RecordOutcome(success bool, retryAfter time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if success {
		l.consecutive429 = 0
		return
	}

	now := l.nowFunc()
	l.consecutive429++
	l.minute.fill(now)

	floor := retryAfter
	if floor <= 0 {
		floor = l.backoffDelay(l.consecutive429)
	}
	if until := now.Add(floor); until.After(l.backoffUntil) {
		l.backoffUntil = until
	}
}

// backoffDelay computes the exponential backoff for the nth consecutive
// rejection (1-indexed). Jitter is additive only so the sequence of floors
// stays non-decreasing.
func (l *Limiter) backoffDelay(n int) time.Duration {
	d := float64(l.cfg.BackoffBase) * math.Pow(2, float64(n-1))
	if max := float64(l.cfg.BackoffMax); d > max {
		d = max
	}
	if l.cfg.Jitter > 0 && d < float64(l.cfg.BackoffMax) {
		d += d * l.cfg.Jitter * rand.Float64()
		if max := float64(l.cfg.BackoffMax); d > max {
			d = max
		}
	}
	return time.Duration(d)
}

// Remaining reports how many calls each window can still admit.
func (l *Limiter) Remaining() (minute, day int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.nowFunc()
	l.minute.evict(now)
	l.day.evict(now)

	return l.minute.limit - len(l.minute.stamps), l.day.limit - len(l.day.stamps)
}

// BackoffRemaining reports how long the current upstream-rejection backoff
// floor still holds. Zero when no backoff is active.
func (l *Limiter) BackoffRemaining() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	if d := l.backoffUntil.Sub(l.nowFunc()); d > 0 {
		return d
	}
	return 0
}
