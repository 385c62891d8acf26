package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records the fetch path's four vital signs: query outcomes, cache
// lookups, quota admissions, and upstream calls.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines and return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordQuery records a served query with duration and error status.
	RecordQuery(ctx context.Context, meta QueryMeta, duration time.Duration, err error)

	// RecordCacheLookup records one cache probe and its outcome.
	RecordCacheLookup(ctx context.Context, family string, hit bool)

	// RecordAdmission records one quota admission decision
	// (admit, wait, reject).
	RecordAdmission(ctx context.Context, family string, decision string)

	// RecordUpstreamCall records one spent upstream call with duration and
	// error status. Every increment here is budget gone.
	RecordUpstreamCall(ctx context.Context, family string, duration time.Duration, err error)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	meter metric.Meter

	queryTotal    metric.Int64Counter
	queryErrors   metric.Int64Counter
	queryDuration metric.Float64Histogram

	cacheLookups metric.Int64Counter

	admissions metric.Int64Counter

	upstreamTotal    metric.Int64Counter
	upstreamErrors   metric.Int64Counter
	upstreamDuration metric.Float64Histogram
}

// NewMetrics creates a Metrics instance on the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	return newMetrics(meter)
}

func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	m := &metricsImpl{meter: meter}

	var err error
	if m.queryTotal, err = meter.Int64Counter(
		"query.exec.total",
		metric.WithDescription("Total number of served queries"),
		metric.WithUnit("{query}"),
	); err != nil {
		return nil, err
	}
	if m.queryErrors, err = meter.Int64Counter(
		"query.exec.errors",
		metric.WithDescription("Total number of failed queries"),
		metric.WithUnit("{error}"),
	); err != nil {
		return nil, err
	}
	if m.queryDuration, err = meter.Float64Histogram(
		"query.exec.duration_ms",
		metric.WithDescription("Query serving duration in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}

	if m.cacheLookups, err = meter.Int64Counter(
		"cache.lookups.total",
		metric.WithDescription("Cache probes by family and outcome"),
		metric.WithUnit("{lookup}"),
	); err != nil {
		return nil, err
	}

	if m.admissions, err = meter.Int64Counter(
		"quota.decisions.total",
		metric.WithDescription("Quota admission decisions by family and kind"),
		metric.WithUnit("{decision}"),
	); err != nil {
		return nil, err
	}

	if m.upstreamTotal, err = meter.Int64Counter(
		"upstream.calls.total",
		metric.WithDescription("Upstream API calls spent against the quota"),
		metric.WithUnit("{call}"),
	); err != nil {
		return nil, err
	}
	if m.upstreamErrors, err = meter.Int64Counter(
		"upstream.calls.errors",
		metric.WithDescription("Upstream API calls that failed"),
		metric.WithUnit("{error}"),
	); err != nil {
		return nil, err
	}
	if m.upstreamDuration, err = meter.Float64Histogram(
		"upstream.calls.duration_ms",
		metric.WithDescription("Upstream API call duration in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

// RecordQuery records metrics for a served query.
func (m *metricsImpl) RecordQuery(ctx context.Context, meta QueryMeta, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("query.tool", meta.Tool),
	}
	if meta.Family != "" {
		attrs = append(attrs, attribute.String("query.family", meta.Family))
	}
	opt := metric.WithAttributes(attrs...)

	m.queryTotal.Add(ctx, 1, opt)
	if err != nil {
		m.queryErrors.Add(ctx, 1, opt)
	}
	m.queryDuration.Record(ctx, float64(duration.Milliseconds()), opt)
}

// RecordCacheLookup records one cache probe.
func (m *metricsImpl) RecordCacheLookup(ctx context.Context, family string, hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	m.cacheLookups.Add(ctx, 1, metric.WithAttributes(
		attribute.String("query.family", family),
		attribute.String("outcome", outcome),
	))
}

// RecordAdmission records one quota admission decision.
func (m *metricsImpl) RecordAdmission(ctx context.Context, family string, decision string) {
	m.admissions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("query.family", family),
		attribute.String("decision", decision),
	))
}

// RecordUpstreamCall records one spent upstream call.
func (m *metricsImpl) RecordUpstreamCall(ctx context.Context, family string, duration time.Duration, err error) {
	opt := metric.WithAttributes(attribute.String("query.family", family))

	m.upstreamTotal.Add(ctx, 1, opt)
	if err != nil {
		m.upstreamErrors.Add(ctx, 1, opt)
	}
	m.upstreamDuration.Record(ctx, float64(duration.Milliseconds()), opt)
}

// NoopMetrics returns a Metrics that records nothing.
func NoopMetrics() Metrics {
	return &noopMetrics{}
}

// noopMetrics is a metrics implementation that does nothing.
type noopMetrics struct{}

func (m *noopMetrics) RecordQuery(ctx context.Context, meta QueryMeta, duration time.Duration, err error) {
}
func (m *noopMetrics) RecordCacheLookup(ctx context.Context, family string, hit bool)       {}
func (m *noopMetrics) RecordAdmission(ctx context.Context, family string, decision string)  {}
func (m *noopMetrics) RecordUpstreamCall(ctx context.Context, family string, duration time.Duration, err error) {
}
