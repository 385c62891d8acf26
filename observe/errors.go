package observe

import "errors"

// Errors returned by Config.Validate.
var (
	// ErrMissingServiceName indicates Config.ServiceName is empty.
	ErrMissingServiceName = errors.New("observe: service name is required")

	// ErrInvalidSamplePct indicates Tracing.SamplePct is not in [0.0, 1.0].
	ErrInvalidSamplePct = errors.New("observe: sample percentage must be between 0.0 and 1.0")

	// ErrUnknownTracingExporter indicates a tracing exporter name the
	// factory cannot build.
	ErrUnknownTracingExporter = errors.New("observe: unknown tracing exporter")

	// ErrUnknownMetricsExporter indicates a metrics exporter name the
	// factory cannot build.
	ErrUnknownMetricsExporter = errors.New("observe: unknown metrics exporter")

	// ErrUnknownLogLevel indicates a log level outside debug|info|warn|error.
	ErrUnknownLogLevel = errors.New("observe: unknown log level")
)
