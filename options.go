package vecclust

import (
	"log/slog"

	"github.com/hupe1980/vecclust/resource"
)

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	resources        *resource.Controller
	emptyPolicy      EmptyClusterPolicy
	chunks           int
}

// Option configures a Space.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for clustering runs.
//
// If nil is passed, metrics are discarded.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for clustering runs.
//
// Validation failures are logged at warn level, run outcomes at info and
// iteration progress at debug. The default logger forwards to slog.Default.
//
// Example:
//
//	logger := vecclust.NewJSONLogger(slog.LevelInfo)
//	space, _ := vecclust.NewSpace(128, vecclust.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithResourceController budgets every run of the Space against rc.
// A run that cannot reserve its scratch memory or a run slot fails with
// ErrResourceExhausted before any output is written.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.resources = rc
	}
}

// WithEmptyClusterPolicy sets what happens to a cluster that receives no
// elements in an iteration. The default is KeepCenter.
func WithEmptyClusterPolicy(p EmptyClusterPolicy) Option {
	return func(o *options) {
		o.emptyPolicy = p
	}
}

// WithChunks fixes the number of chunks the parallel entry points split
// the batch into. By default the executor's worker count is used, or
// GOMAXPROCS when the executor does not report one.
func WithChunks(n int) Option {
	return func(o *options) {
		o.chunks = n
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		logger:           defaultLogger(),
		metricsCollector: NoopMetricsCollector{},
		emptyPolicy:      KeepCenter,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
