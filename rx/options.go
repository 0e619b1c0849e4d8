package rx

import (
	"github.com/kbukum/rxhttp/logger"
	"github.com/kbukum/rxhttp/observability"
)

// Option configures an Adapter.
type Option func(*options)

type options struct {
	name    string
	log     *logger.Logger
	metrics *observability.Metrics
}

// WithName names the adapter in logs and metrics. Defaults to "rx".
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithLogger sets the logger. Subscriptions are logged at debug level.
func WithLogger(log *logger.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// WithMetrics records subscriptions and their outcomes.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

func buildOptions(opts []Option) options {
	o := options{name: "rx"}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.NewNop()
	}
	o.log = o.log.WithComponent("rx").WithFields(map[string]interface{}{
		logger.FieldProvider: o.name,
	})
	return o
}
