package typetext

import (
	"go.uber.org/zap"

	"github.com/hengadev/typetext/internal/config"
	"github.com/hengadev/typetext/internal/monitoring"
)

type engineOptions struct {
	config  Config
	logger  *zap.Logger
	hook    ObservabilityHook
	metrics MetricsCollector
}

// Option configures an Engine at construction.
type Option func(o *engineOptions) error

// WithSettings applies setting options on top of the current settings.
func WithSettings(opts ...ConfigOption) Option {
	return func(o *engineOptions) error {
		return config.ApplyOptions(&o.config, opts)
	}
}

// WithBaseConfig replaces the settings wholesale, typically with the result
// of one of the LoadConfig functions.
func WithBaseConfig(cfg Config) Option {
	return func(o *engineOptions) error {
		o.config = cfg
		return nil
	}
}

// WithLogger sets the zap logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(o *engineOptions) error {
		o.logger = logger
		return nil
	}
}

// WithObservabilityHook adds a hook receiving operation, build and
// truncation events.
func WithObservabilityHook(hook ObservabilityHook) Option {
	return func(o *engineOptions) error {
		o.hook = hook
		return nil
	}
}

// WithMetricsCollector reports engine events as metrics.
func WithMetricsCollector(collector MetricsCollector) Option {
	return func(o *engineOptions) error {
		o.metrics = collector
		return nil
	}
}

// Observability types.
type (
	ObservabilityHook          = monitoring.ObservabilityHook
	MetricsCollector           = monitoring.MetricsCollector
	BuildInfo                  = monitoring.BuildInfo
	InMemoryMetricsCollector   = monitoring.InMemoryMetricsCollector
	PrometheusMetricsCollector = monitoring.PrometheusMetricsCollector
)

var (
	NewInMemoryMetricsCollector   = monitoring.NewInMemoryMetricsCollector
	NewPrometheusMetricsCollector = monitoring.NewPrometheusMetricsCollector
)
