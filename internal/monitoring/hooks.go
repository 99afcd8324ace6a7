package monitoring

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// BuildInfo describes one finished codec build.
type BuildInfo struct {
	Type     string
	Format   string
	Duration time.Duration
	Err      error
}

// ObservabilityHook receives engine events.
type ObservabilityHook interface {
	// Called before a serialize or deserialize call starts
	OnOperationStart(ctx context.Context, operation string, metadata map[string]any)

	// Called after the call completes (success or failure)
	OnOperationComplete(ctx context.Context, operation string, duration time.Duration, err error, metadata map[string]any)

	// Called after a codec has been built for a type
	OnCodecBuild(ctx context.Context, info BuildInfo)

	// Called when the depth guard cut branches of an object graph
	OnTruncation(ctx context.Context, operation string, typeName string, count int)
}

// NoOpObservabilityHook is a no-op implementation of ObservabilityHook
type NoOpObservabilityHook struct{}

func (n *NoOpObservabilityHook) OnOperationStart(ctx context.Context, operation string, metadata map[string]any) {
}
func (n *NoOpObservabilityHook) OnOperationComplete(ctx context.Context, operation string, duration time.Duration, err error, metadata map[string]any) {
}
func (n *NoOpObservabilityHook) OnCodecBuild(ctx context.Context, info BuildInfo) {}
func (n *NoOpObservabilityHook) OnTruncation(ctx context.Context, operation string, typeName string, count int) {
}

// ZapObservabilityHook logs engine events through zap.
type ZapObservabilityHook struct {
	logger *zap.Logger
}

// NewZapObservabilityHook creates a hook logging to logger. A nil logger
// discards everything.
func NewZapObservabilityHook(logger *zap.Logger) *ZapObservabilityHook {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapObservabilityHook{logger: logger}
}

func (z *ZapObservabilityHook) OnOperationStart(ctx context.Context, operation string, metadata map[string]any) {
	z.logger.Debug("operation started", zap.String("operation", operation), zap.Any("metadata", metadata))
}

func (z *ZapObservabilityHook) OnOperationComplete(ctx context.Context, operation string, duration time.Duration, err error, metadata map[string]any) {
	fields := []zap.Field{
		zap.String("operation", operation),
		zap.Duration("duration", duration),
		zap.Any("metadata", metadata),
	}
	if err != nil {
		z.logger.Warn("operation failed", append(fields, zap.Error(err))...)
		return
	}
	z.logger.Debug("operation completed", fields...)
}

func (z *ZapObservabilityHook) OnCodecBuild(ctx context.Context, info BuildInfo) {
	fields := []zap.Field{
		zap.String("type", info.Type),
		zap.String("format", info.Format),
		zap.Duration("duration", info.Duration),
	}
	if info.Err != nil {
		z.logger.Warn("codec build failed", append(fields, zap.Error(info.Err))...)
		return
	}
	z.logger.Debug("codec built", fields...)
}

func (z *ZapObservabilityHook) OnTruncation(ctx context.Context, operation string, typeName string, count int) {
	z.logger.Debug("object graph truncated at max depth",
		zap.String("operation", operation),
		zap.String("type", typeName),
		zap.Int("branches", count),
	)
}

// Metric names emitted by MetricsObservabilityHook.
const (
	MetricOperationStarted   = "typetext.operation.started"
	MetricOperationSucceeded = "typetext.operation.succeeded"
	MetricOperationFailed    = "typetext.operation.failed"
	MetricOperationDuration  = "typetext.operation.duration"
	MetricCodecBuilds        = "typetext.codec.builds"
	MetricCodecBuildFailures = "typetext.codec.build_failures"
	MetricCodecBuildDuration = "typetext.codec.build_duration"
	MetricTruncations        = "typetext.depth.truncations"
)

// MetricsObservabilityHook collects metrics for engine events
type MetricsObservabilityHook struct {
	collector MetricsCollector
}

// NewMetricsObservabilityHook creates a new metrics observability hook
func NewMetricsObservabilityHook(collector MetricsCollector) *MetricsObservabilityHook {
	if collector == nil {
		collector = &NoOpMetricsCollector{}
	}
	return &MetricsObservabilityHook{
		collector: collector,
	}
}

func operationTags(operation string, metadata map[string]any) map[string]string {
	tags := map[string]string{"operation": operation, "format": ""}
	if f, ok := metadata["format"].(string); ok {
		tags["format"] = f
	}
	return tags
}

func (m *MetricsObservabilityHook) OnOperationStart(ctx context.Context, operation string, metadata map[string]any) {
	m.collector.IncrementCounter(MetricOperationStarted, operationTags(operation, metadata))
}

func (m *MetricsObservabilityHook) OnOperationComplete(ctx context.Context, operation string, duration time.Duration, err error, metadata map[string]any) {
	tags := operationTags(operation, metadata)
	if err != nil {
		m.collector.IncrementCounter(MetricOperationFailed, tags)
	} else {
		m.collector.IncrementCounter(MetricOperationSucceeded, tags)
	}
	m.collector.RecordTiming(MetricOperationDuration, duration, tags)
}

func (m *MetricsObservabilityHook) OnCodecBuild(ctx context.Context, info BuildInfo) {
	tags := map[string]string{"format": info.Format}
	if info.Err != nil {
		m.collector.IncrementCounter(MetricCodecBuildFailures, tags)
	} else {
		m.collector.IncrementCounter(MetricCodecBuilds, tags)
	}
	m.collector.RecordTiming(MetricCodecBuildDuration, info.Duration, tags)
}

func (m *MetricsObservabilityHook) OnTruncation(ctx context.Context, operation string, typeName string, count int) {
	m.collector.IncrementCounterBy(MetricTruncations, int64(count), map[string]string{"operation": operation})
}

// CompositeObservabilityHook combines multiple hooks
type CompositeObservabilityHook struct {
	hooks []ObservabilityHook
}

// NewCompositeObservabilityHook creates a new composite hook
func NewCompositeObservabilityHook(hooks ...ObservabilityHook) *CompositeObservabilityHook {
	return &CompositeObservabilityHook{
		hooks: hooks,
	}
}

func (c *CompositeObservabilityHook) OnOperationStart(ctx context.Context, operation string, metadata map[string]any) {
	for _, hook := range c.hooks {
		hook.OnOperationStart(ctx, operation, metadata)
	}
}

func (c *CompositeObservabilityHook) OnOperationComplete(ctx context.Context, operation string, duration time.Duration, err error, metadata map[string]any) {
	for _, hook := range c.hooks {
		hook.OnOperationComplete(ctx, operation, duration, err, metadata)
	}
}

func (c *CompositeObservabilityHook) OnCodecBuild(ctx context.Context, info BuildInfo) {
	for _, hook := range c.hooks {
		hook.OnCodecBuild(ctx, info)
	}
}

func (c *CompositeObservabilityHook) OnTruncation(ctx context.Context, operation string, typeName string, count int) {
	for _, hook := range c.hooks {
		hook.OnTruncation(ctx, operation, typeName, count)
	}
}
