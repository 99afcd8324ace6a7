package monitoring

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNoOpMetricsCollector(t *testing.T) {
	collector := &NoOpMetricsCollector{}
	tags := map[string]string{"test": "value"}

	collector.IncrementCounter("test_counter", tags)
	collector.IncrementCounterBy("test_counter", 5, tags)
	collector.SetGauge("test_gauge", 42.5, tags)
	collector.RecordTiming("test_timing", time.Millisecond, tags)
	collector.RecordValue("test_value", 3.14, tags)

	assert.NoError(t, collector.Flush())
}

func TestInMemoryMetricsCollector(t *testing.T) {
	collector := NewInMemoryMetricsCollector()
	tags := map[string]string{"format": "json", "operation": "serialize"}

	collector.IncrementCounter("calls", tags)
	collector.IncrementCounterBy("calls", 4, tags)
	collector.SetGauge("entries", 12, nil)
	collector.RecordTiming("latency", time.Millisecond, tags)
	collector.RecordValue("size", 128, tags)

	assert.Equal(t, int64(5), collector.GetCounter("calls", tags))
	assert.Equal(t, int64(0), collector.GetCounter("calls", nil))
	assert.Equal(t, 12.0, collector.GetGauge("entries", nil))
	assert.Equal(t, []time.Duration{time.Millisecond}, collector.GetTimings("latency", tags))
	assert.Equal(t, []float64{128}, collector.GetValues("size", tags))
	assert.Equal(t, map[string]int64{"calls,format=json,operation=serialize": 5}, collector.Counters())

	collector.Reset()
	assert.Empty(t, collector.Counters())
}

func TestInMemoryMetricsCollectorConcurrent(t *testing.T) {
	collector := NewInMemoryMetricsCollector()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			collector.IncrementCounter("hits", nil)
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(50), collector.GetCounter("hits", nil))
}

func TestKeyWithTagsIsOrderIndependent(t *testing.T) {
	a := keyWithTags("m", map[string]string{"b": "2", "a": "1"})
	b := keyWithTags("m", map[string]string{"a": "1", "b": "2"})
	assert.Equal(t, "m,a=1,b=2", a)
	assert.Equal(t, a, b)
}

func TestMetricsObservabilityHook(t *testing.T) {
	collector := NewInMemoryMetricsCollector()
	hook := NewMetricsObservabilityHook(collector)
	ctx := context.Background()
	meta := map[string]any{"format": "jsv"}
	tags := map[string]string{"operation": "serialize", "format": "jsv"}

	hook.OnOperationStart(ctx, "serialize", meta)
	hook.OnOperationComplete(ctx, "serialize", time.Millisecond, nil, meta)
	hook.OnOperationComplete(ctx, "serialize", time.Millisecond, errors.New("boom"), meta)
	hook.OnCodecBuild(ctx, BuildInfo{Type: "main.User", Format: "jsv"})
	hook.OnCodecBuild(ctx, BuildInfo{Type: "chan int", Format: "jsv", Err: errors.New("unsupported")})
	hook.OnTruncation(ctx, "serialize", "main.Node", 3)

	assert.Equal(t, int64(1), collector.GetCounter(MetricOperationStarted, tags))
	assert.Equal(t, int64(1), collector.GetCounter(MetricOperationSucceeded, tags))
	assert.Equal(t, int64(1), collector.GetCounter(MetricOperationFailed, tags))
	assert.Len(t, collector.GetTimings(MetricOperationDuration, tags), 2)
	assert.Equal(t, int64(1), collector.GetCounter(MetricCodecBuilds, map[string]string{"format": "jsv"}))
	assert.Equal(t, int64(1), collector.GetCounter(MetricCodecBuildFailures, map[string]string{"format": "jsv"}))
	assert.Equal(t, int64(3), collector.GetCounter(MetricTruncations, map[string]string{"operation": "serialize"}))
}

func TestZapObservabilityHook(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	hook := NewZapObservabilityHook(zap.New(core))
	ctx := context.Background()

	hook.OnCodecBuild(ctx, BuildInfo{Type: "main.User", Format: "json", Duration: time.Microsecond})
	hook.OnCodecBuild(ctx, BuildInfo{Type: "chan int", Format: "json", Err: errors.New("unsupported")})
	hook.OnOperationComplete(ctx, "deserialize", time.Millisecond, errors.New("bad input"), nil)
	hook.OnTruncation(ctx, "serialize", "main.Node", 1)

	require.Equal(t, 4, logs.Len())
	entries := logs.All()
	assert.Equal(t, "codec built", entries[0].Message)
	assert.Equal(t, "main.User", entries[0].ContextMap()["type"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "operation failed", entries[2].Message)
	assert.Equal(t, int64(1), entries[3].ContextMap()["branches"])

	// nil logger must not panic
	NewZapObservabilityHook(nil).OnTruncation(ctx, "serialize", "x", 1)
}

func TestCompositeObservabilityHook(t *testing.T) {
	first := NewInMemoryMetricsCollector()
	second := NewInMemoryMetricsCollector()
	hook := NewCompositeObservabilityHook(
		NewMetricsObservabilityHook(first),
		NewMetricsObservabilityHook(second),
		&NoOpObservabilityHook{},
	)

	hook.OnTruncation(context.Background(), "serialize", "main.Node", 2)

	tags := map[string]string{"operation": "serialize"}
	assert.Equal(t, int64(2), first.GetCounter(MetricTruncations, tags))
	assert.Equal(t, int64(2), second.GetCounter(MetricTruncations, tags))
}

func TestPrometheusMetricsCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector := NewPrometheusMetricsCollector(reg)
	tags := map[string]string{"format": "json"}

	collector.IncrementCounter(MetricCodecBuilds, tags)
	collector.IncrementCounterBy(MetricCodecBuilds, 2, tags)
	collector.IncrementCounter(MetricCodecBuilds, map[string]string{"format": "jsv", "extra": "dropped"})
	collector.SetGauge("typetext.cache.entries", 7, nil)
	collector.RecordTiming(MetricCodecBuildDuration, 2*time.Millisecond, tags)
	require.NoError(t, collector.Flush())

	builds := collector.counters[MetricCodecBuilds]
	assert.Equal(t, 3.0, testutil.ToFloat64(builds.WithLabelValues("json")))
	assert.Equal(t, 1.0, testutil.ToFloat64(builds.WithLabelValues("jsv")))
	assert.Equal(t, 7.0, testutil.ToFloat64(collector.gauges["typetext.cache.entries"]))

	n, err := testutil.GatherAndCount(reg, "typetext_codec_build_duration_ms")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// a second collector on the same registry reuses the vectors
	again := NewPrometheusMetricsCollector(reg)
	again.IncrementCounter(MetricCodecBuilds, tags)
	assert.Equal(t, 4.0, testutil.ToFloat64(builds.WithLabelValues("json")))
}

func TestPromName(t *testing.T) {
	assert.Equal(t, "typetext_codec_builds", promName(MetricCodecBuilds))
	assert.Equal(t, "a_b_c", promName("a-b.c"))
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(LoggerConfig{Level: "debug", Encoding: "console", Component: "cli"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	_, err = NewLogger(LoggerConfig{Level: "loud"})
	assert.Error(t, err)

	_, err = NewLogger(LoggerConfig{Encoding: "xml"})
	assert.Error(t, err)
}
