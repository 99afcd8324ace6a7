package monitoring

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"
)

// timingBuckets are in milliseconds: 0.001ms to about 4s.
var timingBuckets = prometheus.ExponentialBuckets(0.001, 4, 12)

// PrometheusMetricsCollector exports metrics as Prometheus vectors. Each
// metric name gets its vector on first use, labelled with the tag keys seen
// on that first call; later calls fill missing labels with "" and drop
// unknown ones.
type PrometheusMetricsCollector struct {
	registerer prometheus.Registerer

	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
	histograms map[string]*prometheus.HistogramVec
	labels     map[string][]string
}

// NewPrometheusMetricsCollector registers vectors with reg, or with the
// default registerer when reg is nil.
func NewPrometheusMetricsCollector(reg prometheus.Registerer) *PrometheusMetricsCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &PrometheusMetricsCollector{
		registerer: reg,
		counters:   make(map[string]*prometheus.CounterVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
		histograms: make(map[string]*prometheus.HistogramVec),
		labels:     make(map[string][]string),
	}
}

// promName turns a dotted metric name into a Prometheus identifier.
func promName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return '_'
	}, name)
}

func (p *PrometheusMetricsCollector) labelNames(name string, tags map[string]string) []string {
	if names, ok := p.labels[name]; ok {
		return names
	}
	names := lo.Keys(tags)
	sort.Strings(names)
	p.labels[name] = names
	return names
}

func (p *PrometheusMetricsCollector) labelValues(name string, tags map[string]string) []string {
	return lo.Map(p.labels[name], func(k string, _ int) string { return tags[k] })
}

// register adds c to the registerer, reusing an identical collector that is
// already registered.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
	}
	return c
}

func (p *PrometheusMetricsCollector) counter(name string, tags map[string]string) prometheus.Counter {
	p.mu.Lock()
	defer p.mu.Unlock()
	vec, ok := p.counters[name]
	if !ok {
		vec = register(p.registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: promName(name) + "_total",
			Help: "Counter " + name,
		}, p.labelNames(name, tags)))
		p.counters[name] = vec
	}
	return vec.WithLabelValues(p.labelValues(name, tags)...)
}

func (p *PrometheusMetricsCollector) gauge(name string, tags map[string]string) prometheus.Gauge {
	p.mu.Lock()
	defer p.mu.Unlock()
	vec, ok := p.gauges[name]
	if !ok {
		vec = register(p.registerer, prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: promName(name),
			Help: "Gauge " + name,
		}, p.labelNames(name, tags)))
		p.gauges[name] = vec
	}
	return vec.WithLabelValues(p.labelValues(name, tags)...)
}

func (p *PrometheusMetricsCollector) histogram(name, suffix string, buckets []float64, tags map[string]string) prometheus.Observer {
	p.mu.Lock()
	defer p.mu.Unlock()
	vec, ok := p.histograms[name]
	if !ok {
		vec = register(p.registerer, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    promName(name) + suffix,
			Help:    "Histogram " + name,
			Buckets: buckets,
		}, p.labelNames(name, tags)))
		p.histograms[name] = vec
	}
	return vec.WithLabelValues(p.labelValues(name, tags)...)
}

func (p *PrometheusMetricsCollector) IncrementCounter(name string, tags map[string]string) {
	p.counter(name, tags).Inc()
}

func (p *PrometheusMetricsCollector) IncrementCounterBy(name string, value int64, tags map[string]string) {
	p.counter(name, tags).Add(float64(value))
}

func (p *PrometheusMetricsCollector) SetGauge(name string, value float64, tags map[string]string) {
	p.gauge(name, tags).Set(value)
}

func (p *PrometheusMetricsCollector) RecordTiming(name string, duration time.Duration, tags map[string]string) {
	p.histogram(name, "_ms", timingBuckets, tags).Observe(float64(duration) / float64(time.Millisecond))
}

func (p *PrometheusMetricsCollector) RecordValue(name string, value float64, tags map[string]string) {
	p.histogram(name, "", prometheus.DefBuckets, tags).Observe(value)
}

// Flush is a no-op: Prometheus pulls.
func (p *PrometheusMetricsCollector) Flush() error {
	return nil
}
