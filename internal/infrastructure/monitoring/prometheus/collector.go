// Package prometheus provides the metrics collection layer for the
// ConserveIQ engine.  Components record observations through the small
// interfaces defined here; the prometheus client library stays behind this
// package so analysis code never imports it directly.
package prometheus

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/geowild/ConserveIQ/internal/infrastructure/monitoring/logging"
)

// MetricsCollector registers metrics on an isolated registry and serves them
// over HTTP.
type MetricsCollector interface {
	RegisterCounter(name, help string, labels ...string) CounterVec
	RegisterGauge(name, help string, labels ...string) GaugeVec
	RegisterHistogram(name, help string, buckets []float64, labels ...string) HistogramVec
	Handler() http.Handler
}

// CounterVec wraps prometheus.CounterVec.
type CounterVec interface {
	WithLabelValues(lvs ...string) Counter
}

// Counter wraps prometheus.Counter.
type Counter interface {
	Inc()
	Add(delta float64)
}

// GaugeVec wraps prometheus.GaugeVec.
type GaugeVec interface {
	WithLabelValues(lvs ...string) Gauge
}

// Gauge wraps prometheus.Gauge.
type Gauge interface {
	Set(value float64)
	Inc()
	Dec()
}

// HistogramVec wraps prometheus.HistogramVec.
type HistogramVec interface {
	WithLabelValues(lvs ...string) Histogram
}

// Histogram wraps prometheus.Histogram.
type Histogram interface {
	Observe(value float64)
}

// CollectorConfig holds construction parameters for the collector.
type CollectorConfig struct {
	Namespace            string
	Subsystem            string
	EnableProcessMetrics bool
	EnableGoMetrics      bool
}

type promCollector struct {
	registry *prometheus.Registry
	config   CollectorConfig
	mu       sync.Mutex
	byName   map[string]prometheus.Collector
	logger   logging.Logger
}

// NewMetricsCollector creates a MetricsCollector with its own registry.
// Namespace is required; process and Go runtime collectors are optional.
func NewMetricsCollector(cfg CollectorConfig, logger logging.Logger) (MetricsCollector, error) {
	if cfg.Namespace == "" {
		return nil, fmt.Errorf("prometheus: namespace is required")
	}

	registry := prometheus.NewRegistry()
	if cfg.EnableProcessMetrics {
		registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{
			Namespace: cfg.Namespace,
		}))
	}
	if cfg.EnableGoMetrics {
		registry.MustRegister(prometheus.NewGoCollector())
	}

	return &promCollector{
		registry: registry,
		config:   cfg,
		byName:   make(map[string]prometheus.Collector),
		logger:   logger,
	}, nil
}

func (c *promCollector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// register stores and registers a collector, reusing a previously registered
// one under the same name so repeated construction in tests is harmless.
func (c *promCollector) register(name string, build func() prometheus.Collector) prometheus.Collector {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.byName[name]; ok {
		return existing
	}
	coll := build()
	if err := c.registry.Register(coll); err != nil {
		c.logger.Warn("metric registration failed", logging.String("metric", name), logging.Err(err))
	}
	c.byName[name] = coll
	return coll
}

func (c *promCollector) RegisterCounter(name, help string, labels ...string) CounterVec {
	coll := c.register(name, func() prometheus.Collector {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: c.config.Namespace,
			Subsystem: c.config.Subsystem,
			Name:      name,
			Help:      help,
		}, labels)
	})
	return &counterVec{vec: coll.(*prometheus.CounterVec)}
}

func (c *promCollector) RegisterGauge(name, help string, labels ...string) GaugeVec {
	coll := c.register(name, func() prometheus.Collector {
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: c.config.Namespace,
			Subsystem: c.config.Subsystem,
			Name:      name,
			Help:      help,
		}, labels)
	})
	return &gaugeVec{vec: coll.(*prometheus.GaugeVec)}
}

func (c *promCollector) RegisterHistogram(name, help string, buckets []float64, labels ...string) HistogramVec {
	coll := c.register(name, func() prometheus.Collector {
		return prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: c.config.Namespace,
			Subsystem: c.config.Subsystem,
			Name:      name,
			Help:      help,
			Buckets:   buckets,
		}, labels)
	})
	return &histogramVec{vec: coll.(*prometheus.HistogramVec)}
}

// ── thin adapters over the prometheus vec types ──────────────────────────────

type counterVec struct{ vec *prometheus.CounterVec }

func (v *counterVec) WithLabelValues(lvs ...string) Counter {
	return v.vec.WithLabelValues(lvs...)
}

type gaugeVec struct{ vec *prometheus.GaugeVec }

func (v *gaugeVec) WithLabelValues(lvs ...string) Gauge {
	return v.vec.WithLabelValues(lvs...)
}

type histogramVec struct{ vec *prometheus.HistogramVec }

func (v *histogramVec) WithLabelValues(lvs ...string) Histogram {
	return v.vec.WithLabelValues(lvs...)
}
