package prometheus

import "time"

// EngineMetrics holds every metric emitted by the analytics engine.
type EngineMetrics struct {
	// Analysis layer
	AnalysisRequestsTotal CounterVec // labels: kind, outcome
	AnalysisDuration      HistogramVec
	AnalysisCacheHits     CounterVec
	AnalysisCacheMisses   CounterVec
	InputRecordsGauge     GaugeVec // labels: input ("occurrences"|"samples")

	// Simulation layer
	SimulationRunsTotal CounterVec // labels: species
	SimulationDuration  HistogramVec

	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
}

// DefaultAnalysisBuckets covers in-memory batch analyses from sub-millisecond
// diversity lookups to multi-second Monte-Carlo sweeps.
var DefaultAnalysisBuckets = []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}

// DefaultHTTPBuckets covers interactive request latencies.
var DefaultHTTPBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}

// NewEngineMetrics registers all engine metrics on the collector.
func NewEngineMetrics(c MetricsCollector) *EngineMetrics {
	return &EngineMetrics{
		AnalysisRequestsTotal: c.RegisterCounter("analysis_requests_total",
			"Total analysis queries served", "kind", "outcome"),
		AnalysisDuration: c.RegisterHistogram("analysis_duration_seconds",
			"Wall-clock duration of analysis computation", DefaultAnalysisBuckets, "kind"),
		AnalysisCacheHits: c.RegisterCounter("analysis_cache_hits_total",
			"Analysis results served from cache", "kind"),
		AnalysisCacheMisses: c.RegisterCounter("analysis_cache_misses_total",
			"Analysis results recomputed on cache miss", "kind"),
		InputRecordsGauge: c.RegisterGauge("input_records",
			"Current number of ingested input records", "input"),

		SimulationRunsTotal: c.RegisterCounter("simulation_runs_total",
			"Monte-Carlo viability runs executed", "species"),
		SimulationDuration: c.RegisterHistogram("simulation_duration_seconds",
			"Duration of a full per-species viability simulation", DefaultAnalysisBuckets, "species"),

		HTTPRequestsTotal: c.RegisterCounter("http_requests_total",
			"Total HTTP requests", "method", "path", "status"),
		HTTPRequestDuration: c.RegisterHistogram("http_request_duration_seconds",
			"HTTP request duration", DefaultHTTPBuckets, "method", "path"),
	}
}

// ObserveAnalysis records one completed analysis computation.
func (m *EngineMetrics) ObserveAnalysis(kind string, d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.AnalysisRequestsTotal.WithLabelValues(kind, outcome).Inc()
	m.AnalysisDuration.WithLabelValues(kind).Observe(d.Seconds())
}
