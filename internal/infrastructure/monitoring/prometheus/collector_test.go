package prometheus

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geowild/ConserveIQ/internal/infrastructure/monitoring/logging"
)

func newTestCollector(t *testing.T) MetricsCollector {
	t.Helper()
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "conserviq"}, logging.NewNopLogger())
	require.NoError(t, err)
	return c
}

func TestNewMetricsCollector_RequiresNamespace(t *testing.T) {
	_, err := NewMetricsCollector(CollectorConfig{}, logging.NewNopLogger())
	assert.Error(t, err)
}

func TestRegisterAndObserve(t *testing.T) {
	c := newTestCollector(t)

	counter := c.RegisterCounter("test_total", "test counter", "kind")
	counter.WithLabelValues("diversity").Inc()
	counter.WithLabelValues("diversity").Add(2)

	gauge := c.RegisterGauge("test_gauge", "test gauge", "input")
	gauge.WithLabelValues("occurrences").Set(42)

	hist := c.RegisterHistogram("test_seconds", "test histogram", DefaultHTTPBuckets, "kind")
	hist.WithLabelValues("conservation").Observe(0.2)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()
	assert.Contains(t, body, "conserviq_test_total")
	assert.Contains(t, body, "conserviq_test_gauge")
	assert.Contains(t, body, "conserviq_test_seconds")
}

func TestRegister_DuplicateNameReturnsSameCollector(t *testing.T) {
	c := newTestCollector(t)
	a := c.RegisterCounter("dup_total", "first", "l")
	b := c.RegisterCounter("dup_total", "second", "l")
	a.WithLabelValues("x").Inc()
	b.WithLabelValues("x").Inc()

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `conserviq_dup_total{l="x"} 2`)
}

func TestEngineMetrics(t *testing.T) {
	c := newTestCollector(t)
	m := NewEngineMetrics(c)

	m.ObserveAnalysis("diversity", 50*time.Millisecond, nil)
	m.ObserveAnalysis("conservation", time.Second, assert.AnError)
	m.AnalysisCacheHits.WithLabelValues("diversity").Inc()
	m.SimulationRunsTotal.WithLabelValues("panthera_onca").Add(1000)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()
	assert.Contains(t, body, `conserviq_analysis_requests_total{kind="diversity",outcome="ok"} 1`)
	assert.Contains(t, body, `conserviq_analysis_requests_total{kind="conservation",outcome="error"} 1`)
	assert.Contains(t, body, `conserviq_simulation_runs_total{species="panthera_onca"} 1000`)
}
