package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geowild/ConserveIQ/internal/application/analysis"
	"github.com/geowild/ConserveIQ/internal/config"
	"github.com/geowild/ConserveIQ/internal/infrastructure/cache/memory"
	"github.com/geowild/ConserveIQ/internal/infrastructure/monitoring/logging"
	"github.com/geowild/ConserveIQ/internal/infrastructure/monitoring/prometheus"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Server.Mode = "test"
	cfg.Analysis.SimulationRuns = 20
	cfg.Analysis.SimulationYears = 20
	cfg.Analysis.Seed = 1

	c := memory.New()
	collector, err := prometheus.NewMetricsCollector(
		prometheus.CollectorConfig{Namespace: "conserviq"}, logging.NewNopLogger())
	require.NoError(t, err)
	metrics := prometheus.NewEngineMetrics(collector)

	svc, err := analysis.NewService(cfg, c, metrics, logging.NewNopLogger())
	require.NoError(t, err)

	return NewRouter(cfg.Server, RouterDeps{
		Service:   svc,
		Cache:     c,
		Collector: collector,
		Metrics:   metrics,
		Logger:    logging.NewNopLogger(),
	})
}

func doRequest(t *testing.T, router http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	assert.Equal(t, http.StatusOK, doRequest(t, router, http.MethodGet, "/healthz", nil).Code)
	assert.Equal(t, http.StatusOK, doRequest(t, router, http.MethodGet, "/readyz", nil).Code)
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAnalysisEndpointsOnEmptyInputs(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{
		"/api/v1/analysis/diversity",
		"/api/v1/analysis/phylogenetic",
		"/api/v1/analysis/conservation",
	} {
		w := doRequest(t, router, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestInputsRoundTrip(t *testing.T) {
	router := newTestRouter(t)

	body, err := json.Marshal(map[string]interface{}{
		"occurrences": []map[string]interface{}{
			{
				"id": "occ-1", "species": "panthera_onca",
				"coordinates": map[string]float64{"lat": 17.0, "lng": -90.0},
				"year":        2020, "data_quality": "good",
			},
			{
				"id": "occ-2", "species": "panthera_onca",
				"coordinates": map[string]float64{"lat": 17.01, "lng": -90.0},
				"year":        2021, "data_quality": "good",
			},
		},
		"samples": []map[string]interface{}{
			{
				"species": "panthera_onca", "sequence": "ATCGATCG",
				"population_size": 100, "genetic_diversity": 0.6,
				"location": map[string]float64{"lat": 17.0, "lng": -90.0},
			},
		},
	})
	require.NoError(t, err)

	w := doRequest(t, router, http.MethodPut, "/api/v1/inputs", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var ack struct {
		Occurrences int `json:"occurrences"`
		Samples     int `json:"samples"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ack))
	assert.Equal(t, 2, ack.Occurrences)
	assert.Equal(t, 1, ack.Samples)

	// The replaced inputs flow into the conservation analysis.
	w = doRequest(t, router, http.MethodGet, "/api/v1/analysis/conservation", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var out struct {
		Spatial struct {
			ClusterCount int `json:"cluster_count"`
		} `json:"spatial"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, 1, out.Spatial.ClusterCount)
}

func TestInputsRejectsInvalidRecord(t *testing.T) {
	router := newTestRouter(t)

	body := []byte(`{"occurrences":[{"id":"occ-1","species":"panthera_onca",
		"coordinates":{"lat":95.0,"lng":-90.0},"year":2020,"data_quality":"good"}]}`)

	w := doRequest(t, router, http.MethodPut, "/api/v1/inputs", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInputsRejectsMalformedBody(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodPut, "/api/v1/inputs", []byte(`{broken`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
