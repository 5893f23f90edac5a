package http

import (
	"github.com/gin-gonic/gin"

	"github.com/geowild/ConserveIQ/internal/application/analysis"
	"github.com/geowild/ConserveIQ/internal/config"
	"github.com/geowild/ConserveIQ/internal/infrastructure/cache"
	"github.com/geowild/ConserveIQ/internal/infrastructure/monitoring/logging"
	"github.com/geowild/ConserveIQ/internal/infrastructure/monitoring/prometheus"
	"github.com/geowild/ConserveIQ/internal/interfaces/http/handlers"
	"github.com/geowild/ConserveIQ/internal/interfaces/http/middleware"
)

// RouterDeps bundles everything the router needs.
type RouterDeps struct {
	Service   *analysis.Service
	Cache     cache.Cache
	Collector prometheus.MetricsCollector
	Metrics   *prometheus.EngineMetrics
	Logger    logging.Logger
}

// NewRouter wires the full route table.
func NewRouter(cfg config.ServerConfig, deps RouterDeps) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	gin.SetMode(ginMode(cfg.Mode))
	r := gin.New()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS())
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
	}

	health := handlers.NewHealthHandler(deps.Cache)
	r.GET("/healthz", health.Healthz)
	r.GET("/readyz", health.Readyz)
	if deps.Collector != nil {
		r.GET("/metrics", gin.WrapH(deps.Collector.Handler()))
	}

	ah := handlers.NewAnalysisHandler(deps.Service, logger)
	ih := handlers.NewInputsHandler(deps.Service, logger)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/analysis/diversity", ah.Diversity)
		v1.GET("/analysis/phylogenetic", ah.Phylogenetic)
		v1.GET("/analysis/conservation", ah.Conservation)
		v1.PUT("/inputs", ih.Put)
	}
	return r
}

func ginMode(mode string) string {
	switch mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		return mode
	default:
		return gin.ReleaseMode
	}
}
