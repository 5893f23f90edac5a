package cli

import (
	goredis "github.com/redis/go-redis/v9"

	"github.com/geowild/ConserveIQ/internal/application/analysis"
	"github.com/geowild/ConserveIQ/internal/config"
	"github.com/geowild/ConserveIQ/internal/infrastructure/cache"
	"github.com/geowild/ConserveIQ/internal/infrastructure/cache/memory"
	"github.com/geowild/ConserveIQ/internal/infrastructure/cache/redis"
	"github.com/geowild/ConserveIQ/internal/infrastructure/monitoring/logging"
	"github.com/geowild/ConserveIQ/internal/infrastructure/monitoring/prometheus"
)

// engine bundles the wired analysis stack.
type engine struct {
	Service   *analysis.Service
	Cache     cache.Cache
	Collector prometheus.MetricsCollector
	Metrics   *prometheus.EngineMetrics
}

// buildCache selects the cache backend from configuration.
func buildCache(cfg *config.Config, logger logging.Logger) cache.Cache {
	if cfg.Cache.Backend == "redis" {
		client := goredis.NewClient(&goredis.Options{
			Addr:        cfg.Cache.Redis.Addr,
			Password:    cfg.Cache.Redis.Password,
			DB:          cfg.Cache.Redis.DB,
			DialTimeout: cfg.Cache.Redis.DialTimeout,
		})
		var opts []redis.Option
		if cfg.Cache.Redis.KeyPrefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.Cache.Redis.KeyPrefix))
		}
		if cfg.Cache.Redis.DefaultTTL > 0 {
			opts = append(opts, redis.WithDefaultTTL(cfg.Cache.Redis.DefaultTTL))
		}
		return redis.New(client, logger, opts...)
	}
	return memory.New()
}

// buildEngine wires cache, metrics, and the analysis service.
func buildEngine(cfg *config.Config, logger logging.Logger) (*engine, error) {
	c := buildCache(cfg, logger)

	collector, err := prometheus.NewMetricsCollector(
		prometheus.CollectorConfig{Namespace: "conserviq"}, logger)
	if err != nil {
		return nil, err
	}
	metrics := prometheus.NewEngineMetrics(collector)

	svc, err := analysis.NewService(cfg, c, metrics, logger)
	if err != nil {
		return nil, err
	}
	return &engine{Service: svc, Cache: c, Collector: collector, Metrics: metrics}, nil
}
