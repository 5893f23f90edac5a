// apiserver is the standalone API server entry point.  It is the
// deployment-oriented twin of `conserviq serve`: flag-driven, no subcommands,
// suitable for a container entrypoint.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/geowild/ConserveIQ/internal/application/analysis"
	"github.com/geowild/ConserveIQ/internal/config"
	"github.com/geowild/ConserveIQ/internal/infrastructure/cache"
	"github.com/geowild/ConserveIQ/internal/infrastructure/cache/memory"
	rediscache "github.com/geowild/ConserveIQ/internal/infrastructure/cache/redis"
	"github.com/geowild/ConserveIQ/internal/infrastructure/datawatch"
	"github.com/geowild/ConserveIQ/internal/infrastructure/monitoring/logging"
	"github.com/geowild/ConserveIQ/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/geowild/ConserveIQ/internal/interfaces/http"
)

const defaultShutdownTimeout = 30 * time.Second

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	port := flag.Int("port", 0, "listen port (overrides config)")
	occurrencePath := flag.String("occurrences", "", "occurrence points JSON file")
	samplePath := flag.String("samples", "", "genomic samples JSON file")
	watch := flag.Bool("watch", false, "reload inputs when the files change")
	flag.Parse()

	if err := run(*configPath, *port, *occurrencePath, *samplePath, *watch); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(configPath string, port int, occurrencePath, samplePath string, watch bool) error {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.Server.Port = port
	}

	logger, err := logging.NewLogger(logging.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		OutputPaths: cfg.Log.OutputPaths,
	})
	if err != nil {
		return err
	}
	logger.Info("starting conserviq api server", logging.Int("port", cfg.Server.Port))

	c := buildCache(cfg, logger)
	collector, err := prometheus.NewMetricsCollector(
		prometheus.CollectorConfig{Namespace: "conserviq"}, logger)
	if err != nil {
		return err
	}
	metrics := prometheus.NewEngineMetrics(collector)

	svc, err := analysis.NewService(cfg, c, metrics, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if configPath != "" {
		config.Watch(configPath, func(newCfg *config.Config) {
			if err := svc.ReloadConfig(ctx, newCfg); err != nil {
				logger.Warn("config reload rejected", logging.Err(err))
			}
		})
	}

	if occurrencePath != "" || samplePath != "" {
		if watch {
			watcher, err := datawatch.NewWatcher(occurrencePath, samplePath, svc, logger)
			if err != nil {
				return err
			}
			go func() {
				if err := watcher.Run(ctx); err != nil && err != context.Canceled {
					logger.Error("input watcher stopped", logging.Err(err))
				}
			}()
		} else {
			in, err := datawatch.Load(occurrencePath, samplePath)
			if err != nil {
				return err
			}
			if err := svc.SetInputs(ctx, in.Points, in.Samples); err != nil {
				return err
			}
		}
	}

	router := httpserver.NewRouter(cfg.Server, httpserver.RouterDeps{
		Service:   svc,
		Cache:     c,
		Collector: collector,
		Metrics:   metrics,
		Logger:    logger,
	})
	srv := httpserver.NewServer(cfg.Server, router, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}

func buildCache(cfg *config.Config, logger logging.Logger) cache.Cache {
	if cfg.Cache.Backend == "redis" {
		client := goredis.NewClient(&goredis.Options{
			Addr:        cfg.Cache.Redis.Addr,
			Password:    cfg.Cache.Redis.Password,
			DB:          cfg.Cache.Redis.DB,
			DialTimeout: cfg.Cache.Redis.DialTimeout,
		})
		var opts []rediscache.Option
		if cfg.Cache.Redis.KeyPrefix != "" {
			opts = append(opts, rediscache.WithPrefix(cfg.Cache.Redis.KeyPrefix))
		}
		if cfg.Cache.Redis.DefaultTTL > 0 {
			opts = append(opts, rediscache.WithDefaultTTL(cfg.Cache.Redis.DefaultTTL))
		}
		return rediscache.New(client, logger, opts...)
	}
	return memory.New()
}
