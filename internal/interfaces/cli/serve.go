package cli

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/geowild/ConserveIQ/internal/config"
	"github.com/geowild/ConserveIQ/internal/infrastructure/datawatch"
	"github.com/geowild/ConserveIQ/internal/infrastructure/monitoring/logging"
	httpserver "github.com/geowild/ConserveIQ/internal/interfaces/http"
)

// serveOptions holds the serve command flags.
type serveOptions struct {
	port           int
	occurrencePath string
	samplePath     string
	watch          bool
}

func newServeCommand() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the analysis API server",
		Long: `Starts the HTTP API.  With --occurrences/--samples the inputs are
loaded at startup; with --watch they are reloaded whenever the files change,
invalidating every cached analysis.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&opts.port, "port", "p", 0, "listen port (overrides config)")
	flags.StringVar(&opts.occurrencePath, "occurrences", "", "occurrence points JSON file to serve")
	flags.StringVar(&opts.samplePath, "samples", "", "genomic samples JSON file to serve")
	flags.BoolVar(&opts.watch, "watch", false, "reload inputs when the files change")
	return cmd
}

func runServe(cmd *cobra.Command, opts *serveOptions) error {
	cliCtx, err := getCLIContext(cmd)
	if err != nil {
		return err
	}
	cfg, logger := cliCtx.Config, cliCtx.Logger
	if opts.port > 0 {
		cfg.Server.Port = opts.port
	}

	eng, err := buildEngine(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Hot-reload the species table and analysis tunables; each reload
	// invalidates every cached analysis.
	if cliCtx.ConfigPath != "" {
		config.Watch(cliCtx.ConfigPath, func(newCfg *config.Config) {
			if err := eng.Service.ReloadConfig(ctx, newCfg); err != nil {
				logger.Warn("config reload rejected", logging.Err(err))
			}
		})
	}

	g, ctx := errgroup.WithContext(ctx)

	if opts.occurrencePath != "" || opts.samplePath != "" {
		if opts.watch {
			watcher, err := datawatch.NewWatcher(opts.occurrencePath, opts.samplePath, eng.Service, logger)
			if err != nil {
				return err
			}
			g.Go(func() error {
				err := watcher.Run(ctx)
				if err == context.Canceled {
					return nil
				}
				return err
			})
		} else {
			in, err := datawatch.Load(opts.occurrencePath, opts.samplePath)
			if err != nil {
				return err
			}
			if err := eng.Service.SetInputs(ctx, in.Points, in.Samples); err != nil {
				return err
			}
		}
	}

	router := httpserver.NewRouter(cfg.Server, httpserver.RouterDeps{
		Service:   eng.Service,
		Cache:     eng.Cache,
		Collector: eng.Collector,
		Metrics:   eng.Metrics,
		Logger:    logger,
	})
	srv := httpserver.NewServer(cfg.Server, router, logger)

	g.Go(srv.Start)
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Stop(shutdownCtx)
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error("server exited with error", logging.Err(err))
		return err
	}

	// Give the final log lines a moment to flush.
	time.Sleep(50 * time.Millisecond)
	return nil
}
