// Package cli implements the conserviq command-line interface: local
// analysis runs, the API server, and version reporting.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/geowild/ConserveIQ/internal/config"
	"github.com/geowild/ConserveIQ/internal/infrastructure/monitoring/logging"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// RootOptions holds the global CLI flags.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
	Verbose    bool
}

// CLIContext carries initialized dependencies through the command tree.
type CLIContext struct {
	Config     *config.Config
	ConfigPath string
	Logger     logging.Logger
}

type cliContextKey struct{}

// NewRootCommand creates the root command with global flags and subcommands.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "conserviq",
		Short: "Conservation analytics engine",
		Long: `ConserveIQ analyzes species occurrence records and genomic samples:
density clustering, conservation-area synthesis, genetic diversity,
phylogenetics, population-viability simulation, and priority ranking.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cliCtx, err := initContext(opts)
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), cliContextKey{}, cliCtx))
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.ConfigPath, "config", "c", "", "path to configuration file")
	flags.StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error)")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "shorthand for --log-level=debug")

	cmd.AddCommand(
		newAnalyzeCommand(),
		newServeCommand(),
		newVersionCommand(),
	)
	return cmd
}

// initContext loads configuration and builds the logger.
func initContext(opts *RootOptions) (*CLIContext, error) {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	if opts.Verbose {
		cfg.Log.Level = "debug"
	} else if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}

	logger, err := logging.NewLogger(logging.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		OutputPaths: cfg.Log.OutputPaths,
	})
	if err != nil {
		return nil, err
	}
	return &CLIContext{Config: cfg, ConfigPath: opts.ConfigPath, Logger: logger}, nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadFromEnv()
}

// getCLIContext extracts the CLIContext installed by PersistentPreRunE.
func getCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	cliCtx, ok := cmd.Context().Value(cliContextKey{}).(*CLIContext)
	if !ok {
		return nil, fmt.Errorf("cli context not initialized")
	}
	return cliCtx, nil
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
