package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/geowild/ConserveIQ/internal/infrastructure/datawatch"
)

// analyzeOptions holds the analyze command flags.
type analyzeOptions struct {
	occurrencePath string
	samplePath     string
	kind           string
	pretty         bool
}

func newAnalyzeCommand() *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run an analysis over local input files and print the result",
		Example: `  conserviq analyze --occurrences occ.json --samples dna.json --kind conservation
  conserviq analyze --samples dna.json --kind diversity --pretty`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAnalyze(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.occurrencePath, "occurrences", "", "path to occurrence points JSON file")
	flags.StringVar(&opts.samplePath, "samples", "", "path to genomic samples JSON file")
	flags.StringVar(&opts.kind, "kind", "conservation",
		"analysis kind: conservation | diversity | phylogenetic")
	flags.BoolVar(&opts.pretty, "pretty", false, "indent the JSON output")
	return cmd
}

func runAnalyze(cmd *cobra.Command, opts *analyzeOptions) error {
	cliCtx, err := getCLIContext(cmd)
	if err != nil {
		return err
	}

	eng, err := buildEngine(cliCtx.Config, cliCtx.Logger)
	if err != nil {
		return err
	}

	in, err := datawatch.Load(opts.occurrencePath, opts.samplePath)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if err := eng.Service.SetInputs(ctx, in.Points, in.Samples); err != nil {
		return err
	}

	var result interface{}
	switch opts.kind {
	case "conservation":
		result, err = eng.Service.ConservationAnalysis(ctx)
	case "diversity":
		result, err = eng.Service.DiversityAnalysis(ctx)
	case "phylogenetic":
		result, err = eng.Service.PhylogeneticAnalysis(ctx)
	default:
		return fmt.Errorf("unknown analysis kind %q", opts.kind)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	if opts.pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(result)
}
