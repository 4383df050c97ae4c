package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ProfileAggregator/pkg/nvprof"
)

// Sections accepted by --section.
const (
	SectionActivity = "activity"
	SectionSignals  = "signals"
	SectionAll      = "all"
)

var (
	parseExample bool
	parseSection string
	parseOutput  string
)

// NewParseCmd creates the parse subcommand.
func NewParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "parse [file]",
		Aliases: []string{"p"},
		Short:   "Flatten one profile and print it as JSON",
		Long: `Flatten a single nvprof CSV profile into one record and print it as JSON,
fields in output order.

Sections:
  activity  GPU activity and API call statistics
  signals   System signals (clocks, temperature, power, fan) of --gpu
  all       Both, activity fields first (default)

Example:
  profagg parse profiles/debug_profiles/resnet/resnet750691.csv
  profagg parse --example --section signals --gpu 1`,
		Args: cobra.MaximumNArgs(1),
		RunE: runParse,
	}

	cmd.Flags().BoolVar(&parseExample, "example", false, "Parse the bundled example profile")
	cmd.Flags().StringVar(&parseSection, "section", SectionAll, "Section to flatten (activity, signals, all)")
	cmd.Flags().StringVarP(&parseOutput, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().IntVar(&Cfg.GPU, "gpu", Cfg.GPU, "Index of the GPU the profile was run on")
	Cfg.AddLayoutFlags(cmd)

	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	src := nvprof.Source{Example: parseExample}
	if len(args) == 1 {
		src.Path = args[0]
	}

	Cfg.ApplyDefaults()
	if err := Cfg.ValidateLayout(); err != nil {
		return err
	}
	opts := Cfg.Options()

	var (
		rec *nvprof.Record
		err error
	)
	switch parseSection {
	case SectionActivity:
		rec, err = nvprof.ParseActivities(src, opts)
	case SectionSignals:
		rec, err = nvprof.ParseSignals(src, Cfg.GPU, opts)
	case SectionAll:
		rec, err = nvprof.ParseProfile(src, Cfg.GPU, opts)
	default:
		return fmt.Errorf("invalid section: %s (valid: %s, %s, %s)", parseSection, SectionActivity, SectionSignals, SectionAll)
	}
	if err != nil {
		return err
	}

	return writeParseOutput(cmd, rec)
}

func writeParseOutput(cmd *cobra.Command, rec *nvprof.Record) error {
	output, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if parseOutput == "" {
		fmt.Fprintln(cmd.OutOrStdout(), string(output))
		return nil
	}

	if err := os.WriteFile(parseOutput, output, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Written to: %s\n", parseOutput)
	return nil
}
