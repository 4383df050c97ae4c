package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"ProfileAggregator/pkg/exporting"
)

var inspectColumns bool

// NewInspectCmd creates the inspect subcommand.
func NewInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <table-file>",
		Short: "Summarize an aggregated table",
		Long: `Load an aggregated table and print its row count, column count and the
number of rows per model.

Supported input formats: csv, tsv, jsonl, parquet (optionally .zst)

Example:
  profagg inspect profiles/debug_profiles/aggregated.csv
  profagg inspect aggregated.parquet --columns`,
		Args: cobra.ExactArgs(1),
		RunE: runInspect,
	}

	cmd.Flags().BoolVar(&inspectColumns, "columns", false, "List every column name")

	return cmd
}

func runInspect(cmd *cobra.Command, args []string) error {
	records, columns, err := exporting.LoadRecords(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "rows: %d\ncolumns: %d\n", len(records), len(columns))

	counts := make(map[string]int)
	var models []string
	for _, r := range records {
		m, _ := r["model"].(string)
		if _, ok := counts[m]; !ok {
			models = append(models, m)
		}
		counts[m]++
	}
	for _, m := range models {
		fmt.Fprintf(out, "model %s: %d\n", m, counts[m])
	}

	if inspectColumns {
		for _, c := range columns {
			fmt.Fprintln(out, c)
		}
	}
	return nil
}
