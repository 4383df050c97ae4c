package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"ProfileAggregator/pkg/aggregate"
	"ProfileAggregator/pkg/logging"
)

// NewAggregateCmd creates the aggregate subcommand.
func NewAggregateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "aggregate [folder]",
		Aliases: []string{"agg"},
		Short:   "Combine every profile under a folder into one table",
		Long: `Parse every profile under <profiles-dir>/<folder>. Each subfolder names a
model architecture and each file inside it is one nvprof CSV profile.
The combined table gets one row per profile, with "file" and "model"
columns first, and is written to <profiles-dir>/<folder>/<output>.

Any profile that fails to parse aborts the run; nothing is written.

Example:
  profagg aggregate debug_profiles
  profagg aggregate debug_profiles --gpu 1 -o aggregated.parquet
  profagg aggregate debug_profiles --legacy -o aggregated.csv.zst`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAggregate,
	}

	Cfg.AddInputFlags(cmd)
	Cfg.AddLayoutFlags(cmd)
	Cfg.AddOutputFlags(cmd)

	return cmd
}

func runAggregate(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		Cfg.Folder = args[0]
	}
	Cfg.ApplyDefaults()
	if err := Cfg.Validate(); err != nil {
		return err
	}

	res, err := aggregate.NewCollector(Cfg, logging.L()).Run(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows x %d columns to %s\n", res.Rows, res.Columns, res.Path)
	return nil
}
