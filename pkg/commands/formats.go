package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ProfileAggregator/pkg/exporting"
)

// NewFormatsCmd creates the formats subcommand.
func NewFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the supported output formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range exporting.List() {
				f, _ := exporting.Get(name)
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s (append %s to compress)\n",
					name, strings.Join(f.Extensions(), ", "), exporting.CompressedSuffix)
			}
			return nil
		},
	}
}
