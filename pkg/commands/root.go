// Package commands provides CLI command implementations.
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ProfileAggregator/pkg/config"
	"ProfileAggregator/pkg/logging"
)

// Cfg is the shared configuration instance.
var Cfg = config.Load()

// NewRootCmd creates the root command with all subcommands.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "profagg",
		Short: "Flatten and aggregate nvprof CSV profiles",
		Long: `profagg turns aggregate-mode nvprof CSV reports into one wide row per
profile and collects every profile under a folder into a single table.

Commands:
  aggregate  Combine ./profiles/<folder>/<model>/<file> into one table
  parse      Flatten a single profile and print it as JSON
  inspect    Summarize an aggregated table
  formats    List the supported output formats`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logging.Init(Cfg.LogLevel, Cfg.Debug)
		},
	}

	Cfg.AddLogFlags(root)

	root.AddCommand(
		NewAggregateCmd(),
		NewParseCmd(),
		NewInspectCmd(),
		NewFormatsCmd(),
	)

	return root
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := NewRootCmd().ExecuteContext(ctx)
	if err != nil {
		logging.L().Error("Command failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	logging.Sync()
	if err != nil {
		stop()
		os.Exit(1)
	}
}
