package config

import (
	"github.com/spf13/cobra"
)

// AddInputFlags adds profile location flags to a command.
func (c *Config) AddInputFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&c.ProfilesDir, "profiles-dir", c.ProfilesDir, "Directory holding profile folders")
	flags.IntVar(&c.GPU, "gpu", c.GPU, "Index of the GPU the profiles were run on")
}

// AddLayoutFlags adds section layout flags to a command.
func (c *Config) AddLayoutFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.BoolVar(&c.Legacy, "legacy", c.Legacy, "Use the fixed aggregate-mode row offsets instead of header scanning")
	flags.IntVar(&c.ActivitySkip, "activity-skip", c.ActivitySkip, "Lines before the activity header, blank lines included (positional mode)")
	flags.IntVar(&c.ActivityRows, "activity-rows", c.ActivityRows, "Activity records after the header, 0 to scan")
	flags.IntVar(&c.SignalSkip, "signal-skip", c.SignalSkip, "Lines before the system signal header, blank lines included (positional mode)")
	flags.IntVar(&c.SignalRows, "signal-rows", c.SignalRows, "Signal records per GPU after the header, 0 to scan")
	flags.IntVar(&c.SignalsPerGPU, "signals-per-gpu", c.SignalsPerGPU, "Signal rows recorded for each GPU")
}

// AddOutputFlags adds output flags to a command.
func (c *Config) AddOutputFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&c.SaveFilename, "output", "o", c.SaveFilename, "Output filename inside the folder (csv, tsv, jsonl, parquet, optional .zst)")
}

// AddLogFlags adds logging flags to a command.
func (c *Config) AddLogFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level (debug, info, warn, error)")
	flags.BoolVar(&c.Debug, "debug", c.Debug, "Human-readable development logging")
}
