// Package config provides configuration management for the aggregator.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"ProfileAggregator/pkg/exporting"
	"ProfileAggregator/pkg/nvprof"
)

// Config holds all aggregator configuration options.
type Config struct {
	// Input settings
	ProfilesDir string
	Folder      string
	GPU         int

	// Section layout. Zero skip/rows locate sections by header.
	Legacy        bool
	ActivitySkip  int
	ActivityRows  int
	SignalSkip    int
	SignalRows    int
	SignalsPerGPU int

	// Output settings
	SaveFilename string

	// Logging
	LogLevel string
	Debug    bool
}

// Default configuration values.
const (
	DefaultProfilesDir  = "profiles"
	DefaultFolder       = "profiles"
	DefaultSaveFilename = "aggregated.csv"
	DefaultLogLevel     = "info"

	EnvPrefix = "PROFAGG_"
)

// New creates a Config with default values.
func New() *Config {
	return &Config{
		ProfilesDir:   DefaultProfilesDir,
		Folder:        DefaultFolder,
		SaveFilename:  DefaultSaveFilename,
		SignalsPerGPU: nvprof.DefaultSignalsPerGPU,
		LogLevel:      DefaultLogLevel,
	}
}

// Load creates a Config with defaults and PROFAGG_* environment overrides applied.
func Load() *Config {
	c := New()
	c.LoadEnv()
	return c
}

// LoadEnv overrides fields from PROFAGG_* environment variables.
func (c *Config) LoadEnv() {
	c.ProfilesDir = envOrDefault("PROFILES_DIR", c.ProfilesDir)
	c.Folder = envOrDefault("FOLDER", c.Folder)
	c.SaveFilename = envOrDefault("OUTPUT", c.SaveFilename)
	c.GPU = parseInt("GPU", c.GPU)
	c.Legacy = parseBool("LEGACY", c.Legacy)
	c.SignalsPerGPU = parseInt("SIGNALS_PER_GPU", c.SignalsPerGPU)
	c.LogLevel = envOrDefault("LOG_LEVEL", c.LogLevel)
	c.Debug = parseBool("DEBUG", c.Debug)
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.GPU < 0 {
		return fmt.Errorf("gpu index cannot be negative, got %d", c.GPU)
	}
	if c.Folder == "" {
		return fmt.Errorf("folder must not be empty")
	}
	if err := c.ValidateLayout(); err != nil {
		return err
	}
	if _, _, ok := exporting.GetByPath(c.SaveFilename); !ok {
		return fmt.Errorf("invalid output format: %s (valid: %s)", c.SaveFilename, strings.Join(exporting.List(), ", "))
	}
	return nil
}

// ValidateLayout checks only the section layout settings.
func (c *Config) ValidateLayout() error {
	if c.SignalsPerGPU <= 0 {
		return fmt.Errorf("signals per gpu must be positive, got %d", c.SignalsPerGPU)
	}
	for name, v := range map[string]int{
		"activity skip": c.ActivitySkip,
		"activity rows": c.ActivityRows,
		"signal skip":   c.SignalSkip,
		"signal rows":   c.SignalRows,
	} {
		if v < 0 {
			return fmt.Errorf("%s cannot be negative, got %d", name, v)
		}
	}
	return nil
}

// ApplyDefaults fills in any missing values with defaults.
func (c *Config) ApplyDefaults() {
	if c.ProfilesDir == "" {
		c.ProfilesDir = DefaultProfilesDir
	}
	if c.SaveFilename == "" {
		c.SaveFilename = DefaultSaveFilename
	}
	if c.SignalsPerGPU == 0 {
		c.SignalsPerGPU = nvprof.DefaultSignalsPerGPU
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.Legacy {
		if c.ActivityRows == 0 {
			c.ActivitySkip, c.ActivityRows = nvprof.LegacyActivitySkip, nvprof.LegacyActivityRows
		}
		if c.SignalRows == 0 {
			c.SignalSkip, c.SignalRows = nvprof.LegacySignalSkip, nvprof.LegacySignalRows
		}
	}
}

// Options converts the layout settings for the parser.
func (c *Config) Options() nvprof.Options {
	return nvprof.Options{
		Activity:      nvprof.Window{Skip: c.ActivitySkip, Rows: c.ActivityRows},
		Signals:       nvprof.Window{Skip: c.SignalSkip, Rows: c.SignalRows},
		SignalsPerGPU: c.SignalsPerGPU,
	}
}

// Root returns the folder holding the per-model subfolders.
func (c *Config) Root() string {
	return filepath.Join(c.ProfilesDir, c.Folder)
}

// OutputPath returns where the combined table is written.
func (c *Config) OutputPath() string {
	return filepath.Join(c.Root(), c.SaveFilename)
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		return v
	}
	return defaultVal
}

func parseInt(key string, defaultVal int) int {
	v := os.Getenv(EnvPrefix + key)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return n
}

func parseBool(key string, defaultVal bool) bool {
	v := os.Getenv(EnvPrefix + key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}
