// Package aggregate collects every profile under a folder tree into one table.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"ProfileAggregator/pkg/config"
	"ProfileAggregator/pkg/nvprof"
)

// ErrRootNotFound is returned when the profile folder does not exist.
var ErrRootNotFound = errors.New("folder does not exist")

// Collector walks <ProfilesDir>/<Folder>/<model>/<file> and flattens every
// profile it finds.
type Collector struct {
	cfg    *config.Config
	opts   nvprof.Options
	logger *zap.Logger
}

// Result summarizes a completed run.
type Result struct {
	Path     string
	Rows     int
	Columns  int
	Duration time.Duration
}

// NewCollector creates a collector. A nil logger disables logging.
func NewCollector(cfg *config.Config, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{
		cfg:    cfg,
		opts:   cfg.Options(),
		logger: logger.Named("aggregate"),
	}
}

// Run collects every profile and writes the table to the configured output.
// Nothing is written when any profile fails.
func (c *Collector) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	table, err := c.Collect(ctx)
	if err != nil {
		return nil, err
	}

	path := c.cfg.OutputPath()
	if err := table.Save(path); err != nil {
		return nil, fmt.Errorf("failed to save %s: %w", path, err)
	}

	res := &Result{
		Path:     path,
		Rows:     table.Len(),
		Columns:  len(table.Columns()),
		Duration: time.Since(start),
	}
	c.logger.Info("Aggregated profiles",
		zap.String("output", res.Path),
		zap.Int("rows", res.Rows),
		zap.Int("columns", res.Columns),
		zap.Duration("duration", res.Duration))
	return res, nil
}

// Collect builds the table in memory. Subfolders of the root name the
// model; every non-directory entry inside one is parsed as a profile.
// Entries directly under the root are ignored.
func (c *Collector) Collect(ctx context.Context) (*Table, error) {
	root := c.cfg.Root()
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRootNotFound, root)
		}
		return nil, fmt.Errorf("failed to access %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	models, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", root, err)
	}

	c.logger.Info("Collecting profiles", zap.String("root", root), zap.Int("gpu", c.cfg.GPU))

	table := NewTable()
	for _, m := range models {
		if !isDir(root, m) {
			continue
		}
		if err := c.collectModel(ctx, table, filepath.Join(root, m.Name()), m.Name()); err != nil {
			return nil, err
		}
	}
	return table, nil
}

func (c *Collector) collectModel(ctx context.Context, table *Table, dir, model string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", dir, err)
	}

	for _, e := range entries {
		if isDir(dir, e) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		path := filepath.Join(dir, e.Name())
		rec, err := nvprof.ParseProfile(nvprof.File(path), c.cfg.GPU, c.opts)
		if err != nil {
			return err
		}
		table.Append(e.Name(), model, rec)
		c.logger.Debug("Parsed profile",
			zap.String("model", model),
			zap.String("file", e.Name()),
			zap.Int("fields", rec.Len()))
	}
	return nil
}

// isDir reports whether the entry in dir is a directory, following symlinks.
func isDir(dir string, e fs.DirEntry) bool {
	if e.Type()&fs.ModeSymlink == 0 {
		return e.IsDir()
	}
	info, err := os.Stat(filepath.Join(dir, e.Name()))
	return err == nil && info.IsDir()
}
