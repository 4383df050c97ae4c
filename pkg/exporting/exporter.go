package exporting

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
)

// Exporter writes a table to a temporary file next to path and moves it
// into place on Close.
type Exporter struct {
	path   string
	tmp    string
	file   *os.File
	zw     *zstd.Encoder
	writer Writer
	done   bool
}

// NewExporter creates an exporter for path. The format is chosen from the
// extension; a trailing ".zst" compresses the output.
func NewExporter(path string, columns []string) (*Exporter, error) {
	f, compressed, ok := GetByPath(path)
	if !ok {
		return nil, fmt.Errorf("unsupported format for file: %s", path)
	}

	// Ensure output directory exists
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	tmp := filepath.Join(dir, "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")
	file, err := os.Create(tmp)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	e := &Exporter{path: path, tmp: tmp, file: file}

	var out io.Writer = file
	if compressed {
		if e.zw, err = compressor(file); err != nil {
			e.Abort()
			return nil, err
		}
		out = e.zw
	}

	e.writer = f.Writer()
	if err := e.writer.Init(out, columns); err != nil {
		e.Abort()
		return nil, fmt.Errorf("failed to initialize writer: %w", err)
	}
	return e, nil
}

// WriteBatch writes multiple records.
func (e *Exporter) WriteBatch(records []Record) error {
	return e.writer.WriteBatch(records)
}

// Close finalizes the table and renames it over the output path.
func (e *Exporter) Close() error {
	if e.done {
		return nil
	}
	if err := e.writer.Close(); err != nil {
		e.Abort()
		return fmt.Errorf("failed to close writer: %w", err)
	}
	if e.zw != nil {
		if err := e.zw.Close(); err != nil {
			e.Abort()
			return fmt.Errorf("zstd close failed: %w", err)
		}
	}
	if err := e.file.Sync(); err != nil {
		e.Abort()
		return fmt.Errorf("failed to sync file: %w", err)
	}
	if err := e.file.Close(); err != nil {
		e.Abort()
		return fmt.Errorf("failed to close file: %w", err)
	}
	e.done = true
	if err := os.Rename(e.tmp, e.path); err != nil {
		_ = os.Remove(e.tmp)
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	return nil
}

// Abort discards everything written so far.
func (e *Exporter) Abort() {
	if e.done {
		return
	}
	e.done = true
	if e.zw != nil {
		_ = e.zw.Close()
	}
	_ = e.file.Close()
	_ = os.Remove(e.tmp)
}
