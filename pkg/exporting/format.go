// Package exporting provides unified read/write interfaces for table formats.
package exporting

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Record is a generic map representing a single table row.
type Record = map[string]interface{}

// Format defines the interface for a data format.
type Format interface {
	Name() string
	Extensions() []string
	Reader() Reader
	Writer() Writer
}

// Reader reads records from a stream.
type Reader interface {
	Open(r io.Reader) error
	Read() ([]Record, error)
	Columns() []string
	Close() error
}

// Writer writes records to a stream. columns fixes the column set and
// order; a nil columns takes the sorted keys of the first record.
type Writer interface {
	Init(w io.Writer, columns []string) error
	Write(record Record) error
	WriteBatch(records []Record) error
	Flush() error
	Close() error
}

// Registry management
var (
	registry    = make(map[string]Format)
	extRegistry = make(map[string]Format)
)

// Register adds a format to the registry.
func Register(f Format) {
	name := strings.ToLower(f.Name())
	registry[name] = f
	for _, ext := range f.Extensions() {
		extRegistry[strings.ToLower(ext)] = f
	}
}

// Get returns a format by name.
func Get(name string) (Format, bool) {
	f, ok := registry[strings.ToLower(name)]
	return f, ok
}

// GetByExtension returns a format by file extension.
func GetByExtension(ext string) (Format, bool) {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	f, ok := extRegistry[ext]
	return f, ok
}

// GetByPath returns a format based on the file's extension, and whether
// the file carries the zstd suffix.
func GetByPath(path string) (Format, bool, bool) {
	base, compressed := SplitCompression(path)
	f, ok := GetByExtension(filepath.Ext(base))
	return f, compressed, ok
}

// List returns all registered format names, sorted.
func List() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadRecords loads all records from a file and returns them with the
// file's columns.
func LoadRecords(path string) ([]Record, []string, error) {
	f, compressed, ok := GetByPath(path)
	if !ok {
		return nil, nil, fmt.Errorf("unsupported format for file: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}
	if compressed {
		if data, err = decompress(data); err != nil {
			return nil, nil, err
		}
	}

	reader := f.Reader()
	if err := reader.Open(bytes.NewReader(data)); err != nil {
		return nil, nil, fmt.Errorf("failed to open reader: %w", err)
	}
	defer reader.Close()

	records, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read records: %w", err)
	}

	return records, reader.Columns(), nil
}

// SaveRecords writes records to path atomically. Nothing is left at path
// when writing fails.
func SaveRecords(path string, columns []string, records []Record) error {
	exp, err := NewExporter(path, columns)
	if err != nil {
		return err
	}

	if err := exp.WriteBatch(records); err != nil {
		exp.Abort()
		return fmt.Errorf("failed to write records: %w", err)
	}

	return exp.Close()
}

func sortedKeys(record Record) []string {
	keys := make([]string, 0, len(record))
	for k := range record {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
