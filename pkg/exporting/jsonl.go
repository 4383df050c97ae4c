package exporting

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sync"
)

const (
	DefaultBufferSize = 64 * 1024
	MaxLineSize       = 10 * 1024 * 1024
)

func init() {
	Register(&JSONLFormat{})
}

// JSONLFormat handles JSON Lines format.
type JSONLFormat struct{}

func (f *JSONLFormat) Name() string         { return "jsonl" }
func (f *JSONLFormat) Extensions() []string { return []string{".jsonl"} }
func (f *JSONLFormat) Reader() Reader       { return &JSONLReader{} }
func (f *JSONLFormat) Writer() Writer       { return &JSONLWriter{} }

// JSONLReader reads JSONL tables.
type JSONLReader struct {
	scanner *bufio.Scanner
	columns []string
}

func (r *JSONLReader) Open(in io.Reader) error {
	r.scanner = bufio.NewScanner(in)
	r.scanner.Buffer(make([]byte, DefaultBufferSize), MaxLineSize)
	return nil
}

func (r *JSONLReader) Read() ([]Record, error) {
	var records []Record
	seen := make(map[string]bool)
	lineNum := 0
	for r.scanner.Scan() {
		lineNum++
		line := r.scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		dec := json.NewDecoder(bytes.NewReader(line))
		dec.UseNumber()
		var raw map[string]interface{}
		if err := dec.Decode(&raw); err != nil {
			return records, fmt.Errorf("line %d: %w", lineNum, err)
		}

		record := make(Record, len(raw))
		for k, v := range raw {
			if n, ok := v.(json.Number); ok {
				if i, err := n.Int64(); err == nil {
					v = i
				} else if f, err := n.Float64(); err == nil {
					v = f
				}
			}
			record[k] = v
		}
		for _, k := range sortedKeys(record) {
			if !seen[k] {
				seen[k] = true
				r.columns = append(r.columns, k)
			}
		}
		records = append(records, record)
	}

	if err := r.scanner.Err(); err != nil {
		return records, fmt.Errorf("scanner error: %w", err)
	}

	return records, nil
}

// Columns returns the keys seen while reading. Keys new to a record are
// appended in sorted order.
func (r *JSONLReader) Columns() []string {
	return r.columns
}

func (r *JSONLReader) Close() error {
	return nil
}

// JSONLWriter writes JSONL tables. Keys absent from a record are omitted.
type JSONLWriter struct {
	writer  *bufio.Writer
	columns []string
	mu      sync.Mutex
}

func (w *JSONLWriter) Init(out io.Writer, columns []string) error {
	w.writer = bufio.NewWriterSize(out, DefaultBufferSize)
	w.columns = columns
	return nil
}

func (w *JSONLWriter) Write(record Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	data, err := w.marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	if _, err := w.writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}

	if err := w.writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

// marshal encodes record with keys in column order, or sorted when no
// columns were given. NaN and infinite floats are written as null.
func (w *JSONLWriter) marshal(record Record) ([]byte, error) {
	columns := w.columns
	if columns == nil {
		columns = sortedKeys(record)
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for _, k := range columns {
		v, ok := record[k]
		if !ok {
			continue
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := jsonValue(v)
		if err != nil {
			return nil, err
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func jsonValue(v interface{}) ([]byte, error) {
	switch f := v.(type) {
	case float64:
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return []byte("null"), nil
		}
	case float32:
		if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
			return []byte("null"), nil
		}
	}
	return json.Marshal(v)
}

func (w *JSONLWriter) WriteBatch(records []Record) error {
	for i, r := range records {
		if err := w.Write(r); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	return nil
}

func (w *JSONLWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.writer != nil {
		return w.writer.Flush()
	}
	return nil
}

func (w *JSONLWriter) Close() error {
	return w.Flush()
}
