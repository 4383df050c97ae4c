package exporting

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"ProfileAggregator/pkg/utils"
)

func init() {
	Register(&CSVFormat{})
	Register(&TSVFormat{})
}

// CSVFormat handles CSV files.
type CSVFormat struct{}

func (f *CSVFormat) Name() string         { return "csv" }
func (f *CSVFormat) Extensions() []string { return []string{".csv"} }
func (f *CSVFormat) Reader() Reader       { return &DelimitedReader{delimiter: ','} }
func (f *CSVFormat) Writer() Writer       { return &DelimitedWriter{delimiter: ','} }

// TSVFormat handles TSV files.
type TSVFormat struct{}

func (f *TSVFormat) Name() string         { return "tsv" }
func (f *TSVFormat) Extensions() []string { return []string{".tsv"} }
func (f *TSVFormat) Reader() Reader       { return &DelimitedReader{delimiter: '\t'} }
func (f *TSVFormat) Writer() Writer       { return &DelimitedWriter{delimiter: '\t'} }

// DelimitedReader reads CSV/TSV tables.
type DelimitedReader struct {
	reader    *csv.Reader
	header    []string
	delimiter rune
}

// Open reads the header row.
func (r *DelimitedReader) Open(in io.Reader) error {
	r.reader = csv.NewReader(in)
	r.reader.Comma = r.delimiter
	r.reader.FieldsPerRecord = -1
	r.reader.LazyQuotes = true

	header, err := r.reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}
	r.header = header
	return nil
}

// Read parses all remaining rows. Empty cells are left out of the record.
func (r *DelimitedReader) Read() ([]Record, error) {
	var records []Record

	for {
		row, err := r.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		records = append(records, r.rowToRecord(row))
	}

	return records, nil
}

func (r *DelimitedReader) rowToRecord(row []string) Record {
	record := make(Record)

	for i, val := range row {
		if i >= len(r.header) || val == "" {
			continue
		}
		key := r.header[i]

		if f, err := strconv.ParseFloat(val, 64); err == nil {
			if strings.ContainsAny(val, ".eE") {
				record[key] = f
			} else if i64, err := strconv.ParseInt(val, 10, 64); err == nil {
				record[key] = i64
			} else {
				record[key] = f
			}
		} else if strings.EqualFold(val, "true") {
			record[key] = true
		} else if strings.EqualFold(val, "false") {
			record[key] = false
		} else {
			record[key] = val
		}
	}

	return record
}

// Columns returns the header row.
func (r *DelimitedReader) Columns() []string {
	return r.header
}

// Close is a no-op; the caller owns the stream.
func (r *DelimitedReader) Close() error {
	return nil
}

// DelimitedWriter writes CSV/TSV tables.
type DelimitedWriter struct {
	writer    *csv.Writer
	header    []string
	headerSet bool
	delimiter rune
	mu        sync.Mutex
}

// Init prepares the writer. A non-nil columns is written as the header at once.
func (w *DelimitedWriter) Init(out io.Writer, columns []string) error {
	w.writer = csv.NewWriter(out)
	w.writer.Comma = w.delimiter

	if columns != nil {
		w.header = columns
		if err := w.writer.Write(w.header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		w.headerSet = true
	}
	return nil
}

// Write writes a single record.
func (w *DelimitedWriter) Write(record Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.writeRow(record)
}

// WriteBatch writes multiple records.
func (w *DelimitedWriter) WriteBatch(records []Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i, r := range records {
		if err := w.writeRow(r); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	return nil
}

// writeRow handles the internal writing logic without locking.
func (w *DelimitedWriter) writeRow(record Record) error {
	if !w.headerSet {
		w.header = sortedKeys(record)
		if err := w.writer.Write(w.header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		w.headerSet = true
	}

	row := make([]string, len(w.header))
	for i, key := range w.header {
		if val, ok := record[key]; ok {
			row[i] = utils.FormatValue(val)
		}
	}

	if err := w.writer.Write(row); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}
	return nil
}

// Flush writes any buffered data to the underlying io.Writer.
func (w *DelimitedWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.writer != nil {
		w.writer.Flush()
		return w.writer.Error()
	}
	return nil
}

// Close flushes the buffer.
func (w *DelimitedWriter) Close() error {
	return w.Flush()
}
