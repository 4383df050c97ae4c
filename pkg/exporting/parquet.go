package exporting

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"sync"

	"github.com/parquet-go/parquet-go"

	"ProfileAggregator/pkg/utils"
)

const ParquetBatchSize = 1000

func init() {
	Register(&ParquetFormat{})
}

// ParquetFormat handles Parquet files.
type ParquetFormat struct{}

func (f *ParquetFormat) Name() string         { return "parquet" }
func (f *ParquetFormat) Extensions() []string { return []string{".parquet"} }
func (f *ParquetFormat) Reader() Reader       { return &ParquetReader{} }
func (f *ParquetFormat) Writer() Writer       { return &ParquetWriter{} }

// ParquetReader reads Parquet files.
type ParquetReader struct {
	pfile   *parquet.File
	columns []string
}

func (r *ParquetReader) Open(in io.Reader) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	pf, err := parquet.OpenFile(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("failed to open parquet file: %w", err)
	}
	r.pfile = pf

	for _, f := range pf.Schema().Fields() {
		r.columns = append(r.columns, f.Name())
	}
	return nil
}

func (r *ParquetReader) Read() ([]Record, error) {
	if r.pfile == nil {
		return nil, fmt.Errorf("reader not initialized")
	}

	records := make([]Record, 0, r.pfile.NumRows())
	rowBuf := make([]parquet.Row, 100)

	for _, rg := range r.pfile.RowGroups() {
		rows := rg.Rows()

		for {
			n, err := rows.ReadRows(rowBuf)
			for i := 0; i < n; i++ {
				record := make(Record, len(r.columns))
				for _, val := range rowBuf[i] {
					col := val.Column()
					if col < 0 || col >= len(r.columns) || val.IsNull() {
						continue
					}
					record[r.columns[col]] = parquetValueToGo(val)
				}
				records = append(records, record)
			}

			if err != nil {
				if !errors.Is(err, io.EOF) {
					rows.Close()
					return nil, fmt.Errorf("failed to read rows: %w", err)
				}
				break
			}
			if n == 0 {
				break
			}
		}
		rows.Close()
	}

	return records, nil
}

func parquetValueToGo(v parquet.Value) interface{} {
	switch v.Kind() {
	case parquet.Boolean:
		return v.Boolean()
	case parquet.Int32:
		return int64(v.Int32())
	case parquet.Int64:
		return v.Int64()
	case parquet.Float:
		return float64(v.Float())
	case parquet.Double:
		return v.Double()
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return string(v.ByteArray())
	default:
		return v.String()
	}
}

// Columns returns the schema field names.
func (r *ParquetReader) Columns() []string {
	return r.columns
}

func (r *ParquetReader) Close() error {
	return nil
}

type columnKind int

const (
	kindString columnKind = iota
	kindInt64
	kindDouble
	kindBool
)

// ParquetWriter writes Parquet files using the Row API. Records are held
// until the first Flush or Close so every column's type is inferred from
// the first record that sets it, however late that record comes. Rows are
// written in groups of ParquetBatchSize. Parquet stores the columns sorted
// by name.
type ParquetWriter struct {
	out        io.Writer
	writer     *parquet.Writer
	declared   []string
	columns    []string
	kinds      []columnKind
	schemaInit bool
	pending    []Record
	mu         sync.Mutex
}

func (w *ParquetWriter) Init(out io.Writer, columns []string) error {
	w.out = out
	w.declared = columns
	w.pending = nil
	return nil
}

func (w *ParquetWriter) initSchema() error {
	names := w.declared
	if names == nil {
		names = sortedKeys(w.pending[0])
	}
	w.columns = make([]string, len(names))
	copy(w.columns, names)
	sort.Strings(w.columns)

	group := make(parquet.Group)
	w.kinds = make([]columnKind, len(w.columns))
	for i, name := range w.columns {
		w.kinds[i] = w.inferKind(name)
		group[name] = kindToNode(w.kinds[i])
	}

	schema := parquet.NewSchema("record", group)
	w.writer = parquet.NewWriter(w.out, schema,
		parquet.Compression(&parquet.Snappy),
	)
	w.schemaInit = true
	return nil
}

func (w *ParquetWriter) inferKind(name string) columnKind {
	for _, r := range w.pending {
		switch r[name].(type) {
		case nil:
			continue
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			return kindInt64
		case float32, float64:
			return kindDouble
		case bool:
			return kindBool
		default:
			return kindString
		}
	}
	return kindString
}

func kindToNode(k columnKind) parquet.Node {
	switch k {
	case kindInt64:
		return parquet.Optional(parquet.Int(64))
	case kindDouble:
		return parquet.Optional(parquet.Leaf(parquet.DoubleType))
	case kindBool:
		return parquet.Optional(parquet.Leaf(parquet.BooleanType))
	default:
		return parquet.Optional(parquet.String())
	}
}

func (w *ParquetWriter) recordToRow(record Record) parquet.Row {
	row := make(parquet.Row, len(w.columns))
	for i, name := range w.columns {
		row[i] = toParquetValue(record[name], w.kinds[i], i)
	}
	return row
}

// toParquetValue coerces val to the column's kind. Values that cannot be
// coerced are written as null.
func toParquetValue(val interface{}, kind columnKind, columnIndex int) parquet.Value {
	null := parquet.NullValue().Level(0, 0, columnIndex)
	if val == nil {
		return null
	}
	switch kind {
	case kindInt64:
		if n, ok := utils.ToInt64Ok(val); ok {
			return parquet.Int64Value(n).Level(0, 1, columnIndex)
		}
	case kindDouble:
		if f, ok := utils.ToFloat64Ok(val); ok && !math.IsNaN(f) {
			return parquet.DoubleValue(f).Level(0, 1, columnIndex)
		}
	case kindBool:
		if b, ok := utils.ToBoolOk(val); ok {
			return parquet.BooleanValue(b).Level(0, 1, columnIndex)
		}
	default:
		return parquet.ByteArrayValue([]byte(utils.ToString(val))).Level(0, 1, columnIndex)
	}
	return null
}

func (w *ParquetWriter) Write(record Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending = append(w.pending, record)
	return nil
}

func (w *ParquetWriter) WriteBatch(records []Record) error {
	for i, r := range records {
		if err := w.Write(r); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	return nil
}

func (w *ParquetWriter) flushPending() error {
	if len(w.pending) == 0 {
		return nil
	}
	if !w.schemaInit {
		if err := w.initSchema(); err != nil {
			return err
		}
	}

	for start := 0; start < len(w.pending); start += ParquetBatchSize {
		end := min(start+ParquetBatchSize, len(w.pending))
		rows := make([]parquet.Row, 0, end-start)
		for _, r := range w.pending[start:end] {
			rows = append(rows, w.recordToRow(r))
		}
		if _, err := w.writer.WriteRows(rows); err != nil {
			return fmt.Errorf("failed to write parquet rows: %w", err)
		}
	}

	w.pending = w.pending[:0]
	return nil
}

func (w *ParquetWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.flushPending(); err != nil {
		return err
	}

	if w.writer != nil {
		return w.writer.Flush()
	}
	return nil
}

// Close writes the footer. An empty table with declared columns still
// produces a valid file with that schema.
func (w *ParquetWriter) Close() error {
	if err := w.Flush(); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.schemaInit {
		if w.declared == nil {
			return nil
		}
		if err := w.initSchema(); err != nil {
			return err
		}
	}
	return w.writer.Close()
}
