package aggregate

import (
	"ProfileAggregator/pkg/exporting"
	"ProfileAggregator/pkg/nvprof"
)

// Identifier columns prepended to every row.
const (
	ColumnFile  = "file"
	ColumnModel = "model"
)

// Table is the combined one-row-per-profile table. Its columns are the
// union of every row's fields in first-seen order, after file and model.
type Table struct {
	columns []string
	seen    map[string]bool
	rows    []exporting.Record
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{
		columns: []string{ColumnFile, ColumnModel},
		seen:    map[string]bool{ColumnFile: true, ColumnModel: true},
	}
}

// Append adds the flattened profile of file, recorded under model.
func (t *Table) Append(file, model string, rec *nvprof.Record) {
	row := make(exporting.Record, rec.Len()+2)
	row[ColumnFile] = file
	row[ColumnModel] = model
	rec.Each(func(key string, v float64) {
		if !t.seen[key] {
			t.seen[key] = true
			t.columns = append(t.columns, key)
		}
		row[key] = v
	})
	t.rows = append(t.rows, row)
}

// Columns returns the column names in output order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Rows returns the table rows. A field absent from a row is missing.
func (t *Table) Rows() []exporting.Record {
	return t.rows
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Save writes the table to path; the format follows the extension.
func (t *Table) Save(path string) error {
	return exporting.SaveRecords(path, t.columns, t.rows)
}
