package nvprof

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Legacy positional layout of an aggregate-mode nvprof CSV.
const (
	LegacyActivitySkip   = 3
	LegacyActivityRows   = 55
	LegacySignalSkip     = 61
	LegacySignalRows     = 5
	DefaultSignalsPerGPU = 5
)

// Window pins a section to a fixed position. Skip counts physical lines,
// blank ones included, before the section header; the header is the first
// record after them. Rows counts data records after the header.
// The zero Window means the section is located by its header.
type Window struct {
	Skip int
	Rows int
}

// Positional reports whether the window uses a fixed offset.
func (w Window) Positional() bool {
	return w.Rows > 0
}

// Options controls how sections are located.
type Options struct {
	Activity      Window
	Signals       Window
	SignalsPerGPU int
}

// DefaultOptions locates both sections by scanning for their headers.
func DefaultOptions() Options {
	return Options{SignalsPerGPU: DefaultSignalsPerGPU}
}

// LegacyOptions reproduces the fixed offsets of the original aggregate layout.
func LegacyOptions() Options {
	return Options{
		Activity:      Window{Skip: LegacyActivitySkip, Rows: LegacyActivityRows},
		Signals:       Window{Skip: LegacySignalSkip, Rows: LegacySignalRows},
		SignalsPerGPU: DefaultSignalsPerGPU,
	}
}

func (o Options) signalsPerGPU() int {
	if o.SignalsPerGPU <= 0 {
		return DefaultSignalsPerGPU
	}
	return o.SignalsPerGPU
}

var (
	activityHeader = []string{"Type", "Time(%)", "Time", "Calls", "Avg", "Min", "Max", "Name"}
	signalHeader   = []string{"Device", "Count", "Avg", "Min", "Max"}
)

// line is one non-blank CSV record with its 1-based source line.
type line struct {
	cells []string
	num   int
}

// section is a located table: a header and its data records.
type section struct {
	header []string
	rows   []line
	start  int
}

func readLines(r io.Reader) ([]line, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = false

	var lines []line
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		num, _ := reader.FieldPos(0)
		cells := make([]string, len(rec))
		for i, c := range rec {
			cells[i] = strings.TrimSpace(c)
		}
		lines = append(lines, line{cells: cells, num: num})
	}
	return lines, nil
}

func hasColumns(cells, required []string) bool {
	seen := make(map[string]bool, len(cells))
	for _, c := range cells {
		seen[c] = true
	}
	for _, name := range required {
		if !seen[name] {
			return false
		}
	}
	return true
}

func isHeader(cells []string) bool {
	return hasColumns(cells, activityHeader) || hasColumns(cells, signalHeader)
}

func isBanner(cells []string) bool {
	return len(cells) > 0 && strings.HasPrefix(cells[0], "==")
}

// locate finds the section whose header holds all required columns.
// A positional window reads exactly want records after the header at w.Skip.
func locate(lines []line, required []string, w Window, want int) (*section, error) {
	if w.Positional() {
		if w.Skip < 0 {
			return nil, fmt.Errorf("%w: skip must not be negative, got %d", ErrSectionNotFound, w.Skip)
		}
		at := -1
		for i, l := range lines {
			if l.num > w.Skip {
				at = i
				break
			}
		}
		if at < 0 {
			return nil, fmt.Errorf("%w: no record after line %d", ErrSectionNotFound, w.Skip)
		}
		head := lines[at]
		if !hasColumns(head.cells, required) {
			return nil, fmt.Errorf("%w: line %d is not a %s header", ErrSectionNotFound, head.num, strings.Join(required, ","))
		}
		end := at + 1 + want
		if end > len(lines) {
			end = len(lines)
		}
		return &section{header: head.cells, rows: lines[at+1 : end], start: head.num}, nil
	}

	for i, l := range lines {
		if !hasColumns(l.cells, required) {
			continue
		}
		s := &section{header: l.cells, start: l.num}
		for _, next := range lines[i+1:] {
			if len(next.cells) < len(l.cells) || isBanner(next.cells) || isHeader(next.cells) {
				break
			}
			s.rows = append(s.rows, next)
		}
		return s, nil
	}
	return nil, fmt.Errorf("%w: no %s header", ErrSectionNotFound, strings.Join(required, ","))
}

// sliceReader feeds already-split records to a csvutil decoder.
type sliceReader struct {
	rows  []line
	width int
	pos   int
}

func (r *sliceReader) Read() ([]string, error) {
	if r.pos >= len(r.rows) {
		return nil, io.EOF
	}
	cells := r.rows[r.pos].cells
	r.pos++
	if len(cells) > r.width {
		cells = cells[:r.width]
	}
	return cells, nil
}

// lineNum returns the source line of the record last returned by Read.
func (r *sliceReader) lineNum() int {
	if r.pos == 0 || r.pos > len(r.rows) {
		return 0
	}
	return r.rows[r.pos-1].num
}
