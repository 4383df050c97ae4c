// Package nvprof parses aggregate-mode nvprof CSV reports and flattens their
// activity and system signal tables into single records.
package nvprof

import (
	"fmt"
	"io"
	"os"
)

// Profile holds the non-blank records of one nvprof CSV report.
type Profile struct {
	path  string
	lines []line
}

// Open resolves src and reads the whole report.
func Open(src Source) (*Profile, error) {
	path, err := src.Resolve()
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, wrap("open", path, err)
	}
	defer f.Close()
	return Read(f, path)
}

// Read parses a report from r. name is used in errors only.
func Read(r io.Reader, name string) (*Profile, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, wrap("read", name, fmt.Errorf("%w: %v", ErrMalformedProfile, err))
	}
	return &Profile{path: name, lines: lines}, nil
}

// Path returns the path the profile was read from.
func (p *Profile) Path() string {
	return p.path
}

// Activities returns the activity rows, without the leading units row.
func (p *Profile) Activities(opts Options) ([]Activity, error) {
	sec, err := locate(p.lines, activityHeader, opts.Activity, opts.Activity.Rows)
	if err != nil {
		return nil, wrap("activities", p.path, err)
	}
	rows := sec.rows
	if len(rows) > 0 {
		rows = rows[1:]
	}
	return decodeRows[Activity](p.path, sec.header, rows)
}

// Signals returns the signal rows recorded for gpu.
func (p *Profile) Signals(gpu int, opts Options) ([]Signal, error) {
	if gpu < 0 {
		return nil, wrap("signals", p.path, fmt.Errorf("%w: %d", ErrInvalidGPU, gpu))
	}
	sec, err := locate(p.lines, signalHeader, opts.Signals, opts.Signals.Rows*(gpu+1))
	if err != nil {
		return nil, wrap("signals", p.path, err)
	}

	header := make([]string, len(sec.header))
	copy(header, sec.header)
	named := false
	for i, h := range header {
		if h == "" && !named {
			header[i] = signalColumn
			named = true
		}
	}
	if !named {
		return nil, wrap("signals", p.path, fmt.Errorf("%w: line %d: no signal name column", ErrMalformedProfile, sec.start))
	}

	signals, err := decodeRows[Signal](p.path, header, sec.rows)
	if err != nil {
		return nil, err
	}
	selected, err := selectGPU(signals, gpu, opts.signalsPerGPU())
	if err != nil {
		return nil, wrap("signals", p.path, err)
	}
	return selected, nil
}

// Flatten combines the activity record and the gpu's signal record,
// activity fields first.
func (p *Profile) Flatten(gpu int, opts Options) (*Record, error) {
	activities, err := p.Activities(opts)
	if err != nil {
		return nil, err
	}
	signals, err := p.Signals(gpu, opts)
	if err != nil {
		return nil, err
	}
	rec := FlattenActivities(activities)
	rec.Append(FlattenSignals(signals))
	return rec, nil
}

// ParseProfile parses both tables of the profile selected by src.
func ParseProfile(src Source, gpu int, opts Options) (*Record, error) {
	if gpu < 0 {
		return nil, wrap("parse", src.Path, fmt.Errorf("%w: %d", ErrInvalidGPU, gpu))
	}
	p, err := Open(src)
	if err != nil {
		return nil, err
	}
	return p.Flatten(gpu, opts)
}

// ParseReader is ParseProfile for a report that is already open.
func ParseReader(r io.Reader, name string, gpu int, opts Options) (*Record, error) {
	p, err := Read(r, name)
	if err != nil {
		return nil, err
	}
	return p.Flatten(gpu, opts)
}
