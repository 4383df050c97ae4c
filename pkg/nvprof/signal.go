package nvprof

import (
	"fmt"
	"strings"
)

// signalColumn is the name given to the unnamed signal-label column.
const signalColumn = "Signal"

// Signal is one row of the system profiling table.
type Signal struct {
	Signal string  `csv:"Signal"`
	Device string  `csv:"Device"`
	Count  float64 `csv:"Count"`
	Avg    float64 `csv:"Avg"`
	Min    float64 `csv:"Min"`
	Max    float64 `csv:"Max"`
}

// SignalAttributes lists the flattened signal attributes in output order.
var SignalAttributes = []string{"avg", "min", "max"}

func (s Signal) values() []float64 {
	return []float64{s.Avg, s.Min, s.Max}
}

// NormalizeSignalName lowercases name and replaces spaces with underscores.
func NormalizeSignalName(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}

// FlattenSignals pivots signal rows into one record keyed by "{attribute}_{signal}".
func FlattenSignals(signals []Signal) *Record {
	rec := NewRecord()
	for _, s := range signals {
		name := NormalizeSignalName(s.Signal)
		for i, v := range s.values() {
			rec.Set(fieldName(SignalAttributes[i], name), v)
		}
	}
	return rec
}

// selectGPU returns the contiguous block of per-GPU signal rows for gpu.
func selectGPU(signals []Signal, gpu, perGPU int) ([]Signal, error) {
	start := gpu * perGPU
	if start >= len(signals) {
		return nil, fmt.Errorf("%w: gpu %d needs more than %d signal rows, found %d", ErrGPUOutOfRange, gpu, start, len(signals))
	}
	end := start + perGPU
	if end > len(signals) {
		end = len(signals)
	}
	return signals[start:end], nil
}

// ParseSignals reads the system signal block of one GPU and flattens it.
func ParseSignals(src Source, gpu int, opts Options) (*Record, error) {
	if gpu < 0 {
		return nil, wrap("signals", src.Path, fmt.Errorf("%w: %d", ErrInvalidGPU, gpu))
	}
	p, err := Open(src)
	if err != nil {
		return nil, err
	}
	signals, err := p.Signals(gpu, opts)
	if err != nil {
		return nil, err
	}
	return FlattenSignals(signals), nil
}
