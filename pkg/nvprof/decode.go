package nvprof

import (
	"errors"
	"fmt"
	"io"

	"github.com/jszwec/csvutil"
)

// decodeRows decodes every section row into a T using the given header.
func decodeRows[T any](path string, header []string, rows []line) ([]T, error) {
	reader := &sliceReader{rows: rows, width: len(header)}
	dec, err := csvutil.NewDecoder(reader, header...)
	if err != nil {
		return nil, wrap("decode", path, fmt.Errorf("%w: %v", ErrMalformedProfile, err))
	}
	// nvprof leaves unreported cells empty; they decode as NaN, not zero.
	dec.Map = func(field, _ string, v interface{}) string {
		if _, ok := v.(float64); ok && field == "" {
			return "NaN"
		}
		return field
	}

	out := make([]T, 0, len(rows))
	for {
		var v T
		err := dec.Decode(&v)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, wrap("decode", path, fmt.Errorf("%w: line %d: %v", ErrMalformedProfile, reader.lineNum(), err))
		}
		out = append(out, v)
	}
	return out, nil
}
