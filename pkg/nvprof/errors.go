package nvprof

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingSource is returned when neither a path nor the example flag is given.
	ErrMissingSource = errors.New("csv file must be provided if example is false")
	// ErrProfileNotFound is returned when the resolved profile path does not exist.
	ErrProfileNotFound = errors.New("profile does not exist")
	// ErrSectionNotFound is returned when a profile has no activity or signal table.
	ErrSectionNotFound = errors.New("section not found")
	// ErrMalformedProfile is returned when a section row cannot be decoded.
	ErrMalformedProfile = errors.New("malformed profile")
	// ErrInvalidGPU is returned for a negative GPU index.
	ErrInvalidGPU = errors.New("gpu index must be non-negative")
	// ErrGPUOutOfRange is returned when the signal table holds no block for the GPU.
	ErrGPUOutOfRange = errors.New("gpu index out of range")
)

// ProfileError records the failing operation and the profile it touched.
type ProfileError struct {
	Op   string
	Path string
	Err  error
}

// Error implements the error interface.
func (e *ProfileError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("nvprof: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("nvprof: %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the wrapped error for errors.Is/As compatibility.
func (e *ProfileError) Unwrap() error {
	return e.Err
}

func wrap(op, path string, err error) error {
	return &ProfileError{Op: op, Path: path, Err: err}
}
