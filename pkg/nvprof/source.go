package nvprof

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ExampleProfile is the bundled sample profile, relative to the working directory.
var ExampleProfile = filepath.Join("debug_profiles", "resnet", "resnet750691.csv")

// Source selects the profile to parse. Example takes priority over Path.
type Source struct {
	Path    string
	Example bool
}

// File returns a Source for path.
func File(path string) Source {
	return Source{Path: path}
}

// Example returns a Source for the bundled sample profile.
func Example() Source {
	return Source{Example: true}
}

// Resolve returns the profile path and checks that it exists.
// No file I/O happens when neither Path nor Example is set.
func (s Source) Resolve() (string, error) {
	path := s.Path
	if s.Example {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		path = filepath.Join(wd, ExampleProfile)
	} else if path == "" {
		return "", wrap("resolve", "", ErrMissingSource)
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", wrap("resolve", path, ErrProfileNotFound)
		}
		return "", wrap("resolve", path, err)
	}
	return path, nil
}
