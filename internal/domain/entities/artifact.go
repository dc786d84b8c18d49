// Package entities defines core domain models and data structures.
package entities

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Wheel represents a binary distribution artifact produced by the build backend
type Wheel struct {
	Path         string
	Distribution string
	Version      string
	BuildTag     string
	PythonTag    string
	ABITag       string
	PlatformTag  string
}

// ParseWheel builds a Wheel from a path, decoding the tags carried in the file name.
// Names follow {distribution}-{version}(-{build})?-{python}-{abi}-{platform}.whl
func ParseWheel(path string) (*Wheel, error) {
	base := filepath.Base(path)
	if !strings.HasSuffix(base, ".whl") {
		return nil, fmt.Errorf("not a wheel file: %s", base)
	}

	parts := strings.Split(strings.TrimSuffix(base, ".whl"), "-")
	w := &Wheel{Path: path}

	switch len(parts) {
	case 5:
		w.Distribution, w.Version = parts[0], parts[1]
		w.PythonTag, w.ABITag, w.PlatformTag = parts[2], parts[3], parts[4]
	case 6:
		w.Distribution, w.Version, w.BuildTag = parts[0], parts[1], parts[2]
		w.PythonTag, w.ABITag, w.PlatformTag = parts[3], parts[4], parts[5]
	default:
		return nil, fmt.Errorf("malformed wheel file name: %s", base)
	}

	return w, nil
}

// Name returns the wheel's file name
func (w *Wheel) Name() string {
	return filepath.Base(w.Path)
}
