package gateways

import (
	"archive/zip"
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"
)

// sharedLibrary matches libfoo.so, libfoo.so.1.2, libfoo.dylib and foo.dll
var sharedLibrary = regexp.MustCompile(`(?i)(\.so(\.\d+)*|\.dylib|\.dll)$`)

// WheelInspector reads the contents of built wheels
type WheelInspector struct{}

// NewWheelInspector creates a new wheel inspector
func NewWheelInspector() *WheelInspector {
	return &WheelInspector{}
}

// BundledLibraries lists the shared libraries a repair tool vendored into the
// wheel. The tools place them in a top-level "<name>.libs" (auditwheel,
// delvewheel) or "<pkg>/.dylibs" (delocate) directory.
func (i *WheelInspector) BundledLibraries(wheelPath string) ([]string, error) {
	r, err := zip.OpenReader(wheelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open wheel %s: %w", wheelPath, err)
	}
	//nolint:errcheck // Defer close on read-only archive
	defer r.Close()

	var libs []string
	for _, f := range r.File {
		if f.FileInfo().IsDir() || !sharedLibrary.MatchString(f.Name) {
			continue
		}
		if isVendoredDir(path.Dir(f.Name)) {
			libs = append(libs, f.Name)
		}
	}

	sort.Strings(libs)
	return libs, nil
}

func isVendoredDir(dir string) bool {
	for _, part := range strings.Split(dir, "/") {
		if strings.HasSuffix(part, ".libs") || part == ".dylibs" {
			return true
		}
	}
	return false
}
