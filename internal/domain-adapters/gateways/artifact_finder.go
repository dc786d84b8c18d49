package gateways

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/ochairo/wheelwright/internal/domain/entities"
)

// ArtifactFinder provides utilities for locating build artifacts
type ArtifactFinder struct{}

// NewArtifactFinder creates a new artifact finder
func NewArtifactFinder() *ArtifactFinder {
	return &ArtifactFinder{}
}

// DiscoverWheel returns the single entry of outputDir. Any other entry count
// is an ErrArtifactCount naming what was found.
func (f *ArtifactFinder) DiscoverWheel(outputDir string) (string, error) {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: output directory %s does not exist", entities.ErrArtifactCount, outputDir)
		}
		return "", fmt.Errorf("failed to list %s: %w", outputDir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}

	if len(names) != 1 {
		return "", fmt.Errorf("%w: the number of generated wheels is not 1, all wheels: %v",
			entities.ErrArtifactCount, names)
	}

	return filepath.Join(outputDir, names[0]), nil
}

// ListWheels returns every *.whl in outputDir in lexical order
func (f *ArtifactFinder) ListWheels(outputDir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(outputDir, "*.whl"))
	if err != nil {
		return nil, fmt.Errorf("failed to glob wheels in %s: %w", outputDir, err)
	}
	sort.Strings(matches)
	return matches, nil
}
