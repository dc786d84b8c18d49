package gateways

import (
	"fmt"
	"os"
)

// OutputCleaner removes stale build output
type OutputCleaner struct{}

// NewOutputCleaner creates a new output cleaner
func NewOutputCleaner() *OutputCleaner {
	return &OutputCleaner{}
}

// Clean removes each directory tree in dirs. Missing directories are skipped.
func (c *OutputCleaner) Clean(dirs []string) error {
	for _, dir := range dirs {
		if _, err := os.Lstat(dir); os.IsNotExist(err) {
			continue
		}
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("failed to remove %s: %w", dir, err)
		}
	}
	return nil
}
