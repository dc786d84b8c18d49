package gateways

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOutputCleaner_Clean_RemovesTrees(t *testing.T) {
	root := t.TempDir()
	dist := filepath.Join(root, "dist")
	eggInfo := filepath.Join(root, "gosdt.egg-info")
	touch(t, filepath.Join(dist, "old.whl"))
	touch(t, filepath.Join(eggInfo, "PKG-INFO"))

	if err := NewOutputCleaner().Clean([]string{dist, eggInfo}); err != nil {
		t.Fatalf("Clean() error = %v", err)
	}

	for _, dir := range []string{dist, eggInfo} {
		if _, err := os.Stat(dir); !os.IsNotExist(err) {
			t.Errorf("%s still exists after Clean()", dir)
		}
	}
}

func TestOutputCleaner_Clean_MissingIsNoOp(t *testing.T) {
	root := t.TempDir()
	dirs := []string{filepath.Join(root, "dist"), filepath.Join(root, "gosdt.egg-info")}

	cleaner := NewOutputCleaner()
	for i := 0; i < 2; i++ {
		if err := cleaner.Clean(dirs); err != nil {
			t.Fatalf("Clean() pass %d error = %v", i, err)
		}
	}
}

func TestOutputCleaner_Clean_LeavesSiblings(t *testing.T) {
	root := t.TempDir()
	keep := filepath.Join(root, "setup.py")
	touch(t, keep)
	touch(t, filepath.Join(root, "dist", "x.whl"))

	if err := NewOutputCleaner().Clean([]string{filepath.Join(root, "dist")}); err != nil {
		t.Fatalf("Clean() error = %v", err)
	}
	if _, err := os.Stat(keep); err != nil {
		t.Errorf("Clean() removed unrelated file: %v", err)
	}
}
