package entities

import (
	"path/filepath"
	"runtime"
)

// BuildConfig holds every value the orchestrator reads from its environment.
// Relative paths resolve against WorkDir.
type BuildConfig struct {
	WorkDir   string
	Project   string
	OutputDir string
	CleanDirs []string
	Python    string
	BuildType string
	Generator string
	Jobs      int
	Repair    RepairConfig
	VcpkgRoot string
	Checksums bool
	Signing   SigningConfig
}

// RepairConfig names the per-platform repair tools and their fixed arguments
type RepairConfig struct {
	DelocateTool   string
	AuditwheelTool string
	DelvewheelMod  string
	UbuntuPlat     string
	CentOSPlat     string
	VcpkgTriplet   string
}

// SigningConfig enables detached OpenPGP signatures when KeyFile is set
type SigningConfig struct {
	KeyFile    string
	Passphrase string
}

// DefaultBuildConfig returns the configuration the build script has always used
func DefaultBuildConfig() *BuildConfig {
	python := "python3"
	if runtime.GOOS == "windows" {
		python = "python"
	}

	return &BuildConfig{
		WorkDir:   ".",
		Project:   "gosdt",
		OutputDir: "dist",
		Python:    python,
		BuildType: "Release",
		Generator: "Ninja",
		Repair: RepairConfig{
			DelocateTool:   "delocate-wheel",
			AuditwheelTool: "auditwheel",
			DelvewheelMod:  "delvewheel",
			UbuntuPlat:     "linux_x86_64",
			CentOSPlat:     "manylinux_2_17_x86_64",
			VcpkgTriplet:   "x64-windows",
		},
	}
}

// Resolve joins a possibly relative path onto WorkDir
func (c *BuildConfig) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.WorkDir, path)
}

// OutputPath returns the absolute-or-workdir-relative output directory
func (c *BuildConfig) OutputPath() string {
	return c.Resolve(c.OutputDir)
}

// CleanPaths returns the directories removed before a build. Without an
// explicit list these are the output directory and the project's egg-info.
func (c *BuildConfig) CleanPaths() []string {
	dirs := c.CleanDirs
	if len(dirs) == 0 {
		dirs = []string{c.OutputDir, c.Project + ".egg-info"}
	}

	paths := make([]string, 0, len(dirs))
	for _, d := range dirs {
		paths = append(paths, c.Resolve(d))
	}
	return paths
}

// JobCount returns the parallelism handed to the build backend
func (c *BuildConfig) JobCount() int {
	if c.Jobs > 0 {
		return c.Jobs
	}
	return runtime.NumCPU()
}
