package orchestrators

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ochairo/wheelwright/internal/domain-adapters/gateways"
	"github.com/ochairo/wheelwright/internal/domain/entities"
	"github.com/ochairo/wheelwright/internal/domain/interfaces"
)

const (
	builtWheel     = "gosdt-1.0.5-cp39-cp39-linux_x86_64.whl"
	manylinuxWheel = "gosdt-1.0.5-cp39-cp39-manylinux_2_17_x86_64.whl"
)

// fakeRunner records invocations and simulates the tools' filesystem effects
type fakeRunner struct {
	t        *testing.T
	dist     string
	calls    []interfaces.Command
	failOn   string
	wheels   []string
	repaired string
}

func (f *fakeRunner) Run(_ context.Context, cmd interfaces.Command) (*interfaces.CommandResult, error) {
	f.calls = append(f.calls, cmd)
	line := cmd.String()

	if f.failOn != "" && strings.Contains(line, f.failOn) {
		return &interfaces.CommandResult{ExitCode: 1}, &entities.ProcessError{Command: line, ExitCode: 1}
	}

	switch {
	case strings.Contains(line, "bdist_wheel"):
		if err := os.MkdirAll(f.dist, 0750); err != nil {
			f.t.Fatalf("mkdir: %v", err)
		}
		wheels := f.wheels
		if wheels == nil {
			wheels = []string{builtWheel}
		}
		for _, w := range wheels {
			f.write(filepath.Join(f.dist, w))
		}
	case f.repaired != "" && (strings.Contains(line, "auditwheel") || strings.Contains(line, "delocate") || strings.Contains(line, "delvewheel")):
		f.write(filepath.Join(f.dist, f.repaired))
	}

	return &interfaces.CommandResult{ExitCode: 0}, nil
}

func (f *fakeRunner) write(path string) {
	f.t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		f.t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("PK"), 0600); err != nil {
		f.t.Fatalf("write %s: %v", path, err)
	}
}

func (f *fakeRunner) repairCalls() int {
	n := 0
	for _, c := range f.calls {
		line := c.String()
		if strings.Contains(line, "auditwheel") || strings.Contains(line, "delocate") || strings.Contains(line, "delvewheel") {
			n++
		}
	}
	return n
}

type mockDetector struct {
	platform entities.Platform
}

func (m *mockDetector) Detect() entities.Platform {
	return m.platform
}

type mockInspector struct {
	libs []string
	err  error
}

func (m *mockInspector) BundledLibraries(_ string) ([]string, error) {
	return m.libs, m.err
}

type mockSidecars struct {
	enabled bool
	err     error
	seen    []string
}

func (m *mockSidecars) Enabled() bool { return m.enabled }

func (m *mockSidecars) GenerateAll(wheelPath string) ([]string, error) {
	m.seen = append(m.seen, wheelPath)
	if m.err != nil {
		return nil, m.err
	}
	return []string{wheelPath + ".sha256"}, nil
}

type harness struct {
	orch   *BuildOrchestrator
	runner *fakeRunner
	config *entities.BuildConfig
}

func newHarness(t *testing.T, platform entities.Platform, deps BuildOrchestratorDeps) *harness {
	t.Helper()
	cfg := entities.DefaultBuildConfig()
	cfg.WorkDir = t.TempDir()
	cfg.Python = "python"
	cfg.Jobs = 2

	runner := &fakeRunner{t: t, dist: cfg.OutputPath()}
	deps.Cleaner = gateways.NewOutputCleaner()
	deps.Runner = runner
	deps.Locator = gateways.NewArtifactFinder()
	deps.Detector = &mockDetector{platform: platform}

	return &harness{
		orch:   NewBuildOrchestrator(deps, cfg, &interfaces.NoOpLogger{}),
		runner: runner,
		config: cfg,
	}
}

func listDist(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir(%s) error = %v", dir, err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

// Test successful build workflow on a recognized platform
func TestBuildOrchestrator_Run_Success(t *testing.T) {
	h := newHarness(t, entities.Linux{Distro: entities.DistroUbuntu}, BuildOrchestratorDeps{})

	// Leftovers from a previous run must be cleaned first
	h.runner.write(filepath.Join(h.config.OutputPath(), "stale-0.1-py3-none-any.whl"))
	h.runner.write(filepath.Join(h.config.WorkDir, "gosdt.egg-info", "PKG-INFO"))

	result, err := h.orch.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.State != entities.StateDone {
		t.Errorf("State = %v, want done", result.State)
	}
	if got := listDist(t, h.config.OutputPath()); len(got) != 1 || got[0] != builtWheel {
		t.Errorf("dist = %v, want [%s]", got, builtWheel)
	}
	if _, err := os.Stat(filepath.Join(h.config.WorkDir, "gosdt.egg-info")); !os.IsNotExist(err) {
		t.Error("egg-info directory was not cleaned")
	}

	wantCalls := []string{
		"python setup.py clean",
		"python setup.py bdist_wheel --build-type=Release -G Ninja -- -- -j2",
		"auditwheel repair -w " + h.config.OutputPath() + " --plat linux_x86_64 " + filepath.Join(h.config.OutputPath(), builtWheel),
	}
	if len(h.runner.calls) != len(wantCalls) {
		t.Fatalf("calls = %v, want %v", h.runner.calls, wantCalls)
	}
	for i, want := range wantCalls {
		if got := h.runner.calls[i].String(); got != want {
			t.Errorf("call[%d] = %q, want %q", i, got, want)
		}
	}

	if result.Wheel.Distribution != "gosdt" || result.Wheel.PlatformTag != "linux_x86_64" {
		t.Errorf("Wheel = %+v", result.Wheel)
	}
	if len(result.RepairedWheels) != 1 {
		t.Errorf("RepairedWheels = %v, want 1", result.RepairedWheels)
	}
}

// Test that exactly one repair tool runs for each supported platform
func TestBuildOrchestrator_Run_DispatchesOneRepairTool(t *testing.T) {
	vcpkg := t.TempDir()
	tests := []struct {
		name     string
		platform entities.Platform
		wantTool string
	}{
		{name: "macos", platform: entities.MacOS{}, wantTool: "delocate-wheel"},
		{name: "ubuntu", platform: entities.Linux{Distro: entities.DistroUbuntu}, wantTool: "auditwheel"},
		{name: "centos", platform: entities.Linux{Distro: entities.DistroCentOS}, wantTool: "auditwheel"},
		{name: "windows", platform: entities.Windows{VcpkgRoot: vcpkg}, wantTool: "delvewheel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.platform, BuildOrchestratorDeps{})
			h.runner.repaired = manylinuxWheel

			if _, err := h.orch.Run(context.Background()); err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if n := h.runner.repairCalls(); n != 1 {
				t.Fatalf("repair tool invoked %d times, want 1", n)
			}
			last := h.runner.calls[len(h.runner.calls)-1].String()
			if !strings.Contains(last, tt.wantTool) {
				t.Errorf("repair call = %q, want %s", last, tt.wantTool)
			}
		})
	}
}

// Test that the legacy distribution drops the pre-repair wheel
func TestBuildOrchestrator_Run_CentOSRemovesOriginal(t *testing.T) {
	h := newHarness(t, entities.Linux{Distro: entities.DistroCentOS}, BuildOrchestratorDeps{})
	h.runner.repaired = manylinuxWheel

	result, err := h.orch.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(h.config.OutputPath(), builtWheel)); !os.IsNotExist(err) {
		t.Error("original wheel still exists after centos repair")
	}
	if got := listDist(t, h.config.OutputPath()); len(got) != 1 || got[0] != manylinuxWheel {
		t.Errorf("dist = %v, want [%s]", got, manylinuxWheel)
	}
	if result.RepairedWheels[0].PlatformTag != "manylinux_2_17_x86_64" {
		t.Errorf("RepairedWheels = %+v", result.RepairedWheels[0])
	}
}

// Test that the other recognized distribution keeps the original wheel
func TestBuildOrchestrator_Run_UbuntuKeepsOriginal(t *testing.T) {
	h := newHarness(t, entities.Linux{Distro: entities.DistroUbuntu}, BuildOrchestratorDeps{})

	if _, err := h.orch.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(h.config.OutputPath(), builtWheel)); err != nil {
		t.Errorf("original wheel missing after ubuntu repair: %v", err)
	}
}

// Test build failure: no repair tool may run
func TestBuildOrchestrator_Run_BuildFailure(t *testing.T) {
	h := newHarness(t, entities.Linux{Distro: entities.DistroUbuntu}, BuildOrchestratorDeps{})
	h.runner.failOn = "bdist_wheel"

	result, err := h.orch.Run(context.Background())

	var procErr *entities.ProcessError
	if !errors.As(err, &procErr) {
		t.Fatalf("Run() error = %v, want *entities.ProcessError", err)
	}
	if result.State != entities.StateFailed {
		t.Errorf("State = %v, want failed", result.State)
	}
	if n := h.runner.repairCalls(); n != 0 {
		t.Errorf("repair tool invoked %d times after build failure", n)
	}
}

// Test backend clean failure stops before bdist_wheel
func TestBuildOrchestrator_Run_CleanFailure(t *testing.T) {
	h := newHarness(t, entities.MacOS{}, BuildOrchestratorDeps{})
	h.runner.failOn = "setup.py clean"

	if _, err := h.orch.Run(context.Background()); err == nil {
		t.Fatal("Run() should fail when setup.py clean fails")
	}
	if len(h.runner.calls) != 1 {
		t.Errorf("calls = %v, want only the clean call", h.runner.calls)
	}
}

// Test that artifact count violations are fatal
func TestBuildOrchestrator_Run_ArtifactCount(t *testing.T) {
	tests := []struct {
		name   string
		wheels []string
	}{
		{name: "no wheel", wheels: []string{}},
		{name: "two wheels", wheels: []string{builtWheel, "gosdt-1.0.5-cp310-cp310-linux_x86_64.whl"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, entities.MacOS{}, BuildOrchestratorDeps{})
			h.runner.wheels = tt.wheels

			result, err := h.orch.Run(context.Background())
			if !errors.Is(err, entities.ErrArtifactCount) {
				t.Fatalf("Run() error = %v, want ErrArtifactCount", err)
			}
			if result.State != entities.StateFailed {
				t.Errorf("State = %v, want failed", result.State)
			}
			if n := h.runner.repairCalls(); n != 0 {
				t.Errorf("repair tool invoked %d times", n)
			}
		})
	}
}

// Test unsupported environments fail without invoking a repair tool
func TestBuildOrchestrator_Run_UnsupportedEnvironment(t *testing.T) {
	tests := []struct {
		name     string
		platform entities.Platform
	}{
		{name: "windows without vcpkg root", platform: entities.Windows{}},
		{name: "unknown distro", platform: entities.Linux{Distro: "alpine"}},
		{name: "unknown os", platform: entities.Unsupported{OS: "openbsd"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.platform, BuildOrchestratorDeps{})

			result, err := h.orch.Run(context.Background())
			if !errors.Is(err, entities.ErrUnsupportedEnvironment) {
				t.Fatalf("Run() error = %v, want ErrUnsupportedEnvironment", err)
			}
			if result.State != entities.StateFailed {
				t.Errorf("State = %v, want failed", result.State)
			}
			if n := h.runner.repairCalls(); n != 0 {
				t.Errorf("repair tool invoked %d times", n)
			}
		})
	}
}

// Test repair tool failure is propagated
func TestBuildOrchestrator_Run_RepairFailure(t *testing.T) {
	h := newHarness(t, entities.Linux{Distro: entities.DistroCentOS}, BuildOrchestratorDeps{})
	h.runner.failOn = "auditwheel"

	_, err := h.orch.Run(context.Background())
	var procErr *entities.ProcessError
	if !errors.As(err, &procErr) {
		t.Fatalf("Run() error = %v, want *entities.ProcessError", err)
	}
	if _, statErr := os.Stat(filepath.Join(h.config.OutputPath(), builtWheel)); statErr != nil {
		t.Errorf("original wheel should survive a failed repair: %v", statErr)
	}
}

// Test inspection and sidecars after repair
func TestBuildOrchestrator_Run_InspectionAndSidecars(t *testing.T) {
	sidecars := &mockSidecars{enabled: true}
	h := newHarness(t, entities.MacOS{}, BuildOrchestratorDeps{
		Inspector: &mockInspector{libs: []string{"gosdt/.dylibs/libtbb.dylib"}},
		Sidecars:  sidecars,
	})

	result, err := h.orch.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(result.BundledLibraries) != 1 {
		t.Errorf("BundledLibraries = %v", result.BundledLibraries)
	}
	if len(sidecars.seen) != 1 || filepath.Base(sidecars.seen[0]) != builtWheel {
		t.Errorf("sidecars generated for %v", sidecars.seen)
	}
	if len(result.Sidecars) != 1 {
		t.Errorf("Sidecars = %v", result.Sidecars)
	}

	summary := GetBuildSummary(result)
	for _, want := range []string{"Build successful!", "Platform: darwin", builtWheel, "Bundled libraries: 1"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}
}

// Test that inspection failures only warn while sidecar failures are fatal
func TestBuildOrchestrator_Run_PostRepairFailures(t *testing.T) {
	t.Run("inspection failure is not fatal", func(t *testing.T) {
		h := newHarness(t, entities.MacOS{}, BuildOrchestratorDeps{
			Inspector: &mockInspector{err: errors.New("zip: not a valid zip file")},
		})
		if _, err := h.orch.Run(context.Background()); err != nil {
			t.Errorf("Run() error = %v, want nil", err)
		}
	})

	t.Run("sidecar failure is fatal", func(t *testing.T) {
		h := newHarness(t, entities.MacOS{}, BuildOrchestratorDeps{
			Sidecars: &mockSidecars{enabled: true, err: errors.New("disk full")},
		})
		result, err := h.orch.Run(context.Background())
		if err == nil || !strings.Contains(err.Error(), "disk full") {
			t.Fatalf("Run() error = %v, want sidecar failure", err)
		}
		if result.State != entities.StateFailed {
			t.Errorf("State = %v, want failed", result.State)
		}
	})

	t.Run("disabled sidecars are skipped", func(t *testing.T) {
		sidecars := &mockSidecars{enabled: false}
		h := newHarness(t, entities.MacOS{}, BuildOrchestratorDeps{Sidecars: sidecars})
		if _, err := h.orch.Run(context.Background()); err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if len(sidecars.seen) != 0 {
			t.Errorf("disabled sidecars generated for %v", sidecars.seen)
		}
	})
}

func TestGetBuildSummary_Failure(t *testing.T) {
	summary := GetBuildSummary(&entities.BuildResult{State: entities.StateFailed, Error: errors.New("boom")})
	if !strings.Contains(summary, "failed") || !strings.Contains(summary, "boom") {
		t.Errorf("summary = %q", summary)
	}
}
