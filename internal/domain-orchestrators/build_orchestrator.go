// Package orchestrators coordinates complex workflows across multiple domain services.
package orchestrators

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ochairo/wheelwright/internal/domain/entities"
	"github.com/ochairo/wheelwright/internal/domain/interfaces"
	"github.com/ochairo/wheelwright/internal/domain/services"
)

// OutputCleaner interface for removing stale build output
type OutputCleaner interface {
	Clean(dirs []string) error
}

// ArtifactLocator interface for finding wheels in the output directory
type ArtifactLocator interface {
	DiscoverWheel(outputDir string) (string, error)
	ListWheels(outputDir string) ([]string, error)
}

// PlatformDetector interface for identifying the host
type PlatformDetector interface {
	Detect() entities.Platform
}

// WheelInspector interface for listing libraries vendored into a wheel
type WheelInspector interface {
	BundledLibraries(wheelPath string) ([]string, error)
}

// SidecarGenerator interface for writing checksum and signature files
type SidecarGenerator interface {
	Enabled() bool
	GenerateAll(wheelPath string) ([]string, error)
}

// BuildOrchestrator coordinates the complete wheel build workflow
type BuildOrchestrator struct {
	cleaner   OutputCleaner
	runner    interfaces.CommandRunner
	locator   ArtifactLocator
	detector  PlatformDetector
	inspector WheelInspector
	sidecars  SidecarGenerator
	config    *entities.BuildConfig
	logger    interfaces.Logger
}

// BuildOrchestratorDeps groups the collaborators of the orchestrator.
// Inspector and Sidecars are optional.
type BuildOrchestratorDeps struct {
	Cleaner   OutputCleaner
	Runner    interfaces.CommandRunner
	Locator   ArtifactLocator
	Detector  PlatformDetector
	Inspector WheelInspector
	Sidecars  SidecarGenerator
}

// NewBuildOrchestrator creates a new build orchestrator
func NewBuildOrchestrator(deps BuildOrchestratorDeps, config *entities.BuildConfig, logger interfaces.Logger) *BuildOrchestrator {
	if config == nil {
		config = entities.DefaultBuildConfig()
	}
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}

	return &BuildOrchestrator{
		cleaner:   deps.Cleaner,
		runner:    deps.Runner,
		locator:   deps.Locator,
		detector:  deps.Detector,
		inspector: deps.Inspector,
		sidecars:  deps.Sidecars,
		config:    config,
		logger:    logger,
	}
}

// Run executes clean, build, discover and repair in order. The first failure
// moves the result to StateFailed and is returned; nothing is retried.
func (o *BuildOrchestrator) Run(ctx context.Context) (*entities.BuildResult, error) {
	startTime := time.Now()
	result := &entities.BuildResult{State: entities.StateIdle}

	fail := func(err error) (*entities.BuildResult, error) {
		result.State = entities.StateFailed
		result.Error = err
		result.TotalDuration = time.Since(startTime)
		return result, err
	}

	// Step 1: Remove stale output
	o.logger.Info(">> Cleaning the garbage...")
	cleanStart := time.Now()
	if err := o.CleanOutputs(); err != nil {
		return fail(err)
	}
	if err := o.run(ctx, services.BuildCommands(o.config)[0]); err != nil {
		return fail(fmt.Errorf("backend clean failed: %w", err))
	}
	result.CleanDuration = time.Since(cleanStart)
	o.advance(result)

	// Step 2: Build the wheel
	o.logger.Info(">> Rebuilding the project from scratch...")
	buildStart := time.Now()
	if err := o.RunBuild(ctx); err != nil {
		return fail(err)
	}
	result.BuildDuration = time.Since(buildStart)
	o.advance(result)

	// Step 3: Locate the single wheel
	o.logger.Info(">> Adding required dynamic libraries to the wheel file...")
	wheelPath, err := o.locator.DiscoverWheel(o.config.OutputPath())
	if err != nil {
		return fail(err)
	}
	wheel, err := entities.ParseWheel(wheelPath)
	if err != nil {
		// Repair tools reject odd names themselves; keep going with the bare path
		o.logger.Warn("Wheel name could not be parsed", interfaces.F("error", err))
		wheel = &entities.Wheel{Path: wheelPath}
	}
	result.Wheel = wheel
	o.logger.Info(fmt.Sprintf("Wheel file to be fixed: %s.", wheelPath))
	o.advance(result)

	// Step 4: Repair for the host platform
	repairStart := time.Now()
	result.Platform = o.detector.Detect()
	if err := o.RepairArtifact(ctx, result.Platform, wheelPath); err != nil {
		return fail(err)
	}
	result.RepairDuration = time.Since(repairStart)
	o.advance(result)

	// Step 5: Report what repair left behind
	if err := o.collectRepaired(result); err != nil {
		return fail(err)
	}

	result.State = entities.StateDone
	result.TotalDuration = time.Since(startTime)
	o.logger.Info("All done.")
	return result, nil
}

// CleanOutputs removes the configured output directories. Missing ones are skipped.
func (o *BuildOrchestrator) CleanOutputs() error {
	dirs := o.config.CleanPaths()
	o.logger.Debug("Removing output directories", interfaces.F("dirs", dirs))
	if err := o.cleaner.Clean(dirs); err != nil {
		return fmt.Errorf("failed to clean outputs: %w", err)
	}
	return nil
}

// RunBuild invokes the backend's bdist_wheel with the configured flags
func (o *BuildOrchestrator) RunBuild(ctx context.Context) error {
	if err := o.run(ctx, services.BuildCommands(o.config)[1]); err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	return nil
}

// RepairArtifact runs the one repair tool the platform calls for
func (o *BuildOrchestrator) RepairArtifact(ctx context.Context, platform entities.Platform, wheelPath string) error {
	plan, err := services.PlanRepair(platform, wheelPath, o.config)
	if err != nil {
		o.logger.Error("Platform is not supported", interfaces.F("platform", platform), interfaces.F("error", err))
		return err
	}

	o.logger.Debug("Repairing wheel", interfaces.F("platform", platform.Name()), interfaces.F("tool", plan.Tool))
	if err := o.run(ctx, plan.Command); err != nil {
		return fmt.Errorf("repair failed: %w", err)
	}

	if plan.RemoveOriginal {
		// The repaired wheel has a different file name
		if err := os.Remove(wheelPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove original wheel: %w", err)
		}
	}

	return nil
}

func (o *BuildOrchestrator) collectRepaired(result *entities.BuildResult) error {
	paths, err := o.locator.ListWheels(o.config.OutputPath())
	if err != nil {
		return err
	}

	for _, p := range paths {
		w, err := entities.ParseWheel(p)
		if err != nil {
			w = &entities.Wheel{Path: p}
		}
		result.RepairedWheels = append(result.RepairedWheels, w)

		if o.inspector != nil {
			libs, err := o.inspector.BundledLibraries(p)
			if err != nil {
				o.logger.Warn("Could not inspect repaired wheel", interfaces.F("wheel", w.Name()), interfaces.F("error", err))
			} else {
				result.BundledLibraries = append(result.BundledLibraries, libs...)
			}
		}

		if o.sidecars != nil && o.sidecars.Enabled() {
			written, err := o.sidecars.GenerateAll(p)
			result.Sidecars = append(result.Sidecars, written...)
			if err != nil {
				return fmt.Errorf("release artifacts for %s: %w", w.Name(), err)
			}
		}
	}

	return nil
}

func (o *BuildOrchestrator) run(ctx context.Context, cmd interfaces.Command) error {
	o.logger.Debug("Running", interfaces.F("command", cmd.String()))
	res, err := o.runner.Run(ctx, cmd)
	if err != nil {
		return err
	}
	o.logger.Debug("Finished", interfaces.F("step", cmd.Description), interfaces.F("duration", res.Duration))
	return nil
}

func (o *BuildOrchestrator) advance(result *entities.BuildResult) {
	result.State = result.State.Next()
	o.logger.Debug("State", interfaces.F("state", result.State.String()))
}

// GetBuildSummary returns a human-readable summary of the build
func GetBuildSummary(r *entities.BuildResult) string {
	if r.State != entities.StateDone {
		return fmt.Sprintf("Build failed in state %s: %v", r.State, r.Error)
	}

	summary := fmt.Sprintf(`Build successful!
Platform: %s
Wheel: %s
Build: %v
Repair: %v
Total: %v`,
		r.Platform.Name(),
		r.Wheel.Name(),
		r.BuildDuration.Round(time.Millisecond),
		r.RepairDuration.Round(time.Millisecond),
		r.TotalDuration.Round(time.Millisecond),
	)

	for _, w := range r.RepairedWheels {
		summary += fmt.Sprintf("\nRepaired: %s", w.Name())
	}
	summary += fmt.Sprintf("\nBundled libraries: %d", len(r.BundledLibraries))
	for _, s := range r.Sidecars {
		summary += fmt.Sprintf("\nSidecar: %s", s)
	}

	return summary
}
