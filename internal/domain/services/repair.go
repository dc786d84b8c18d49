// Package services holds the domain logic the orchestrator sequences.
package services

import (
	"fmt"
	"path/filepath"

	"github.com/ochairo/wheelwright/internal/domain/entities"
	"github.com/ochairo/wheelwright/internal/domain/interfaces"
)

// RepairPlan is the single tool invocation that rewrites a wheel for the host
type RepairPlan struct {
	Tool    string
	Command interfaces.Command
	// RemoveOriginal is set when the tool writes a renamed copy and the
	// pre-repair wheel must be deleted afterwards.
	RemoveOriginal bool
}

// PlanRepair picks exactly one repair tool for platform. Unsupported
// platforms, distributions and missing environment values are reported as
// ErrUnsupportedEnvironment before anything is run.
func PlanRepair(platform entities.Platform, wheelPath string, cfg *entities.BuildConfig) (*RepairPlan, error) {
	outputDir := cfg.OutputPath()
	rc := cfg.Repair

	switch p := platform.(type) {
	case entities.MacOS:
		return &RepairPlan{
			Tool: rc.DelocateTool,
			Command: interfaces.Command{
				Name:        rc.DelocateTool,
				Args:        []string{"-w", outputDir, "-v", wheelPath},
				Dir:         cfg.WorkDir,
				Description: "delocate-wheel",
			},
		}, nil

	case entities.Linux:
		var plat string
		removeOriginal := false
		switch p.Distro {
		case entities.DistroUbuntu:
			plat = rc.UbuntuPlat
		case entities.DistroCentOS:
			plat = rc.CentOSPlat
			removeOriginal = true
		default:
			return nil, fmt.Errorf("%w: Linux distribution %q is not supported by this script",
				entities.ErrUnsupportedEnvironment, string(p.Distro))
		}
		return &RepairPlan{
			Tool: rc.AuditwheelTool,
			Command: interfaces.Command{
				Name:        rc.AuditwheelTool,
				Args:        []string{"repair", "-w", outputDir, "--plat", plat, wheelPath},
				Dir:         cfg.WorkDir,
				Description: "auditwheel",
			},
			RemoveOriginal: removeOriginal,
		}, nil

	case entities.Windows:
		if p.VcpkgRoot == "" {
			return nil, fmt.Errorf("%w: VCPKG_INSTALLATION_ROOT is not set", entities.ErrUnsupportedEnvironment)
		}
		searchPath := filepath.Join(p.VcpkgRoot, "installed", rc.VcpkgTriplet, "bin")
		return &RepairPlan{
			Tool: rc.DelvewheelMod,
			Command: interfaces.Command{
				Name: cfg.Python,
				Args: []string{"-m", rc.DelvewheelMod, "repair", "--no-mangle-all",
					"--add-path", searchPath, wheelPath, "-w", outputDir},
				Dir:         cfg.WorkDir,
				Description: "delvewheel",
			},
		}, nil

	case entities.Unsupported:
		return nil, fmt.Errorf("%w: %s is not supported", entities.ErrUnsupportedEnvironment, p.OS)

	default:
		return nil, fmt.Errorf("%w: unknown platform %T", entities.ErrUnsupportedEnvironment, platform)
	}
}

// BuildCommands returns the backend invocations: clean, then bdist_wheel
func BuildCommands(cfg *entities.BuildConfig) []interfaces.Command {
	return []interfaces.Command{
		{
			Name:        cfg.Python,
			Args:        []string{"setup.py", "clean"},
			Dir:         cfg.WorkDir,
			Description: "setup.py clean",
		},
		{
			Name: cfg.Python,
			Args: []string{"setup.py", "bdist_wheel",
				"--build-type=" + cfg.BuildType,
				"-G", cfg.Generator,
				"--", "--", fmt.Sprintf("-j%d", cfg.JobCount())},
			Dir:         cfg.WorkDir,
			Description: "setup.py bdist_wheel",
		},
	}
}
