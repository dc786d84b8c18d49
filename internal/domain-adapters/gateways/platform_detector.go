package gateways

import (
	"runtime"

	"github.com/ochairo/wheelwright/internal/domain/entities"
	"github.com/ochairo/wheelwright/internal/domain/interfaces"
	"github.com/ochairo/wheelwright/internal/external-adapters/osrelease"
)

// PlatformDetector identifies the host once per run
type PlatformDetector struct {
	goos           string
	osReleasePaths []string
	vcpkgRoot      string
	logger         interfaces.Logger
}

// PlatformDetectorConfig overrides host facts, mostly for tests
type PlatformDetectorConfig struct {
	GOOS           string
	OSReleasePaths []string
	VcpkgRoot      string
}

// NewPlatformDetector creates a detector. Empty fields fall back to the host.
func NewPlatformDetector(config PlatformDetectorConfig, logger interfaces.Logger) *PlatformDetector {
	goos := config.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	paths := config.OSReleasePaths
	if len(paths) == 0 {
		paths = osrelease.DefaultPaths
	}
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}

	return &PlatformDetector{
		goos:           goos,
		osReleasePaths: paths,
		vcpkgRoot:      config.VcpkgRoot,
		logger:         logger,
	}
}

// Detect maps the host to a platform variant. It never fails: an unreadable
// os-release yields a Linux value with no distro, which repair rejects.
func (d *PlatformDetector) Detect() entities.Platform {
	switch d.goos {
	case "darwin":
		return entities.MacOS{}
	case "linux":
		info, err := osrelease.ReadFirst(d.osReleasePaths)
		if err != nil {
			d.logger.Warn("Could not determine Linux distribution", interfaces.F("error", err))
			return entities.Linux{}
		}
		return entities.Linux{Distro: entities.Distro(info.ID)}
	case "windows":
		return entities.Windows{VcpkgRoot: d.vcpkgRoot}
	default:
		return entities.Unsupported{OS: d.goos}
	}
}
