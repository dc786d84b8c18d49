package entities

import "fmt"

// Distro identifies a Linux distribution by its os-release ID
type Distro string

const (
	// DistroUbuntu is repaired against the host platform tag.
	DistroUbuntu Distro = "ubuntu"
	// DistroCentOS is the legacy distribution; repair writes a renamed manylinux copy.
	DistroCentOS Distro = "centos"
)

// Platform is the detected host identity. Each variant carries only the data
// its repair branch needs; dispatch with a type switch over the concrete types.
type Platform interface {
	// Name returns a short human-readable identity, e.g. "linux/ubuntu"
	Name() string

	platform()
}

// MacOS is a Darwin host
type MacOS struct{}

// Linux is a Linux host with the detected distribution
type Linux struct {
	Distro Distro
}

// Windows is a Windows host. VcpkgRoot is the package-manager installation
// root used to locate shared libraries; empty when the environment lacks it.
type Windows struct {
	VcpkgRoot string
}

// Unsupported is any other operating system
type Unsupported struct {
	OS string
}

func (MacOS) platform()       {}
func (Linux) platform()       {}
func (Windows) platform()     {}
func (Unsupported) platform() {}

// Name implements Platform
func (MacOS) Name() string { return "darwin" }

// Name implements Platform
func (l Linux) Name() string {
	if l.Distro == "" {
		return "linux/unknown"
	}
	return fmt.Sprintf("linux/%s", l.Distro)
}

// Name implements Platform
func (Windows) Name() string { return "windows" }

// Name implements Platform
func (u Unsupported) Name() string { return u.OS }
