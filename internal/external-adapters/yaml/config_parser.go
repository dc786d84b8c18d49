// Package yaml provides YAML-based build configuration parsing.
package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ochairo/wheelwright/internal/domain/entities"
	"gopkg.in/yaml.v3"
)

// yamlConfig represents the raw YAML structure of wheelwright.yaml
type yamlConfig struct {
	Project   string      `yaml:"project"`
	OutputDir string      `yaml:"output_dir"`
	CleanDirs []string    `yaml:"clean_dirs"`
	Python    string      `yaml:"python"`
	Build     yamlBuild   `yaml:"build"`
	Repair    yamlRepair  `yaml:"repair"`
	Release   yamlRelease `yaml:"release"`
}

type yamlBuild struct {
	Type      string `yaml:"type"`
	Generator string `yaml:"generator"`
	Jobs      *int   `yaml:"jobs"`
}

type yamlRepair struct {
	DelocateTool   string `yaml:"delocate_tool"`
	AuditwheelTool string `yaml:"auditwheel_tool"`
	DelvewheelMod  string `yaml:"delvewheel_module"`
	UbuntuPlat     string `yaml:"ubuntu_plat"`
	CentOSPlat     string `yaml:"centos_plat"`
	VcpkgTriplet   string `yaml:"vcpkg_triplet"`
}

type yamlRelease struct {
	Checksums  *bool  `yaml:"checksums"`
	SigningKey string `yaml:"signing_key"`
}

// ConfigParser parses YAML build configuration files
type ConfigParser struct{}

// NewConfigParser creates a new YAML parser
func NewConfigParser() *ConfigParser {
	return &ConfigParser{}
}

// ParseFile parses a YAML config file on top of base
func (p *ConfigParser) ParseFile(filePath string, base *entities.BuildConfig) (*entities.BuildConfig, error) {
	//nolint:gosec // G304: filePath is the configuration file chosen by the user
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	return p.Parse(data, base)
}

// Parse parses YAML bytes and applies every field that is set onto a copy of
// base. Unknown keys are rejected.
func (p *ConfigParser) Parse(data []byte, base *entities.BuildConfig) (*entities.BuildConfig, error) {
	var yc yamlConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&yc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if base == nil {
		base = entities.DefaultBuildConfig()
	}
	cfg := *base
	cfg.CleanDirs = append([]string(nil), base.CleanDirs...)

	setString(&cfg.Project, yc.Project)
	setString(&cfg.OutputDir, yc.OutputDir)
	setString(&cfg.Python, yc.Python)
	setString(&cfg.BuildType, yc.Build.Type)
	setString(&cfg.Generator, yc.Build.Generator)
	if yc.Build.Jobs != nil {
		cfg.Jobs = *yc.Build.Jobs
	}
	if len(yc.CleanDirs) > 0 {
		cfg.CleanDirs = yc.CleanDirs
	}

	setString(&cfg.Repair.DelocateTool, yc.Repair.DelocateTool)
	setString(&cfg.Repair.AuditwheelTool, yc.Repair.AuditwheelTool)
	setString(&cfg.Repair.DelvewheelMod, yc.Repair.DelvewheelMod)
	setString(&cfg.Repair.UbuntuPlat, yc.Repair.UbuntuPlat)
	setString(&cfg.Repair.CentOSPlat, yc.Repair.CentOSPlat)
	setString(&cfg.Repair.VcpkgTriplet, yc.Repair.VcpkgTriplet)

	if yc.Release.Checksums != nil {
		cfg.Checksums = *yc.Release.Checksums
	}
	setString(&cfg.Signing.KeyFile, yc.Release.SigningKey)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects configurations the orchestrator cannot run safely
func Validate(cfg *entities.BuildConfig) error {
	if strings.TrimSpace(cfg.Project) == "" {
		return fmt.Errorf("project must not be empty")
	}
	if strings.TrimSpace(cfg.OutputDir) == "" {
		return fmt.Errorf("output_dir must not be empty")
	}
	if cfg.Jobs < 0 {
		return fmt.Errorf("build.jobs must not be negative, got %d", cfg.Jobs)
	}
	for _, dir := range append([]string{cfg.OutputDir}, cfg.CleanDirs...) {
		clean := filepath.Clean(dir)
		if clean == "." || clean == ".." || clean == string(filepath.Separator) || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
			return fmt.Errorf("refusing to use %q as an output or clean directory", dir)
		}
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
