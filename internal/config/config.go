// Package config assembles the BuildConfig from defaults, the optional
// wheelwright.yaml file and WHEELWRIGHT_* environment variables.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/ochairo/wheelwright/internal/domain/entities"
	"github.com/ochairo/wheelwright/internal/external-adapters/yaml"
)

const (
	// FileName is looked up in the work directory when no --config is given
	FileName = "wheelwright.yaml"

	// EnvPrefix prefixes every override variable
	EnvPrefix = "WHEELWRIGHT"

	// VcpkgRootEnv is set by the Windows CI images
	VcpkgRootEnv = "VCPKG_INSTALLATION_ROOT"
)

// LoadOptions selects where configuration comes from
type LoadOptions struct {
	// ConfigFile is an explicit config path. It must exist when set.
	ConfigFile string
	// WorkDir is the project root, defaulting to the current directory
	WorkDir string
}

// Load returns the merged configuration and the config file actually read,
// which is empty when none was found.
func Load(ctx context.Context, opts LoadOptions) (*entities.BuildConfig, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	workDir := opts.WorkDir
	if workDir == "" {
		workDir = "."
	}
	absWork, err := filepath.Abs(workDir)
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve work dir %s: %w", workDir, err)
	}
	if info, err := os.Stat(absWork); err != nil || !info.IsDir() {
		return nil, "", fmt.Errorf("work dir %s is not a directory", absWork)
	}

	cfg := entities.DefaultBuildConfig()
	cfg.WorkDir = absWork

	resolvedPath := ""
	parser := yaml.NewConfigParser()

	if opts.ConfigFile != "" {
		if !fileExists(opts.ConfigFile) {
			return nil, "", fmt.Errorf("config file not found: %s", opts.ConfigFile)
		}
		resolvedPath = opts.ConfigFile
	} else if local := filepath.Join(absWork, FileName); fileExists(local) {
		resolvedPath = local
	}

	if resolvedPath != "" {
		cfg, err = parser.ParseFile(resolvedPath, cfg)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load %s: %w", resolvedPath, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, "", err
	}

	if err := yaml.Validate(cfg); err != nil {
		return nil, "", fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, resolvedPath, nil
}

// applyEnv overlays environment variables onto cfg. Unset or empty
// variables leave the file or default value in place.
func applyEnv(cfg *entities.BuildConfig) error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)

	for _, key := range []string{"python", "jobs", "output_dir", "checksums", "signing_key", "signing_passphrase"} {
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}
	if err := v.BindEnv("vcpkg_root", VcpkgRootEnv); err != nil {
		return fmt.Errorf("failed to bind vcpkg_root: %w", err)
	}

	if v.IsSet("python") {
		cfg.Python = v.GetString("python")
	}
	if v.IsSet("output_dir") {
		cfg.OutputDir = v.GetString("output_dir")
	}
	if v.IsSet("jobs") {
		jobs, err := cast.ToIntE(v.GetString("jobs"))
		if err != nil {
			return fmt.Errorf("%s_JOBS: %w", EnvPrefix, err)
		}
		cfg.Jobs = jobs
	}
	if v.IsSet("checksums") {
		on, err := cast.ToBoolE(v.GetString("checksums"))
		if err != nil {
			return fmt.Errorf("%s_CHECKSUMS: %w", EnvPrefix, err)
		}
		cfg.Checksums = on
	}
	if v.IsSet("signing_key") {
		cfg.Signing.KeyFile = v.GetString("signing_key")
	}
	if v.IsSet("signing_passphrase") {
		cfg.Signing.Passphrase = v.GetString("signing_passphrase")
	}
	if v.IsSet("vcpkg_root") {
		cfg.VcpkgRoot = v.GetString("vcpkg_root")
	}

	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
