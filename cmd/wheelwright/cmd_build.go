package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/ochairo/wheelwright/internal/config"
	"github.com/ochairo/wheelwright/internal/domain-adapters/gateways"
	orchestrators "github.com/ochairo/wheelwright/internal/domain-orchestrators"
	"github.com/ochairo/wheelwright/internal/domain/entities"
	"github.com/ochairo/wheelwright/internal/domain/interfaces"
	"github.com/ochairo/wheelwright/internal/domain/services"
	"github.com/ochairo/wheelwright/internal/external-adapters/charmlog"
	"github.com/ochairo/wheelwright/internal/external-adapters/gpg"
)

// environment is the loaded configuration plus the logger built from the flags
type environment struct {
	config *entities.BuildConfig
	logger interfaces.Logger
}

func loadEnvironment(cmd *cobra.Command, opts *rootOptions) (*environment, error) {
	logger := charmlog.NewWithWriter(cmd.OutOrStdout(), charmlog.Options{Verbose: opts.verbose})

	cfg, path, err := config.Load(cmd.Context(), config.LoadOptions{
		ConfigFile: opts.configFile,
		WorkDir:    opts.workDir,
	})
	if err != nil {
		return nil, err
	}
	if path != "" {
		logger.Debug("Loaded configuration", interfaces.F("file", path))
	}

	return &environment{config: cfg, logger: logger}, nil
}

func newPlatformDetector(env *environment) *gateways.PlatformDetector {
	return gateways.NewPlatformDetector(gateways.PlatformDetectorConfig{
		GOOS:      runtime.GOOS,
		VcpkgRoot: env.config.VcpkgRoot,
	}, env.logger)
}

func runBuild(cmd *cobra.Command, opts *rootOptions) error {
	env, err := loadEnvironment(cmd, opts)
	if err != nil {
		return err
	}
	cfg := env.config

	var signer services.FileSigner
	if cfg.Signing.KeyFile != "" {
		s, err := gpg.LoadSigner(cfg.Resolve(cfg.Signing.KeyFile), []byte(cfg.Signing.Passphrase))
		if err != nil {
			return fmt.Errorf("failed to load signing key: %w", err)
		}
		env.logger.Debug("Signing wheels", interfaces.F("fingerprint", s.Fingerprint()))
		signer = s
	}

	orch := orchestrators.NewBuildOrchestrator(orchestrators.BuildOrchestratorDeps{
		Cleaner:   gateways.NewOutputCleaner(),
		Runner:    gateways.NewExecRunner(cmd.OutOrStdout(), env.logger),
		Locator:   gateways.NewArtifactFinder(),
		Detector:  newPlatformDetector(env),
		Inspector: gateways.NewWheelInspector(),
		Sidecars:  services.NewReleaseArtifactsService(cfg.Checksums, signer, env.logger),
	}, cfg, env.logger)

	result, err := orch.Run(cmd.Context())
	if err != nil {
		return err
	}

	if opts.verbose {
		fmt.Fprintln(cmd.OutOrStdout(), orchestrators.GetBuildSummary(result))
	}
	return nil
}
