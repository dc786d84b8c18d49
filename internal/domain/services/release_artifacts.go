package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ochairo/wheelwright/internal/domain/interfaces"
)

// FileSigner writes a detached signature next to a file
type FileSigner interface {
	SignFile(filePath string) (string, error)
}

// ReleaseArtifactsService writes the sidecar files published with a wheel
type ReleaseArtifactsService struct {
	checksums bool
	signer    FileSigner
	logger    interfaces.Logger
}

// NewReleaseArtifactsService creates the service. A nil signer disables signatures.
func NewReleaseArtifactsService(checksums bool, signer FileSigner, logger interfaces.Logger) *ReleaseArtifactsService {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &ReleaseArtifactsService{checksums: checksums, signer: signer, logger: logger}
}

// Enabled reports whether any sidecar will be written
func (s *ReleaseArtifactsService) Enabled() bool {
	return s.checksums || s.signer != nil
}

// GenerateAll writes the enabled sidecars for wheelPath and returns their paths
func (s *ReleaseArtifactsService) GenerateAll(wheelPath string) ([]string, error) {
	var written []string

	if s.checksums {
		sumPath, err := s.GenerateSHA256(wheelPath)
		if err != nil {
			return written, fmt.Errorf("failed to generate SHA256: %w", err)
		}
		s.logger.Info("Wrote checksum", interfaces.F("file", filepath.Base(sumPath)))
		written = append(written, sumPath)
	}

	if s.signer != nil {
		sigPath, err := s.signer.SignFile(wheelPath)
		if err != nil {
			return written, fmt.Errorf("failed to sign wheel: %w", err)
		}
		s.logger.Info("Wrote signature", interfaces.F("file", filepath.Base(sigPath)))
		written = append(written, sigPath)
	}

	return written, nil
}

// GenerateSHA256 generates a sha256sum-compatible checksum file
func (s *ReleaseArtifactsService) GenerateSHA256(filePath string) (string, error) {
	hash, err := computeSHA256(filePath)
	if err != nil {
		return "", err
	}

	checksumPath := filePath + ".sha256"
	content := fmt.Sprintf("%s  %s\n", hash, filepath.Base(filePath))

	if err := os.WriteFile(checksumPath, []byte(content), 0600); err != nil {
		return "", fmt.Errorf("failed to write SHA256 file: %w", err)
	}

	return checksumPath, nil
}

func computeSHA256(filePath string) (string, error) {
	//nolint:gosec // G304: filePath is a wheel produced by this run
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash file: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
