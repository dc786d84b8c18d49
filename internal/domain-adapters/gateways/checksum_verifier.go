package gateways

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ChecksumVerifier verifies SHA-256 digests of built wheels
type ChecksumVerifier struct{}

// NewChecksumVerifier creates a new checksum verifier
func NewChecksumVerifier() *ChecksumVerifier {
	return &ChecksumVerifier{}
}

// VerifyChecksum verifies a file's SHA256 checksum
func (v *ChecksumVerifier) VerifyChecksum(_ context.Context, filePath, expectedSum string) error {
	actualSum, err := v.CalculateChecksum(filePath)
	if err != nil {
		return err
	}

	if !strings.EqualFold(actualSum, expectedSum) {
		return fmt.Errorf("checksum mismatch: expected %s, got %s", expectedSum, actualSum)
	}

	return nil
}

// VerifySidecar checks filePath against the "<hash>  <name>" line in filePath.sha256
func (v *ChecksumVerifier) VerifySidecar(ctx context.Context, filePath string) error {
	sidecar := filePath + ".sha256"
	//nolint:gosec // G304: sidecar path derives from the wheel being verified
	data, err := os.ReadFile(sidecar)
	if err != nil {
		return fmt.Errorf("failed to read checksum file: %w", err)
	}

	fields := strings.Fields(string(data))
	if len(fields) < 1 {
		return fmt.Errorf("checksum file %s is empty", sidecar)
	}
	if len(fields) >= 2 && strings.TrimPrefix(fields[1], "*") != filepath.Base(filePath) {
		return fmt.Errorf("checksum file %s names %s, not %s", sidecar, fields[1], filepath.Base(filePath))
	}

	return v.VerifyChecksum(ctx, filePath, fields[0])
}

// CalculateChecksum calculates the SHA256 checksum of a file
func (v *ChecksumVerifier) CalculateChecksum(filePath string) (string, error) {
	//nolint:gosec // G304: File path is user-provided for checksum calculation
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
