package gateways

import (
	"fmt"
	"os"

	"github.com/ochairo/wheelwright/internal/external-adapters/gpg"
)

// SignatureVerifier checks the detached .asc signature published next to a wheel
type SignatureVerifier struct {
	verifier *gpg.Verifier
}

// NewSignatureVerifier loads the public keys a signature may be made with
func NewSignatureVerifier(keyPaths ...string) (*SignatureVerifier, error) {
	v := gpg.NewVerifier()
	for _, p := range keyPaths {
		if err := v.ImportKeyFromFile(p); err != nil {
			return nil, fmt.Errorf("failed to import GPG key from file: %w", err)
		}
	}
	return &SignatureVerifier{verifier: v}, nil
}

// VerifyWheel verifies wheelPath against wheelPath.asc
func (s *SignatureVerifier) VerifyWheel(wheelPath string) error {
	sigPath := wheelPath + gpg.SignatureSuffix
	if _, err := os.Stat(sigPath); err != nil {
		return fmt.Errorf("signature %s not found: %w", sigPath, err)
	}
	if err := s.verifier.VerifySignatureFromFile(wheelPath, sigPath); err != nil {
		return fmt.Errorf("GPG signature verification failed: %w", err)
	}
	return nil
}

// KeyCount returns the number of keys loaded
func (s *SignatureVerifier) KeyCount() int {
	return s.verifier.GetKeyringSize()
}
