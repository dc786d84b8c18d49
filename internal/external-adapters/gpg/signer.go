package gpg

import (
	"fmt"
	"os"

	"github.com/ProtonMail/go-crypto/openpgp"
)

// SignatureSuffix is appended to a file's path to name its detached signature
const SignatureSuffix = ".asc"

// Signer writes armored detached signatures with a single private key
type Signer struct {
	entity *openpgp.Entity
}

// LoadSigner reads the first private key in keyPath, decrypting it with
// passphrase when the key material is protected.
func LoadSigner(keyPath string, passphrase []byte) (*Signer, error) {
	entities, err := readKeyFile(keyPath)
	if err != nil {
		return nil, err
	}

	var entity *openpgp.Entity
	for _, e := range entities {
		if e.PrivateKey != nil {
			entity = e
			break
		}
	}
	if entity == nil {
		return nil, fmt.Errorf("key file %s holds no private key", keyPath)
	}

	if entity.PrivateKey.Encrypted {
		if len(passphrase) == 0 {
			return nil, fmt.Errorf("private key is passphrase-protected, but no passphrase was given")
		}
		if err := entity.PrivateKey.Decrypt(passphrase); err != nil {
			return nil, fmt.Errorf("failed to decrypt private key: %w", err)
		}
	}
	for _, sub := range entity.Subkeys {
		if sub.PrivateKey != nil && sub.PrivateKey.Encrypted && len(passphrase) > 0 {
			if err := sub.PrivateKey.Decrypt(passphrase); err != nil {
				return nil, fmt.Errorf("failed to decrypt subkey: %w", err)
			}
		}
	}

	return &Signer{entity: entity}, nil
}

// SignFile writes filePath + SignatureSuffix and returns its path
func (s *Signer) SignFile(filePath string) (string, error) {
	//nolint:gosec // G304: filePath is a wheel produced by this run
	data, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file to sign: %w", err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer data.Close()

	sigPath := filePath + SignatureSuffix
	//nolint:gosec // G304: signature path derives from the wheel path
	out, err := os.Create(sigPath)
	if err != nil {
		return "", fmt.Errorf("failed to create signature file: %w", err)
	}

	if err := openpgp.ArmoredDetachSign(out, s.entity, data, nil); err != nil {
		_ = out.Close()
		_ = os.Remove(sigPath)
		return "", fmt.Errorf("failed to sign %s: %w", filePath, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("failed to write signature file: %w", err)
	}

	return sigPath, nil
}

// Fingerprint returns the signing key's fingerprint in upper-case hex
func (s *Signer) Fingerprint() string {
	return fmt.Sprintf("%X", s.entity.PrimaryKey.Fingerprint)
}
