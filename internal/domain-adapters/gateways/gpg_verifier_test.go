package gateways

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"

	"github.com/ochairo/wheelwright/internal/external-adapters/gpg"
)

// writeKeyPair generates a key and stores its armored public and private halves
func writeKeyPair(t *testing.T, dir string) (pubPath, privPath string) {
	t.Helper()
	entity, err := openpgp.NewEntity("Wheelwright Test", "", "test@example.com", nil)
	if err != nil {
		t.Fatalf("NewEntity() error = %v", err)
	}

	write := func(path, blockType string, serialize func(*bytes.Buffer) error) {
		var raw, out bytes.Buffer
		if err := serialize(&raw); err != nil {
			t.Fatalf("serialize: %v", err)
		}
		w, err := armor.Encode(&out, blockType, nil)
		if err != nil {
			t.Fatalf("armor.Encode() error = %v", err)
		}
		if _, err := w.Write(raw.Bytes()); err != nil {
			t.Fatalf("armor write: %v", err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("armor close: %v", err)
		}
		if err := os.WriteFile(path, out.Bytes(), 0600); err != nil {
			t.Fatalf("write key: %v", err)
		}
	}

	pubPath = filepath.Join(dir, "pub.asc")
	privPath = filepath.Join(dir, "priv.asc")
	write(pubPath, openpgp.PublicKeyType, func(b *bytes.Buffer) error { return entity.Serialize(b) })
	write(privPath, openpgp.PrivateKeyType, func(b *bytes.Buffer) error { return entity.SerializePrivate(b, nil) })
	return pubPath, privPath
}

func TestSignatureVerifier_VerifyWheel(t *testing.T) {
	dir := t.TempDir()
	pub, priv := writeKeyPair(t, dir)

	wheel := filepath.Join(dir, "gosdt-1.0.5-cp39-cp39-linux_x86_64.whl")
	if err := os.WriteFile(wheel, []byte("wheel bytes"), 0600); err != nil {
		t.Fatal(err)
	}

	signer, err := gpg.LoadSigner(priv, nil)
	if err != nil {
		t.Fatalf("LoadSigner() error = %v", err)
	}
	if _, err := signer.SignFile(wheel); err != nil {
		t.Fatalf("SignFile() error = %v", err)
	}

	verifier, err := NewSignatureVerifier(pub)
	if err != nil {
		t.Fatalf("NewSignatureVerifier() error = %v", err)
	}
	if verifier.KeyCount() != 1 {
		t.Errorf("KeyCount() = %d, want 1", verifier.KeyCount())
	}
	if err := verifier.VerifyWheel(wheel); err != nil {
		t.Errorf("VerifyWheel() error = %v", err)
	}

	if err := os.WriteFile(wheel, []byte("tampered"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := verifier.VerifyWheel(wheel); err == nil {
		t.Error("VerifyWheel() should fail for a modified wheel")
	}
}

func TestSignatureVerifier_MissingSignature(t *testing.T) {
	dir := t.TempDir()
	pub, _ := writeKeyPair(t, dir)
	wheel := filepath.Join(dir, "gosdt-1.0.5-py3-none-any.whl")
	touch(t, wheel)

	verifier, err := NewSignatureVerifier(pub)
	if err != nil {
		t.Fatalf("NewSignatureVerifier() error = %v", err)
	}
	if err := verifier.VerifyWheel(wheel); err == nil {
		t.Error("VerifyWheel() should fail without a .asc file")
	}
}

func TestNewSignatureVerifier_BadKey(t *testing.T) {
	if _, err := NewSignatureVerifier(filepath.Join(t.TempDir(), "missing.asc")); err == nil {
		t.Error("NewSignatureVerifier() should fail for a missing key file")
	}
}
