package gpg

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
)

var keyConfig = &packet.Config{Algorithm: packet.PubKeyAlgoEdDSA}

// newSigner generates a throwaway signing key and writes its armored public key to dir
func newSigner(t *testing.T, dir string) (*openpgp.Entity, string) {
	t.Helper()

	entity, err := openpgp.NewEntity("Release Bot", "test", "release@example.com", keyConfig)
	if err != nil {
		t.Fatalf("NewEntity() error = %v", err)
	}

	var buf bytes.Buffer
	w, err := armor.Encode(&buf, openpgp.PublicKeyType, nil)
	if err != nil {
		t.Fatalf("armor.Encode() error = %v", err)
	}
	if err := entity.Serialize(w); err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("armor close error = %v", err)
	}

	keyPath := filepath.Join(dir, "release.asc")
	if err := os.WriteFile(keyPath, buf.Bytes(), 0600); err != nil {
		t.Fatalf("Failed to write key: %v", err)
	}
	return entity, keyPath
}

func writeArchive(t *testing.T, dir string, content string) string {
	t.Helper()
	p := filepath.Join(dir, "ai-commit.tar.gz")
	if err := os.WriteFile(p, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write archive: %v", err)
	}
	return p
}

func TestVerifier_VerifySignatureFromFile_Armored(t *testing.T) {
	dir := t.TempDir()
	signer, keyPath := newSigner(t, dir)
	archive := writeArchive(t, dir, "release payload")

	var sig bytes.Buffer
	if err := openpgp.ArmoredDetachSign(&sig, signer, strings.NewReader("release payload"), nil); err != nil {
		t.Fatalf("ArmoredDetachSign() error = %v", err)
	}
	sigPath := archive + ".asc"
	if err := os.WriteFile(sigPath, sig.Bytes(), 0600); err != nil {
		t.Fatal(err)
	}

	v := NewVerifier()
	if err := v.ImportKeyFromFile(keyPath); err != nil {
		t.Fatalf("ImportKeyFromFile() error = %v", err)
	}
	if len(v.keyring) != 1 {
		t.Errorf("keyring size = %d, want 1", len(v.keyring))
	}

	if err := v.VerifySignatureFromFile(archive, sigPath); err != nil {
		t.Errorf("VerifySignatureFromFile() error = %v", err)
	}
}

func TestVerifier_VerifySignatureFromFile_Binary(t *testing.T) {
	dir := t.TempDir()
	signer, keyPath := newSigner(t, dir)
	archive := writeArchive(t, dir, "binary signed payload")

	var sig bytes.Buffer
	if err := openpgp.DetachSign(&sig, signer, strings.NewReader("binary signed payload"), nil); err != nil {
		t.Fatalf("DetachSign() error = %v", err)
	}
	sigPath := archive + ".sig"
	if err := os.WriteFile(sigPath, sig.Bytes(), 0600); err != nil {
		t.Fatal(err)
	}

	v := NewVerifier()
	if err := v.ImportKeyFromFile(keyPath); err != nil {
		t.Fatalf("ImportKeyFromFile() error = %v", err)
	}

	if err := v.VerifySignatureFromFile(archive, sigPath); err != nil {
		t.Errorf("VerifySignatureFromFile() error = %v", err)
	}
}

func TestVerifier_VerifySignatureFromFile_TamperedArchive(t *testing.T) {
	dir := t.TempDir()
	signer, keyPath := newSigner(t, dir)

	var sig bytes.Buffer
	if err := openpgp.ArmoredDetachSign(&sig, signer, strings.NewReader("original"), nil); err != nil {
		t.Fatal(err)
	}
	archive := writeArchive(t, dir, "tampered")
	sigPath := archive + ".asc"
	if err := os.WriteFile(sigPath, sig.Bytes(), 0600); err != nil {
		t.Fatal(err)
	}

	v := NewVerifier()
	if err := v.ImportKeyFromFile(keyPath); err != nil {
		t.Fatal(err)
	}

	err := v.VerifySignatureFromFile(archive, sigPath)
	if err == nil {
		t.Fatal("Expected verification failure for tampered archive, got nil")
	}
	if !strings.Contains(err.Error(), "signature verification failed") {
		t.Errorf("Expected 'signature verification failed' error, got: %v", err)
	}
}

func TestVerifier_VerifySignatureFromFile_WrongKey(t *testing.T) {
	dir := t.TempDir()
	signer, _ := newSigner(t, dir)
	_, otherKeyPath := newSigner(t, t.TempDir())
	archive := writeArchive(t, dir, "payload")

	var sig bytes.Buffer
	if err := openpgp.ArmoredDetachSign(&sig, signer, strings.NewReader("payload"), nil); err != nil {
		t.Fatal(err)
	}
	sigPath := archive + ".asc"
	if err := os.WriteFile(sigPath, sig.Bytes(), 0600); err != nil {
		t.Fatal(err)
	}

	v := NewVerifier()
	if err := v.ImportKeyFromFile(otherKeyPath); err != nil {
		t.Fatal(err)
	}

	if err := v.VerifySignatureFromFile(archive, sigPath); err == nil {
		t.Error("Expected verification failure with unrelated key, got nil")
	}
}

// Test importing key from nonexistent file
func TestVerifier_ImportKeyFromFile_NonexistentFile(t *testing.T) {
	v := NewVerifier()

	err := v.ImportKeyFromFile("/nonexistent/key.asc")

	if err == nil {
		t.Fatal("Expected error for nonexistent file, got nil")
	}

	if !strings.Contains(err.Error(), "failed to open key file") {
		t.Errorf("Expected 'failed to open key file' error, got: %v", err)
	}
}

// Test importing key from file with no keys
func TestVerifier_ImportKeyFromFile_InvalidFile(t *testing.T) {
	v := NewVerifier()
	keyPath := filepath.Join(t.TempDir(), "empty.asc")
	if err := os.WriteFile(keyPath, []byte("not a gpg key"), 0600); err != nil {
		t.Fatal(err)
	}

	if err := v.ImportKeyFromFile(keyPath); err == nil {
		t.Fatal("Expected error for invalid key file, got nil")
	}
	if len(v.keyring) != 0 {
		t.Errorf("keyring size = %d, want 0", len(v.keyring))
	}
}

func TestVerifier_VerifySignatureFromFile_NoKeysImported(t *testing.T) {
	v := NewVerifier()

	err := v.VerifySignatureFromFile("/tmp/file", "/tmp/file.asc")
	if err == nil || !strings.Contains(err.Error(), "no GPG keys imported") {
		t.Errorf("Expected 'no GPG keys imported' error, got: %v", err)
	}
}

func TestVerifier_ClearKeyring(t *testing.T) {
	_, keyPath := newSigner(t, t.TempDir())

	v := NewVerifier()
	if err := v.ImportKeyFromFile(keyPath); err != nil {
		t.Fatal(err)
	}
	v.ClearKeyring()

	if size := len(v.keyring); size != 0 {
		t.Errorf("Keyring size after clear = %d, want 0", size)
	}
}
