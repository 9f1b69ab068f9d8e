package gateways

import (
	"fmt"

	"github.com/ochairo/formulagen/internal/external-adapters/gpg"
)

// gpgVerifier wraps the external GPG adapter to implement the SignatureVerifier gateway
type gpgVerifier struct {
	verifier *gpg.Verifier
}

// NewGPGVerifier creates a new GPG verifier gateway
//
//nolint:revive // unexported-return: Intentionally returns concrete type for testability
func NewGPGVerifier() *gpgVerifier {
	return &gpgVerifier{
		verifier: gpg.NewVerifier(),
	}
}

// ImportKeyFromFile replaces the trusted keys with an armored or binary public keyring
func (g *gpgVerifier) ImportKeyFromFile(keyPath string) error {
	g.verifier.ClearKeyring()
	if err := g.verifier.ImportKeyFromFile(keyPath); err != nil {
		return fmt.Errorf("failed to import GPG keys: %w", err)
	}
	return nil
}

// VerifySignatureFromFile verifies a detached signature over filePath
func (g *gpgVerifier) VerifySignatureFromFile(filePath, sigPath string) error {
	return g.verifier.VerifySignatureFromFile(filePath, sigPath)
}
