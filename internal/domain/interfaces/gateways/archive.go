// Package gateways defines interfaces for external service adapters.
package gateways

import (
	"context"
)

// ArchiveGateway locates release archives and computes their checksums
type ArchiveGateway interface {
	// CalculateChecksum returns the SHA-256 hex digest of a file
	CalculateChecksum(filePath string) (string, error)

	// VerifyChecksum compares a file's SHA-256 digest against an expected value
	VerifyChecksum(ctx context.Context, filePath, expectedSum string) error

	// FindArchive locates the release archive for a binary and version in a dist directory
	FindArchive(dir, binaryName, version string) (string, error)

	// Download fetches a URL into dir and returns the local file path
	Download(ctx context.Context, url, dir string) (string, error)
}

// SignatureVerifier checks detached OpenPGP signatures over release archives
type SignatureVerifier interface {
	// ImportKeyFromFile adds the keys in an armored or binary keyring file
	ImportKeyFromFile(keyPath string) error

	// VerifySignatureFromFile verifies a detached signature stored next to the data
	VerifySignatureFromFile(filePath, sigPath string) error
}
