package gateways

import (
	"context"

	"github.com/ochairo/formulagen/internal/domain/interfaces/gateways"
)

// compositeArchiveGateway implements the ArchiveGateway interface by composing
// the checksum, finder and download gateways
type compositeArchiveGateway struct {
	checksumVerifier *checksumVerifier
	archiveFinder    *archiveFinder
	downloader       *downloader
}

// NewCompositeArchiveGateway creates a new composite archive gateway with all dependencies
func NewCompositeArchiveGateway() gateways.ArchiveGateway {
	return &compositeArchiveGateway{
		checksumVerifier: NewChecksumVerifier(),
		archiveFinder:    NewArchiveFinder(),
		downloader:       NewDownloader(),
	}
}

// NewCompositeArchiveGatewayWithDeps creates a composite gateway with custom dependencies
func NewCompositeArchiveGatewayWithDeps(
	checksum *checksumVerifier,
	finder *archiveFinder,
	dl *downloader,
) gateways.ArchiveGateway {
	return &compositeArchiveGateway{
		checksumVerifier: checksum,
		archiveFinder:    finder,
		downloader:       dl,
	}
}

// CalculateChecksum returns the SHA-256 hex digest of a file
func (c *compositeArchiveGateway) CalculateChecksum(filePath string) (string, error) {
	return c.checksumVerifier.CalculateChecksum(filePath)
}

// VerifyChecksum verifies a file's SHA-256 checksum
func (c *compositeArchiveGateway) VerifyChecksum(ctx context.Context, filePath, expectedSum string) error {
	return c.checksumVerifier.VerifyChecksum(ctx, filePath, expectedSum)
}

// FindArchive locates a release archive in a dist directory
func (c *compositeArchiveGateway) FindArchive(dir, binaryName, version string) (string, error) {
	return c.archiveFinder.FindArchive(dir, binaryName, version)
}

// Download fetches an archive URL into dir
func (c *compositeArchiveGateway) Download(ctx context.Context, url, dir string) (string, error) {
	return c.downloader.Download(ctx, url, dir)
}
