package gateways

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestCompositeArchiveGateway(t *testing.T) {
	gw := NewCompositeArchiveGateway()

	dir := t.TempDir()
	archive := filepath.Join(dir, "ai-commit-1.2.0.tar.gz")
	if err := os.WriteFile(archive, []byte(""), 0600); err != nil {
		t.Fatal(err)
	}

	found, err := gw.FindArchive(dir, "ai-commit", "v1.2.0")
	if err != nil {
		t.Fatalf("FindArchive() error = %v", err)
	}

	sum, err := gw.CalculateChecksum(found)
	if err != nil {
		t.Fatalf("CalculateChecksum() error = %v", err)
	}
	if sum != "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855" {
		t.Errorf("CalculateChecksum() = %v", sum)
	}

	if err := gw.VerifyChecksum(context.Background(), found, sum); err != nil {
		t.Errorf("VerifyChecksum() error = %v", err)
	}
}

func TestCompositeArchiveGatewayWithDeps(t *testing.T) {
	gw := NewCompositeArchiveGatewayWithDeps(NewChecksumVerifier(), NewArchiveFinder(), NewDownloader())

	if _, err := gw.FindArchive(t.TempDir(), "ai-commit", "1.2.0"); err == nil {
		t.Error("FindArchive() in empty dir should fail")
	}
}
