package gateways

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// archiveFinder locates release archives in a dist directory
type archiveFinder struct{}

// NewArchiveFinder creates a new archive finder
//
//nolint:revive // unexported-return: Intentionally returns concrete type for testability
func NewArchiveFinder() *archiveFinder {
	return &archiveFinder{}
}

// FindArchive searches dir (not recursively) for the archive of a binary release.
// Accepted names: <bin>.tar.gz, <bin>-<version>.tar.gz and <bin>-<version>-<suffix>.tar.gz,
// with the version matched with or without its leading "v".
func (f *archiveFinder) FindArchive(dir, binaryName, version string) (string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("dist directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("dist path is not a directory: %s", dir)
	}

	versionClean := strings.TrimPrefix(version, "v")
	patterns := []string{
		binaryName + ".tar.gz",
		fmt.Sprintf("%s-%s.tar.gz", binaryName, versionClean),
		fmt.Sprintf("%s-v%s.tar.gz", binaryName, versionClean),
		fmt.Sprintf("%s-%s-*.tar.gz", binaryName, versionClean),
		fmt.Sprintf("%s-v%s-*.tar.gz", binaryName, versionClean),
	}

	seen := make(map[string]bool)
	var matches []string
	for _, pattern := range patterns {
		found, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return "", fmt.Errorf("failed to glob pattern %s: %w", pattern, err)
		}
		for _, m := range found {
			if !seen[m] {
				seen[m] = true
				matches = append(matches, m)
			}
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no archive for %s %s found in %s", binaryName, version, dir)
	case 1:
		return matches[0], nil
	default:
		sort.Strings(matches)
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = filepath.Base(m)
		}
		return "", fmt.Errorf("multiple archives for %s %s in %s: %s", binaryName, version, dir, strings.Join(names, ", "))
	}
}
