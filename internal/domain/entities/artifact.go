// Package entities defines core domain models and data structures.
package entities

// Archive represents the release archive a formula points at
type Archive struct {
	Path   string // local path, empty when only the checksum is known
	Source string // "file", "dist", "url"
	SHA256 string
}
