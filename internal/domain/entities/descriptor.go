package entities

import (
	"sort"
	"strings"
)

// Placeholder names understood by the renderer
const (
	PlaceholderName        = "name"
	PlaceholderClass       = "class"
	PlaceholderDescription = "description"
	PlaceholderHomepage    = "homepage"
	PlaceholderRepo        = "repo"
	PlaceholderVersion     = "version"
	PlaceholderBin         = "bin"
	PlaceholderShasum      = "shasum"
)

// placeholderAliases maps alternate spellings to their canonical placeholder name
var placeholderAliases = map[string]string{
	"class_name":     PlaceholderClass,
	"desc":           PlaceholderDescription,
	"repo_url":       PlaceholderRepo,
	"binary_name":    PlaceholderBin,
	"sha256":         PlaceholderShasum,
	"archive_sha256": PlaceholderShasum,
}

// aliasOrder lists the aliases of each canonical key in lookup order
var aliasOrder = map[string][]string{
	PlaceholderClass:       {"class_name"},
	PlaceholderDescription: {"desc"},
	PlaceholderRepo:        {"repo_url"},
	PlaceholderBin:         {"binary_name"},
	PlaceholderShasum:      {"sha256", "archive_sha256"},
}

// DescriptorKeys lists the canonical descriptor keys in a stable order
var DescriptorKeys = []string{
	PlaceholderName,
	PlaceholderDescription,
	PlaceholderHomepage,
	PlaceholderRepo,
	PlaceholderVersion,
	PlaceholderBin,
	PlaceholderShasum,
}

// CanonicalKey resolves an alias to its canonical placeholder name.
// Names that are not aliases are returned unchanged.
func CanonicalKey(key string) string {
	if canonical, ok := placeholderAliases[key]; ok {
		return canonical
	}
	return key
}

// ReleaseDescriptor describes one software release to publish as a formula
type ReleaseDescriptor struct {
	Name          string
	ClassName     string // Ruby class name derived from Name
	Description   string
	Homepage      string
	RepoURL       string
	Version       string
	BinaryName    string
	ArchiveSHA256 string // lower-case hex
}

// Lookup returns the value bound to a placeholder name (aliases included)
func (d *ReleaseDescriptor) Lookup(placeholder string) (string, bool) {
	switch CanonicalKey(placeholder) {
	case PlaceholderName:
		return d.Name, true
	case PlaceholderClass:
		return d.ClassName, true
	case PlaceholderDescription:
		return d.Description, true
	case PlaceholderHomepage:
		return d.Homepage, true
	case PlaceholderRepo:
		return d.RepoURL, true
	case PlaceholderVersion:
		return d.Version, true
	case PlaceholderBin:
		return d.BinaryName, true
	case PlaceholderShasum:
		return d.ArchiveSHA256, true
	default:
		return "", false
	}
}

// RawDescriptor is unvalidated key-value release metadata as read from a descriptor file
type RawDescriptor map[string]string

// Get returns the first non-empty value among key and its aliases, checked in a fixed order
func (r RawDescriptor) Get(key string) string {
	if v := r[key]; v != "" {
		return v
	}
	for _, alias := range aliasOrder[key] {
		if v := r[alias]; v != "" {
			return v
		}
	}
	return ""
}

// ConflictingKeys returns the raw keys spelling the canonical key when they carry
// different non-empty values, or nil when they agree. Values are compared after
// trimming blanks; checksums ignore case.
func (r RawDescriptor) ConflictingKeys(key string) []string {
	var keys []string
	first := ""
	conflict := false
	for _, k := range append([]string{key}, aliasOrder[key]...) {
		v := strings.TrimSpace(r[k])
		if v == "" {
			continue
		}
		if key == PlaceholderShasum {
			v = strings.ToLower(v)
		}
		if len(keys) == 0 {
			first = v
		} else if v != first {
			conflict = true
		}
		keys = append(keys, k)
	}
	if !conflict {
		return nil
	}
	return keys
}

// Merge returns a copy of r with values from base filled in wherever r has no value
// for the same canonical key
func (r RawDescriptor) Merge(base map[string]string) RawDescriptor {
	merged := make(RawDescriptor, len(r)+len(base))
	for k, v := range r {
		merged[k] = v
	}
	keys := make([]string, 0, len(base))
	for k := range base {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if merged.Get(CanonicalKey(k)) == "" {
			merged[k] = base[k]
		}
	}
	return merged
}
