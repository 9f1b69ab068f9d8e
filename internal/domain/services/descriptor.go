// Package services implements the pure formula-generation domain logic.
package services

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/ochairo/formulagen/internal/domain/entities"
	"github.com/ochairo/formulagen/internal/domain/interfaces"
	"golang.org/x/mod/semver"
)

var (
	sha256Pattern      = regexp.MustCompile(`^[0-9a-f]{64}$`)
	formulaNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._+@-]*$`)
	classNamePattern   = regexp.MustCompile(`^[A-Z][A-Za-z0-9_]*$`)
)

// knownKeys lists every raw descriptor key the loader understands (aliases included)
var knownKeys = map[string]bool{
	entities.PlaceholderName:        true,
	entities.PlaceholderDescription: true,
	"desc":                          true,
	entities.PlaceholderHomepage:    true,
	entities.PlaceholderRepo:        true,
	"repo_url":                      true,
	entities.PlaceholderVersion:     true,
	entities.PlaceholderBin:         true,
	"binary_name":                   true,
	entities.PlaceholderShasum:      true,
	"sha256":                        true,
	"archive_sha256":                true,
}

// DescriptorLoader turns raw release metadata into a validated ReleaseDescriptor
type DescriptorLoader struct {
	logger interfaces.Logger
}

// NewDescriptorLoader creates a new descriptor loader
func NewDescriptorLoader(logger interfaces.Logger) *DescriptorLoader {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &DescriptorLoader{logger: logger}
}

// Load validates raw metadata and builds a descriptor.
// Every field problem is collected into a single ValidationError.
func (l *DescriptorLoader) Load(raw entities.RawDescriptor) (*entities.ReleaseDescriptor, error) {
	unknown := make([]string, 0)
	for k := range raw {
		if !knownKeys[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		l.logger.Debug("ignoring unknown descriptor keys", interfaces.F("keys", strings.Join(unknown, ",")))
	}

	get := func(key string) string {
		return strings.TrimSpace(raw.Get(key))
	}

	d := &entities.ReleaseDescriptor{
		Name:          get(entities.PlaceholderName),
		Description:   get(entities.PlaceholderDescription),
		Homepage:      get(entities.PlaceholderHomepage),
		RepoURL:       strings.TrimSuffix(get(entities.PlaceholderRepo), "/"),
		Version:       get(entities.PlaceholderVersion),
		BinaryName:    get(entities.PlaceholderBin),
		ArchiveSHA256: strings.ToLower(get(entities.PlaceholderShasum)),
	}

	// Defaults follow the release build: the repository doubles as homepage,
	// and the package is named after its binary.
	if d.Homepage == "" {
		d.Homepage = d.RepoURL
	}
	if d.BinaryName == "" {
		d.BinaryName = d.Name
	}
	if d.Description == "" {
		d.Description = d.Name
	}

	var problems []entities.FieldProblem
	add := func(field, reason string) {
		problems = append(problems, entities.FieldProblem{Field: field, Reason: reason})
	}

	for _, key := range entities.DescriptorKeys {
		if keys := raw.ConflictingKeys(key); keys != nil {
			add(key, "conflicting values in "+strings.Join(keys, ", "))
		}
	}

	// Values end up inside double-quoted Ruby strings
	unsafe := make(map[string]bool)
	for _, f := range []struct{ field, value string }{
		{entities.PlaceholderDescription, d.Description},
		{entities.PlaceholderHomepage, d.Homepage},
		{entities.PlaceholderRepo, d.RepoURL},
		{entities.PlaceholderBin, d.BinaryName},
	} {
		if f.field == entities.PlaceholderHomepage && d.Homepage == d.RepoURL {
			continue
		}
		if reason := checkLiteral(f.value); reason != "" {
			unsafe[f.field] = true
			add(f.field, reason)
		}
	}

	switch {
	case d.Name == "":
		add(entities.PlaceholderName, "is required")
	case !formulaNamePattern.MatchString(d.Name):
		add(entities.PlaceholderName, "must start with a letter or digit and contain only letters, digits, '.', '_', '+', '@' or '-'")
	default:
		d.ClassName = ClassName(d.Name)
		if !classNamePattern.MatchString(d.ClassName) {
			add(entities.PlaceholderName, fmt.Sprintf("derives class name %q, which is not a valid Ruby constant", d.ClassName))
		}
	}

	if d.RepoURL == "" {
		add(entities.PlaceholderRepo, "is required")
	} else if reason := checkURL(d.RepoURL); reason != "" && !unsafe[entities.PlaceholderRepo] {
		add(entities.PlaceholderRepo, reason)
	}

	if d.Homepage != d.RepoURL && !unsafe[entities.PlaceholderHomepage] {
		if reason := checkURL(d.Homepage); reason != "" {
			add(entities.PlaceholderHomepage, reason)
		}
	}

	switch {
	case d.Version == "":
		add(entities.PlaceholderVersion, "is required")
	case !IsVersion(d.Version):
		add(entities.PlaceholderVersion, "must be a semantic version such as 1.2.0 or v1.2.0")
	}

	if !unsafe[entities.PlaceholderBin] && strings.ContainsAny(d.BinaryName, "/ ") {
		add(entities.PlaceholderBin, "must be a plain file name")
	}

	switch {
	case d.ArchiveSHA256 == "":
		add(entities.PlaceholderShasum, "is required")
	case !sha256Pattern.MatchString(d.ArchiveSHA256):
		add(entities.PlaceholderShasum, "must be exactly 64 hexadecimal characters")
	}

	if len(problems) > 0 {
		return nil, &entities.ValidationError{Problems: problems}
	}

	l.logger.Debug("release descriptor loaded",
		interfaces.F("name", d.Name),
		interfaces.F("version", d.Version))

	return d, nil
}

// IsVersion reports whether v is a recognized version string (with or without a leading "v")
func IsVersion(v string) bool {
	return semver.IsValid("v" + strings.TrimPrefix(v, "v"))
}

// IsSHA256 reports whether s is a lower-case hex SHA-256 digest
func IsSHA256(s string) bool {
	return sha256Pattern.MatchString(s)
}

// checkLiteral returns an empty string when v can sit between double quotes in
// Ruby source unchanged, otherwise the reason it cannot
func checkLiteral(v string) string {
	if strings.ContainsAny(v, "\"\\") {
		return "must not contain double quotes or backslashes"
	}
	if strings.Contains(v, "#{") {
		return "must not contain \"#{\""
	}
	if strings.IndexFunc(v, unicode.IsControl) >= 0 {
		return "must not contain control characters"
	}
	return ""
}

// checkURL returns an empty string when raw is an absolute http(s) URL, otherwise the reason it is not
func checkURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "is not a valid URL"
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "must be an http or https URL"
	}
	if u.Host == "" {
		return "must include a host"
	}
	return ""
}

// ClassName derives the Ruby class name Homebrew expects for a formula name
// (e.g. "ai-commit" becomes "AiCommit", "foo@2" becomes "FooAT2").
func ClassName(name string) string {
	if name == "" {
		return ""
	}

	lower := []rune(strings.ToLower(name))
	lower[0] = unicode.ToUpper(lower[0])

	out := make([]rune, 0, len(lower))
	for i := 0; i < len(lower); i++ {
		r := lower[i]
		switch {
		case isClassSeparator(r) && i > 0 && i+1 < len(lower) && isAlnum(lower[i+1]):
			out = append(out, unicode.ToUpper(lower[i+1]))
			i++
		case r == '+':
			out = append(out, 'x')
		case r == '@' && i > 0 && i+1 < len(lower) && unicode.IsDigit(lower[i+1]):
			out = append(out, 'A', 'T')
		default:
			out = append(out, r)
		}
	}
	return string(out)
}

func isClassSeparator(r rune) bool {
	return r == '-' || r == '_' || r == '.' || unicode.IsSpace(r)
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
