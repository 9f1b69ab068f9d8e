package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ochairo/formulagen/internal/domain/entities"
)

var (
	stanzaPattern  = regexp.MustCompile(`^\s*(desc|homepage|url|sha256|version)\s+"([^"\\]*)"\s*(#.*)?$`)
	keywordPattern = regexp.MustCompile(`^\s*(desc|homepage|url|sha256|version)(\s|$)`)
	classPattern   = regexp.MustCompile(`^\s*class\s+[A-Z][A-Za-z0-9_]*\s*<\s*Formula\b`)
	installPattern = regexp.MustCompile(`^\s*def\s+install\b`)
)

// requiredStanzas must each appear at least once in a formula
var requiredStanzas = []string{"desc", "homepage", "url", "version"}

// Validator checks the integrity of rendered formula text
type Validator struct{}

// NewValidator creates a new formula validator
func NewValidator() *Validator {
	return &Validator{}
}

// Validate inspects rendered text and returns a RenderValidationError listing every
// problem found, or nil when the formula is sound.
func (v *Validator) Validate(text string) error {
	var violations []entities.Violation
	add := func(rule string, line int, format string, args ...interface{}) {
		violations = append(violations, entities.Violation{Rule: rule, Line: line, Message: fmt.Sprintf(format, args...)})
	}

	seen := make(map[string]bool)
	hasClass := false
	hasInstall := false

	for i, line := range strings.Split(text, "\n") {
		lineNo := i + 1

		unresolved := strings.Contains(line, openMarker) || strings.Contains(line, closeMarker)
		if unresolved {
			add(entities.RuleUnresolvedPlaceholder, lineNo, "unresolved placeholder marker in %q", strings.TrimSpace(line))
		}

		if classPattern.MatchString(line) {
			hasClass = true
		}
		if installPattern.MatchString(line) {
			hasInstall = true
		}

		m := stanzaPattern.FindStringSubmatch(line)
		if m == nil {
			// A stanza keyword whose value is not one plain string literal
			if k := keywordPattern.FindStringSubmatch(line); k != nil {
				seen[k[1]] = true
				add(entities.RuleStructure, lineNo, "malformed %s stanza %q", k[1], strings.TrimSpace(line))
			}
			continue
		}
		stanza, value := m[1], m[2]
		seen[stanza] = true

		if strings.Contains(value, "#{") {
			add(entities.RuleStructure, lineNo, "%s value %q contains string interpolation", stanza, value)
			continue
		}

		switch stanza {
		case "sha256":
			if !IsSHA256(value) {
				add(entities.RuleChecksum, lineNo, "sha256 %q is not 64 lower-case hexadecimal characters", value)
			}
		case "url", "homepage":
			if unresolved {
				continue
			}
			if reason := checkURL(value); reason != "" {
				add(entities.RuleURL, lineNo, "%s %q %s", stanza, value, reason)
			}
		}
	}

	if !seen["sha256"] {
		add(entities.RuleChecksum, 0, "missing sha256 stanza")
	}
	if !hasClass {
		add(entities.RuleStructure, 0, "missing `class <Name> < Formula` declaration")
	}
	for _, stanza := range requiredStanzas {
		if !seen[stanza] {
			add(entities.RuleStructure, 0, "missing %s stanza", stanza)
		}
	}
	if !hasInstall {
		add(entities.RuleStructure, 0, "missing install step (def install)")
	}

	if len(violations) > 0 {
		return &entities.RenderValidationError{Violations: violations}
	}
	return nil
}
