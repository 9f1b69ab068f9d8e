package entities

import (
	"fmt"
	"strings"
)

// FieldProblem describes one missing or malformed descriptor field
type FieldProblem struct {
	Field  string
	Reason string
}

// ValidationError reports a bad release descriptor
type ValidationError struct {
	Problems []FieldProblem
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, fmt.Sprintf("%s: %s", p.Field, p.Reason))
	}
	return "invalid release descriptor: " + strings.Join(parts, "; ")
}

// Fields returns the names of all offending fields
func (e *ValidationError) Fields() []string {
	fields := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		fields = append(fields, p.Field)
	}
	return fields
}

// MissingPlaceholderError reports template placeholders with no matching descriptor field
type MissingPlaceholderError struct {
	Template string
	Names    []string
}

func (e *MissingPlaceholderError) Error() string {
	quoted := make([]string, 0, len(e.Names))
	for _, n := range e.Names {
		quoted = append(quoted, "{{"+n+"}}")
	}
	if e.Template != "" {
		return fmt.Sprintf("template %s references unknown placeholders: %s", e.Template, strings.Join(quoted, ", "))
	}
	return "template references unknown placeholders: " + strings.Join(quoted, ", ")
}

// Violation rules reported by the formula validator
const (
	RuleUnresolvedPlaceholder = "unresolved-placeholder"
	RuleChecksum              = "checksum"
	RuleURL                   = "url"
	RuleStructure             = "structure"
)

// Violation is a single post-render integrity problem
type Violation struct {
	Rule    string
	Line    int // 1-based, 0 when the problem is not tied to a line
	Message string
}

func (v Violation) String() string {
	if v.Line > 0 {
		return fmt.Sprintf("line %d: [%s] %s", v.Line, v.Rule, v.Message)
	}
	return fmt.Sprintf("[%s] %s", v.Rule, v.Message)
}

// RenderValidationError lists every integrity problem found in a rendered formula
type RenderValidationError struct {
	Violations []Violation
}

func (e *RenderValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "rendered formula failed validation (%d problems)", len(e.Violations))
	for _, v := range e.Violations {
		b.WriteString("\n  - ")
		b.WriteString(v.String())
	}
	return b.String()
}

// HasRule reports whether any violation carries the given rule
func (e *RenderValidationError) HasRule(rule string) bool {
	for _, v := range e.Violations {
		if v.Rule == rule {
			return true
		}
	}
	return false
}

// IOError reports a failed file or network access
type IOError struct {
	Op   string // "read", "write", "download", ...
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// SignatureError reports an archive whose detached signature did not verify
type SignatureError struct {
	Path string
	Err  error
}

func (e *SignatureError) Error() string {
	return fmt.Sprintf("signature verification failed for %s: %v", e.Path, e.Err)
}

func (e *SignatureError) Unwrap() error {
	return e.Err
}
