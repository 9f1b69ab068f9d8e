package services

import (
	"strings"

	"github.com/ochairo/formulagen/internal/domain/entities"
)

const (
	openMarker  = "{{"
	closeMarker = "}}"
)

// ParseTemplate splits template source into text fragments and named placeholders.
// Markers that do not enclose a valid placeholder name stay literal text, so the
// validator can report them after rendering.
func ParseTemplate(name, source string) *entities.FormulaTemplate {
	tmpl := &entities.FormulaTemplate{Name: name}
	var text strings.Builder

	flushText := func() {
		if text.Len() > 0 {
			tmpl.Fragments = append(tmpl.Fragments, entities.Fragment{Kind: entities.FragmentText, Value: text.String()})
			text.Reset()
		}
	}

	rest := source
	for {
		start := strings.Index(rest, openMarker)
		if start < 0 {
			text.WriteString(rest)
			break
		}
		text.WriteString(rest[:start])
		rest = rest[start:]

		end := strings.Index(rest[len(openMarker):], closeMarker)
		if end < 0 {
			text.WriteString(rest)
			break
		}

		inner := rest[len(openMarker) : len(openMarker)+end]
		placeholder := strings.TrimSpace(inner)
		if !isPlaceholderName(placeholder) {
			// Emit the opening marker literally and keep scanning after it
			text.WriteString(openMarker)
			rest = rest[len(openMarker):]
			continue
		}

		flushText()
		tmpl.Fragments = append(tmpl.Fragments, entities.Fragment{Kind: entities.FragmentPlaceholder, Value: placeholder})
		rest = rest[len(openMarker)+end+len(closeMarker):]
	}
	flushText()

	return tmpl
}

func isPlaceholderName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// Renderer substitutes descriptor values into formula templates
type Renderer struct{}

// NewRenderer creates a new template renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render replaces each placeholder with its descriptor field in a single left-to-right pass.
// Substituted values are never rescanned for placeholders.
func (r *Renderer) Render(tmpl *entities.FormulaTemplate, d *entities.ReleaseDescriptor) (*entities.Formula, error) {
	var out strings.Builder
	var missing []string
	seenMissing := make(map[string]bool)

	for _, f := range tmpl.Fragments {
		if f.Kind == entities.FragmentText {
			out.WriteString(f.Value)
			continue
		}

		value, ok := d.Lookup(f.Value)
		if !ok {
			if !seenMissing[f.Value] {
				seenMissing[f.Value] = true
				missing = append(missing, f.Value)
			}
			continue
		}
		out.WriteString(value)
	}

	if len(missing) > 0 {
		return nil, &entities.MissingPlaceholderError{Template: tmpl.Name, Names: missing}
	}

	return &entities.Formula{Name: d.BinaryName, Text: out.String()}, nil
}
