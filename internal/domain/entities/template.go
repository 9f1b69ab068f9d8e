package entities

// FragmentKind distinguishes literal text from placeholders in a template
type FragmentKind int

// Fragment kinds
const (
	FragmentText FragmentKind = iota
	FragmentPlaceholder
)

// Fragment is one piece of a parsed template
type Fragment struct {
	Kind  FragmentKind
	Value string // literal text, or placeholder name
}

// FormulaTemplate is an ordered sequence of text fragments and named placeholders
type FormulaTemplate struct {
	Name      string // origin of the template, e.g. a file path or "default"
	Fragments []Fragment
}

// Placeholders returns the placeholder names referenced by the template, in first-seen order
func (t *FormulaTemplate) Placeholders() []string {
	seen := make(map[string]bool)
	names := make([]string, 0)
	for _, f := range t.Fragments {
		if f.Kind != FragmentPlaceholder || seen[f.Value] {
			continue
		}
		seen[f.Value] = true
		names = append(names, f.Value)
	}
	return names
}

// Formula is rendered formula source text
type Formula struct {
	Name string // formula (binary) name, used for the default output file name
	Text string
}

// FileName returns the conventional file name for the formula
func (f *Formula) FileName() string {
	return f.Name + ".rb"
}
