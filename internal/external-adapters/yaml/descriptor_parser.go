// Package yaml provides YAML release descriptor parsing.
package yaml

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ochairo/formulagen/internal/domain/entities"
)

// DescriptorParser parses flat YAML release descriptors
type DescriptorParser struct{}

// NewDescriptorParser creates a new YAML parser
func NewDescriptorParser() *DescriptorParser {
	return &DescriptorParser{}
}

// ParseFile parses a YAML descriptor file
func (p *DescriptorParser) ParseFile(filePath string) (entities.RawDescriptor, error) {
	//nolint:gosec // G304: filePath is a descriptor path supplied by the caller
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	return p.Parse(data)
}

// Parse parses YAML bytes into raw descriptor metadata.
// Scalars keep their source text, so `version: 1.20` stays "1.20".
func (p *DescriptorParser) Parse(data []byte) (entities.RawDescriptor, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	raw := make(entities.RawDescriptor)
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return raw, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("descriptor must be a mapping of keys to values")
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		if value.Kind == yaml.AliasNode && value.Alias != nil {
			value = value.Alias
		}
		if value.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("descriptor key %q (line %d) must have a scalar value", key.Value, key.Line)
		}
		if value.Tag == "!!null" {
			raw[key.Value] = ""
			continue
		}
		raw[key.Value] = value.Value
	}

	return raw, nil
}
