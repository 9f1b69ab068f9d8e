// Package json provides JSON release descriptor parsing.
package json

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/ochairo/formulagen/internal/domain/entities"
)

// DescriptorParser parses flat JSON object release descriptors
type DescriptorParser struct{}

// NewDescriptorParser creates a new JSON parser
func NewDescriptorParser() *DescriptorParser {
	return &DescriptorParser{}
}

// ParseFile parses a JSON descriptor file
func (p *DescriptorParser) ParseFile(filePath string) (entities.RawDescriptor, error) {
	//nolint:gosec // G304: filePath is a descriptor path supplied by the caller
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	return p.Parse(data)
}

// Parse parses a JSON object into raw descriptor metadata, keeping numbers as written
func (p *DescriptorParser) Parse(data []byte) (entities.RawDescriptor, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc map[string]interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("failed to parse JSON: trailing data after object")
	}

	raw := make(entities.RawDescriptor, len(doc))
	for key, value := range doc {
		switch v := value.(type) {
		case nil:
			raw[key] = ""
		case string:
			raw[key] = v
		case json.Number:
			raw[key] = v.String()
		case bool:
			raw[key] = strconv.FormatBool(v)
		default:
			return nil, fmt.Errorf("descriptor key %q must have a scalar value", key)
		}
	}

	return raw, nil
}
