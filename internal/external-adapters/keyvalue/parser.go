// Package keyvalue parses key=value release descriptors as emitted by release scripts.
package keyvalue

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/ochairo/formulagen/internal/domain/entities"
)

// DescriptorParser parses key=value lines.
// Blank lines and lines starting with '#' are skipped, an "export " prefix is
// allowed, and values may be wrapped in matching single or double quotes.
type DescriptorParser struct{}

// NewDescriptorParser creates a new key=value parser
func NewDescriptorParser() *DescriptorParser {
	return &DescriptorParser{}
}

// ParseFile parses a key=value descriptor file
func (p *DescriptorParser) ParseFile(filePath string) (entities.RawDescriptor, error) {
	//nolint:gosec // G304: filePath is a descriptor path supplied by the caller
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	return p.Parse(data)
}

// Parse parses key=value bytes into raw descriptor metadata
func (p *DescriptorParser) Parse(data []byte) (entities.RawDescriptor, error) {
	raw := make(entities.RawDescriptor)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("line %d: expected key=value", lineNo)
		}
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			return nil, fmt.Errorf("line %d: empty key", lineNo)
		}

		raw[key] = unquote(strings.TrimSpace(value))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read descriptor: %w", err)
	}

	return raw, nil
}

func unquote(v string) string {
	if len(v) >= 2 {
		first, last := v[0], v[len(v)-1]
		if (first == '"' || first == '\'') && first == last {
			return v[1 : len(v)-1]
		}
	}
	return v
}
