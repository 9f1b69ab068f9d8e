// Package toml provides TOML release descriptor parsing.
package toml

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/ochairo/formulagen/internal/domain/entities"
)

// DescriptorParser parses flat TOML release descriptors
type DescriptorParser struct{}

// NewDescriptorParser creates a new TOML parser
func NewDescriptorParser() *DescriptorParser {
	return &DescriptorParser{}
}

// ParseFile parses a TOML descriptor file
func (p *DescriptorParser) ParseFile(filePath string) (entities.RawDescriptor, error) {
	//nolint:gosec // G304: filePath is a descriptor path supplied by the caller
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	return p.Parse(data)
}

// Parse parses TOML bytes into raw descriptor metadata.
// Tables and arrays are rejected; version numbers should be quoted strings.
func (p *DescriptorParser) Parse(data []byte) (entities.RawDescriptor, error) {
	var doc map[string]interface{}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	raw := make(entities.RawDescriptor, len(doc))
	for key, value := range doc {
		s, err := scalarString(value)
		if err != nil {
			return nil, fmt.Errorf("descriptor key %q %w", key, err)
		}
		raw[key] = s
	}

	return raw, nil
}

func scalarString(v interface{}) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(t), nil
	case time.Time:
		return t.Format(time.RFC3339), nil
	case fmt.Stringer:
		// LocalDate, LocalTime and LocalDateTime
		return t.String(), nil
	default:
		return "", fmt.Errorf("must have a scalar value, got %T", v)
	}
}
