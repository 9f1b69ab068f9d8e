// Package filesystem implements the descriptor, template and formula repositories on local files.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ochairo/formulagen/internal/domain/entities"
	jsonparser "github.com/ochairo/formulagen/internal/external-adapters/json"
	"github.com/ochairo/formulagen/internal/external-adapters/keyvalue"
	tomlparser "github.com/ochairo/formulagen/internal/external-adapters/toml"
	yamlparser "github.com/ochairo/formulagen/internal/external-adapters/yaml"
)

// descriptorExtensions are the file suffixes ListDescriptors picks up
var descriptorExtensions = map[string]bool{
	".yml":  true,
	".yaml": true,
	".toml": true,
	".json": true,
	".env":  true,
}

type descriptorParser interface {
	ParseFile(path string) (entities.RawDescriptor, error)
}

// DescriptorRepository implements repositories.DescriptorRepository, choosing a parser by file extension
type DescriptorRepository struct {
	yaml     descriptorParser
	toml     descriptorParser
	json     descriptorParser
	keyValue descriptorParser
}

// NewDescriptorRepository creates a new file-based descriptor repository
func NewDescriptorRepository() *DescriptorRepository {
	return &DescriptorRepository{
		yaml:     yamlparser.NewDescriptorParser(),
		toml:     tomlparser.NewDescriptorParser(),
		json:     jsonparser.NewDescriptorParser(),
		keyValue: keyvalue.NewDescriptorParser(),
	}
}

// GetDescriptor reads a descriptor file. Read failures are returned as *entities.IOError;
// syntax errors are returned as *entities.ValidationError.
func (r *DescriptorRepository) GetDescriptor(ctx context.Context, path string) (entities.RawDescriptor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := r.parserFor(path).ParseFile(path)
	if err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return nil, &entities.IOError{Op: "read descriptor", Path: path, Err: pathErr.Err}
		}
		return nil, &entities.ValidationError{Problems: []entities.FieldProblem{
			{Field: "descriptor", Reason: err.Error()},
		}}
	}

	return raw, nil
}

// ListDescriptors returns the descriptor files in dir, sorted by name
func (r *DescriptorRepository) ListDescriptors(ctx context.Context, dir string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &entities.IOError{Op: "read directory", Path: dir, Err: err}
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		// Skip directories and dotfiles
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if !descriptorExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)

	if len(paths) == 0 {
		return nil, &entities.IOError{Op: "list descriptors", Path: dir, Err: fmt.Errorf("no descriptor files found")}
	}

	return paths, nil
}

func (r *DescriptorRepository) parserFor(path string) descriptorParser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return r.yaml
	case ".toml":
		return r.toml
	case ".json":
		return r.json
	default:
		return r.keyValue
	}
}
