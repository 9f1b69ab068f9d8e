package filesystem

import (
	"context"
	_ "embed"
	"os"

	"github.com/ochairo/formulagen/internal/domain/entities"
	"github.com/ochairo/formulagen/internal/domain/services"
)

// DefaultTemplateName identifies the built-in Homebrew template
const DefaultTemplateName = "default"

//go:embed templates/homebrew.rb.tmpl
var defaultTemplate string

// TemplateRepository implements repositories.TemplateRepository
type TemplateRepository struct{}

// NewTemplateRepository creates a new file-based template repository
func NewTemplateRepository() *TemplateRepository {
	return &TemplateRepository{}
}

// GetTemplate loads and parses the template at path, or the built-in one when path is empty
func (r *TemplateRepository) GetTemplate(ctx context.Context, path string) (*entities.FormulaTemplate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if path == "" {
		return services.ParseTemplate(DefaultTemplateName, defaultTemplate), nil
	}

	//nolint:gosec // G304: path is a template path supplied by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &entities.IOError{Op: "read template", Path: path, Err: err}
	}

	return services.ParseTemplate(path, string(data)), nil
}
