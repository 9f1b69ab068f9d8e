// Package repositories defines interfaces for data access layers.
package repositories

import (
	"context"

	"github.com/ochairo/formulagen/internal/domain/entities"
)

// DescriptorRepository defines the interface for reading release descriptors
type DescriptorRepository interface {
	// GetDescriptor reads raw release metadata from a descriptor file
	GetDescriptor(ctx context.Context, path string) (entities.RawDescriptor, error)

	// ListDescriptors returns the descriptor files found in a directory
	ListDescriptors(ctx context.Context, dir string) ([]string, error)
}

// TemplateRepository defines the interface for loading formula templates
type TemplateRepository interface {
	// GetTemplate loads and parses a template; an empty path selects the built-in default
	GetTemplate(ctx context.Context, path string) (*entities.FormulaTemplate, error)
}

// FormulaRepository defines the interface for persisting rendered formulas
type FormulaRepository interface {
	// SaveFormula writes a formula to path ("-" for stdout) and returns where it went
	SaveFormula(ctx context.Context, formula *entities.Formula, path string, force bool) (string, error)
}
