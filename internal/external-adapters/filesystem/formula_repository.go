package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ochairo/formulagen/internal/domain/entities"
)

// StdoutPath selects standard output as the formula destination
const StdoutPath = "-"

var errExists = fmt.Errorf("file exists (use --force to overwrite): %w", fs.ErrExist)

// FormulaRepository implements repositories.FormulaRepository.
// Files are written to a temporary sibling and moved into place so a
// failed write never leaves a truncated formula behind. Without force the
// move is a hard link, which fails atomically when the target exists.
type FormulaRepository struct {
	stdout io.Writer
}

// NewFormulaRepository creates a formula writer that sends "-" to stdout
func NewFormulaRepository(stdout io.Writer) *FormulaRepository {
	if stdout == nil {
		stdout = os.Stdout
	}
	return &FormulaRepository{stdout: stdout}
}

// SaveFormula writes the formula to path and returns the final location.
// If path is a directory the formula's conventional file name is used inside it.
// An existing file is only replaced when force is set.
func (r *FormulaRepository) SaveFormula(ctx context.Context, formula *entities.Formula, path string, force bool) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if path == StdoutPath {
		if _, err := io.WriteString(r.stdout, formula.Text); err != nil {
			return "", &entities.IOError{Op: "write", Path: "stdout", Err: err}
		}
		return StdoutPath, nil
	}

	if path == "" {
		path = formula.FileName()
	} else if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, formula.FileName())
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", &entities.IOError{Op: "create directory", Path: dir, Err: err}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", &entities.IOError{Op: "write", Path: path, Err: err}
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // Always removed; a link leaves the target in place

	if _, err := io.WriteString(tmp, formula.Text); err != nil {
		_ = tmp.Close()
		return "", &entities.IOError{Op: "write", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return "", &entities.IOError{Op: "write", Path: path, Err: err}
	}
	//nolint:gosec // G302: formulas are world-readable source files
	if err := os.Chmod(tmpName, 0644); err != nil {
		return "", &entities.IOError{Op: "write", Path: path, Err: err}
	}
	if !force {
		if err := os.Link(tmpName, path); err != nil {
			if errors.Is(err, fs.ErrExist) {
				return "", &entities.IOError{Op: "write", Path: path, Err: errExists}
			}
			return "", &entities.IOError{Op: "write", Path: path, Err: fmt.Errorf("link: %w", err)}
		}
		return path, nil
	}
	if err := os.Rename(tmpName, path); err != nil {
		return "", &entities.IOError{Op: "write", Path: path, Err: fmt.Errorf("rename: %w", err)}
	}

	return path, nil
}
