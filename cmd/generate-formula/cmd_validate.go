package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ochairo/formulagen/internal/domain/entities"
	"github.com/ochairo/formulagen/internal/domain/services"
	"github.com/ochairo/formulagen/internal/style"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <formula.rb>",
		Short: "Check an existing formula file",
		Long: `Run the post-render checks on a formula file: leftover placeholders,
sha256 format, download URLs and formula structure.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path := args[0]

			//nolint:gosec // G304: path is a formula file supplied by the user
			data, err := os.ReadFile(path)
			if err != nil {
				return &entities.IOError{Op: "read formula", Path: path, Err: err}
			}

			if err := services.NewValidator().Validate(string(data)); err != nil {
				return err
			}

			style.Successf(a.stdout, "%s is valid", path)
			return nil
		},
	}
}
