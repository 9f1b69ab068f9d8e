package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ochairo/formulagen/internal/domain-adapters/gateways"
	"github.com/ochairo/formulagen/internal/domain/entities"
	"github.com/ochairo/formulagen/internal/style"
)

func newChecksumCmd(a *app) *cobra.Command {
	var (
		expect     string
		expectFile string
	)

	cmd := &cobra.Command{
		Use:   "checksum <file>",
		Short: "Print or verify the SHA-256 of a release archive",
		Example: `  generate-formula checksum dist/ai-commit.tar.gz
  generate-formula checksum dist/ai-commit.tar.gz --expect-file dist/ai-commit.tar.gz.sha256`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			verifier := gateways.NewChecksumVerifier()

			if expectFile != "" {
				//nolint:gosec // G304: checksum file path supplied by the user
				data, err := os.ReadFile(expectFile)
				if err != nil {
					return &entities.IOError{Op: "read checksum file", Path: expectFile, Err: err}
				}
				sum, err := gateways.ParseChecksumFile(data)
				if err != nil {
					return &entities.ValidationError{Problems: []entities.FieldProblem{
						{Field: "checksum file", Reason: err.Error()},
					}}
				}
				expect = sum
			}

			if expect == "" {
				sum, err := verifier.CalculateChecksum(path)
				if err != nil {
					return &entities.IOError{Op: "checksum", Path: path, Err: err}
				}
				// sha256sum-compatible output
				fmt.Fprintf(a.stdout, "%s  %s\n", sum, path)
				return nil
			}

			if _, err := os.Stat(path); err != nil {
				return &entities.IOError{Op: "checksum", Path: path, Err: err}
			}
			if err := verifier.VerifyChecksum(cmd.Context(), path, expect); err != nil {
				return err
			}

			style.Successf(a.stdout, "%s: checksum OK", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&expect, "expect", "", "Expected SHA-256 hex digest")
	cmd.Flags().StringVar(&expectFile, "expect-file", "", "Read the expected digest from a sha256sum-style file")
	cmd.MarkFlagsMutuallyExclusive("expect", "expect-file")

	return cmd
}
