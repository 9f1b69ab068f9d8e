package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	orchestrators "github.com/ochairo/formulagen/internal/domain-orchestrators"
	"github.com/ochairo/formulagen/internal/logging"
	"github.com/ochairo/formulagen/internal/style"
)

func newBatchCmd(a *app) *cobra.Command {
	var (
		descriptors string
		template    string
		outDir      string
		jobs        int
		force       bool
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Generate a formula for every descriptor in a directory",
		Long: `Render every descriptor file (*.yml, *.yaml, *.toml, *.json, *.env) in a directory
concurrently. Each formula is written as <bin>.rb in the output directory; a failing
descriptor is reported without stopping the others.`,
		Example: `  generate-formula batch --descriptors releases/ --out-dir Formula/ --jobs 8`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if descriptors == "" {
				return errors.New("--descriptors is required")
			}
			defer logging.LogDuration(logging.GetLogger("batch"), time.Now(), "batch")
			if !cmd.Flags().Changed("template") {
				template = a.cfg.Template
			}
			if !cmd.Flags().Changed("out-dir") {
				outDir = a.cfg.OutDir
			}
			if !cmd.Flags().Changed("jobs") {
				jobs = a.cfg.Jobs
			}

			batch, err := a.newOrchestrator("batch").GenerateBatch(cmd.Context(), orchestrators.BatchRequest{
				DescriptorDir: descriptors,
				TemplatePath:  template,
				OutDir:        outDir,
				Jobs:          jobs,
				Force:         force || a.cfg.Force,
			})
			if err != nil {
				return err
			}

			failures := make([]error, 0)
			for _, res := range batch.Results {
				if res.Success {
					style.Successf(a.stdout, "%s -> %s", res.DescriptorPath, res.OutputPath)
					continue
				}
				style.Errorf(a.stdout, "%s", res.DescriptorPath)
				style.Detailf(a.stdout, "%v", res.Error)
				failures = append(failures, fmt.Errorf("%s: %w", res.DescriptorPath, res.Error))
			}

			if len(failures) > 0 {
				return &batchError{total: len(batch.Results), errs: failures}
			}
			style.Detailf(a.stdout, "%d formulas in %s", len(batch.Results), batch.Duration)
			return nil
		},
	}

	cmd.Flags().StringVar(&descriptors, "descriptors", "", "Directory of release descriptors (required)")
	cmd.Flags().StringVarP(&template, "template", "t", "", "Formula template (default: built-in Homebrew template)")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "Directory for generated formulas (default: out_dir from config)")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 4, "Number of descriptors rendered concurrently")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing formulas")

	return cmd
}

// batchError reports the descriptors that failed in a batch run
type batchError struct {
	total int
	errs  []error
}

func (e *batchError) Error() string {
	return fmt.Sprintf("%d of %d descriptors failed", len(e.errs), e.total)
}

func (e *batchError) Unwrap() []error {
	return e.errs
}
