package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ochairo/formulagen/internal/config"
	"github.com/ochairo/formulagen/internal/domain-adapters/gateways"
	orchestrators "github.com/ochairo/formulagen/internal/domain-orchestrators"
	"github.com/ochairo/formulagen/internal/external-adapters/filesystem"
	"github.com/ochairo/formulagen/internal/logging"
	"github.com/ochairo/formulagen/internal/style"
)

// app holds state shared by the root command and its subcommands
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	verbosity  int
	cfg        *config.Config
}

type generateOptions struct {
	descriptor string
	template   string
	out        string
	force      bool
	archive    string
	dist       string
	archiveURL string
	archiveSig string
	keyring    string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}
	opts := &generateOptions{}

	rootCmd := &cobra.Command{
		Use:   "generate-formula",
		Short: "Generate a Homebrew formula from release metadata",
		Long: `generate-formula renders a package-manager formula from a release descriptor
(YAML, TOML, JSON or key=value) and a template with {{placeholder}} markers.
The rendered text is checked for leftover placeholders, a well-formed sha256,
absolute download URLs and the expected formula structure before it is written.

Exit codes: 0 success, 1 validation failure, 2 I/O or usage failure.`,
		Example: `  generate-formula --descriptor release.yml --out Formula/ai-commit.rb
  generate-formula --descriptor release.yml --dist dist/ --out -
  generate-formula --descriptor release.toml --archive-url https://example.com/ai-commit.tar.gz \
    --archive-sig ai-commit.tar.gz.asc --keyring maintainers.asc`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg

			logging.SetupLogger(logging.Options{
				Verbosity: a.verbosity,
				Level:     cfg.Log.Level,
				Format:    cfg.Log.Format,
				Out:       a.stderr,
			})
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
			return nil
		},
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runGenerate(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default ./"+config.DefaultFileName+" when present)")
	rootCmd.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.descriptor, "descriptor", "d", "", "Release descriptor file (required)")
	flags.StringVarP(&opts.template, "template", "t", "", "Formula template (default: built-in Homebrew template)")
	flags.StringVarP(&opts.out, "out", "o", "", "Output file or directory, - for stdout (default: <bin>.rb in out_dir)")
	flags.BoolVarP(&opts.force, "force", "f", false, "Overwrite an existing formula")
	flags.StringVar(&opts.archive, "archive", "", "Compute sha256 from this release archive")
	flags.StringVar(&opts.dist, "dist", "", "Find the release archive for <bin> and <version> in this directory")
	flags.StringVar(&opts.archiveURL, "archive-url", "", "Download the release archive and compute its sha256")
	flags.StringVar(&opts.archiveSig, "archive-sig", "", "Detached OpenPGP signature over the archive")
	flags.StringVar(&opts.keyring, "keyring", "", "Public keyring used to verify --archive-sig")

	rootCmd.MarkFlagsMutuallyExclusive("archive", "dist", "archive-url")
	rootCmd.MarkFlagsRequiredTogether("archive-sig", "keyring")

	rootCmd.AddCommand(newValidateCmd(a))
	rootCmd.AddCommand(newChecksumCmd(a))
	rootCmd.AddCommand(newBatchCmd(a))
	rootCmd.AddCommand(newVersionCmd(a))

	return rootCmd
}

// newOrchestrator wires the filesystem repositories and gateways
func (a *app) newOrchestrator(component string) *orchestrators.FormulaOrchestrator {
	return orchestrators.NewFormulaOrchestrator(
		filesystem.NewDescriptorRepository(),
		filesystem.NewTemplateRepository(),
		filesystem.NewFormulaRepository(a.stdout),
		gateways.NewCompositeArchiveGateway(),
		gateways.NewGPGVerifier(),
		orchestrators.FormulaOrchestratorConfig{Defaults: a.cfg.Defaults},
		logging.GetLogger(component),
	)
}

func (a *app) runGenerate(cmd *cobra.Command, opts *generateOptions) error {
	if opts.descriptor == "" {
		return errors.New("--descriptor is required")
	}
	defer logging.LogDuration(logging.GetLogger("generate"), time.Now(), "generate")

	templatePath := opts.template
	if !cmd.Flags().Changed("template") {
		templatePath = a.cfg.Template
	}
	out := opts.out
	if out == "" {
		out = a.cfg.OutDir
	}

	result, err := a.newOrchestrator("generate").Generate(cmd.Context(), orchestrators.GenerateRequest{
		DescriptorPath: opts.descriptor,
		TemplatePath:   templatePath,
		OutPath:        out,
		Force:          opts.force || a.cfg.Force,
		ArchivePath:    opts.archive,
		DistDir:        opts.dist,
		ArchiveURL:     opts.archiveURL,
		SignaturePath:  opts.archiveSig,
		KeyringPath:    opts.keyring,
	})
	if err != nil {
		return err
	}

	if result.OutputPath != filesystem.StdoutPath {
		style.Successf(a.stderr, "Wrote %s", result.OutputPath)
		style.Detailf(a.stderr, "%s %s", result.Descriptor.Name, result.Descriptor.Version)
	}
	if result.Archive != nil {
		style.Detailf(a.stderr, "sha256 %s (from %s)", result.Archive.SHA256, describeSource(result.Archive.Source, opts))
	}

	return nil
}

func describeSource(source string, opts *generateOptions) string {
	switch source {
	case "file":
		return opts.archive
	case "dist":
		return fmt.Sprintf("archive in %s", opts.dist)
	default:
		return opts.archiveURL
	}
}
