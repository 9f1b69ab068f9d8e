// Package orchestrators coordinates complex workflows across multiple domain services.
package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ochairo/formulagen/internal/domain/entities"
	"github.com/ochairo/formulagen/internal/domain/interfaces"
	"github.com/ochairo/formulagen/internal/domain/interfaces/gateways"
	"github.com/ochairo/formulagen/internal/domain/interfaces/repositories"
	"github.com/ochairo/formulagen/internal/domain/services"
)

// FormulaOrchestrator coordinates the descriptor to formula workflow
type FormulaOrchestrator struct {
	descriptors repositories.DescriptorRepository
	templates   repositories.TemplateRepository
	formulas    repositories.FormulaRepository
	archives    gateways.ArchiveGateway
	signatures  gateways.SignatureVerifier
	loader      *services.DescriptorLoader
	renderer    *services.Renderer
	validator   *services.Validator
	defaults    map[string]string
	logger      interfaces.Logger
}

// FormulaOrchestratorConfig holds configuration for the orchestrator
type FormulaOrchestratorConfig struct {
	// Defaults fill descriptor fields that a descriptor file leaves empty
	Defaults map[string]string
}

// NewFormulaOrchestrator creates a new formula orchestrator.
// archives and signatures may be nil when no checksum source is ever requested.
func NewFormulaOrchestrator(
	descriptors repositories.DescriptorRepository,
	templates repositories.TemplateRepository,
	formulas repositories.FormulaRepository,
	archives gateways.ArchiveGateway,
	signatures gateways.SignatureVerifier,
	config FormulaOrchestratorConfig,
	logger interfaces.Logger,
) *FormulaOrchestrator {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}

	return &FormulaOrchestrator{
		descriptors: descriptors,
		templates:   templates,
		formulas:    formulas,
		archives:    archives,
		signatures:  signatures,
		loader:      services.NewDescriptorLoader(logger),
		renderer:    services.NewRenderer(),
		validator:   services.NewValidator(),
		defaults:    config.Defaults,
		logger:      logger,
	}
}

// GenerateRequest describes a single formula generation
type GenerateRequest struct {
	DescriptorPath string
	TemplatePath   string // empty selects the built-in template
	OutPath        string // file, existing directory, or "-" for stdout
	Force          bool

	// At most one checksum source
	ArchivePath string
	DistDir     string
	ArchiveURL  string

	// Optional detached signature over the archive
	SignaturePath string
	KeyringPath   string
}

// GenerateResult contains the result of a generation
type GenerateResult struct {
	DescriptorPath string
	Descriptor     *entities.ReleaseDescriptor
	Archive        *entities.Archive
	Formula        *entities.Formula
	OutputPath     string
	Duration       time.Duration
	Success        bool
	Error          error
}

// Generate renders, validates and writes one formula
func (o *FormulaOrchestrator) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	if err := checkSources(req); err != nil {
		return &GenerateResult{DescriptorPath: req.DescriptorPath, Error: err}, err
	}

	tmpl, err := o.templates.GetTemplate(ctx, req.TemplatePath)
	if err != nil {
		return &GenerateResult{DescriptorPath: req.DescriptorPath, Error: err}, err
	}

	result := o.generate(ctx, req, tmpl)
	return result, result.Error
}

func (o *FormulaOrchestrator) generate(ctx context.Context, req GenerateRequest, tmpl *entities.FormulaTemplate) *GenerateResult {
	startTime := time.Now()

	// Step 1: Read raw descriptor metadata
	raw, err := o.readDescriptor(ctx, req.DescriptorPath)
	if err != nil {
		o.logger.Debug("Formula generation failed",
			interfaces.F("descriptor", req.DescriptorPath),
			interfaces.F("error", err))
		return &GenerateResult{DescriptorPath: req.DescriptorPath, Error: err, Duration: time.Since(startTime)}
	}

	return o.generateFrom(ctx, req, tmpl, raw, startTime)
}

// readDescriptor reads a descriptor file with the configured defaults merged in
func (o *FormulaOrchestrator) readDescriptor(ctx context.Context, path string) (entities.RawDescriptor, error) {
	raw, err := o.descriptors.GetDescriptor(ctx, path)
	if err != nil {
		return nil, err
	}
	return raw.Merge(o.defaults), nil
}

// generateFrom runs the remaining steps on an already read descriptor
func (o *FormulaOrchestrator) generateFrom(ctx context.Context, req GenerateRequest, tmpl *entities.FormulaTemplate, raw entities.RawDescriptor, startTime time.Time) *GenerateResult {
	result := &GenerateResult{DescriptorPath: req.DescriptorPath}
	logger := o.logger.With(interfaces.F("descriptor", req.DescriptorPath))

	fail := func(err error) *GenerateResult {
		result.Error = err
		result.Duration = time.Since(startTime)
		logger.Debug("Formula generation failed", interfaces.F("error", err))
		return result
	}

	// Step 2: Resolve the archive checksum, verifying the signature first
	archive, err := o.resolveArchive(ctx, req, raw, logger)
	if err != nil {
		return fail(err)
	}
	if archive != nil {
		if err := applyChecksum(raw, archive); err != nil {
			return fail(err)
		}
		result.Archive = archive
	}

	// Step 3: Validate the descriptor
	descriptor, err := o.loader.Load(raw)
	if err != nil {
		return fail(err)
	}
	result.Descriptor = descriptor

	// Step 4: Render and check the formula text
	formula, err := o.renderer.Render(tmpl, descriptor)
	if err != nil {
		return fail(err)
	}
	if err := o.validator.Validate(formula.Text); err != nil {
		return fail(err)
	}
	result.Formula = formula

	// Step 5: Write
	out, err := o.formulas.SaveFormula(ctx, formula, req.OutPath, req.Force)
	if err != nil {
		return fail(err)
	}
	result.OutputPath = out
	result.Success = true
	result.Duration = time.Since(startTime)

	logger.Info("Formula generated",
		interfaces.F("formula", descriptor.Name),
		interfaces.F("version", descriptor.Version),
		interfaces.F("output", out))

	return result
}

func checkSources(req GenerateRequest) error {
	sources := 0
	for _, s := range []string{req.ArchivePath, req.DistDir, req.ArchiveURL} {
		if s != "" {
			sources++
		}
	}
	if sources > 1 {
		return errors.New("at most one of archive, dist directory or archive URL may be given")
	}
	if req.SignaturePath != "" && sources == 0 {
		return errors.New("a signature requires an archive to verify")
	}
	if req.SignaturePath != "" && req.KeyringPath == "" {
		return errors.New("a signature requires a keyring")
	}
	return nil
}

// resolveArchive locates the requested archive and hashes it; nil when no source was given
func (o *FormulaOrchestrator) resolveArchive(ctx context.Context, req GenerateRequest, raw entities.RawDescriptor, logger interfaces.Logger) (*entities.Archive, error) {
	var archive *entities.Archive

	switch {
	case req.ArchivePath != "":
		archive = &entities.Archive{Path: req.ArchivePath, Source: "file"}

	case req.DistDir != "":
		bin := raw.Get(entities.PlaceholderBin)
		if bin == "" {
			bin = raw.Get(entities.PlaceholderName)
		}
		path, err := o.archives.FindArchive(req.DistDir, strings.TrimSpace(bin), strings.TrimSpace(raw.Get(entities.PlaceholderVersion)))
		if err != nil {
			return nil, &entities.IOError{Op: "find archive", Path: req.DistDir, Err: err}
		}
		archive = &entities.Archive{Path: path, Source: "dist"}

	case req.ArchiveURL != "":
		dir, err := os.MkdirTemp("", "formulagen-")
		if err != nil {
			return nil, &entities.IOError{Op: "create temp dir", Path: os.TempDir(), Err: err}
		}
		defer os.RemoveAll(dir) //nolint:errcheck // Best-effort cleanup

		path, err := o.archives.Download(ctx, req.ArchiveURL, dir)
		if err != nil {
			return nil, &entities.IOError{Op: "download", Path: req.ArchiveURL, Err: err}
		}
		archive = &entities.Archive{Path: path, Source: "url"}

	default:
		return nil, nil
	}

	if req.SignaturePath != "" {
		if err := o.signatures.ImportKeyFromFile(req.KeyringPath); err != nil {
			return nil, &entities.IOError{Op: "import keyring", Path: req.KeyringPath, Err: err}
		}
		if err := o.signatures.VerifySignatureFromFile(archive.Path, req.SignaturePath); err != nil {
			return nil, &entities.SignatureError{Path: archive.Path, Err: err}
		}
		logger.Debug("Archive signature verified", interfaces.F("archive", archive.Path))
	}

	sum, err := o.archives.CalculateChecksum(archive.Path)
	if err != nil {
		return nil, &entities.IOError{Op: "checksum", Path: archive.Path, Err: err}
	}
	archive.SHA256 = sum

	logger.Debug("Archive checksum computed",
		interfaces.F("archive", archive.Path),
		interfaces.F("source", archive.Source),
		interfaces.F("sha256", sum))

	// A downloaded archive lives in a directory removed on return
	if archive.Source == "url" {
		archive.Path = ""
	}

	return archive, nil
}

// applyChecksum fills the descriptor checksum from the archive, or checks it when already set
func applyChecksum(raw entities.RawDescriptor, archive *entities.Archive) error {
	declared := strings.TrimSpace(raw.Get(entities.PlaceholderShasum))
	if declared == "" {
		raw[entities.PlaceholderShasum] = archive.SHA256
		return nil
	}
	if !strings.EqualFold(declared, archive.SHA256) {
		return &entities.ValidationError{Problems: []entities.FieldProblem{{
			Field:  entities.PlaceholderShasum,
			Reason: fmt.Sprintf("does not match archive checksum %s", archive.SHA256),
		}}}
	}
	return nil
}

// BatchRequest describes rendering every descriptor in a directory
type BatchRequest struct {
	DescriptorDir string
	TemplatePath  string
	OutDir        string
	Jobs          int
	Force         bool
}

// BatchResult holds one GenerateResult per descriptor file, in file name order
type BatchResult struct {
	Results  []*GenerateResult
	Duration time.Duration
}

// Failed returns the results that did not succeed
func (r *BatchResult) Failed() []*GenerateResult {
	failed := make([]*GenerateResult, 0)
	for _, res := range r.Results {
		if !res.Success {
			failed = append(failed, res)
		}
	}
	return failed
}

// GenerateBatch renders all descriptors in a directory with at most Jobs workers.
// A failing descriptor does not stop the others; per-file errors are reported in the result.
// The returned error covers only failures that prevent the batch from starting.
func (o *FormulaOrchestrator) GenerateBatch(ctx context.Context, req BatchRequest) (*BatchResult, error) {
	startTime := time.Now()

	paths, err := o.descriptors.ListDescriptors(ctx, req.DescriptorDir)
	if err != nil {
		return nil, err
	}

	tmpl, err := o.templates.GetTemplate(ctx, req.TemplatePath)
	if err != nil {
		return nil, err
	}

	outDir := req.OutDir
	if outDir == "" {
		outDir = "."
	}
	if err := os.MkdirAll(outDir, 0750); err != nil {
		return nil, &entities.IOError{Op: "create directory", Path: outDir, Err: err}
	}

	jobs := req.Jobs
	if jobs < 1 {
		jobs = 1
	}

	o.logger.Info("Generating formulas",
		interfaces.F("descriptors", len(paths)),
		interfaces.F("jobs", jobs))

	results := make([]*GenerateResult, len(paths))
	raws := o.readBatch(ctx, paths, results)

	var g errgroup.Group
	g.SetLimit(jobs)
	for i, path := range paths {
		if results[i] != nil {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = &GenerateResult{DescriptorPath: path, Error: err}
				return nil
			}
			results[i] = o.generateFrom(ctx, GenerateRequest{
				DescriptorPath: path,
				OutPath:        outDir,
				Force:          req.Force,
			}, tmpl, raws[i], time.Now())
			return nil
		})
	}
	_ = g.Wait()

	batch := &BatchResult{Results: results, Duration: time.Since(startTime)}
	o.logger.Info("Batch finished",
		interfaces.F("succeeded", len(results)-len(batch.Failed())),
		interfaces.F("failed", len(batch.Failed())),
		interfaces.F("duration", batch.Duration.String()))

	return batch, nil
}

// readBatch reads every descriptor before any formula is written. Read failures,
// and descriptors whose formulas would share one output file, are recorded in
// results and left out of the run.
func (o *FormulaOrchestrator) readBatch(ctx context.Context, paths []string, results []*GenerateResult) []entities.RawDescriptor {
	raws := make([]entities.RawDescriptor, len(paths))
	owners := make(map[string][]int)

	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			results[i] = &GenerateResult{DescriptorPath: path, Error: err}
			continue
		}
		raw, err := o.readDescriptor(ctx, path)
		if err != nil {
			results[i] = &GenerateResult{DescriptorPath: path, Error: err}
			continue
		}
		raws[i] = raw

		file := outputFileName(raw)
		if file == "" {
			continue
		}
		key := strings.ToLower(file)
		owners[key] = append(owners[key], i)
	}

	for _, idx := range owners {
		if len(idx) < 2 {
			continue
		}
		for _, i := range idx {
			others := make([]string, 0, len(idx)-1)
			for _, j := range idx {
				if j != i {
					others = append(others, paths[j])
				}
			}
			err := &entities.ValidationError{Problems: []entities.FieldProblem{{
				Field:  entities.PlaceholderBin,
				Reason: fmt.Sprintf("writes %s, same as %s", outputFileName(raws[i]), strings.Join(others, ", ")),
			}}}
			results[i] = &GenerateResult{DescriptorPath: paths[i], Error: err}
			o.logger.Warn("Duplicate formula output",
				interfaces.F("descriptor", paths[i]),
				interfaces.F("file", outputFileName(raws[i])))
		}
	}

	return raws
}

// outputFileName is the formula file a descriptor renders to, matching Formula.FileName
func outputFileName(raw entities.RawDescriptor) string {
	bin := strings.TrimSpace(raw.Get(entities.PlaceholderBin))
	if bin == "" {
		bin = strings.TrimSpace(raw.Get(entities.PlaceholderName))
	}
	if bin == "" {
		return ""
	}
	return (&entities.Formula{Name: bin}).FileName()
}

// GetSummary returns a human-readable summary of the generation
func (r *GenerateResult) GetSummary() string {
	if !r.Success {
		return fmt.Sprintf("Generation failed: %v", r.Error)
	}

	return fmt.Sprintf(`Formula generated!
Formula: %s
Version: %s
Output: %s
Total: %v`,
		r.Descriptor.Name,
		r.Descriptor.Version,
		r.OutputPath,
		r.Duration,
	)
}
