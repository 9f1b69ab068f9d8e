package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ochairo/formulagen/internal/domain-adapters/gateways"
	"github.com/ochairo/formulagen/internal/domain/entities"
	"github.com/ochairo/formulagen/internal/style"
)

// Exit codes
const (
	exitOK         = 0
	exitValidation = 1
	exitIO         = 2
)

// Set at build time via -ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the CLI and maps the outcome to a process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd(stdout, stderr)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	style.Errorf(stderr, "%v", err)
	return exitCode(err)
}

// exitCode maps an error to 1 for validation failures and 2 for I/O and usage failures.
// Joined errors (batch runs) take the most severe code of their parts.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}

	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		code := exitOK
		for _, e := range joined.Unwrap() {
			code = max(code, exitCode(e))
		}
		return code
	}

	var (
		validationErr *entities.ValidationError
		missingErr    *entities.MissingPlaceholderError
		renderErr     *entities.RenderValidationError
		signatureErr  *entities.SignatureError
		ioErr         *entities.IOError
	)
	switch {
	case errors.As(err, &ioErr):
		return exitIO
	case errors.As(err, &validationErr),
		errors.As(err, &missingErr),
		errors.As(err, &renderErr),
		errors.As(err, &signatureErr),
		errors.Is(err, gateways.ErrChecksumMismatch):
		return exitValidation
	default:
		return exitIO
	}
}
