// Package logging configures zerolog and adapts it to the domain Logger port.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ochairo/formulagen/internal/domain/interfaces"
)

// Output formats
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Options controls logger setup
type Options struct {
	Verbosity int    // -v count: 0 warn, 1 info, 2 debug, 3+ trace
	Level     string // explicit level name, wins over Verbosity when set
	Format    string // "console" or "json"
	Out       io.Writer
}

// SetupLogger configures the global zerolog logger and returns it
func SetupLogger(opts Options) zerolog.Logger {
	level := levelFor(opts)
	zerolog.SetGlobalLevel(level)

	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	var logger zerolog.Logger
	if strings.EqualFold(opts.Format, FormatJSON) {
		logger = zerolog.New(out).With().Timestamp().Logger()
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.Kitchen,
		}).With().Timestamp().Logger()
	}

	if level <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}

	log.Logger = logger
	logger.Debug().Str("level", level.String()).Str("format", opts.Format).Msg("Logger initialized")

	return logger
}

func levelFor(opts Options) zerolog.Level {
	if opts.Level != "" {
		if lvl, err := zerolog.ParseLevel(strings.ToLower(opts.Level)); err == nil && lvl != zerolog.NoLevel {
			return lvl
		}
	}

	switch opts.Verbosity {
	case 0:
		return zerolog.WarnLevel
	case 1:
		return zerolog.InfoLevel
	case 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// GetLogger returns a domain logger scoped to a component
func GetLogger(component string) interfaces.Logger {
	return NewLogger(log.With().Str("component", component).Logger())
}

// zerologAdapter implements interfaces.Logger on top of zerolog
type zerologAdapter struct {
	logger zerolog.Logger
}

// NewLogger wraps a zerolog logger as a domain Logger
func NewLogger(logger zerolog.Logger) interfaces.Logger {
	return &zerologAdapter{logger: logger}
}

func (z *zerologAdapter) Debug(msg string, fields ...interfaces.Field) {
	emit(z.logger.Debug(), msg, fields)
}

func (z *zerologAdapter) Info(msg string, fields ...interfaces.Field) {
	emit(z.logger.Info(), msg, fields)
}

func (z *zerologAdapter) Warn(msg string, fields ...interfaces.Field) {
	emit(z.logger.Warn(), msg, fields)
}

func (z *zerologAdapter) Error(msg string, fields ...interfaces.Field) {
	emit(z.logger.Error(), msg, fields)
}

func (z *zerologAdapter) With(fields ...interfaces.Field) interfaces.Logger {
	ctx := z.logger.With()
	for _, f := range fields {
		ctx = ctx.Interface(f.Key, f.Value)
	}
	return &zerologAdapter{logger: ctx.Logger()}
}

func emit(event *zerolog.Event, msg string, fields []interfaces.Field) {
	for _, f := range fields {
		if err, ok := f.Value.(error); ok {
			event = event.AnErr(f.Key, err)
			continue
		}
		event = event.Interface(f.Key, f.Value)
	}
	event.Msg(msg)
}

// LogDuration logs how long an operation took
func LogDuration(logger interfaces.Logger, start time.Time, operation string) {
	logger.Debug("Operation completed",
		interfaces.F("operation", operation),
		interfaces.F("duration", time.Since(start).String()))
}
