package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ochairo/formulagen/internal/domain/interfaces"
)

func TestLevelFor(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want zerolog.Level
	}{
		{"default warn", Options{}, zerolog.WarnLevel},
		{"-v info", Options{Verbosity: 1}, zerolog.InfoLevel},
		{"-vv debug", Options{Verbosity: 2}, zerolog.DebugLevel},
		{"-vvvv trace", Options{Verbosity: 4}, zerolog.TraceLevel},
		{"explicit level wins", Options{Verbosity: 3, Level: "ERROR"}, zerolog.ErrorLevel},
		{"bad level falls back", Options{Verbosity: 1, Level: "loud"}, zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, levelFor(tt.opts))
		})
	}
}

func TestSetupLogger_JSON(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer
	logger := SetupLogger(Options{Verbosity: 1, Format: FormatJSON, Out: &buf})

	NewLogger(logger).With(interfaces.F("formula", "ai-commit")).
		Info("formula written", interfaces.F("path", "ai-commit.rb"), interfaces.F("err", errors.New("boom")))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "formula written", entry["message"])
	assert.Equal(t, "ai-commit", entry["formula"])
	assert.Equal(t, "ai-commit.rb", entry["path"])
	assert.Equal(t, "boom", entry["err"])
}

func TestSetupLogger_FiltersBelowLevel(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer
	logger := SetupLogger(Options{Format: FormatJSON, Out: &buf})

	NewLogger(logger).Info("hidden")
	assert.Empty(t, buf.String())

	NewLogger(logger).Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestLogDuration(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer
	logger := SetupLogger(Options{Verbosity: 2, Format: FormatJSON, Out: &buf})
	buf.Reset()

	LogDuration(NewLogger(logger), time.Now().Add(-time.Second), "generate")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "generate", entry["operation"])
	d, err := time.ParseDuration(entry["duration"].(string))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, d, time.Second)
}
