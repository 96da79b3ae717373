package util

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestVerbosityLevel(t *testing.T) {
	tests := []struct {
		verbose int
		want    LogLevel
	}{
		{1, ErrorLevel},
		{2, WarnLevel},
		{3, InfoLevel},
		{4, DebugLevel},
		{5, TraceLevel},
		{0, ErrorLevel},
		{-3, ErrorLevel},
		{100, TraceLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, VerbosityLevel(tt.verbose), "verbose %d", tt.verbose)
	}
}

// Not parallel: mutates the global logger
func TestInitializeLoggerTo(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer
	InitializeLoggerTo(&buf, WarnLevel)
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	logger := GetLogger("bundle")
	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "bundle")
}
