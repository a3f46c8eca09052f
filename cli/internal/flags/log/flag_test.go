package log

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	slogcontext "github.com/veqryn/slog-context"
)

func TestRegisterLoggingFlags(t *testing.T) {
	cmd := &cobra.Command{}
	RegisterLoggingFlags(cmd.PersistentFlags())

	assert.NotNil(t, cmd.PersistentFlags().Lookup(FormatFlagName))
	assert.NotNil(t, cmd.PersistentFlags().Lookup(LevelFlagName))
	assert.NotNil(t, cmd.PersistentFlags().Lookup(OutputFlagName))
}

func TestGetBaseLogger(t *testing.T) {
	tests := []struct {
		name     string
		format   string
		level    string
		output   string
		contains string
	}{
		{
			name:     "json format with debug level to stdout",
			format:   FormatJSON,
			level:    LevelDebug,
			output:   OutputStdout,
			contains: `"invoice":"example.com/weather/0.1.0"`,
		},
		{
			name:     "text format with info level to stderr",
			format:   FormatText,
			level:    LevelInfo,
			output:   OutputStderr,
			contains: `invoice=example.com/weather/0.1.0`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			cmd := &cobra.Command{}
			cmd.SetOut(&stdout)
			cmd.SetErr(&stderr)
			RegisterLoggingFlags(cmd.Flags())

			require.NoError(t, cmd.Flags().Set(FormatFlagName, tt.format))
			require.NoError(t, cmd.Flags().Set(LevelFlagName, tt.level))
			require.NoError(t, cmd.Flags().Set(OutputFlagName, tt.output))

			logger, err := GetBaseLogger(cmd)
			require.NoError(t, err)

			ctx := slogcontext.Append(t.Context(), "invoice", "example.com/weather/0.1.0")
			logger.InfoContext(ctx, "fetched invoice")

			written, silent := &stdout, &stderr
			if tt.output == OutputStderr {
				written, silent = &stderr, &stdout
			}
			assert.Contains(t, written.String(), "fetched invoice")
			assert.Contains(t, written.String(), tt.contains)
			assert.Empty(t, silent.String())
		})
	}
}

func TestLoggerLevelFromCommand(t *testing.T) {
	tests := []struct {
		level       string
		expectLevel slog.Level
	}{
		{level: LevelDebug, expectLevel: slog.LevelDebug},
		{level: LevelInfo, expectLevel: slog.LevelInfo},
		{level: LevelWarn, expectLevel: slog.LevelWarn},
		{level: LevelError, expectLevel: slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cmd := &cobra.Command{}
			RegisterLoggingFlags(cmd.Flags())
			require.NoError(t, cmd.Flags().Set(LevelFlagName, tt.level))

			level, err := loggerLevelFromCommand(cmd)
			assert.NoError(t, err)
			assert.Equal(t, tt.expectLevel, level)
		})
	}
}

func TestLoggerLevelFromCommand_Default(t *testing.T) {
	cmd := &cobra.Command{}
	RegisterLoggingFlags(cmd.Flags())

	level, err := loggerLevelFromCommand(cmd)
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)

	_, err = loggerLevelFromCommand(&cobra.Command{})
	assert.Error(t, err)
}
