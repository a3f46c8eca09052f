// Package log provides logging functionality for the bindle CLI.
// It supports different log formats (JSON, text), log levels (debug, info, warn, error),
// and output destinations (stdout, stderr).
package log

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	slogcontext "github.com/veqryn/slog-context"

	"ocm.software/open-component-model/bindle/cli/internal/flags/enum"
)

// Log format constants
const (
	FormatFlagName = "logformat"

	FormatJSON = "json" // JSON format for structured logging, suitable for machine processing
	FormatText = "text" // Human-readable text format, suitable for console output
)

// Log level constants
const (
	LevelFlagName = "loglevel"

	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Log output constants
const (
	OutputFlagName = "logoutput"

	OutputStdout = "stdout"
	OutputStderr = "stderr"
)

var levels = map[string]slog.Level{
	LevelDebug: slog.LevelDebug,
	LevelInfo:  slog.LevelInfo,
	LevelWarn:  slog.LevelWarn,
	LevelError: slog.LevelError,
}

// RegisterLoggingFlags registers the logging-related flags FormatFlagName,
// LevelFlagName and OutputFlagName with the provided flag set.
//
// Usage examples:
//
//	--logformat json     # Output logs in JSON format for machine processing
//	--loglevel debug     # Show all logs including label expansion steps
//	--logoutput stderr   # Write logs to standard error
func RegisterLoggingFlags(flagset *pflag.FlagSet) {
	enum.Var(flagset, FormatFlagName, []string{
		FormatText,
		FormatJSON,
	}, `set the log output format that is used to print individual logs
   json: Output logs in JSON format, suitable for machine processing
   text: Output logs in human-readable text format, suitable for console output`)

	enum.Var(flagset, LevelFlagName, []string{
		LevelInfo,
		LevelDebug,
		LevelWarn,
		LevelError,
	}, `sets the logging level
   debug: Show all logs including detailed debugging information
   info:  Show informational messages and above (default)
   warn:  Show warnings and errors only
   error: Show errors only`)

	enum.Var(flagset, OutputFlagName, []string{
		OutputStdout,
		OutputStderr,
	}, `set the log output destination
   stdout: Write logs to standard output (default)
   stderr: Write logs to standard error, useful for separating logs from normal output`)
}

// GetBaseLogger creates a new slog.Logger based on the command's flags.
// Attributes added to a context with slogcontext.Append or slogcontext.Prepend
// are included in every record logged with that context.
func GetBaseLogger(cmd *cobra.Command) (*slog.Logger, error) {
	logLevel, err := loggerLevelFromCommand(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to get log level: %w", err)
	}

	format, err := enum.Get(cmd.Flags(), FormatFlagName)
	if err != nil {
		return nil, fmt.Errorf("failed to get the log format from the command flag: %w", err)
	}

	output, err := enum.Get(cmd.Flags(), OutputFlagName)
	if err != nil {
		return nil, fmt.Errorf("failed to get the log output from the command flag: %w", err)
	}

	var outputWriter io.Writer
	switch output {
	case OutputStdout:
		outputWriter = cmd.OutOrStdout()
	case OutputStderr:
		outputWriter = cmd.ErrOrStderr()
	default:
		return nil, fmt.Errorf("invalid log output: %s", output)
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	var handler slog.Handler
	switch format {
	case FormatJSON:
		handler = slog.NewJSONHandler(outputWriter, opts)
	case FormatText:
		handler = slog.NewTextHandler(outputWriter, opts)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	return slog.New(slogcontext.NewHandler(handler, nil)), nil
}

func loggerLevelFromCommand(cmd *cobra.Command) (slog.Level, error) {
	logLevel, err := enum.Get(cmd.Flags(), LevelFlagName)
	if err != nil {
		return slog.LevelInfo, err
	}
	level, ok := levels[logLevel]
	if !ok {
		return slog.LevelInfo, fmt.Errorf("invalid log level: %s", logLevel)
	}
	return level, nil
}
