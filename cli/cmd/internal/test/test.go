// Package test provides utilities for testing the bindle CLI commands.
// It includes helpers for executing commands and parsing JSON log output.
package test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"testing"

	"github.com/spf13/cobra"

	"ocm.software/open-component-model/bindle/cli/cmd"
	"ocm.software/open-component-model/bindle/cli/internal/flags/log"
)

// Options holds configuration for executing bindle CLI commands in tests
type Options struct {
	args   []string  // Command line arguments to pass to the CLI
	out    io.Writer // Output writer to capture command output
	format string    // Log format to use (e.g., json, text)
}

// Option is a function that configures Options
type Option func(*Options)

// WithArgs sets the command line arguments for the bindle CLI command
func WithArgs(args ...string) Option {
	return func(o *Options) {
		o.args = args
	}
}

// WithOutput sets the output writer to capture command output
func WithOutput(out io.Writer) Option {
	return func(o *Options) {
		o.out = out
	}
}

// WithLogFormat sets the log format for the bindle CLI command
func WithLogFormat(format string) Option {
	return func(o *Options) {
		o.format = format
	}
}

// Bindle executes a bindle CLI command with the given options and returns the command and any error.
// Logs and command output are written to the same writer.
func Bindle(tb testing.TB, opts ...Option) (*cobra.Command, error) {
	tb.Helper()

	opt := Options{}
	for _, o := range opts {
		o(&opt)
	}
	instance := cmd.New()
	if len(opt.args) == 0 {
		opt.args = []string{"help"}
	}

	// mirror towards stdout and stderr so failing tests still show what happened
	if opt.out != nil {
		instance.SetOut(io.MultiWriter(os.Stdout, opt.out))
		instance.SetErr(io.MultiWriter(os.Stderr, opt.out))
	}

	// json logs can be told apart from command output line by line
	if opt.format == "" {
		opt.format = log.FormatJSON
	}
	f := instance.PersistentFlags().Lookup(log.FormatFlagName)
	if err := f.Value.Set(opt.format); err != nil {
		return nil, fmt.Errorf("failed to set format: %w", err)
	}

	instance.SetArgs(opt.args)
	return instance.ExecuteContextC(tb.Context())
}

// JSONLogReader provides functionality to read and parse JSON-formatted log output
// It maintains both the main log buffer and a buffer for discarded (non-JSON) entries
type JSONLogReader struct {
	*bytes.Buffer
	Discarded *bytes.Buffer
}

// NewJSONLogReader creates a new JSONLogReader with initialized buffers
func NewJSONLogReader() *JSONLogReader {
	return &JSONLogReader{
		Buffer:    bytes.NewBuffer(make([]byte, 0, 1024)),
		Discarded: bytes.NewBuffer(make([]byte, 0, 1024)),
	}
}

// JSONLogEntry is a single line of JSON log output. Command output that is
// itself a single line of JSON object also parses into an entry, with all of
// its fields in Extras.
type JSONLogEntry struct {
	Time  string `json:"time"`
	Level string `json:"level"`
	Msg   string `json:"msg"`

	Extras map[string]any `json:"-"`
}

func (l *JSONLogEntry) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for key, field := range map[string]*string{"time": &l.Time, "level": &l.Level, "msg": &l.Msg} {
		if v, ok := raw[key].(string); ok {
			*field = v
		}
		delete(raw, key)
	}
	l.Extras = raw
	return nil
}

// List consumes the buffer and returns the JSON entries in it.
// Every other line is appended to Discarded.
func (logs *JSONLogReader) List() ([]*JSONLogEntry, error) {
	scanner := bufio.NewScanner(logs.Buffer)
	var entries []*JSONLogEntry
	for scanner.Scan() {
		data := scanner.Bytes()
		entry := JSONLogEntry{}
		if err := json.Unmarshal(data, &entry); err == nil {
			entries = append(entries, &entry)
		} else if _, err := logs.Discarded.Write(append(data, '\n')); err != nil {
			return nil, err
		}
	}
	return entries, scanner.Err()
}

// GetDiscarded returns the lines that were not JSON log entries so far.
func (logs *JSONLogReader) GetDiscarded() string {
	return logs.Discarded.String()
}

// Output consumes the buffer and returns the plain command output, i.e.
// everything that is not a JSON log entry.
func (logs *JSONLogReader) Output() (string, error) {
	if _, err := logs.List(); err != nil {
		return "", err
	}
	return logs.GetDiscarded(), nil
}
