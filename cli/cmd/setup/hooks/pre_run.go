package hooks

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	slogcontext "github.com/veqryn/slog-context"

	"ocm.software/open-component-model/bindle/cli/cmd/setup"
	bindlectx "ocm.software/open-component-model/bindle/cli/internal/context"
	"ocm.software/open-component-model/bindle/cli/internal/flags/log"
)

// Option is the single interface all options implement.
type Option interface {
	Apply(b *Builder) error
}

// optionFunc lets simple functions satisfy Option.
type optionFunc func(*Builder) error

func (f optionFunc) Apply(b *Builder) error { return f(b) }

// Builder accumulates the connection settings given as options.
type Builder struct {
	cmd        *cobra.Command
	connection []setup.ConnectionOption
}

func newBuilder(cmd *cobra.Command) *Builder {
	return &Builder{cmd: cmd}
}

// WithServer configures the bindle server used unless overridden by flag.
func WithServer(server string) Option {
	return optionFunc(func(b *Builder) error {
		if server == "" {
			return fmt.Errorf("server must not be empty")
		}
		b.connection = append(b.connection, setup.WithServer(server))
		return nil
	})
}

// WithCredentials configures basic authentication unless overridden by flag.
func WithCredentials(username, password string) Option {
	return optionFunc(func(b *Builder) error {
		b.connection = append(b.connection, setup.WithCredentials(username, password))
		return nil
	})
}

// PreRunE sets up the command with defaults (no extra options).
func PreRunE(cmd *cobra.Command, args []string) error {
	return PreRunEWithOptions(cmd, args)
}

// PreRunEWithOptions applies options, then overrides with CLI flags.
func PreRunEWithOptions(cmd *cobra.Command, _ []string, opts ...Option) error {
	logger, err := log.GetBaseLogger(cmd)
	if err != nil {
		return fmt.Errorf("could not retrieve logger: %w", err)
	}
	slog.SetDefault(logger)
	cmd.SetContext(slogcontext.NewCtx(cmd.Context(), logger))

	bindlectx.Register(cmd)

	if err := setup.Config(cmd); err != nil {
		return err
	}

	b := newBuilder(cmd)
	for _, opt := range opts {
		if err := opt.Apply(b); err != nil {
			return fmt.Errorf("apply option: %w", err)
		}
	}
	setup.Connection(cmd, b.connection...)

	// inherit IO from parent if exists
	if parent := cmd.Parent(); parent != nil {
		cmd.SetOut(parent.OutOrStdout())
		cmd.SetErr(parent.ErrOrStderr())
	}

	return nil
}
