package setup

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"ocm.software/open-component-model/bindle/cli/cmd/configuration"
	v1 "ocm.software/open-component-model/bindle/cli/configuration/v1"
	bindlectx "ocm.software/open-component-model/bindle/cli/internal/context"
)

// Config loads the configuration files and applies the environment on top.
// A missing or unreadable configuration falls back to an empty one.
func Config(cmd *cobra.Command) error {
	cfg, err := configuration.GetConfigForCommand(cmd)
	if err != nil {
		slog.DebugContext(cmd.Context(), "could not get configuration", slog.String("error", err.Error()))
		cfg = v1.Merge()
	}
	if err := cfg.ApplyEnvironment(os.LookupEnv); err != nil {
		return fmt.Errorf("could not apply environment to configuration: %w", err)
	}

	cmd.SetContext(bindlectx.WithConfiguration(cmd.Context(), cfg))
	return nil
}
