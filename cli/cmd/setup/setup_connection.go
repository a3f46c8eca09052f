package setup

import (
	"log/slog"

	"github.com/spf13/cobra"

	"ocm.software/open-component-model/bindle/bindings/go/client"
	bindlecmd "ocm.software/open-component-model/bindle/cli/cmd/internal/cmd"
	v1 "ocm.software/open-component-model/bindle/cli/configuration/v1"
	bindlectx "ocm.software/open-component-model/bindle/cli/internal/context"
)

type ConnectionOption func(cfg *v1.Config)

func WithServer(server string) ConnectionOption {
	return func(cfg *v1.Config) {
		cfg.Server = server
	}
}

func WithCredentials(username, password string) ConnectionOption {
	return func(cfg *v1.Config) {
		cfg.Username, cfg.Password = username, password
	}
}

func WithInsecure(insecure bool) ConnectionOption {
	return func(cfg *v1.Config) {
		cfg.Insecure = &insecure
	}
}

// Connection selects the bindle server and the authentication from the
// configuration, the options and the command flags, in increasing precedence.
// Without a server no connection is registered.
func Connection(cmd *cobra.Command, opts ...ConnectionOption) {
	cfg := v1.Merge(bindlectx.FromContext(cmd.Context()).Configuration())

	for _, opt := range opts {
		opt(cfg)
	}

	// CLI flag takes precedence over the config file and the environment
	if value, ok := changedString(cmd, bindlecmd.ServerFlag); ok {
		override(cmd, bindlecmd.ServerFlag, &cfg.Server, value)
	}
	if value, ok := changedString(cmd, bindlecmd.UsernameFlag); ok {
		override(cmd, bindlecmd.UsernameFlag, &cfg.Username, value)
	}
	if value, ok := changedString(cmd, bindlecmd.PasswordFlag); ok {
		cfg.Password = value
	}
	if flag := cmd.Flags().Lookup(bindlecmd.InsecureFlag); flag != nil && flag.Changed {
		if insecure, err := cmd.Flags().GetBool(bindlecmd.InsecureFlag); err == nil {
			cfg.Insecure = &insecure
		} else {
			slog.DebugContext(cmd.Context(), "could not read insecure flag value", slog.String("error", err.Error()))
		}
	}

	if cfg.Server == "" {
		slog.DebugContext(cmd.Context(), "no bindle server configured, only local invoices are available")
		return
	}
	if (cfg.Username == "") != (cfg.Password == "") {
		slog.WarnContext(cmd.Context(), "username and password must both be set for basic authentication, sending requests without credentials")
	}

	info := client.NewConnectionInfo(cfg.Server, cfg.AllowInsecure(), cfg.Username, cfg.Password)
	cmd.SetContext(bindlectx.WithConnection(cmd.Context(), info))
}

func changedString(cmd *cobra.Command, name string) (string, bool) {
	flag := cmd.Flags().Lookup(name)
	if flag == nil || !flag.Changed {
		return "", false
	}
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		slog.DebugContext(cmd.Context(), "could not read flag value", slog.String("flag", name), slog.String("error", err.Error()))
		return "", false
	}
	return value, true
}

func override(cmd *cobra.Command, name string, target *string, value string) {
	if *target != "" && *target != value {
		slog.DebugContext(cmd.Context(), "configured value is overwritten by flag", slog.String("flag", name), slog.String("original", *target), slog.String("new", value))
	}
	*target = value
}
