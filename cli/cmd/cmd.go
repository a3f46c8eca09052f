package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"ocm.software/open-component-model/bindle/cli/cmd/configuration"
	"ocm.software/open-component-model/bindle/cli/cmd/download"
	"ocm.software/open-component-model/bindle/cli/cmd/generate"
	"ocm.software/open-component-model/bindle/cli/cmd/get"
	bindlecmd "ocm.software/open-component-model/bindle/cli/cmd/internal/cmd"
	"ocm.software/open-component-model/bindle/cli/cmd/push"
	"ocm.software/open-component-model/bindle/cli/cmd/resolve"
	"ocm.software/open-component-model/bindle/cli/cmd/setup/hooks"
	"ocm.software/open-component-model/bindle/cli/cmd/version"
	"ocm.software/open-component-model/bindle/cli/internal/flags/log"
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the root command.
func Execute() {
	err := New().Execute()
	if err != nil {
		os.Exit(1)
	}
}

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bindle [sub-command]",
		Short: "Work with bindle invoices and parcels",
		Long: `The bindle command line client reads invoices from files or a bindle server,
resolves the parcels a parcel requires through its group labels and moves
parcels between a bindle server and the local filesystem.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: hooks.PreRunE,
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}

	configuration.RegisterConfigFlag(cmd)

	cmd.PersistentFlags().String(bindlecmd.ServerFlag, "", `base URL of the bindle API, e.g. https://bindle.example.com/v1`)
	cmd.PersistentFlags().Bool(bindlecmd.InsecureFlag, false, `skip TLS certificate verification of the bindle server`)
	cmd.PersistentFlags().String(bindlecmd.UsernameFlag, "", `username for basic authentication, only used together with --password`)
	cmd.PersistentFlags().String(bindlecmd.PasswordFlag, "", `password for basic authentication, only used together with --username`)
	cmd.PersistentFlags().Int(bindlecmd.ConcurrencyLimitFlag, bindlecmd.ConcurrencyLimitDefault, `maximum amount of parallel requests to the bindle server`)
	log.RegisterLoggingFlags(cmd.PersistentFlags())

	cmd.AddCommand(get.New())
	cmd.AddCommand(resolve.New())
	cmd.AddCommand(download.New())
	cmd.AddCommand(push.New())
	cmd.AddCommand(generate.New())
	cmd.AddCommand(version.New())
	return cmd
}
