package get

import (
	"github.com/spf13/cobra"

	getinvoice "ocm.software/open-component-model/bindle/cli/cmd/get/invoice"
	"ocm.software/open-component-model/bindle/cli/cmd/get/parcels"
)

// New represents any command that is related to retrieving ( "get"ting ) objects
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get {invoice|parcels}",
		Short: "Get invoices and parcels from a bindle server or an invoice file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		DisableAutoGenTag: true,
	}
	cmd.AddCommand(getinvoice.New())
	cmd.AddCommand(parcels.New())
	return cmd
}
