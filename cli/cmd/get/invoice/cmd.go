package invoice

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	bindlecmd "ocm.software/open-component-model/bindle/cli/cmd/internal/cmd"
	"ocm.software/open-component-model/bindle/cli/internal/flags/enum"
	"ocm.software/open-component-model/bindle/cli/internal/render"
)

const FlagValidate = "validate"

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "invoice {id|file}",
		Aliases: []string{"invoices", "inv", "i"},
		Short:   "Get an invoice from a bindle server or an invoice file",
		Args:    cobra.MatchAll(cobra.ExactArgs(1), bindlecmd.InvoiceReferenceAsFirstPositional),
		Long: `Get an invoice from a bindle server or an invoice file.

An invoice is referenced either by the path of an existing file (TOML, YAML or
JSON, chosen by the file extension) or by its id {name}/{version}, which is
fetched from the configured server.`,
		Example: strings.TrimSpace(`
bindle get invoice example.com/weather/0.1.0 --server https://bindle.example.com/v1
bindle get invoice ./invoice.toml --output json
bindle get inv ./invoice.yaml --output toml --validate
`),
		RunE:              GetInvoice,
		DisableAutoGenTag: true,
	}

	enum.VarP(cmd.Flags(), bindlecmd.OutputFlag, "o", []string{render.OutputFormatYAML, render.OutputFormatJSON, render.OutputFormatTOML}, "output format of the invoice")
	cmd.Flags().Bool(FlagValidate, false, "validate the invoice (name, semantic version and parcel fingerprints) before printing it")
	_ = enum.RegisterCompletion(cmd, bindlecmd.OutputFlag)
	return cmd
}

func GetInvoice(cmd *cobra.Command, args []string) error {
	output, err := enum.Get(cmd.Flags(), bindlecmd.OutputFlag)
	if err != nil {
		return fmt.Errorf("getting output flag failed: %w", err)
	}
	validate, err := cmd.Flags().GetBool(FlagValidate)
	if err != nil {
		return fmt.Errorf("getting validate flag failed: %w", err)
	}

	inv, _, err := bindlecmd.LoadInvoice(cmd, args[0])
	if err != nil {
		return err
	}
	if validate {
		if err := inv.Validate(); err != nil {
			return fmt.Errorf("invoice %s is invalid: %w", inv.ID(), err)
		}
	}

	if err := render.Invoice(cmd.OutOrStdout(), output, inv); err != nil {
		return fmt.Errorf("writing invoice failed: %w", err)
	}
	return nil
}
