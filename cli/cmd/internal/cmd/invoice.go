package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ocm.software/open-component-model/bindle/bindings/go/client"
	"ocm.software/open-component-model/bindle/bindings/go/invoice"
	bindlectx "ocm.software/open-component-model/bindle/cli/internal/context"
	"ocm.software/open-component-model/bindle/cli/internal/reference/invref"
)

// InvoiceReferenceAsFirstPositional validates that the first argument is an
// invoice file or an invoice id.
func InvoiceReferenceAsFirstPositional(_ *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing invoice reference as first positional argument")
	}
	if _, err := invref.Parse(args[0]); err != nil {
		return fmt.Errorf("parsing invoice reference from first position argument %q failed: %w", args[0], err)
	}
	return nil
}

// LoadInvoice loads the invoice referenced by arg from a file or from the
// server of the command context.
func LoadInvoice(cmd *cobra.Command, arg string) (*invoice.Invoice, *invref.Ref, error) {
	ref, err := invref.Parse(arg)
	if err != nil {
		return nil, nil, err
	}
	inv, err := ref.Load(cmd.Context(), Connection(cmd))
	if err != nil {
		return nil, nil, err
	}
	return inv, ref, nil
}

// Client creates a client for the server of the command context.
func Client(cmd *cobra.Command) (*client.Client, error) {
	return invref.Client(Connection(cmd))
}

// Connection returns the connection of the command context, if any.
func Connection(cmd *cobra.Command) *client.ConnectionInfo {
	return bindlectx.FromContext(cmd.Context()).Connection()
}

// ConcurrencyLimit returns the value of the concurrency flag if it was set,
// otherwise the configured value or the default.
func ConcurrencyLimit(cmd *cobra.Command) (int, error) {
	limit, err := cmd.Flags().GetInt(ConcurrencyLimitFlag)
	if err != nil {
		return 0, fmt.Errorf("getting %s flag failed: %w", ConcurrencyLimitFlag, err)
	}
	if flag := cmd.Flags().Lookup(ConcurrencyLimitFlag); flag != nil && !flag.Changed {
		if cfg := bindlectx.FromContext(cmd.Context()).Configuration(); cfg != nil && cfg.Concurrency > 0 {
			limit = cfg.Concurrency
		}
	}
	return limit, nil
}
