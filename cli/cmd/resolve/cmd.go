package resolve

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	slogcontext "github.com/veqryn/slog-context"

	"ocm.software/open-component-model/bindle/bindings/go/dag"
	"ocm.software/open-component-model/bindle/bindings/go/invoice"
	"ocm.software/open-component-model/bindle/bindings/go/invoice/resolve"
	bindlecmd "ocm.software/open-component-model/bindle/cli/cmd/internal/cmd"
	"ocm.software/open-component-model/bindle/cli/internal/flags/enum"
	"ocm.software/open-component-model/bindle/cli/internal/reference/invref"
	"ocm.software/open-component-model/bindle/cli/internal/render"
	"ocm.software/open-component-model/bindle/cli/internal/render/tree"
)

const (
	FlagOrder       = "order"
	FlagIncludeSeed = "include-seed"
	FlagGlobals     = "globals"
	FlagGroups      = "groups"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "resolve {id|file} {parcel}",
		Aliases: []string{"closure", "deps"},
		Short:   "Resolve the parcels a parcel of an invoice transitively requires",
		Args:    cobra.MatchAll(cobra.ExactArgs(2), bindlecmd.InvoiceReferenceAsFirstPositional),
		Long: fmt.Sprintf(`Resolve the parcels a parcel of an invoice transitively requires.

The parcel is referenced by its sha256 fingerprint or its name. Starting from the
groups the parcel requires, every member of a required group is added, and the
groups required by that member are followed in turn. Every group is followed at
most once, so cyclic requirements terminate. The parcel itself is only part of
the result if it is reached again through such a cycle.

With --%[1]s the parcels are printed so that every parcel comes after the parcels
it requires. This fails if the requirements are cyclic.

The %[2]q output prints the requirements as a tree rooted at the parcel, marking
parcels that close a cycle with %[3]q.`, FlagOrder, render.OutputFormatTree, strings.TrimSpace(tree.CycleMarker)),
		Example: strings.TrimSpace(`
bindle resolve example.com/weather/0.1.0 server.wasm
bindle resolve ./invoice.toml server.wasm --order
bindle resolve ./invoice.toml 2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824 -o tree
bindle resolve ./invoice.toml server.wasm --groups
`),
		RunE:              Resolve,
		DisableAutoGenTag: true,
	}

	enum.VarP(cmd.Flags(), bindlecmd.OutputFlag, "o", []string{
		render.OutputFormatTable, render.OutputFormatYAML, render.OutputFormatJSON, render.OutputFormatTree,
	}, "output format of the resolved parcels")
	cmd.Flags().Bool(FlagOrder, false, "print the parcels in install order, dependencies first")
	cmd.Flags().Bool(FlagIncludeSeed, false, "always include the resolved parcel itself, before its requirements")
	cmd.Flags().Bool(FlagGlobals, false, "append the parcels that are not a member of any group")
	cmd.Flags().Bool(FlagGroups, false, "print the required groups instead of the parcels")
	cmd.MarkFlagsMutuallyExclusive(FlagGroups, FlagOrder)
	_ = enum.RegisterCompletion(cmd, bindlecmd.OutputFlag)
	return cmd
}

func Resolve(cmd *cobra.Command, args []string) error {
	output, err := enum.Get(cmd.Flags(), bindlecmd.OutputFlag)
	if err != nil {
		return fmt.Errorf("getting output flag failed: %w", err)
	}
	order, err := cmd.Flags().GetBool(FlagOrder)
	if err != nil {
		return fmt.Errorf("getting order flag failed: %w", err)
	}
	includeSeed, err := cmd.Flags().GetBool(FlagIncludeSeed)
	if err != nil {
		return fmt.Errorf("getting include-seed flag failed: %w", err)
	}
	globals, err := cmd.Flags().GetBool(FlagGlobals)
	if err != nil {
		return fmt.Errorf("getting globals flag failed: %w", err)
	}
	groups, err := cmd.Flags().GetBool(FlagGroups)
	if err != nil {
		return fmt.Errorf("getting groups flag failed: %w", err)
	}

	inv, _, err := bindlecmd.LoadInvoice(cmd, args[0])
	if err != nil {
		return err
	}
	seed, err := invref.Parcel(inv, args[1])
	if err != nil {
		return err
	}

	if groups {
		for _, group := range resolve.RequiredGroups(inv, seed) {
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), group); err != nil {
				return err
			}
		}
		return nil
	}

	resolver := resolve.New(
		resolve.WithLogger(slogcontext.FromCtx(cmd.Context())),
		resolve.WithIncludeSeed(includeSeed),
		resolve.WithGlobals(globals),
	)
	parcels := resolver.Closure(inv, seed)

	if output == render.OutputFormatTree {
		return renderTree(cmd, cmd.OutOrStdout(), inv, seed, parcels)
	}

	if order {
		if parcels, err = resolve.Sort(inv, parcels); err != nil {
			var cycle *dag.CycleError
			if errors.As(err, &cycle) {
				return fmt.Errorf("no install order for %s, requirements are cyclic: %w", seed, err)
			}
			return err
		}
	}

	return render.Parcels(cmd.OutOrStdout(), output, parcels)
}

func renderTree(cmd *cobra.Command, w io.Writer, inv *invoice.Invoice, seed invoice.Parcel, parcels []invoice.Parcel) error {
	g, err := resolve.Graph(inv, append([]invoice.Parcel{seed}, parcels...))
	if err != nil {
		return err
	}
	renderer := tree.New(cmd.Context(), g,
		tree.WithRoots(seed.Label.SHA256),
		tree.WithOrderAttribute[string](resolve.AttributeOrderIndex),
		tree.WithVertexSerializerFunc(func(v *dag.Vertex[string]) (string, error) {
			p, ok := v.Attributes[resolve.AttributeParcel].(invoice.Parcel)
			if !ok {
				return "", fmt.Errorf("vertex %s does not have a %s attribute", v.ID, resolve.AttributeParcel)
			}
			if p.Label.Name == "" {
				return render.ShortSHA(p.Label.SHA256), nil
			}
			return fmt.Sprintf("%s (%s)", p.Label.Name, render.ShortSHA(p.Label.SHA256)), nil
		}),
	)
	return renderer.Render(cmd.Context(), w)
}
