package parcels

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gobwas/glob"
	"github.com/spf13/cobra"

	"ocm.software/open-component-model/bindle/bindings/go/invoice"
	bindlecmd "ocm.software/open-component-model/bindle/cli/cmd/internal/cmd"
	"ocm.software/open-component-model/bindle/cli/internal/flags/enum"
	"ocm.software/open-component-model/bindle/cli/internal/render"
)

const (
	FlagName       = "name"
	FlagGroup      = "group"
	FlagAnnotation = "annotation"
	FlagGlobal     = "global"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "parcels {id|file}",
		Aliases: []string{"parcel", "p"},
		Short:   "List the parcels of an invoice",
		Args:    cobra.MatchAll(cobra.ExactArgs(1), bindlecmd.InvoiceReferenceAsFirstPositional),
		Long: fmt.Sprintf(`List the parcels of an invoice in invoice order.

The parcels can be filtered by group membership with --%[1]s, by the presence
of annotation keys with --%[2]s and by a glob pattern on the label name with
--%[4]s (for example "*.wasm"). All given filters must match. --%[3]s lists only
parcels that are not a member of any group.`, FlagGroup, FlagAnnotation, FlagGlobal, FlagName),
		Example: strings.TrimSpace(`
bindle get parcels example.com/weather/0.1.0
bindle get parcels ./invoice.toml --group db
bindle get parcels ./invoice.toml --annotation wasm.entrypoint -oyaml
bindle get parcels ./invoice.toml --name '*.wasm'
`),
		RunE:              GetParcels,
		DisableAutoGenTag: true,
	}

	enum.VarP(cmd.Flags(), bindlecmd.OutputFlag, "o", []string{render.OutputFormatTable, render.OutputFormatYAML, render.OutputFormatJSON}, "output format of the parcels")
	cmd.Flags().StringSlice(FlagGroup, nil, "only list parcels that are a member of the given group")
	cmd.Flags().StringSlice(FlagAnnotation, nil, "only list parcels that carry the given annotation key")
	cmd.Flags().Bool(FlagGlobal, false, "only list parcels that are not a member of any group")
	cmd.Flags().String(FlagName, "", "only list parcels whose label name matches the given glob pattern")
	_ = enum.RegisterCompletion(cmd, bindlecmd.OutputFlag)
	return cmd
}

func GetParcels(cmd *cobra.Command, args []string) error {
	output, err := enum.Get(cmd.Flags(), bindlecmd.OutputFlag)
	if err != nil {
		return fmt.Errorf("getting output flag failed: %w", err)
	}
	groups, err := cmd.Flags().GetStringSlice(FlagGroup)
	if err != nil {
		return fmt.Errorf("getting group flag failed: %w", err)
	}
	annotations, err := cmd.Flags().GetStringSlice(FlagAnnotation)
	if err != nil {
		return fmt.Errorf("getting annotation flag failed: %w", err)
	}
	global, err := cmd.Flags().GetBool(FlagGlobal)
	if err != nil {
		return fmt.Errorf("getting global flag failed: %w", err)
	}
	pattern, err := cmd.Flags().GetString(FlagName)
	if err != nil {
		return fmt.Errorf("getting name flag failed: %w", err)
	}
	var name glob.Glob
	if pattern != "" {
		if name, err = glob.Compile(pattern); err != nil {
			return fmt.Errorf("invalid name pattern %q: %w", pattern, err)
		}
	}

	inv, _, err := bindlecmd.LoadInvoice(cmd, args[0])
	if err != nil {
		return err
	}

	candidates := inv.Parcels
	if global {
		candidates = inv.GlobalParcels()
	}
	selected := slices.DeleteFunc(slices.Clone(candidates), func(p invoice.Parcel) bool {
		return !matches(p, name, groups, annotations)
	})

	return render.Parcels(cmd.OutOrStdout(), output, selected)
}

func matches(p invoice.Parcel, name glob.Glob, groups, annotations []string) bool {
	if name != nil && !name.Match(p.Label.Name) {
		return false
	}
	for _, group := range groups {
		if !p.IsMemberOf(group) {
			return false
		}
	}
	for _, key := range annotations {
		if !p.HasAnnotation(key) {
			return false
		}
	}
	return true
}
