package push

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	slogcontext "github.com/veqryn/slog-context"
	"golang.org/x/sync/errgroup"

	"ocm.software/open-component-model/bindle/bindings/go/invoice"
	bindlecmd "ocm.software/open-component-model/bindle/cli/cmd/internal/cmd"
	"ocm.software/open-component-model/bindle/cli/internal/flags/file"
	"ocm.software/open-component-model/bindle/cli/internal/reference/invref"
)

const FlagParcelDirectory = "parcel-dir"

// ErrParcelContentNotFound is returned if no file in the parcel directory
// holds the content of a parcel the server is missing.
var ErrParcelContentNotFound = errors.New("parcel content not found")

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "push {file}",
		Short: "Push an invoice file and its missing parcels to a bindle server",
		Args:  cobra.ExactArgs(1),
		Long: fmt.Sprintf(`Push an invoice file and the parcels the server does not have yet.

The invoice is validated and created on the server first. The server answers with
the labels of the parcels it is missing. The content of each of these parcels is
read from the directory given with --%[1]s, from a file named after the label or
after its sha256 fingerprint, verified and uploaded, at most --%[2]s at a time.`,
			FlagParcelDirectory, bindlecmd.ConcurrencyLimitFlag),
		Example: strings.TrimSpace(`
bindle push ./invoice.toml --parcel-dir ./parcels --server https://bindle.example.com/v1
`),
		RunE:              Push,
		DisableAutoGenTag: true,
	}
	file.Var(cmd.Flags(), FlagParcelDirectory, ".", "directory holding the content of the parcels")
	return cmd
}

func Push(cmd *cobra.Command, args []string) error {
	dirFlag, err := file.Get(cmd.Flags(), FlagParcelDirectory)
	if err != nil {
		return fmt.Errorf("getting parcel-dir flag failed: %w", err)
	}
	dir, err := dirFlag.ExistingDirectory()
	if err != nil {
		return err
	}
	limit, err := bindlecmd.ConcurrencyLimit(cmd)
	if err != nil {
		return err
	}

	ref, err := invref.Parse(args[0])
	if err != nil {
		return err
	}
	if !ref.IsLocal() {
		return fmt.Errorf("%q is not an invoice file", args[0])
	}
	inv, err := ref.Load(cmd.Context(), nil)
	if err != nil {
		return err
	}
	if err := inv.Validate(); err != nil {
		return fmt.Errorf("invoice %s is invalid: %w", inv.ID(), err)
	}

	c, err := bindlecmd.Client(cmd)
	if err != nil {
		return err
	}

	ctx := slogcontext.Append(cmd.Context(), slog.String("invoice", inv.ID()))
	created, err := c.CreateInvoice(ctx, inv)
	if err != nil {
		return err
	}
	slogcontext.Log(ctx, slog.LevelInfo, "created invoice", slog.Int("missing", len(created.Missing)))

	eg, egctx := errgroup.WithContext(ctx)
	if limit > 0 {
		eg.SetLimit(limit)
	}
	for _, label := range created.Missing {
		eg.Go(func() error {
			path, err := ContentPath(dir, label)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading parcel %s failed: %w", label.SHA256, err)
			}
			if err := c.CreateParcel(egctx, inv.ID(), label.SHA256, data); err != nil {
				return err
			}
			slogcontext.Log(egctx, slog.LevelDebug, "uploaded parcel", slog.String("path", path), slog.String("sha256", label.SHA256))
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return fmt.Errorf("pushing parcels of %s failed: %w", inv.ID(), err)
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "pushed %s with %d new parcels\n", inv.ID(), len(created.Missing))
	return err
}

// ContentPath finds the file holding the content of label in dir, looking for
// the label name first and the fingerprint second.
func ContentPath(dir string, label invoice.Label) (string, error) {
	var candidates []string
	if label.Name != "" && filepath.IsLocal(label.Name) {
		candidates = append(candidates, filepath.Join(dir, label.Name))
	}
	candidates = append(candidates, filepath.Join(dir, label.SHA256))
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %s in %q", ErrParcelContentNotFound, label.SHA256, dir)
}
