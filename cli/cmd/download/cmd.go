package download

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	slogcontext "github.com/veqryn/slog-context"

	"ocm.software/open-component-model/bindle/bindings/go/invoice"
	"ocm.software/open-component-model/bindle/bindings/go/invoice/resolve"
	bindlecmd "ocm.software/open-component-model/bindle/cli/cmd/internal/cmd"
	"ocm.software/open-component-model/bindle/cli/internal/flags/file"
	"ocm.software/open-component-model/bindle/cli/internal/reference/invref"
)

const (
	FlagDirectory   = "dir"
	FlagIncludeSeed = "include-seed"
	FlagGlobals     = "globals"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "download {id|file} {parcel}",
		Short: "Download a parcel and every parcel it requires from a bindle server",
		Args:  cobra.MatchAll(cobra.ExactArgs(2), bindlecmd.InvoiceReferenceAsFirstPositional),
		Long: fmt.Sprintf(`Download a parcel and every parcel it transitively requires from a bindle server.

The parcels are resolved the same way as by "bindle resolve" and fetched
concurrently, at most --%[1]s at a time. The content of every parcel is verified
against its sha256 fingerprint before it is written.

Each parcel is written to the directory given with --%[2]s, named after its label.
Parcels without a usable name, or whose name is already taken by another parcel,
are written under their fingerprint instead.

If the invoice is referenced by a file, the parcels are fetched from the server
for the invoice id the file declares.`, bindlecmd.ConcurrencyLimitFlag, FlagDirectory),
		Example: strings.TrimSpace(`
bindle download example.com/weather/0.1.0 server.wasm --server https://bindle.example.com/v1
bindle download example.com/weather/0.1.0 server.wasm --dir ./weather --include-seed=false
`),
		RunE:              Download,
		DisableAutoGenTag: true,
	}

	file.Var(cmd.Flags(), FlagDirectory, ".", "directory to write the parcels to, created if it does not exist")
	cmd.Flags().Bool(FlagIncludeSeed, true, "download the referenced parcel itself along with its requirements")
	cmd.Flags().Bool(FlagGlobals, false, "also download the parcels that are not a member of any group")
	return cmd
}

func Download(cmd *cobra.Command, args []string) error {
	dirFlag, err := file.Get(cmd.Flags(), FlagDirectory)
	if err != nil {
		return fmt.Errorf("getting dir flag failed: %w", err)
	}
	dir, err := dirFlag.Directory()
	if err != nil {
		return err
	}
	includeSeed, err := cmd.Flags().GetBool(FlagIncludeSeed)
	if err != nil {
		return fmt.Errorf("getting include-seed flag failed: %w", err)
	}
	globals, err := cmd.Flags().GetBool(FlagGlobals)
	if err != nil {
		return fmt.Errorf("getting globals flag failed: %w", err)
	}
	limit, err := bindlecmd.ConcurrencyLimit(cmd)
	if err != nil {
		return err
	}

	c, err := bindlecmd.Client(cmd)
	if err != nil {
		return err
	}
	inv, _, err := bindlecmd.LoadInvoice(cmd, args[0])
	if err != nil {
		return err
	}
	seed, err := invref.Parcel(inv, args[1])
	if err != nil {
		return err
	}

	ctx := slogcontext.Append(cmd.Context(), slog.String("invoice", inv.ID()), slog.String("parcel", seed.String()))

	parcels := resolve.New(
		resolve.WithLogger(slogcontext.FromCtx(ctx)),
		resolve.WithIncludeSeed(includeSeed),
		resolve.WithGlobals(globals),
	).Closure(inv, seed)
	if len(parcels) == 0 {
		slogcontext.Log(ctx, slog.LevelInfo, "nothing to download")
		return nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating download directory %q failed: %w", dir, err)
	}
	files := FileNames(parcels)

	var mu sync.Mutex
	staged := make(map[string]string, len(parcels))
	err = c.FetchParcels(ctx, inv.ID(), parcels, limit, func(ctx context.Context, p invoice.Parcel, data []byte) error {
		tmp, err := os.CreateTemp(dir, "."+files[p.Label.SHA256]+".*.partial")
		if err != nil {
			return fmt.Errorf("staging parcel %s failed: %w", p, err)
		}
		mu.Lock()
		staged[p.Label.SHA256] = tmp.Name()
		mu.Unlock()
		if err := write(tmp, data); err != nil {
			return fmt.Errorf("writing parcel %s to %q failed: %w", p, tmp.Name(), err)
		}
		slogcontext.Log(ctx, slog.LevelDebug, "staged parcel", slog.String("path", tmp.Name()), slog.Int("size", len(data)))
		return nil
	})
	if err != nil {
		return errors.Join(fmt.Errorf("downloading parcels failed: %w", err), cleanup(staged))
	}
	for _, p := range parcels {
		path := filepath.Join(dir, files[p.Label.SHA256])
		if err := os.Rename(staged[p.Label.SHA256], path); err != nil {
			return errors.Join(fmt.Errorf("moving parcel %s to %q failed: %w", p, path, err), cleanup(staged))
		}
		delete(staged, p.Label.SHA256)
	}

	slogcontext.Log(ctx, slog.LevelInfo, "downloaded parcels", slog.Int("count", len(parcels)), slog.String("dir", dir))
	for _, p := range parcels {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(dir, files[p.Label.SHA256])); err != nil {
			return err
		}
	}
	return nil
}

// FileNames assigns every parcel a file name. The label name is used if it is
// a plain file name not claimed by an earlier parcel, the fingerprint otherwise.
func FileNames(parcels []invoice.Parcel) map[string]string {
	names := make(map[string]string, len(parcels))
	taken := make(map[string]bool, len(parcels))
	for _, p := range parcels {
		if _, ok := names[p.Label.SHA256]; ok {
			continue
		}
		name := p.Label.Name
		if !usable(name) || taken[name] {
			name = p.Label.SHA256
		}
		names[p.Label.SHA256] = name
		taken[name] = true
	}
	return names
}

func usable(name string) bool {
	return name != "" && name != "." && name != ".." && filepath.Base(name) == name && filepath.IsLocal(name)
}

// write fills a staged file and makes it readable like a regular download.
func write(f *os.File, data []byte) error {
	_, err := f.Write(data)
	err = errors.Join(err, f.Close())
	if err != nil {
		return err
	}
	return os.Chmod(f.Name(), 0o644)
}

// cleanup removes staged parcels that were not moved into place.
func cleanup(staged map[string]string) error {
	var errs []error
	for _, path := range staged {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
