// Package invref parses invoice references given on the command line.
//
// A reference is either the path of a local invoice file (TOML, YAML or JSON,
// chosen by extension) or an invoice id of the form {name}/{version} that is
// fetched from the configured bindle server. Existing files take precedence.
package invref

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"ocm.software/open-component-model/bindle/bindings/go/client"
	"ocm.software/open-component-model/bindle/bindings/go/invoice"
)

var (
	// ErrNoServer is returned when a remote invoice is referenced but no server is configured.
	ErrNoServer = errors.New("no bindle server configured, use --server or BINDLE_URL")
	// ErrParcelNotFound is returned when a parcel reference matches no parcel of the invoice.
	ErrParcelNotFound = errors.New("parcel not found")
)

// Ref is a parsed invoice reference.
type Ref struct {
	// Path is set for local invoice files.
	Path string
	// Name and Version are set for invoices on a server.
	Name    string
	Version string
}

// Parse interprets arg as an existing file or, failing that, as an invoice id.
func Parse(arg string) (*Ref, error) {
	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		return &Ref{Path: arg}, nil
	}
	name, version, err := invoice.ParseID(arg)
	if err != nil {
		return nil, fmt.Errorf("%q is neither an invoice file nor an invoice id: %w", arg, err)
	}
	return &Ref{Name: name, Version: version}, nil
}

// IsLocal reports whether the reference points to a file.
func (r *Ref) IsLocal() bool {
	return r.Path != ""
}

// ID returns the invoice id of a remote reference.
func (r *Ref) ID() string {
	return r.Name + "/" + r.Version
}

func (r *Ref) String() string {
	if r.IsLocal() {
		return r.Path
	}
	return r.ID()
}

// Load reads the referenced invoice. info is only needed for remote references.
func (r *Ref) Load(ctx context.Context, info *client.ConnectionInfo) (*invoice.Invoice, error) {
	if r.IsLocal() {
		slog.DebugContext(ctx, "loading invoice from file", slog.String("path", r.Path))
		inv, err := invoice.DecodeFile(r.Path)
		if err != nil {
			return nil, fmt.Errorf("loading invoice %q failed: %w", r.Path, err)
		}
		return inv, nil
	}
	c, err := Client(info)
	if err != nil {
		return nil, err
	}
	return c.GetInvoice(ctx, r.ID())
}

// Client creates a client for the connection or fails with ErrNoServer.
func Client(info *client.ConnectionInfo, opts ...client.Option) (*client.Client, error) {
	if info == nil {
		return nil, ErrNoServer
	}
	c, err := info.Client(opts...)
	if err != nil {
		return nil, fmt.Errorf("could not create bindle client: %w", err)
	}
	return c, nil
}

// Parcel finds the parcel referenced by fingerprint or name in inv.
func Parcel(inv *invoice.Invoice, ref string) (invoice.Parcel, error) {
	p, ok := inv.Lookup(ref)
	if !ok {
		return invoice.Parcel{}, fmt.Errorf("%w: %q in %s", ErrParcelNotFound, ref, inv.ID())
	}
	return p, nil
}
