package invref_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/require"

	"ocm.software/open-component-model/bindle/bindings/go/client"
	"ocm.software/open-component-model/bindle/bindings/go/client/clienttest"
	"ocm.software/open-component-model/bindle/bindings/go/invoice"
	"ocm.software/open-component-model/bindle/cli/internal/reference/invref"
)

const invoiceTOML = `bindleVersion = "1.0.0"

[bindle]
name = "example.com/weather"
version = "0.1.0"

[[parcel]]
[parcel.label]
sha256 = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
mediaType = "text/plain"
name = "hello.txt"
size = 5
`

func TestParse(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "invoice.toml")
	require.NoError(t, os.WriteFile(file, []byte(invoiceTOML), 0o600))

	tests := []struct {
		name    string
		arg     string
		want    *invref.Ref
		wantErr bool
	}{
		{name: "file", arg: file, want: &invref.Ref{Path: file}},
		{name: "id", arg: "example.com/weather/0.1.0", want: &invref.Ref{Name: "example.com/weather", Version: "0.1.0"}},
		{name: "directory", arg: dir, wantErr: true},
		{name: "missing file without version", arg: filepath.Join(dir, "missing.toml"), wantErr: true},
		{name: "id without version", arg: "weather", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := require.New(t)
			ref, err := invref.Parse(tt.arg)
			if tt.wantErr {
				r.Error(err)
				return
			}
			r.NoError(err)
			r.Equal(tt.want, ref)
			r.Equal(tt.arg, ref.String())
		})
	}
}

func TestRef_Load_File(t *testing.T) {
	r := require.New(t)
	file := filepath.Join(t.TempDir(), "invoice.toml")
	r.NoError(os.WriteFile(file, []byte(invoiceTOML), 0o600))

	ref, err := invref.Parse(file)
	r.NoError(err)
	r.True(ref.IsLocal())

	inv, err := ref.Load(t.Context(), nil)
	r.NoError(err)
	r.Equal("example.com/weather/0.1.0", inv.ID())
}

func TestRef_Load_Remote(t *testing.T) {
	r := require.New(t)
	srv := clienttest.NewServer(t)
	inv, err := invoice.DecodeFile(writeInvoice(t))
	r.NoError(err)
	srv.AddInvoice(inv)

	ref, err := invref.Parse(inv.ID())
	r.NoError(err)
	r.False(ref.IsLocal())

	_, err = ref.Load(t.Context(), nil)
	r.ErrorIs(err, invref.ErrNoServer)

	loaded, err := ref.Load(t.Context(), client.NewConnectionInfo(srv.URL(), false, "", ""))
	r.NoError(err)
	r.Equal(inv.ID(), loaded.ID())

	missing, err := invref.Parse("example.com/other/1.0.0")
	r.NoError(err)
	_, err = missing.Load(t.Context(), client.NewConnectionInfo(srv.URL(), false, "", ""))
	r.ErrorIs(err, client.ErrNotFound)
}

func TestParcel(t *testing.T) {
	r := require.New(t)
	inv, err := invoice.DecodeFile(writeInvoice(t))
	r.NoError(err)
	sha := digest.FromString("hello").Encoded()

	byName, err := invref.Parcel(inv, "hello.txt")
	r.NoError(err)
	r.Equal(sha, byName.Label.SHA256)

	bySHA, err := invref.Parcel(inv, sha)
	r.NoError(err)
	r.Equal("hello.txt", bySHA.Label.Name)

	_, err = invref.Parcel(inv, "missing.txt")
	r.ErrorIs(err, invref.ErrParcelNotFound)
}

func writeInvoice(t *testing.T) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "invoice.toml")
	require.NoError(t, os.WriteFile(file, []byte(invoiceTOML), 0o600))
	return file
}
