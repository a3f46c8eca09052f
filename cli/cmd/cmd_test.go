package cmd_test

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"ocm.software/open-component-model/bindle/bindings/go/client"
	"ocm.software/open-component-model/bindle/bindings/go/client/clienttest"
	"ocm.software/open-component-model/bindle/bindings/go/dag"
	"ocm.software/open-component-model/bindle/bindings/go/invoice"
	"ocm.software/open-component-model/bindle/cli/cmd/internal/test"
	"ocm.software/open-component-model/bindle/cli/cmd/push"
	"ocm.software/open-component-model/bindle/cli/internal/reference/invref"
)

const weatherID = "example.com/weather/0.1.0"

// testParcel describes a parcel of a test invoice together with its content.
type testParcel struct {
	name     string
	content  string
	memberOf []string
	requires []string
}

// weather is a small application: the server requires a database, the
// database requires a cache and the readme belongs to no group.
var weather = []testParcel{
	{name: "server.wasm", content: "server", requires: []string{"db"}},
	{name: "db.wasm", content: "db", memberOf: []string{"db"}, requires: []string{"cache"}},
	{name: "cache.wasm", content: "cache", memberOf: []string{"cache"}},
	{name: "README.md", content: "readme"},
}

func sha(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

func newInvoice(fixtures []testParcel) *invoice.Invoice {
	inv := &invoice.Invoice{
		BindleVersion: invoice.DefaultBindleVersion,
		Bindle:        invoice.BindleSpec{Name: "example.com/weather", Version: "0.1.0"},
	}
	for _, tp := range fixtures {
		p := invoice.Parcel{Label: invoice.Label{
			SHA256:    sha(tp.content),
			MediaType: "application/octet-stream",
			Name:      tp.name,
			Size:      uint64(len(tp.content)),
		}}
		if len(tp.memberOf) > 0 || len(tp.requires) > 0 {
			p.Conditions = &invoice.Condition{MemberOf: tp.memberOf, Requires: tp.requires}
		}
		inv.Parcels = append(inv.Parcels, p)
	}
	return inv
}

// writeInvoice writes the invoice as toml into a temporary directory.
func writeInvoice(t *testing.T, inv *invoice.Invoice) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, invoice.Encode(&buf, inv, invoice.FormatTOML))
	path := filepath.Join(t.TempDir(), "invoice.toml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

// serve starts a bindle server holding the invoice and all of its parcels
// except the skipped ones.
func serve(t *testing.T, fixtures []testParcel, skip ...string) *clienttest.Server {
	t.Helper()
	srv := clienttest.NewServer(t)
	inv := newInvoice(fixtures)
	srv.AddInvoice(inv)
	for _, tp := range fixtures {
		if !slices.Contains(skip, tp.name) {
			srv.AddParcel(inv.ID(), sha(tp.content), []byte(tp.content))
		}
	}
	return srv
}

// isolate keeps configuration of the environment running the tests away.
func isolate(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("BINDLE_CONFIG", "")
	t.Setenv("BINDLE_URL", "")
	t.Setenv("BINDLE_USERNAME", "")
	t.Setenv("BINDLE_PASSWORD", "")
	t.Setenv("BINDLE_INSECURE", "")
}

// parcelNames extracts the label names of parcels printed as json lines.
func parcelNames(t *testing.T, entries []*test.JSONLogEntry) []string {
	t.Helper()
	var names []string
	for _, entry := range entries {
		label, ok := entry.Extras["label"].(map[string]any)
		if !ok {
			continue
		}
		names = append(names, label["name"].(string))
	}
	return names
}

func Test_Get_Invoice_Formats(t *testing.T) {
	isolate(t)
	path := writeInvoice(t, newInvoice(weather))

	tests := []struct {
		name           string
		args           []string
		expectedOutput []string
		expectedError  bool
	}{
		{
			name:           "Default Options (YAML)",
			args:           []string{"get", "invoice", path},
			expectedOutput: []string{"name: example.com/weather", "version: 0.1.0", "name: server.wasm", "- db"},
		},
		{
			name:           "TOML output",
			args:           []string{"get", "invoice", path, "--output=toml"},
			expectedOutput: []string{`name = "example.com/weather"`, "[[parcel]]", `memberOf = ["db"]`},
		},
		{
			name: "JSON output",
			args: []string{"get", "invoice", path, "--output=json"},
		},
		{
			name:           "Validated",
			args:           []string{"get", "inv", path, "--validate"},
			expectedOutput: []string{"name: example.com/weather"},
		},
		{
			name:          "Invalid output format",
			args:          []string{"get", "invoice", path, "--output=table"},
			expectedError: true,
		},
		{
			name:          "Neither file nor id",
			args:          []string{"get", "invoice", "non-existent"},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := require.New(t)
			logs := test.NewJSONLogReader()
			_, err := test.Bindle(t, test.WithArgs(tt.args...), test.WithOutput(logs))

			if tt.expectedError {
				r.Error(err, "expected error but got none")
				return
			}

			r.NoError(err, "failed to run command")
			entries, err := logs.List()
			r.NoError(err, "failed to list log entries")

			if tt.args[len(tt.args)-1] == "--output=json" {
				r.NotEmpty(entries)
				extras := entries[len(entries)-1].Extras
				r.Equal("1.0.0", extras["bindleVersion"])
				r.Equal(map[string]any{"name": "example.com/weather", "version": "0.1.0"}, extras["bindle"])
				r.Len(extras["parcel"], len(weather))
				return
			}
			discarded := logs.GetDiscarded()
			for _, expected := range tt.expectedOutput {
				r.Contains(discarded, expected)
			}
		})
	}
}

func Test_Get_Invoice_Invalid(t *testing.T) {
	isolate(t)
	r := require.New(t)
	inv := newInvoice(weather)
	inv.Bindle.Version = "latest"
	inv.Parcels[1].Label.SHA256 = "abc"
	path := writeInvoice(t, inv)

	_, err := test.Bindle(t, test.WithArgs("get", "invoice", path, "--validate"), test.WithOutput(test.NewJSONLogReader()))
	r.ErrorIs(err, invoice.ErrInvalidVersion)
	r.ErrorIs(err, invoice.ErrInvalidFingerprint)

	_, err = test.Bindle(t, test.WithArgs("get", "invoice", path), test.WithOutput(test.NewJSONLogReader()))
	r.NoError(err, "invoices are only validated on request")
}

func Test_Get_Invoice_From_Server(t *testing.T) {
	isolate(t)
	srv := serve(t, weather)

	t.Run("server flag", func(t *testing.T) {
		r := require.New(t)
		logs := test.NewJSONLogReader()
		_, err := test.Bindle(t, test.WithArgs("get", "invoice", weatherID, "--server", srv.URL(), "-otoml"), test.WithOutput(logs))
		r.NoError(err)
		_, err = logs.List()
		r.NoError(err)
		r.Contains(logs.GetDiscarded(), `name = "example.com/weather"`)
	})

	t.Run("server from environment", func(t *testing.T) {
		r := require.New(t)
		t.Setenv("BINDLE_URL", srv.URL())
		logs := test.NewJSONLogReader()
		_, err := test.Bindle(t, test.WithArgs("get", "invoice", weatherID), test.WithOutput(logs))
		r.NoError(err)
		_, err = logs.List()
		r.NoError(err)
		r.Contains(logs.GetDiscarded(), "name: example.com/weather")
	})

	t.Run("server from configuration file", func(t *testing.T) {
		r := require.New(t)
		config := filepath.Join(t.TempDir(), "config.yaml")
		r.NoError(os.WriteFile(config, []byte("type: config.bindle.dev/v1\nserver: "+srv.URL()+"\n"), 0o600))
		logs := test.NewJSONLogReader()
		_, err := test.Bindle(t, test.WithArgs("get", "invoice", weatherID, "--config", config), test.WithOutput(logs))
		r.NoError(err)
		_, err = logs.List()
		r.NoError(err)
		r.Contains(logs.GetDiscarded(), "name: example.com/weather")
	})

	t.Run("unknown invoice", func(t *testing.T) {
		_, err := test.Bindle(t, test.WithArgs("get", "invoice", "example.com/unknown/1.0.0", "--server", srv.URL()), test.WithOutput(test.NewJSONLogReader()))
		require.ErrorIs(t, err, client.ErrNotFound)
	})

	t.Run("no server", func(t *testing.T) {
		_, err := test.Bindle(t, test.WithArgs("get", "invoice", weatherID), test.WithOutput(test.NewJSONLogReader()))
		require.ErrorIs(t, err, invref.ErrNoServer)
	})
}

func Test_Get_Parcels(t *testing.T) {
	isolate(t)
	path := writeInvoice(t, newInvoice(weather))

	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{name: "all", args: []string{"get", "parcels", path}, expected: []string{"server.wasm", "db.wasm", "cache.wasm", "README.md"}},
		{name: "by group", args: []string{"get", "parcels", path, "--group", "db"}, expected: []string{"db.wasm"}},
		{name: "by unknown group", args: []string{"get", "parcels", path, "--group", "queue"}},
		{name: "global", args: []string{"get", "parcels", path, "--global"}, expected: []string{"README.md"}},
		{name: "by name", args: []string{"get", "parcels", path, "--name", "*.wasm"}, expected: []string{"server.wasm", "db.wasm", "cache.wasm"}},
		{name: "by name and group", args: []string{"get", "parcels", path, "--name", "{db,cache}.wasm", "--group", "cache"}, expected: []string{"cache.wasm"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := require.New(t)
			logs := test.NewJSONLogReader()
			_, err := test.Bindle(t, test.WithArgs(append(tt.args, "--output", "json")...), test.WithOutput(logs))
			r.NoError(err)
			entries, err := logs.List()
			r.NoError(err)
			r.Equal(tt.expected, parcelNames(t, entries))
		})
	}

	t.Run("invalid name pattern", func(t *testing.T) {
		_, err := test.Bindle(t, test.WithArgs("get", "parcels", path, "--name", "[server"), test.WithOutput(test.NewJSONLogReader()))
		require.ErrorContains(t, err, "invalid name pattern")
	})

	t.Run("table", func(t *testing.T) {
		r := require.New(t)
		logs := test.NewJSONLogReader()
		_, err := test.Bindle(t, test.WithArgs("get", "parcels", path), test.WithOutput(logs))
		r.NoError(err)
		_, err = logs.List()
		r.NoError(err)
		discarded := logs.GetDiscarded()
		r.Contains(discarded, "NAME")
		r.Contains(discarded, "MEMBER OF")
		r.Contains(discarded, sha("server")[:12])
		r.NotContains(discarded, sha("server"))
	})
}

func Test_Resolve(t *testing.T) {
	isolate(t)
	path := writeInvoice(t, newInvoice(weather))

	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{name: "closure", args: []string{"resolve", path, "server.wasm"}, expected: []string{"db.wasm", "cache.wasm"}},
		{name: "by fingerprint", args: []string{"resolve", path, sha("server")}, expected: []string{"db.wasm", "cache.wasm"}},
		{name: "install order", args: []string{"resolve", path, "server.wasm", "--order"}, expected: []string{"cache.wasm", "db.wasm"}},
		{name: "with seed", args: []string{"resolve", path, "server.wasm", "--include-seed"}, expected: []string{"server.wasm", "db.wasm", "cache.wasm"}},
		{name: "with globals", args: []string{"resolve", path, "db.wasm", "--globals"}, expected: []string{"cache.wasm", "README.md"}},
		{name: "leaf", args: []string{"resolve", path, "cache.wasm"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := require.New(t)
			logs := test.NewJSONLogReader()
			_, err := test.Bindle(t, test.WithArgs(append(tt.args, "-ojson")...), test.WithOutput(logs))
			r.NoError(err)
			entries, err := logs.List()
			r.NoError(err)
			r.Equal(tt.expected, parcelNames(t, entries))
		})
	}

	t.Run("groups", func(t *testing.T) {
		r := require.New(t)
		logs := test.NewJSONLogReader()
		_, err := test.Bindle(t, test.WithArgs("resolve", path, "server.wasm", "--groups"), test.WithOutput(logs))
		r.NoError(err)
		_, err = logs.List()
		r.NoError(err)
		r.Equal("db\ncache\n", logs.GetDiscarded())
	})

	t.Run("tree", func(t *testing.T) {
		r := require.New(t)
		logs := test.NewJSONLogReader()
		_, err := test.Bindle(t, test.WithArgs("resolve", path, "server.wasm", "-otree"), test.WithOutput(logs))
		r.NoError(err)
		_, err = logs.List()
		r.NoError(err)
		lines := strings.Split(strings.TrimSpace(logs.GetDiscarded()), "\n")
		r.Len(lines, 3)
		r.Contains(lines[0], "server.wasm ("+sha("server")[:12]+")")
		r.Contains(lines[1], "db.wasm")
		r.Contains(lines[2], "cache.wasm")
	})

	t.Run("unknown parcel", func(t *testing.T) {
		_, err := test.Bindle(t, test.WithArgs("resolve", path, "client.wasm"), test.WithOutput(test.NewJSONLogReader()))
		require.ErrorIs(t, err, invref.ErrParcelNotFound)
	})
}

func Test_Resolve_Cycle(t *testing.T) {
	isolate(t)
	cyclic := []testParcel{
		{name: "a.wasm", content: "a", memberOf: []string{"a"}, requires: []string{"b"}},
		{name: "b.wasm", content: "b", memberOf: []string{"b"}, requires: []string{"a"}},
	}
	path := writeInvoice(t, newInvoice(cyclic))

	t.Run("closure contains the seed", func(t *testing.T) {
		r := require.New(t)
		logs := test.NewJSONLogReader()
		_, err := test.Bindle(t, test.WithArgs("resolve", path, "a.wasm", "-ojson"), test.WithOutput(logs))
		r.NoError(err)
		entries, err := logs.List()
		r.NoError(err)
		r.Equal([]string{"b.wasm", "a.wasm"}, parcelNames(t, entries))
	})

	t.Run("no install order", func(t *testing.T) {
		_, err := test.Bindle(t, test.WithArgs("resolve", path, "a.wasm", "--order"), test.WithOutput(test.NewJSONLogReader()))
		var cycle *dag.CycleError
		require.ErrorAs(t, err, &cycle)
	})

	t.Run("tree marks the cycle", func(t *testing.T) {
		r := require.New(t)
		logs := test.NewJSONLogReader()
		_, err := test.Bindle(t, test.WithArgs("resolve", path, "a.wasm", "-otree"), test.WithOutput(logs))
		r.NoError(err)
		_, err = logs.List()
		r.NoError(err)
		lines := strings.Split(strings.TrimSpace(logs.GetDiscarded()), "\n")
		r.Len(lines, 3)
		r.True(strings.HasSuffix(lines[2], "↺"), "expected %q to mark the cycle", lines[2])
	})
}

func Test_Download(t *testing.T) {
	isolate(t)

	t.Run("closure with seed", func(t *testing.T) {
		r := require.New(t)
		srv := serve(t, weather)
		dir := filepath.Join(t.TempDir(), "weather")
		logs := test.NewJSONLogReader()
		_, err := test.Bindle(t, test.WithArgs("download", weatherID, "server.wasm",
			"--server", srv.URL(), "--dir", dir, "--concurrency-limit", "2"), test.WithOutput(logs))
		r.NoError(err)

		for _, tp := range weather[:3] {
			data, err := os.ReadFile(filepath.Join(dir, tp.name))
			r.NoError(err)
			r.Equal(tp.content, string(data))
		}
		r.NoFileExists(filepath.Join(dir, "README.md"))

		entries, err := logs.List()
		r.NoError(err)
		var found bool
		for _, entry := range entries {
			if entry.Msg == "downloaded parcels" {
				found = true
				r.EqualValues(3, entry.Extras["count"])
				r.Equal(weatherID, entry.Extras["invoice"])
			}
		}
		r.True(found, "expected a log entry for the download")
		r.Contains(logs.GetDiscarded(), filepath.Join(dir, "cache.wasm"))
	})

	t.Run("local invoice without seed", func(t *testing.T) {
		r := require.New(t)
		srv := serve(t, weather)
		path := writeInvoice(t, newInvoice(weather))
		dir := t.TempDir()
		_, err := test.Bindle(t, test.WithArgs("download", path, "server.wasm",
			"--server", srv.URL(), "--dir", dir, "--include-seed=false"), test.WithOutput(test.NewJSONLogReader()))
		r.NoError(err)
		r.FileExists(filepath.Join(dir, "db.wasm"))
		r.NoFileExists(filepath.Join(dir, "server.wasm"))
	})

	t.Run("missing parcel", func(t *testing.T) {
		r := require.New(t)
		srv := serve(t, weather, "cache.wasm")
		dir := t.TempDir()
		_, err := test.Bindle(t, test.WithArgs("download", weatherID, "server.wasm",
			"--server", srv.URL(), "--dir", dir), test.WithOutput(test.NewJSONLogReader()))
		r.ErrorIs(err, client.ErrNotFound)

		files, err := os.ReadDir(dir)
		r.NoError(err)
		r.Empty(files, "partial downloads are removed")
	})

	t.Run("existing files survive a failed download", func(t *testing.T) {
		r := require.New(t)
		srv := serve(t, weather, "cache.wasm")
		dir := t.TempDir()
		existing := filepath.Join(dir, "db.wasm")
		r.NoError(os.WriteFile(existing, []byte("mine"), 0o600))

		_, err := test.Bindle(t, test.WithArgs("download", weatherID, "server.wasm",
			"--server", srv.URL(), "--dir", dir), test.WithOutput(test.NewJSONLogReader()))
		r.ErrorIs(err, client.ErrNotFound)

		data, err := os.ReadFile(existing)
		r.NoError(err)
		r.Equal("mine", string(data))
		files, err := os.ReadDir(dir)
		r.NoError(err)
		r.Len(files, 1, "only the file that was there before is left")
	})

	t.Run("existing files are replaced on success", func(t *testing.T) {
		r := require.New(t)
		srv := serve(t, weather)
		dir := t.TempDir()
		r.NoError(os.WriteFile(filepath.Join(dir, "db.wasm"), []byte("old"), 0o600))

		_, err := test.Bindle(t, test.WithArgs("download", weatherID, "server.wasm",
			"--server", srv.URL(), "--dir", dir), test.WithOutput(test.NewJSONLogReader()))
		r.NoError(err)

		data, err := os.ReadFile(filepath.Join(dir, "db.wasm"))
		r.NoError(err)
		r.Equal("db", string(data))
		files, err := os.ReadDir(dir)
		r.NoError(err)
		r.Len(files, 3, "no staged files are left behind")
	})

	t.Run("target is a file", func(t *testing.T) {
		r := require.New(t)
		srv := serve(t, weather)
		path := writeInvoice(t, newInvoice(weather))
		_, err := test.Bindle(t, test.WithArgs("download", weatherID, "server.wasm",
			"--server", srv.URL(), "--dir", path), test.WithOutput(test.NewJSONLogReader()))
		r.ErrorContains(err, "is not a directory")
		r.Zero(srv.Requests.Load())
	})

	t.Run("nothing to download", func(t *testing.T) {
		r := require.New(t)
		srv := serve(t, weather)
		_, err := test.Bindle(t, test.WithArgs("download", weatherID, "cache.wasm",
			"--server", srv.URL(), "--dir", t.TempDir(), "--include-seed=false"), test.WithOutput(test.NewJSONLogReader()))
		r.NoError(err)
		r.Zero(srv.Requests.Load()-1, "only the invoice is fetched")
	})
}

func Test_Push(t *testing.T) {
	isolate(t)
	r := require.New(t)
	srv := clienttest.NewServer(t)
	inv := newInvoice(weather)
	path := writeInvoice(t, inv)

	parcels := t.TempDir()
	for i, tp := range weather {
		name := tp.name
		if i == 0 {
			// stored under its fingerprint
			name = sha(tp.content)
		}
		r.NoError(os.WriteFile(filepath.Join(parcels, name), []byte(tp.content), 0o600))
	}

	logs := test.NewJSONLogReader()
	_, err := test.Bindle(t, test.WithArgs("push", path, "--server", srv.URL(), "--parcel-dir", parcels), test.WithOutput(logs))
	r.NoError(err)
	_, err = logs.List()
	r.NoError(err)
	r.Equal("pushed example.com/weather/0.1.0 with 4 new parcels\n", logs.GetDiscarded())

	_, ok := srv.Invoice(weatherID)
	r.True(ok)
	for _, tp := range weather {
		data, ok := srv.Parcel(weatherID, sha(tp.content))
		r.True(ok, "parcel %s was not pushed", tp.name)
		r.Equal(tp.content, string(data))
	}

	t.Run("existing invoice", func(t *testing.T) {
		_, err := test.Bindle(t, test.WithArgs("push", path, "--server", srv.URL(), "--parcel-dir", parcels), test.WithOutput(test.NewJSONLogReader()))
		var status *client.StatusError
		require.ErrorAs(t, err, &status)
		require.Equal(t, http.StatusConflict, status.StatusCode)
	})

	t.Run("missing content", func(t *testing.T) {
		srv := clienttest.NewServer(t)
		_, err := test.Bindle(t, test.WithArgs("push", path, "--server", srv.URL(), "--parcel-dir", t.TempDir()), test.WithOutput(test.NewJSONLogReader()))
		require.ErrorIs(t, err, push.ErrParcelContentNotFound)
	})

	t.Run("remote reference", func(t *testing.T) {
		_, err := test.Bindle(t, test.WithArgs("push", weatherID, "--server", srv.URL()), test.WithOutput(test.NewJSONLogReader()))
		require.Error(t, err)
	})
}

func Test_Version(t *testing.T) {
	r := require.New(t)
	logs := test.NewJSONLogReader()
	_, err := test.Bindle(t, test.WithArgs("version"), test.WithOutput(logs))
	r.NoError(err, "failed to run version command")

	entries, err := logs.List()
	r.NoError(err, "failed to list log entries")
	r.NotEmpty(entries, "expected log entries for version command")

	found := false
	for _, entry := range entries {
		if _, ok := entry.Extras["version"]; ok {
			found = true
			r.NotEmpty(entry.Extras["goVersion"])
			break
		}
	}
	r.True(found, "expected to find version in log entries")
}

func Test_Generate_Docs(t *testing.T) {
	r := require.New(t)
	dir := filepath.Join(t.TempDir(), "docs")
	_, err := test.Bindle(t, test.WithArgs("generate", "docs", "--directory", dir), test.WithOutput(test.NewJSONLogReader()))
	r.NoError(err)
	r.FileExists(filepath.Join(dir, "bindle.md"))
	r.FileExists(filepath.Join(dir, "bindle_resolve.md"))
	r.FileExists(filepath.Join(dir, "bindle_get_parcels.md"))
}

func Test_Generate_Label(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "hello.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))

	t.Run("detected media type", func(t *testing.T) {
		r := require.New(t)
		logs := test.NewJSONLogReader()
		_, err := test.Bindle(t, test.WithArgs("generate", "label", path), test.WithOutput(logs))
		r.NoError(err)
		discarded, err := logs.Output()
		r.NoError(err)
		r.Contains(discarded, "[label]")
		r.Contains(discarded, `sha256 = "`+sha("hello")+`"`)
		r.Contains(discarded, `mediaType = "text/plain; charset=utf-8"`)
		r.Contains(discarded, `name = "hello.txt"`)
		r.Contains(discarded, "size = 5")
	})

	t.Run("name and media type given", func(t *testing.T) {
		r := require.New(t)
		logs := test.NewJSONLogReader()
		_, err := test.Bindle(t, test.WithArgs("generate", "label", path,
			"--name", "docs/hello.md", "--media-type", "text/markdown", "-o", "yaml"), test.WithOutput(logs))
		r.NoError(err)
		discarded, err := logs.Output()
		r.NoError(err)
		r.Contains(discarded, "name: docs/hello.md")
		r.Contains(discarded, "mediaType: text/markdown")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := test.Bindle(t, test.WithArgs("generate", "label", filepath.Join(t.TempDir(), "missing")), test.WithOutput(test.NewJSONLogReader()))
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}

func Test_Generate_Schema(t *testing.T) {
	isolate(t)
	tests := []struct {
		kind     string
		expected []string
	}{
		{kind: "invoice", expected: []string{`"bindleVersion"`, `"parcel"`, `"memberOf"`}},
		{kind: "config", expected: []string{`"server"`, `"concurrency"`}},
	}
	for _, tc := range tests {
		t.Run(tc.kind, func(t *testing.T) {
			r := require.New(t)
			logs := test.NewJSONLogReader()
			_, err := test.Bindle(t, test.WithArgs("generate", "schema", tc.kind), test.WithOutput(logs))
			r.NoError(err)
			discarded, err := logs.Output()
			r.NoError(err)
			for _, s := range tc.expected {
				r.Contains(discarded, s)
			}
		})
	}

	t.Run("unknown kind", func(t *testing.T) {
		_, err := test.Bindle(t, test.WithArgs("generate", "schema", "signature"), test.WithOutput(test.NewJSONLogReader()))
		require.Error(t, err)
	})
}
