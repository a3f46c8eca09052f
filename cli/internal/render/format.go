// Package render encodes invoices and parcels for command output.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"sigs.k8s.io/yaml"

	"ocm.software/open-component-model/bindle/bindings/go/invoice"
)

// Output formats understood by the render functions.
const (
	OutputFormatTable = "table"
	OutputFormatYAML  = "yaml"
	OutputFormatJSON  = "json"
	OutputFormatTOML  = "toml"
	OutputFormatTree  = "tree"
)

// Invoice writes the invoice as yaml, json (a single line) or toml.
func Invoice(w io.Writer, format string, inv *invoice.Invoice) error {
	switch format {
	case OutputFormatYAML:
		return invoice.Encode(w, inv, invoice.FormatYAML)
	case OutputFormatTOML:
		return invoice.Encode(w, inv, invoice.FormatTOML)
	case OutputFormatJSON:
		return json.NewEncoder(w).Encode(inv)
	default:
		return fmt.Errorf("unknown output format: %q", format)
	}
}

// Parcels writes the parcels as table, yaml list or new line delimited json.
func Parcels(w io.Writer, format string, parcels []invoice.Parcel) error {
	var data []byte
	var err error
	switch format {
	case OutputFormatTable:
		data = parcelsAsTable(parcels)
	case OutputFormatYAML:
		data, err = yaml.Marshal(parcels)
	case OutputFormatJSON:
		data, err = parcelsAsNDJSON(parcels)
	default:
		err = fmt.Errorf("unknown output format: %q", format)
	}
	if err != nil {
		return fmt.Errorf("encoding parcels as %q failed: %w", format, err)
	}
	_, err = io.Copy(w, bytes.NewReader(data))
	return err
}

func parcelsAsNDJSON(parcels []invoice.Parcel) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	for _, p := range parcels {
		if err := encoder.Encode(p); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func parcelsAsTable(parcels []invoice.Parcel) []byte {
	var buf bytes.Buffer
	t := table.NewWriter()
	t.SetOutputMirror(&buf)
	t.AppendHeader(table.Row{"Name", "SHA256", "Media Type", "Size", "Member Of", "Requires"})
	for _, p := range parcels {
		t.AppendRow(table.Row{
			p.Label.Name,
			ShortSHA(p.Label.SHA256),
			p.Label.MediaType,
			strconv.FormatUint(p.Label.Size, 10),
			strings.Join(p.MemberOf(), ","),
			strings.Join(p.Requires(), ","),
		})
	}
	style := table.StyleLight
	style.Options.DrawBorder = false
	t.SetStyle(style)
	t.Render()
	return buf.Bytes()
}

// ShortSHA abbreviates a fingerprint for human readable output.
func ShortSHA(sha string) string {
	if len(sha) > 12 {
		return sha[:12]
	}
	return sha
}
