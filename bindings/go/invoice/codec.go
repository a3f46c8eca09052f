package invoice

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"sigs.k8s.io/yaml"
)

// Format is an encoding of an invoice.
type Format string

const (
	// FormatTOML is the native bindle encoding.
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// MediaTypeTOML is the content type the bindle server uses for invoices.
const MediaTypeTOML = "application/toml"

// ErrUnknownFormat is returned when an encoding is requested that is not supported.
var ErrUnknownFormat = errors.New("unknown invoice format")

// Formats lists the supported encodings, the default first.
func Formats() []string {
	return []string{string(FormatTOML), string(FormatYAML), string(FormatJSON)}
}

// FormatFromPath derives the encoding from a file extension. Files without a
// known extension are treated as TOML.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	default:
		return FormatTOML
	}
}

// Decode reads an invoice in the given format.
func Decode(r io.Reader, format Format) (*Invoice, error) {
	var inv Invoice
	switch format {
	case FormatTOML, "":
		if _, err := toml.NewDecoder(r).Decode(&inv); err != nil {
			return nil, fmt.Errorf("decoding toml invoice failed: %w", err)
		}
	case FormatYAML:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading yaml invoice failed: %w", err)
		}
		if err := yaml.Unmarshal(data, &inv); err != nil {
			return nil, fmt.Errorf("decoding yaml invoice failed: %w", err)
		}
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&inv); err != nil {
			return nil, fmt.Errorf("decoding json invoice failed: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return &inv, nil
}

// DecodeFile reads an invoice from a file, choosing the format by extension.
func DecodeFile(path string) (_ *Invoice, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = errors.Join(err, file.Close())
	}()
	inv, err := Decode(file, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("reading invoice from %q failed: %w", path, err)
	}
	return inv, nil
}

// Encode writes the invoice in the given format.
func Encode(w io.Writer, inv *Invoice, format Format) error {
	if inv == nil {
		return fmt.Errorf("cannot encode nil invoice")
	}
	switch format {
	case FormatTOML, "":
		if err := toml.NewEncoder(w).Encode(inv); err != nil {
			return fmt.Errorf("encoding toml invoice failed: %w", err)
		}
	case FormatYAML:
		data, err := yaml.Marshal(inv)
		if err != nil {
			return fmt.Errorf("encoding yaml invoice failed: %w", err)
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(inv); err != nil {
			return fmt.Errorf("encoding json invoice failed: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return nil
}
