package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"ocm.software/open-component-model/bindle/bindings/go/invoice"
	v1 "ocm.software/open-component-model/bindle/cli/configuration/v1"
)

const (
	KindInvoice = "invoice"
	KindConfig  = "config"
)

func New() *cobra.Command {
	return &cobra.Command{
		Use:       fmt.Sprintf("schema {%s|%s}", KindInvoice, KindConfig),
		Short:     "Generate the JSON schema of an invoice or of the CLI configuration",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{KindInvoice, KindConfig},
		Long: `Generate the JSON schema of an invoice or of the CLI configuration.

The schema describes the JSON and YAML form of the document and can be used by
editors to validate invoice and configuration files.`,
		Example: strings.TrimSpace(`
bindle generate schema invoice > invoice.schema.json
bindle generate schema config
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := Generate(args[0])
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(append(data, '\n'))
			return err
		},
		DisableAutoGenTag: true,
	}
}

// Generate returns the indented JSON schema of the given kind.
func Generate(kind string) ([]byte, error) {
	var obj any
	switch kind {
	case KindInvoice:
		obj = &invoice.Invoice{}
	case KindConfig:
		obj = &v1.Config{}
	default:
		return nil, fmt.Errorf("unknown schema kind %q", kind)
	}

	r := &jsonschema.Reflector{}
	raw, err := r.Reflect(obj).MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to create json schema for %s: %w", kind, err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
