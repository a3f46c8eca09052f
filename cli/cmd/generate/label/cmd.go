package label

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"ocm.software/open-component-model/bindle/bindings/go/invoice"
	bindlecmd "ocm.software/open-component-model/bindle/cli/cmd/internal/cmd"
	"ocm.software/open-component-model/bindle/cli/internal/flags/enum"
	"ocm.software/open-component-model/bindle/cli/internal/render"
)

const (
	FlagName      = "name"
	FlagMediaType = "media-type"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "label {file}",
		Short: "Generate the parcel label of a file",
		Args:  cobra.ExactArgs(1),
		Long: fmt.Sprintf(`Generate the label of a parcel holding the content of a file.

The label carries the sha256 fingerprint and the size of the content. The name
defaults to the base name of the file and can be set with --%[1]s. The media type
is detected from the content unless it is given with --%[2]s.

The output can be added to the [[parcel]] list of an invoice.`, FlagName, FlagMediaType),
		Example: strings.TrimSpace(`
bindle generate label ./server.wasm
bindle generate label ./index.html --name web/index.html --media-type text/html
`),
		RunE:              GenerateLabel,
		DisableAutoGenTag: true,
	}
	cmd.Flags().String(FlagName, "", "name of the parcel, the base name of the file by default")
	cmd.Flags().String(FlagMediaType, "", "media type of the parcel, detected from the content by default")
	enum.VarP(cmd.Flags(), bindlecmd.OutputFlag, "o", []string{render.OutputFormatTOML, render.OutputFormatYAML, render.OutputFormatJSON}, "output format of the label")
	_ = enum.RegisterCompletion(cmd, bindlecmd.OutputFlag)
	return cmd
}

func GenerateLabel(cmd *cobra.Command, args []string) error {
	name, err := cmd.Flags().GetString(FlagName)
	if err != nil {
		return fmt.Errorf("getting name flag failed: %w", err)
	}
	mediaType, err := cmd.Flags().GetString(FlagMediaType)
	if err != nil {
		return fmt.Errorf("getting media-type flag failed: %w", err)
	}
	output, err := enum.Get(cmd.Flags(), bindlecmd.OutputFlag)
	if err != nil {
		return fmt.Errorf("getting output flag failed: %w", err)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading parcel content failed: %w", err)
	}
	if name == "" {
		name = filepath.Base(args[0])
	}
	return Write(cmd.OutOrStdout(), output, invoice.NewLabel(name, mediaType, data))
}

// Write encodes the label as a parcel entry.
func Write(w io.Writer, format string, label invoice.Label) error {
	parcel := invoice.Parcel{Label: label}
	switch format {
	case render.OutputFormatTOML:
		return toml.NewEncoder(w).Encode(parcel)
	case render.OutputFormatYAML:
		data, err := yaml.Marshal(parcel)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case render.OutputFormatJSON:
		return json.NewEncoder(w).Encode(parcel)
	default:
		return fmt.Errorf("unknown output format: %q", format)
	}
}
