package generate

import (
	"github.com/spf13/cobra"

	"ocm.software/open-component-model/bindle/cli/cmd/generate/docs"
	"ocm.software/open-component-model/bindle/cli/cmd/generate/label"
	"ocm.software/open-component-model/bindle/cli/cmd/generate/schema"
)

// New represents the generate command
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate {docs|label|schema}",
		Short: "Generate documentation, parcel labels and schemas",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		DisableAutoGenTag: true,
	}
	cmd.AddCommand(docs.New())
	cmd.AddCommand(label.New())
	cmd.AddCommand(schema.New())
	return cmd
}
