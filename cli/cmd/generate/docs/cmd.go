package docs

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"ocm.software/open-component-model/bindle/cli/internal/flags/enum"
)

const (
	FlagDirectory = "directory"
	FlagMode      = "mode"

	ModeMarkdown = "markdown"
	ModeMan      = "man"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Generate the reference documentation of every bindle command",
		Long: fmt.Sprintf(`Generate the reference documentation of every bindle command.

One file per command is written to the directory given with --%[1]s, which is
created if it does not exist. The %[2]q mode writes markdown, the %[3]q mode
writes man pages in section 1.`, FlagDirectory, ModeMarkdown, ModeMan),
		Example: `bindle generate docs --directory ./docs/reference --mode man`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cmd.Flags().GetString(FlagDirectory)
			if err != nil {
				return fmt.Errorf("getting directory flag failed: %w", err)
			}
			mode, err := enum.Get(cmd.Flags(), FlagMode)
			if err != nil {
				return fmt.Errorf("getting mode flag failed: %w", err)
			}
			return Generate(cmd.Root(), dir, mode)
		},
		DisableAutoGenTag: true,
	}
	cmd.Flags().String(FlagDirectory, "docs", "directory to write the documentation to")
	enum.Var(cmd.Flags(), FlagMode, []string{ModeMarkdown, ModeMan}, "format of the documentation")
	_ = enum.RegisterCompletion(cmd, FlagMode)
	return cmd
}

// Generate writes the documentation of root and all of its subcommands to dir.
func Generate(root *cobra.Command, dir, mode string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating documentation directory %q failed: %w", dir, err)
	}
	root.DisableAutoGenTag = true
	switch mode {
	case ModeMarkdown:
		return doc.GenMarkdownTree(root, dir)
	case ModeMan:
		return doc.GenManTree(root, &doc.GenManHeader{Title: "BINDLE", Section: "1"}, dir)
	default:
		return fmt.Errorf("unknown documentation mode %q", mode)
	}
}
