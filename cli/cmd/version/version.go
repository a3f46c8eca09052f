package version

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"ocm.software/open-component-model/bindle/cli/internal/flags/enum"
)

const (
	FlagFormat                = "format"
	FlagFormatShortHand       = "f"
	FlagFormatJSON            = "json"
	FlagFormatGoBuildInfo     = "gobuildinfo"
	FlagFormatGoBuildInfoJSON = "gobuildinfojson"
)

// BuildVersion overrides the version of the main module detected from the go
// build info. It can be set at build time with
//
//	-ldflags "-X ocm.software/open-component-model/bindle/cli/cmd/version.BuildVersion=1.2.3"
var BuildVersion = "n/a"

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Retrieve the build version of the bindle CLI",
		Long: fmt.Sprintf(`The version command retrieves the build version of the bindle CLI.

The default format is %[2]q, which splits the version into its semantic version
parts. For pseudo versions the build date and git commit are derived from the
pre-release part.

%[3]q prints the go build information as a string, %[4]q prints the same
information as JSON.

The build info is drawn from the go module build information and is possibly
overwritten with the released version at build time.`, FlagFormat, FlagFormatJSON, FlagFormatGoBuildInfo, FlagFormatGoBuildInfoJSON),
		Example: fmt.Sprintf(`bindle version --%s %s`, FlagFormat, FlagFormatGoBuildInfo),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := enum.Get(cmd.Flags(), FlagFormat)
			if err != nil {
				return err
			}
			bi, ok := debug.ReadBuildInfo()
			if !ok {
				return fmt.Errorf("no build info available")
			}
			return Write(cmd.OutOrStdout(), format, bi)
		},
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}

	enum.VarP(cmd.Flags(), FlagFormat, FlagFormatShortHand, []string{FlagFormatJSON, FlagFormatGoBuildInfo, FlagFormatGoBuildInfoJSON}, "format of the version information")
	_ = enum.RegisterCompletion(cmd, FlagFormat)
	return cmd
}

// Write prints the build info in the given format, applying BuildVersion.
func Write(w io.Writer, format string, bi *debug.BuildInfo) error {
	if BuildVersion != "n/a" {
		bi.Main.Version = BuildVersion
	}
	switch format {
	case FlagFormatJSON:
		return json.NewEncoder(w).Encode(GetInfo(bi))
	case FlagFormatGoBuildInfo:
		_, err := io.Copy(w, strings.NewReader(bi.String()))
		return err
	case FlagFormatGoBuildInfoJSON:
		return json.NewEncoder(w).Encode(bi)
	default:
		return fmt.Errorf("unknown version format %q", format)
	}
}
