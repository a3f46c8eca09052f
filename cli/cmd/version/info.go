package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Info is the build version of the CLI split into its semantic version parts.
type Info struct {
	Major      string `json:"major"`
	Minor      string `json:"minor"`
	Patch      string `json:"patch"`
	PreRelease string `json:"prerelease,omitempty"`
	Meta       string `json:"meta,omitempty"`
	Version    string `json:"version"`
	GitCommit  string `json:"gitCommit,omitempty"`
	BuildDate  string `json:"buildDate,omitempty"`
	GoVersion  string `json:"goVersion"`
	Compiler   string `json:"compiler"`
	Platform   string `json:"platform"`
}

// GetInfo derives the version info from the main module version of the build.
// A pseudo version (v0.0.0-20250101120000-abcdef123456) yields the build date
// and commit. A version that is not semantic is reported as 0.0.0.
func GetInfo(bi *debug.BuildInfo) Info {
	info := Info{
		GoVersion: runtime.Version(),
		Compiler:  runtime.Compiler,
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}

	v, err := semver.NewVersion(bi.Main.Version)
	if err != nil {
		info.Version = bi.Main.Version
		info.Major, info.Minor, info.Patch = "0", "0", "0"
		return info
	}

	info.Version = v.String()
	info.Meta = strings.TrimPrefix(v.Metadata(), "+")
	if pre := v.Prerelease(); pre != "" {
		info.PreRelease = pre
		info.BuildDate, info.GitCommit, _ = strings.Cut(pre, "-")
	}
	info.Major = strconv.FormatUint(v.Major(), 10)
	info.Minor = strconv.FormatUint(v.Minor(), 10)
	info.Patch = strconv.FormatUint(v.Patch(), 10)
	return info
}
