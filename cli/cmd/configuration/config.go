package configuration

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	v1 "ocm.software/open-component-model/bindle/cli/configuration/v1"
)

// Bindle configuration file and directory constants
const (
	ConfigDirectoryName   = "bindle"
	ConfigFileName        = ConfigDirectoryName + "/config.yaml"
	NestedConfigFileName  = ".bindle.yaml"
	ConfigEnvironmentKey  = "BINDLE_CONFIG"
	ConfigCommandArgument = "config"
)

func RegisterConfigFlag(cmd *cobra.Command) {
	cmd.PersistentFlags().String(ConfigCommandArgument, "", `supply configuration by a given configuration file.
By default (without specifying custom locations with this flag), the file will be read from one of the well known locations:
1. The path specified in the BINDLE_CONFIG environment variable
2. The XDG_CONFIG_HOME directory (if set), or the default XDG home ($HOME/.config), or the user's home directory
- $XDG_CONFIG_HOME/bindle/config.yaml
- $XDG_CONFIG_HOME/.bindle.yaml
- $HOME/.config/bindle/config.yaml
- $HOME/.config/.bindle.yaml
- $HOME/bindle/config.yaml
- $HOME/.bindle.yaml
3. The current working directory:
- $PWD/bindle/config.yaml
- $PWD/.bindle.yaml
Using the option, this configuration file be used instead of the lookup above.
Environment variables (BINDLE_URL, BINDLE_USERNAME, BINDLE_PASSWORD, BINDLE_INSECURE) override file values.`)
}

// GetConfigForCommand loads the configuration given with the config flag or,
// if the flag is not set, the configuration found at the well known locations.
func GetConfigForCommand(cmd *cobra.Command) (*v1.Config, error) {
	path, _ := cmd.Flags().GetString(ConfigCommandArgument)
	if path != "" {
		cfg, err := GetConfigFromPath(path)
		if err != nil {
			return nil, err
		}
		return v1.Merge(cfg), nil
	}
	return GetConfig()
}

// GetConfig loads the configuration files from all well known locations and
// merges them. Files found later in the lookup order overwrite earlier ones.
// One can specify additional paths to search in addition to the default locations.
func GetConfig(additional ...string) (*v1.Config, error) {
	paths, err := GetConfigPaths()
	paths = append(paths, additional...)
	if err != nil && len(additional) == 0 {
		return nil, err
	}
	cfgs := make([]*v1.Config, 0, len(paths))
	for _, path := range paths {
		cfg, err := GetConfigFromPath(path)
		if err != nil {
			slog.Error("bindle config path was skipped due to an error loading it",
				slog.String("path", path),
				slog.String("error", err.Error()),
			)
			continue
		}
		slog.Debug("bindle config was loaded successfully", slog.String("path", path))
		cfgs = append(cfgs, cfg)
	}
	// the lookup lists the most specific location first
	merged := make([]*v1.Config, 0, len(cfgs))
	for i := len(cfgs) - 1; i >= 0; i-- {
		merged = append(merged, cfgs[i])
	}
	return v1.Merge(merged...), nil
}

// GetConfigFromPath reads and decodes the YAML configuration file from the specified path.
func GetConfigFromPath(path string) (_ *v1.Config, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = errors.Join(err, file.Close())
	}()

	cfg, err := v1.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("loading %q failed: %w", path, err)
	}
	return cfg, nil
}

// GetConfigPaths searches for the bindle configuration file in the following locations (in order):
// 1. The path specified in the BINDLE_CONFIG environment variable
// 2. The XDG_CONFIG_HOME directory (if set), or the default XDG home ($HOME/.config), or the user's home directory
// 3. The current working directory
//
// It returns an error if no configuration file is found.
func GetConfigPaths() ([]string, error) {
	var paths []string
	if path := getFromEnvironment(); path != "" {
		paths = append(paths, path)
	}
	if path := getFromXDGOrHomeDir(); path != "" {
		paths = append(paths, path)
	}
	if path := getFromWorkingDir(); path != "" {
		paths = append(paths, path)
	}

	if len(paths) > 0 {
		return paths, nil
	}

	return nil, fmt.Errorf("bindle config not found in any known locations")
}

func getFromEnvironment() string {
	if env := os.Getenv(ConfigEnvironmentKey); env != "" {
		if _, err := os.Stat(env); err == nil {
			return env
		}
	}
	return ""
}

// getFromXDGOrHomeDir checks XDG_CONFIG_HOME first if set, followed by the
// default XDG home (~/.config) and the user's home directory.
func getFromXDGOrHomeDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		if path := checkConfigPaths(xdg); path != "" {
			return path
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		if path := checkConfigPaths(filepath.Join(home, ".config")); path != "" {
			return path
		}
		if path := checkConfigPaths(home); path != "" {
			return path
		}
	}

	return ""
}

func getFromWorkingDir() string {
	if wd, err := os.Getwd(); err == nil {
		return checkConfigPaths(wd)
	}
	return ""
}

// checkConfigPaths returns the first of both config file variations found in base.
func checkConfigPaths(base string) string {
	for _, name := range []string{ConfigFileName, NestedConfigFileName} {
		path := filepath.Join(base, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
