package v1

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"sigs.k8s.io/yaml"
)

const ConfigType = "config.bindle.dev/v1"

// Environment variables overriding file based configuration.
const (
	EnvServer   = "BINDLE_URL"
	EnvUsername = "BINDLE_USERNAME"
	EnvPassword = "BINDLE_PASSWORD"
	EnvInsecure = "BINDLE_INSECURE"
)

// EnvironmentKeys lists the environment variables read by [Config.ApplyEnvironment].
var EnvironmentKeys = []string{EnvServer, EnvUsername, EnvPassword, EnvInsecure}

var ErrUnsupportedType = errors.New("unsupported configuration type")

// Config is the configuration of the bindle CLI.
type Config struct {
	Type string `json:"type,omitempty"`
	// Server is the base URL of the bindle API, e.g. https://bindle.example.com/v1.
	Server   string `json:"server,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	// Insecure disables TLS certificate verification. Unset means false.
	Insecure *bool `json:"insecure,omitempty"`
	// Concurrency limits parallel parcel downloads.
	Concurrency int `json:"concurrency,omitempty"`
}

// AllowInsecure reports whether TLS verification is disabled.
func (c *Config) AllowInsecure() bool {
	return c != nil && c.Insecure != nil && *c.Insecure
}

// Decode reads a YAML configuration. Unknown fields are rejected.
func Decode(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("decoding configuration failed: %w", err)
	}
	if cfg.Type != "" && cfg.Type != ConfigType {
		return nil, fmt.Errorf("%w %q, expected %q", ErrUnsupportedType, cfg.Type, ConfigType)
	}
	return &cfg, nil
}

// ApplyEnvironment overrides fields with the values of set environment
// variables. lookup is usually os.LookupEnv.
func (c *Config) ApplyEnvironment(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvServer); ok && v != "" {
		c.Server = v
	}
	if v, ok := lookup(EnvUsername); ok && v != "" {
		c.Username = v
	}
	if v, ok := lookup(EnvPassword); ok && v != "" {
		c.Password = v
	}
	if v, ok := lookup(EnvInsecure); ok && v != "" {
		insecure, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid value %q for %s: %w", v, EnvInsecure, err)
		}
		c.Insecure = &insecure
	}
	return nil
}
