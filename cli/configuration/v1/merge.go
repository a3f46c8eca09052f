package v1

// Merge merges the provided configs into a single config.
// The configurations are merged in the order they are provided, so fields set
// in a later config overwrite those of preceding ones. Nil configs are skipped.
func Merge(configs ...*Config) *Config {
	merged := &Config{Type: ConfigType}
	for _, cfg := range configs {
		if cfg == nil {
			continue
		}
		if cfg.Server != "" {
			merged.Server = cfg.Server
		}
		if cfg.Username != "" {
			merged.Username = cfg.Username
		}
		if cfg.Password != "" {
			merged.Password = cfg.Password
		}
		if cfg.Insecure != nil {
			insecure := *cfg.Insecure
			merged.Insecure = &insecure
		}
		if cfg.Concurrency > 0 {
			merged.Concurrency = cfg.Concurrency
		}
	}
	return merged
}
