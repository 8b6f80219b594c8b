package config

import "time"

// DefaultConfigFile is the config path used when --config is not given.
const DefaultConfigFile = ".scormpack.yml"

// EnvPrefix prefixes environment overrides. Nested keys use a double
// underscore: SCORMPACK_ASSETS__BASE_URL sets assets.base_url.
const EnvPrefix = "SCORMPACK_"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		OutputDir: "dist",
		DataDir:   ".scormpack",
		Assets: AssetsConfig{
			Concurrency: 8,
			Timeout:     15 * time.Second,
		},
		Server: ServerConfig{
			Port: 8080,
		},
		History: HistoryConfig{
			Enabled: true,
		},
	}
}
