package config

import "time"

// Config is the top-level scormpack configuration, corresponding to .scormpack.yml.
type Config struct {
	OutputDir string        `yaml:"output_dir" koanf:"output_dir"`
	DataDir   string        `yaml:"data_dir" koanf:"data_dir"`
	Assets    AssetsConfig  `yaml:"assets" koanf:"assets"`
	Server    ServerConfig  `yaml:"server" koanf:"server"`
	History   HistoryConfig `yaml:"history" koanf:"history"`
}

// AssetsConfig controls where schema and DTD support files come from.
// Dir takes precedence over BaseURL; with neither set every support file
// is a placeholder.
type AssetsConfig struct {
	BaseURL     string        `yaml:"base_url" koanf:"base_url"`
	Dir         string        `yaml:"dir" koanf:"dir"`
	Concurrency int           `yaml:"concurrency" koanf:"concurrency"`
	Timeout     time.Duration `yaml:"timeout" koanf:"timeout"`
}

// ServerConfig holds settings for `scormpack serve`.
type ServerConfig struct {
	Port     int  `yaml:"port" koanf:"port"`
	AllowAll bool `yaml:"allow_all" koanf:"allow_all"`
}

// HistoryConfig toggles the SQLite generation history.
type HistoryConfig struct {
	Enabled bool `yaml:"enabled" koanf:"enabled"`
}
