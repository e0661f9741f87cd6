package unison

import "github.com/unison-ui/unison/internal/config"

// Config is the project configuration, loaded from unison.json and
// UNISON_* environment variables.
type Config = config.Config

// NewConfig returns a configuration with default values.
func NewConfig() *Config {
	return config.New()
}

// LoadConfig locates unison.json in the working directory or an
// ancestor and loads it, applying defaults and environment overrides.
func LoadConfig() (*Config, error) {
	return config.LoadFromWorkingDir()
}

// ConfigFromEnv builds a configuration from defaults and UNISON_*
// environment variables alone, without a project file.
func ConfigFromEnv() (*Config, error) {
	return config.FromEnv()
}
