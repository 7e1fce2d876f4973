// Package config manages application configuration from files and environment.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	Output struct {
		Format string `mapstructure:"format"`
		Color  bool   `mapstructure:"color"`
	} `mapstructure:"output"`
	Evaluate struct {
		// TimeoutSeconds bounds each recalculation run; the external
		// spreadsheet application can hang. 0 disables the deadline.
		TimeoutSeconds int `mapstructure:"timeout_seconds"`
		// AppPath overrides the detected spreadsheet application.
		AppPath string `mapstructure:"app_path"`
	} `mapstructure:"evaluate"`
}

// EvaluateTimeout returns the recalculation deadline as a duration.
func (c *Config) EvaluateTimeout() time.Duration {
	return time.Duration(c.Evaluate.TimeoutSeconds) * time.Second
}

// Load reads the configuration from ~/.sheetpipe/config.yaml and environment
// variables.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(Dir())

	// Defaults
	viper.SetDefault("output.color", true)
	viper.SetDefault("output.format", "text")
	viper.SetDefault("evaluate.timeout_seconds", 120)

	// Environment variable overrides
	viper.SetEnvPrefix("SHEETPIPE")
	viper.AutomaticEnv()

	// Read config file (non-fatal if missing)
	_ = viper.ReadInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Dir returns the configuration directory.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sheetpipe"
	}
	return filepath.Join(home, ".sheetpipe")
}

// Path returns the configuration file path.
func Path() string {
	return filepath.Join(Dir(), "config.yaml")
}
