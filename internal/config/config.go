// Package config provides Viper-based configuration loading for the grue
// console.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// TableConfig holds the table setup: which sheets to seat and how the
// session starts.
type TableConfig struct {
	// SheetsDir is the directory of character-sheet YAML files seated at start.
	SheetsDir string `mapstructure:"sheets_dir"`
	// Lighting is the ambient lighting at start: "dark", "dim", or "light".
	Lighting string `mapstructure:"lighting"`
	// Seed seeds the dice generator; 0 seeds from the current time.
	Seed int64 `mapstructure:"seed"`
}

// MacrosConfig holds Lua macro settings.
type MacrosConfig struct {
	// Dir is the directory of .lua macro files. Empty disables macros.
	Dir string `mapstructure:"dir"`
	// Budget caps Lua instructions per macro call; 0 uses the engine default.
	Budget int `mapstructure:"budget"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Table   TableConfig   `mapstructure:"table"`
	Macros  MacrosConfig  `mapstructure:"macros"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error
// describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateTable(c.Table); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateMacros(c.Macros); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateTable(t TableConfig) error {
	var errs []string
	if t.SheetsDir == "" {
		errs = append(errs, "table.sheets_dir must not be empty")
	}
	validLighting := map[string]bool{"dark": true, "dim": true, "light": true}
	if !validLighting[t.Lighting] {
		errs = append(errs, fmt.Sprintf("table.lighting must be one of [dark, dim, light], got %q", t.Lighting))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateMacros(m MacrosConfig) error {
	if m.Budget < 0 {
		return fmt.Errorf("macros.budget must be >= 0, got %d", m.Budget)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment
// variable overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with GRUE_ prefix
	v.SetEnvPrefix("GRUE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("table.sheets_dir", "content/sheets")
	v.SetDefault("table.lighting", "light")
	v.SetDefault("table.seed", 0)

	v.SetDefault("macros.dir", "content/macros")
	v.SetDefault("macros.budget", 0)
}
