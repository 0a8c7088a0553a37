// Package config loads CATX configuration with Viper.
//
// Precedence, lowest to highest: built-in defaults, user config
// (~/.catx/config.toml), project config (catx.toml found by walking up from
// the working directory), then CATX_* environment variables.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/CATX/errors"
	"github.com/teranos/CATX/ingest"
)

// Config is the CATX runtime configuration.
type Config struct {
	// MaxRounds bounds the ingestion expansion loop
	MaxRounds int `mapstructure:"max_rounds" toml:"max_rounds"`

	// Rules is the admission rule set; empty means the built-in defaults
	Rules []RuleConfig `mapstructure:"rules" toml:"rules,omitempty"`

	Fetch FetchConfig `mapstructure:"fetch" toml:"fetch"`
	Log   LogConfig   `mapstructure:"log" toml:"log"`
}

// RuleConfig permits a set of entity kinds from one location type.
// Location "*" matches every location type.
type RuleConfig struct {
	Location string   `mapstructure:"location" toml:"location"`
	Kinds    []string `mapstructure:"kinds" toml:"kinds"`
}

// FetchConfig tunes remote location fetching.
type FetchConfig struct {
	// RatePerSecond limits remote fetches per second
	RatePerSecond float64 `mapstructure:"rate_per_second" toml:"rate_per_second"`
}

// LogConfig tunes the global logger.
type LogConfig struct {
	JSON  bool   `mapstructure:"json" toml:"json"`
	Level string `mapstructure:"level" toml:"level"`
}

// Load reads configuration from all sources.
func Load() (*Config, error) {
	v := initViper()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &config, nil
}

// LoadFromFile loads configuration from a specific file path, with defaults
// applied but no environment binding.
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal config from %s", configPath)
	}
	return &config, nil
}

// Enforcer builds the admission gate from the configured rules, falling
// back to the built-in default rule set when none are configured.
func (c *Config) Enforcer() *ingest.Enforcer {
	if len(c.Rules) == 0 {
		return ingest.DefaultEnforcer()
	}
	rules := make([]ingest.Rule, 0, len(c.Rules))
	for _, rc := range c.Rules {
		rules = append(rules, ingest.Rule{
			LocationType: rc.Location,
			Kinds:        rc.Kinds,
		})
	}
	return ingest.NewEnforcer(rules)
}

// initViper initializes Viper with configuration sources and defaults
func initViper() *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix("CATX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)
	mergeConfigFiles(v)

	return v
}

// findProjectConfig searches for catx.toml by walking up the directory tree.
// Returns the first config file found, or empty string if none.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(dir, "catx.toml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// mergeConfigFiles merges configuration files in precedence order
// (lowest to highest): user < project.
func mergeConfigFiles(v *viper.Viper) {
	var configPaths []string

	if homeDir, err := os.UserHomeDir(); err == nil {
		configPaths = append(configPaths, filepath.Join(homeDir, ".catx", "config.toml"))
	}
	if projectConfig := findProjectConfig(); projectConfig != "" {
		configPaths = append(configPaths, projectConfig)
	}

	for _, configPath := range configPaths {
		if _, err := os.Stat(configPath); err != nil {
			continue
		}
		fileViper := viper.New()
		fileViper.SetConfigFile(configPath)
		fileViper.SetConfigType("toml")
		if err := fileViper.ReadInConfig(); err != nil {
			continue
		}
		for key, value := range fileViper.AllSettings() {
			v.Set(key, value)
		}
	}
}
