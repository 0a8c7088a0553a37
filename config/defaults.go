package config

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/teranos/CATX/errors"
	"github.com/teranos/CATX/ingest"
	"github.com/teranos/CATX/processors"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("max_rounds", ingest.DefaultMaxRounds)

	v.SetDefault("fetch.rate_per_second", processors.DefaultFetchRate)

	v.SetDefault("log.json", false)
	v.SetDefault("log.level", "info")
}

// Default returns the built-in configuration, including the default
// admission rule set spelled out so WriteDefault produces an editable file.
func Default() *Config {
	cfg := &Config{
		MaxRounds: ingest.DefaultMaxRounds,
		Fetch:     FetchConfig{RatePerSecond: processors.DefaultFetchRate},
		Log:       LogConfig{JSON: false, Level: "info"},
	}
	for _, rule := range ingest.DefaultRules() {
		cfg.Rules = append(cfg.Rules, RuleConfig{
			Location: rule.LocationType,
			Kinds:    rule.Kinds,
		})
	}
	return cfg
}

// WriteDefault renders the default configuration as TOML to the given path.
// Refuses to overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return errors.Newf("config file already exists: %s", path)
	}

	data, err := toml.Marshal(Default())
	if err != nil {
		return errors.Wrap(err, "failed to render default config")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "failed to create config directory %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write config file %s", path)
	}
	return nil
}
