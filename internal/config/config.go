// Package config loads runtime configuration from config.yaml plus
// RETAILQL_* environment overrides, falling back to defaults when no
// file is present.
package config

import (
	"github.com/spf13/viper"
)

// Config holds everything the CLI needs to wire the core together.
type Config struct {
	Logging    LoggingConfig
	Normalizer NormalizerConfig
	Loader     LoaderConfig
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level  string // debug | info | warn | error
	SeqURL string // empty disables the Seq sink
}

// NormalizerConfig configures the cleaning run.
type NormalizerConfig struct {
	PreserveRows bool
	AliasFile    string // optional YAML alias-override file
}

// LoaderConfig configures delimited-text reading.
type LoaderConfig struct {
	Delimiter string // single character; defaults to ","
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Logging:    LoggingConfig{Level: "info"},
		Normalizer: NormalizerConfig{PreserveRows: true},
		Loader:     LoaderConfig{Delimiter: ","},
	}
}

// Load reads config.yaml from configPath (if present) and applies
// environment overrides like RETAILQL_LOGGING_LEVEL.
func Load(configPath string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath(".")
	v.AutomaticEnv()
	v.SetEnvPrefix("RETAILQL")

	v.BindEnv("logging.level", "RETAILQL_LOGGING_LEVEL")
	v.BindEnv("logging.seq_url", "RETAILQL_LOGGING_SEQ_URL")
	v.BindEnv("normalizer.preserve_rows", "RETAILQL_NORMALIZER_PRESERVE_ROWS")
	v.BindEnv("normalizer.alias_file", "RETAILQL_NORMALIZER_ALIAS_FILE")
	v.BindEnv("loader.delimiter", "RETAILQL_LOADER_DELIMITER")

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is fine: defaults + env apply.
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return cfg, err
		}
	}

	if v.IsSet("logging.level") {
		cfg.Logging.Level = v.GetString("logging.level")
	}
	if v.IsSet("logging.seq_url") {
		cfg.Logging.SeqURL = v.GetString("logging.seq_url")
	}
	if v.IsSet("normalizer.preserve_rows") {
		cfg.Normalizer.PreserveRows = v.GetBool("normalizer.preserve_rows")
	}
	if v.IsSet("normalizer.alias_file") {
		cfg.Normalizer.AliasFile = v.GetString("normalizer.alias_file")
	}
	if v.IsSet("loader.delimiter") {
		cfg.Loader.Delimiter = v.GetString("loader.delimiter")
	}

	return cfg, nil
}

// DelimiterRune returns the configured delimiter as a rune, defaulting
// to a comma when unset or invalid.
func (c LoaderConfig) DelimiterRune() rune {
	for _, r := range c.Delimiter {
		return r
	}
	return ','
}
