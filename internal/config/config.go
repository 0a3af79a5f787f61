// Package config loads the command's configuration from a file and the
// environment.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/zephyrtronium/exeval"
	"github.com/zephyrtronium/exeval/internal/logging"
)

// Config is the complete configuration of the command.
type Config struct {
	Settings exeval.Settings `mapstructure:"settings"`
	Log      logging.Config  `mapstructure:"log"`
	// CacheSize is the number of compiled expressions to keep. Zero disables
	// the compile cache.
	CacheSize int `mapstructure:"cache_size"`
	// Presets names function sets to connect, e.g. "math".
	Presets []string `mapstructure:"presets"`
}

// EnvPrefix prefixes environment variables which override configuration.
// For example, EXEVAL_SETTINGS_MAX_TOKEN_COUNT sets settings.max_token_count.
const EnvPrefix = "EXEVAL"

// Load reads the configuration file at path, if path is not empty, with
// environment overrides and defaults for everything else.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	if cfg.CacheSize < 0 {
		return nil, fmt.Errorf("invalid cache size %d", cfg.CacheSize)
	}
	return &cfg, nil
}

// setDefaults registers every key so that environment variables apply even
// without a config file.
func setDefaults(v *viper.Viper) {
	s := exeval.DefaultSettings()
	v.SetDefault("settings.max_expression_length", s.MaxExpressionLength)
	v.SetDefault("settings.max_name_length", s.MaxNameLength)
	v.SetDefault("settings.max_token_count", s.MaxTokenCount)
	v.SetDefault("settings.max_ast_depth", s.MaxASTDepth)
	v.SetDefault("settings.escaped_literal", s.EscapedLiteral)

	l := logging.DefaultConfig()
	v.SetDefault("log.level", l.Level)
	v.SetDefault("log.file", l.File)
	v.SetDefault("log.max_size", l.MaxSize)
	v.SetDefault("log.max_age", l.MaxAge)
	v.SetDefault("log.max_backups", l.MaxBackups)
	v.SetDefault("log.compress", l.Compress)

	v.SetDefault("cache_size", 0)
	v.SetDefault("presets", []string{})
}
