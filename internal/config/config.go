// Package config loads generator settings from defaults, a TOML file and the environment.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultFileName is the project config file looked up in the working directory
const DefaultFileName = ".formulagen.toml"

// EnvPrefix prefixes environment overrides, e.g. FORMULAGEN_OUT_DIR or FORMULAGEN_LOG__LEVEL
const EnvPrefix = "FORMULAGEN_"

// Config holds generator settings
type Config struct {
	Template string            `koanf:"template"`
	OutDir   string            `koanf:"out_dir"`
	Force    bool              `koanf:"force"`
	Jobs     int               `koanf:"jobs"`
	Log      LogConfig         `koanf:"log"`
	Defaults map[string]string `koanf:"defaults"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"template":   "",
		"out_dir":    ".",
		"force":      false,
		"jobs":       4,
		"log.level":  "",
		"log.format": "console",
	}
}

// Load layers built-in defaults, the config file and FORMULAGEN_* variables.
// An explicit path must exist; otherwise DefaultFileName is used when present.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	configPath := path
	if configPath == "" {
		if _, err := os.Stat(DefaultFileName); err == nil {
			configPath = DefaultFileName
		}
	} else if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("config file %s: %w", configPath, err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	}

	// Double underscore separates nesting levels so single underscores survive in key names
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if cfg.Jobs < 1 {
		cfg.Jobs = 1
	}
	if cfg.Defaults == nil {
		cfg.Defaults = make(map[string]string)
	}

	return &cfg, nil
}
