// Package config handles application configuration using Viper.
// Viper supports YAML files, environment variables, and defaults — merged in priority order.
// Go convention: configuration is loaded into structs, not accessed as raw key-value pairs.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config is the root configuration struct. Nested structs organize related settings.
// `mapstructure` tags tell Viper how to map YAML/env keys to struct fields.
//
// The whole struct is built once at startup and passed down explicitly — the
// resolver and adapters never read the process environment themselves, which
// keeps tests free of env mutation.
type Config struct {
	OpenRouter ProviderSettings `mapstructure:"openrouter"`
	Gemini     ProviderSettings `mapstructure:"gemini"`
	Log        LogConfig        `mapstructure:"log"`
}

// ProviderSettings holds the credential and default model for one upstream
// vision provider. Model stays empty when neither the env variable nor the
// config file sets one — the resolver applies its hardcoded fallback, so the
// three model-priority tiers stay observable.
type ProviderSettings struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from the well-known environment variables and an
// optional YAML config file. Env always wins over the file, the file over
// defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("log.level", "info")

	// The provider env variables are part of the public contract, so they are
	// bound by their exact historical names rather than a prefixed scheme.
	mustBind(v, "openrouter.api_key", "OPENROUTER_API_KEY")
	mustBind(v, "openrouter.model", "OPENROUTER_MODEL")
	mustBind(v, "gemini.api_key", "GEMINI_API_KEY")
	mustBind(v, "gemini.model", "GEMINI_MODEL")
	mustBind(v, "log.level", "LOG_LEVEL")

	// Read from YAML config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Read config file (ignore "not found" — defaults + env are enough)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// HasCredentials reports whether at least one provider has an API key. The
// server refuses to start without any — there would be nothing to dispatch to.
func (c *Config) HasCredentials() bool {
	return c.OpenRouter.APIKey != "" || c.Gemini.APIKey != ""
}

func mustBind(v *viper.Viper, key, env string) {
	// BindEnv only errors on an empty key, which would be a programming bug.
	if err := v.BindEnv(key, env); err != nil {
		panic(err)
	}
}
