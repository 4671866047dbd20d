package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearProviderEnv(t *testing.T) {
	t.Helper()
	// t.Setenv registers cleanup; setting empty values masks whatever the
	// test environment has configured.
	for _, key := range []string{"OPENROUTER_API_KEY", "OPENROUTER_MODEL", "GEMINI_API_KEY", "GEMINI_MODEL", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("OPENROUTER_API_KEY", "or-key")
	t.Setenv("GEMINI_API_KEY", "gm-key")
	t.Setenv("GEMINI_MODEL", "gemini-1.5-flash")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.OpenRouter.APIKey != "or-key" {
		t.Errorf("openrouter key = %q", cfg.OpenRouter.APIKey)
	}
	if cfg.Gemini.APIKey != "gm-key" {
		t.Errorf("gemini key = %q", cfg.Gemini.APIKey)
	}
	if cfg.Gemini.Model != "gemini-1.5-flash" {
		t.Errorf("gemini model = %q", cfg.Gemini.Model)
	}
	// No env model means empty — the resolver's fallback tier must stay
	// distinguishable from a configured default.
	if cfg.OpenRouter.Model != "" {
		t.Errorf("openrouter model = %q, want empty", cfg.OpenRouter.Model)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("log level = %q, want the info default", cfg.Log.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	clearProviderEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "gemini:\n  api_key: file-key\n  model: gemini-2.0-flash\nlog:\n  level: debug\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Gemini.APIKey != "file-key" {
		t.Errorf("gemini key = %q", cfg.Gemini.APIKey)
	}
	if cfg.Gemini.Model != "gemini-2.0-flash" {
		t.Errorf("gemini model = %q", cfg.Gemini.Model)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("GEMINI_API_KEY", "env-key")

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("gemini:\n  api_key: file-key\n"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Gemini.APIKey != "env-key" {
		t.Errorf("gemini key = %q, want env to win", cfg.Gemini.APIKey)
	}
}

func TestHasCredentials(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want bool
	}{
		{"none", Config{}, false},
		{"openrouter only", Config{OpenRouter: ProviderSettings{APIKey: "k"}}, true},
		{"gemini only", Config{Gemini: ProviderSettings{APIKey: "k"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.HasCredentials(); got != tt.want {
				t.Errorf("HasCredentials() = %v, want %v", got, tt.want)
			}
		})
	}
}
