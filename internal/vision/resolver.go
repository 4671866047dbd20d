package vision

import (
	"errors"
	"fmt"

	"github.com/QuickkApps/GLM-Image-MCP/internal/config"
)

// Hardcoded per-provider model fallbacks, used when neither the request nor
// the configuration names a model.
const (
	DefaultOpenRouterModel = "x-ai/grok-4-fast:free"
	DefaultGeminiModel     = "gemini-2.5-pro"
)

var (
	// ErrNoCredentials means auto-detection found no API key for either provider.
	ErrNoCredentials = errors.New("no API key configured: set GEMINI_API_KEY or OPENROUTER_API_KEY")
	// ErrMissingAPIKey means the chosen provider has no key, whether it was
	// chosen explicitly or by auto-detection moments earlier.
	ErrMissingAPIKey = errors.New("missing API key")
)

// ProviderConfig is the resolved (provider, credential, model) triple for one
// request. Resolved fresh per call and never cached.
type ProviderConfig struct {
	Provider Provider
	APIKey   string
	Model    string
}

// Resolver picks the concrete provider, credential, and model for a request.
// Credentials come from the injected config, never from the environment
// directly, so tests can exercise every path without touching process state.
type Resolver struct {
	cfg *config.Config
}

func NewResolver(cfg *config.Config) *Resolver {
	return &Resolver{cfg: cfg}
}

// Resolve maps an optional explicit provider and model to a ProviderConfig.
//
// Auto-detection checks Gemini first, then OpenRouter — first key found wins.
// That ordering is a fixed policy, not an accident. The key is then re-checked
// for the chosen provider even on the auto-detected path, keeping the explicit
// and auto paths symmetric.
func (r *Resolver) Resolve(explicitProvider, explicitModel string) (*ProviderConfig, error) {
	provider := Provider(explicitProvider)
	if provider == "" {
		switch {
		case r.cfg.Gemini.APIKey != "":
			provider = ProviderGemini
		case r.cfg.OpenRouter.APIKey != "":
			provider = ProviderOpenRouter
		default:
			return nil, ErrNoCredentials
		}
	}

	settings, fallback, err := r.settingsFor(provider)
	if err != nil {
		return nil, err
	}
	if settings.APIKey == "" {
		return nil, fmt.Errorf("%w for provider %q", ErrMissingAPIKey, provider)
	}

	model := explicitModel
	if model == "" {
		model = settings.Model
	}
	if model == "" {
		model = fallback
	}

	return &ProviderConfig{
		Provider: provider,
		APIKey:   settings.APIKey,
		Model:    model,
	}, nil
}

func (r *Resolver) settingsFor(p Provider) (config.ProviderSettings, string, error) {
	switch p {
	case ProviderOpenRouter:
		return r.cfg.OpenRouter, DefaultOpenRouterModel, nil
	case ProviderGemini:
		return r.cfg.Gemini, DefaultGeminiModel, nil
	default:
		return config.ProviderSettings{}, "", fmt.Errorf("unknown provider %q", p)
	}
}
