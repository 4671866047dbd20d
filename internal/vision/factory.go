package vision

import "fmt"

// NewClient builds the adapter matching a resolved provider config. This is
// the only place that branches on the provider tag — everything downstream
// works against the Client interface.
func NewClient(pc *ProviderConfig) (Client, error) {
	switch pc.Provider {
	case ProviderOpenRouter:
		return NewOpenRouterClient(pc.APIKey, pc.Model, ""), nil
	case ProviderGemini:
		return NewGeminiClient(pc.APIKey, pc.Model, ""), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", pc.Provider)
	}
}
