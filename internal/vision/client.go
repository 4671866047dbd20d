// Package vision provides a provider-agnostic interface for vision-analysis
// APIs. Both OpenRouter and Gemini implement the same one-method contract, so
// the rest of the application never branches on provider name after the
// resolver has picked one.
package vision

import (
	"context"
	"fmt"
)

// Provider identifies one of the upstream vision APIs.
type Provider string

const (
	ProviderOpenRouter Provider = "openrouter"
	ProviderGemini     Provider = "gemini"
)

// Request carries one image and one prompt to a provider. All fields are
// per-call values; nothing here outlives the call.
type Request struct {
	ImageData []byte
	MimeType  string
	Prompt    string
}

// Client is the interface for vision providers that can analyze an image.
//
// Go interface design tip: keep interfaces small. This has one real method —
// that's ideal. Go proverb: "The bigger the interface, the weaker the abstraction."
type Client interface {
	Analyze(ctx context.Context, req Request) (string, error)
	ProviderName() string
	ModelName() string
}

// APIError is a non-2xx HTTP response from a provider. It renders exactly as
// "<provider> API error: <statusText> - <body>", which callers surface verbatim.
type APIError struct {
	Provider string
	Status   string
	Body     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error: %s - %s", e.Provider, e.Status, e.Body)
}
