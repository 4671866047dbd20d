package vision

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultOpenRouterBaseURL is OpenRouter's OpenAI-compatible endpoint.
const DefaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// ErrEmptyResponse means the provider answered with 2xx but returned no
// usable choices/candidates. Reported differently from transport failures.
var ErrEmptyResponse = errors.New("provider returned an empty response")

// OpenRouterClient implements Client against OpenRouter's chat-completions
// API. OpenRouter speaks the OpenAI wire protocol, so the go-openai SDK with
// an overridden base URL does all the heavy lifting. The image travels as a
// data URI inside a multimodal user message.
type OpenRouterClient struct {
	client *openai.Client
	model  string
}

// NewOpenRouterClient creates an OpenRouter-backed vision client. baseURL is
// overridable for tests; pass "" for the real endpoint. No client-side
// timeout is set — bounding the call is left to the caller's context and the
// transport.
func NewOpenRouterClient(apiKey, model, baseURL string) *OpenRouterClient {
	if baseURL == "" {
		baseURL = DefaultOpenRouterBaseURL
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &OpenRouterClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (o *OpenRouterClient) ProviderName() string { return string(ProviderOpenRouter) }
func (o *OpenRouterClient) ModelName() string    { return o.model }

func (o *OpenRouterClient) Analyze(ctx context.Context, req Request) (string, error) {
	dataURI := fmt.Sprintf("data:%s;base64,%s", req.MimeType, base64.StdEncoding.EncodeToString(req.ImageData))

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: req.Prompt,
					},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: dataURI},
					},
				},
			},
		},
	})
	if err != nil {
		// go-openai wraps non-2xx responses in APIError with the status code
		// and the provider's message; re-shape it into our uniform form.
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", &APIError{
				Provider: "OpenRouter",
				Status:   http.StatusText(apiErr.HTTPStatusCode),
				Body:     apiErr.Message,
			}
		}
		// Non-JSON error bodies come back as RequestError instead.
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) {
			return "", &APIError{
				Provider: "OpenRouter",
				Status:   http.StatusText(reqErr.HTTPStatusCode),
				Body:     reqErr.Err.Error(),
			}
		}
		return "", fmt.Errorf("openrouter API call: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openrouter: %w", ErrEmptyResponse)
	}

	return resp.Choices[0].Message.Content, nil
}
