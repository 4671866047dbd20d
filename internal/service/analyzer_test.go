package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/QuickkApps/GLM-Image-MCP/internal/config"
	"github.com/QuickkApps/GLM-Image-MCP/internal/validate"
	"github.com/QuickkApps/GLM-Image-MCP/internal/vision"
)

// stubClient records the request it was given and returns a canned answer.
type stubClient struct {
	got    vision.Request
	answer string
	err    error
}

func (s *stubClient) Analyze(_ context.Context, req vision.Request) (string, error) {
	s.got = req
	if s.err != nil {
		return "", s.err
	}
	return s.answer, nil
}

func (s *stubClient) ProviderName() string { return "stub" }
func (s *stubClient) ModelName() string    { return "stub-model" }

func newTestAnalyzer(t *testing.T, stub *stubClient) *Analyzer {
	t.Helper()
	cfg := &config.Config{Gemini: config.ProviderSettings{APIKey: "gm-key"}}
	a := NewAnalyzer(cfg, zap.NewNop())
	a.newClient = func(*vision.ProviderConfig) (vision.Client, error) {
		return stub, nil
	}
	return a
}

func writeJPEG(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x01, 0x02}, 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestAnalyze(t *testing.T) {
	stub := &stubClient{answer: "a calico cat on a windowsill"}
	a := newTestAnalyzer(t, stub)
	path := writeJPEG(t, "cat.jpg")

	text, err := a.Analyze(context.Background(), AnalyzeRequest{
		ImagePath: path,
		Prompt:    "  What animal is this?  ",
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if text != "a calico cat on a windowsill" {
		t.Errorf("text = %q", text)
	}

	if stub.got.Prompt != "What animal is this?" {
		t.Errorf("prompt = %q, want trimmed prompt", stub.got.Prompt)
	}
	if stub.got.MimeType != "image/jpeg" {
		t.Errorf("mimeType = %q, want image/jpeg", stub.got.MimeType)
	}
	if len(stub.got.ImageData) == 0 {
		t.Error("expected image bytes to be forwarded")
	}
}

func TestAnalyzeValidationFailures(t *testing.T) {
	path := writeJPEG(t, "ok.jpg")

	tests := []struct {
		name    string
		req     AnalyzeRequest
		wantErr error
	}{
		{
			name:    "bad provider",
			req:     AnalyzeRequest{ImagePath: path, Prompt: "hello there", Provider: "claude"},
			wantErr: validate.ErrInvalidProvider,
		},
		{
			name:    "bad model",
			req:     AnalyzeRequest{ImagePath: path, Prompt: "hello there", Model: "bad model name"},
			wantErr: validate.ErrInvalidModel,
		},
		{
			name:    "short prompt",
			req:     AnalyzeRequest{ImagePath: path, Prompt: "hi"},
			wantErr: validate.ErrPromptTooShort,
		},
		{
			name:    "missing file",
			req:     AnalyzeRequest{ImagePath: "/definitely/not/here.jpg", Prompt: "hello there"},
			wantErr: validate.ErrFileNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAnalyzer(t, &stubClient{})
			_, err := a.Analyze(context.Background(), tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAnalyzeZeroByteFile(t *testing.T) {
	// A 0-byte file at a valid .jpg path passes the path check but must fail
	// the buffer check — never a silent empty analysis.
	path := filepath.Join(t.TempDir(), "empty.jpg")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	a := newTestAnalyzer(t, &stubClient{answer: "should never be returned"})
	_, err := a.Analyze(context.Background(), AnalyzeRequest{ImagePath: path, Prompt: "hello there"})
	if !errors.Is(err, validate.ErrInvalidImage) {
		t.Fatalf("error = %v, want ErrInvalidImage", err)
	}
}

func TestAnalyzeProviderErrorPassesThrough(t *testing.T) {
	provErr := &vision.APIError{Provider: "Gemini", Status: "Bad Request", Body: "nope"}
	a := newTestAnalyzer(t, &stubClient{err: provErr})
	path := writeJPEG(t, "x.jpg")

	_, err := a.Analyze(context.Background(), AnalyzeRequest{ImagePath: path, Prompt: "hello there"})

	var apiErr *vision.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want the provider error unwrapped at this layer", err)
	}
}

func TestDescribeDefaultPrompt(t *testing.T) {
	stub := &stubClient{answer: "described"}
	a := newTestAnalyzer(t, stub)
	path := writeJPEG(t, "d.jpg")

	if _, err := a.Describe(context.Background(), AnalyzeRequest{ImagePath: path}); err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if stub.got.Prompt != DefaultDescribePrompt {
		t.Errorf("prompt = %q, want the describe default", stub.got.Prompt)
	}

	// An explicit prompt wins.
	if _, err := a.Describe(context.Background(), AnalyzeRequest{ImagePath: path, Prompt: "count the chairs"}); err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if stub.got.Prompt != "count the chairs" {
		t.Errorf("prompt = %q, want the explicit prompt", stub.got.Prompt)
	}
}

func TestFocusedPromptSynthesis(t *testing.T) {
	stub := &stubClient{answer: "focused"}
	a := newTestAnalyzer(t, stub)
	path := writeJPEG(t, "f.jpg")

	if _, err := a.Focused(context.Background(), AnalyzeRequest{ImagePath: path}, "text"); err != nil {
		t.Fatalf("Focused: %v", err)
	}
	want := "Analyze the text in this image and provide detailed insights."
	if stub.got.Prompt != want {
		t.Errorf("prompt = %q, want %q", stub.got.Prompt, want)
	}

	// An explicit prompt overrides the synthesis entirely.
	if _, err := a.Focused(context.Background(), AnalyzeRequest{ImagePath: path, Prompt: "read the license plate"}, "text"); err != nil {
		t.Fatalf("Focused: %v", err)
	}
	if stub.got.Prompt != "read the license plate" {
		t.Errorf("prompt = %q, want the explicit prompt", stub.got.Prompt)
	}
}

func TestFocusedWithoutPromptOrFocus(t *testing.T) {
	a := newTestAnalyzer(t, &stubClient{})
	path := writeJPEG(t, "g.jpg")

	_, err := a.Focused(context.Background(), AnalyzeRequest{ImagePath: path}, "")
	if !errors.Is(err, ErrMissingFocus) {
		t.Fatalf("error = %v, want ErrMissingFocus", err)
	}
}
