// Package service contains the core business logic for the image-analysis
// pipeline: validate inputs, resolve a provider, read the image, call the
// provider, return the text.
package service

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/QuickkApps/GLM-Image-MCP/internal/config"
	"github.com/QuickkApps/GLM-Image-MCP/internal/validate"
	"github.com/QuickkApps/GLM-Image-MCP/internal/vision"
)

// DefaultDescribePrompt is substituted when describe_image gets no prompt.
const DefaultDescribePrompt = "Describe this image in detail, including the main subjects, setting, colors, and any notable elements."

// ErrMissingFocus means focused analysis was asked for with neither a prompt
// nor a focus area to synthesize one from.
var ErrMissingFocus = errors.New("either prompt or focus_area is required")

// AnalyzeRequest is one tool invocation's raw inputs, before validation.
type AnalyzeRequest struct {
	ImagePath string
	Prompt    string
	Provider  string
	Model     string
}

// Analyzer runs the analysis pipeline. The client factory is a field so tests
// can stub the network; production wiring uses vision.NewClient.
type Analyzer struct {
	resolver  *vision.Resolver
	logger    *zap.Logger
	newClient func(*vision.ProviderConfig) (vision.Client, error)
}

// NewAnalyzer creates an Analyzer bound to the given configuration.
func NewAnalyzer(cfg *config.Config, logger *zap.Logger) *Analyzer {
	return &Analyzer{
		resolver:  vision.NewResolver(cfg),
		logger:    logger,
		newClient: vision.NewClient,
	}
}

// FocusPrompt synthesizes the default prompt for focused analysis.
func FocusPrompt(focusArea string) string {
	return fmt.Sprintf("Analyze the %s in this image and provide detailed insights.", focusArea)
}

// Analyze validates every field of the request, resolves the provider, reads
// and checks the image bytes, and performs exactly one provider call. Any
// failure is returned as-is; the dispatch boundary wraps it for the caller.
func (a *Analyzer) Analyze(ctx context.Context, req AnalyzeRequest) (string, error) {
	providerName, err := validate.Provider(req.Provider)
	if err != nil {
		return "", err
	}
	model, err := validate.Model(req.Model)
	if err != nil {
		return "", err
	}
	prompt, err := validate.Prompt(req.Prompt)
	if err != nil {
		return "", err
	}
	absPath, err := validate.ImagePath(req.ImagePath)
	if err != nil {
		return "", err
	}

	pc, err := a.resolver.Resolve(providerName, model)
	if err != nil {
		return "", err
	}

	imageData, err := os.ReadFile(absPath)
	if err != nil {
		return "", fmt.Errorf("reading image %s: %w", absPath, err)
	}
	if !validate.ImageBuffer(imageData) {
		return "", fmt.Errorf("%w: %s does not contain a supported image", validate.ErrInvalidImage, absPath)
	}

	client, err := a.newClient(pc)
	if err != nil {
		return "", err
	}

	a.logger.Info("analyzing image",
		zap.String("path", absPath),
		zap.String("provider", client.ProviderName()),
		zap.String("model", client.ModelName()),
		zap.Int("bytes", len(imageData)),
	)

	text, err := client.Analyze(ctx, vision.Request{
		ImageData: imageData,
		MimeType:  validate.MimeType(absPath),
		Prompt:    prompt,
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

// Describe runs the pipeline with the fixed descriptive default when no
// prompt is given.
func (a *Analyzer) Describe(ctx context.Context, req AnalyzeRequest) (string, error) {
	if req.Prompt == "" {
		req.Prompt = DefaultDescribePrompt
	}
	return a.Analyze(ctx, req)
}

// Focused runs the pipeline with a prompt synthesized from the focus area.
// An explicit prompt always overrides the synthesis.
func (a *Analyzer) Focused(ctx context.Context, req AnalyzeRequest, focusArea string) (string, error) {
	if req.Prompt == "" {
		if focusArea == "" {
			return "", ErrMissingFocus
		}
		req.Prompt = FocusPrompt(focusArea)
	}
	return a.Analyze(ctx, req)
}
