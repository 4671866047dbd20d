package server

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/QuickkApps/GLM-Image-MCP/internal/service"
)

// registerTools declares the three tool schemas and binds their handlers.
// Every tool shares the same pipeline; they differ only in how the prompt is
// obtained.
func (s *Server) registerTools() {
	s.mcp.AddTool(mcp.NewTool("analyze_image",
		mcp.WithDescription("Analyze an image with a custom prompt using an OpenRouter or Gemini vision model."),
		mcp.WithString("image_path",
			mcp.Required(),
			mcp.Description("Path to the image file (.jpg, .jpeg, .png, .webp, .bmp, .tiff; max 50 MiB)."),
		),
		mcp.WithString("prompt",
			mcp.Required(),
			mcp.Description("What to analyze in the image (3-1000 characters)."),
		),
		mcp.WithString("provider",
			mcp.Description("Vision provider to use. Auto-detected from configured API keys when omitted."),
			mcp.Enum("openrouter", "gemini"),
		),
		mcp.WithString("model",
			mcp.Description("Model override, e.g. \"x-ai/grok-4-fast:free\" or \"gemini-2.5-pro\"."),
		),
	), s.handleAnalyzeImage)

	s.mcp.AddTool(mcp.NewTool("describe_image",
		mcp.WithDescription("Describe an image. Uses a detailed default prompt when none is given."),
		mcp.WithString("image_path",
			mcp.Required(),
			mcp.Description("Path to the image file."),
		),
		mcp.WithString("prompt",
			mcp.Description("Optional custom prompt; a descriptive default is used when omitted."),
		),
		mcp.WithString("provider",
			mcp.Description("Vision provider to use. Auto-detected when omitted."),
			mcp.Enum("openrouter", "gemini"),
		),
		mcp.WithString("model",
			mcp.Description("Model override."),
		),
	), s.handleDescribeImage)

	s.mcp.AddTool(mcp.NewTool("focused_analyze_image",
		mcp.WithDescription("Analyze a specific aspect of an image, e.g. the text, faces, or colors in it."),
		mcp.WithString("image_path",
			mcp.Required(),
			mcp.Description("Path to the image file."),
		),
		mcp.WithString("focus_area",
			mcp.Description("Aspect to focus on, e.g. \"text\" or \"faces\". Used to synthesize a prompt when none is given."),
		),
		mcp.WithString("prompt",
			mcp.Description("Optional explicit prompt; overrides focus_area synthesis."),
		),
		mcp.WithString("provider",
			mcp.Description("Vision provider to use. Auto-detected when omitted."),
			mcp.Enum("openrouter", "gemini"),
		),
		mcp.WithString("model",
			mcp.Description("Model override."),
		),
	), s.handleFocusedAnalyzeImage)
}

func (s *Server) handleAnalyzeImage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := requestArgs(req)
	if err != nil {
		return errorResult(err), nil
	}
	text, err := s.analyzer.Analyze(ctx, args)
	if err != nil {
		s.logger.Warn("analyze_image failed", zap.Error(err))
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleDescribeImage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := requestArgs(req)
	if err != nil {
		return errorResult(err), nil
	}
	text, err := s.analyzer.Describe(ctx, args)
	if err != nil {
		s.logger.Warn("describe_image failed", zap.Error(err))
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleFocusedAnalyzeImage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := requestArgs(req)
	if err != nil {
		return errorResult(err), nil
	}
	text, err := s.analyzer.Focused(ctx, args, req.GetString("focus_area", ""))
	if err != nil {
		s.logger.Warn("focused_analyze_image failed", zap.Error(err))
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(text), nil
}

// requestArgs pulls the fields common to all three tools. image_path is the
// only universally required argument; prompt requirements differ per tool and
// are enforced downstream.
func requestArgs(req mcp.CallToolRequest) (service.AnalyzeRequest, error) {
	imagePath, err := req.RequireString("image_path")
	if err != nil {
		return service.AnalyzeRequest{}, err
	}
	return service.AnalyzeRequest{
		ImagePath: imagePath,
		Prompt:    req.GetString("prompt", ""),
		Provider:  req.GetString("provider", ""),
		Model:     req.GetString("model", ""),
	}, nil
}

// errorResult converts any pipeline failure into the uniform tool error
// envelope. Handlers return (result, nil) so the transport never sees a raw
// error — a thrown error would abort the protocol exchange instead of
// reporting the failure to the model.
func errorResult(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError("Error: " + err.Error())
}
