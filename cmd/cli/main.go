// Package main provides a one-shot CLI mirroring the MCP tools — handy for
// trying a provider/model combination without an MCP client in the loop.
// Uses Cobra for command parsing.
//
// Run with: go run ./cmd/cli analyze --image photo.jpg --prompt "What is this?"
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/QuickkApps/GLM-Image-MCP/internal/config"
	"github.com/QuickkApps/GLM-Image-MCP/internal/service"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// toolFlags are the flags shared by all three subcommands.
type toolFlags struct {
	image    string
	prompt   string
	provider string
	model    string
}

func (f *toolFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.image, "image", "", "Path to the image file")
	cmd.Flags().StringVar(&f.prompt, "prompt", "", "Analysis prompt")
	cmd.Flags().StringVar(&f.provider, "provider", "", "Provider: openrouter or gemini (auto-detected when empty)")
	cmd.Flags().StringVar(&f.model, "model", "", "Model override")
	_ = cmd.MarkFlagRequired("image")
}

func (f *toolFlags) request() service.AnalyzeRequest {
	return service.AnalyzeRequest{
		ImagePath: f.image,
		Prompt:    f.prompt,
		Provider:  f.provider,
		Model:     f.model,
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "glm-image-cli",
		Short: "Analyze images with OpenRouter or Gemini vision models",
	}

	root.AddCommand(analyzeCmd(), describeCmd(), focusedCmd())
	return root
}

func analyzeCmd() *cobra.Command {
	var flags toolFlags
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze an image with a custom prompt",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTool(func(ctx context.Context, a *service.Analyzer) (string, error) {
				return a.Analyze(ctx, flags.request())
			})
		},
	}
	flags.register(cmd)
	_ = cmd.MarkFlagRequired("prompt")
	return cmd
}

func describeCmd() *cobra.Command {
	var flags toolFlags
	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Describe an image (default prompt when none is given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTool(func(ctx context.Context, a *service.Analyzer) (string, error) {
				return a.Describe(ctx, flags.request())
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func focusedCmd() *cobra.Command {
	var flags toolFlags
	var focus string
	cmd := &cobra.Command{
		Use:   "focused",
		Short: "Analyze a specific aspect of an image",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTool(func(ctx context.Context, a *service.Analyzer) (string, error) {
				return a.Focused(ctx, flags.request(), focus)
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&focus, "focus", "", "Aspect to focus on, e.g. \"text\" or \"faces\"")
	return cmd
}

// runTool wires config + logger + analyzer, runs one pipeline call, and
// prints the result. Ctrl+C cancels the in-flight provider call via context.
func runTool(fn func(context.Context, *service.Analyzer) (string, error)) error {
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("GLM_IMAGE_MCP_CONFIG"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if !cfg.HasCredentials() {
		return fmt.Errorf("no API key configured: set GEMINI_API_KEY or OPENROUTER_API_KEY")
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	text, err := fn(ctx, service.NewAnalyzer(cfg, logger))
	if err != nil {
		return err
	}

	fmt.Println(text)
	return nil
}
