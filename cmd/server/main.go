// Package main is the entry point for the glm-image-mcp server. It speaks the
// Model Context Protocol over stdio: an MCP client spawns this binary and
// exchanges JSON-RPC with it on stdin/stdout.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/QuickkApps/GLM-Image-MCP/internal/config"
	"github.com/QuickkApps/GLM-Image-MCP/internal/server"
)

func main() {
	// os.Exit ensures the process exits with a non-zero code on failure.
	// We call run() separately so deferred cleanup functions execute properly
	// (deferred functions don't run when os.Exit is called directly).
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A local .env is a convenience for development; missing is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("GLM_IMAGE_MCP_CONFIG"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Fail at startup, not on the first tool call: with no credentials for
	// either provider there is nothing this server can do.
	if !cfg.HasCredentials() {
		return fmt.Errorf("no API key configured: set GEMINI_API_KEY or OPENROUTER_API_KEY")
	}

	logger, err := newLogger(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	// Sync flushes buffered log entries. We intentionally ignore the error
	// because Sync commonly fails on stderr (not a real problem).
	defer func() { _ = logger.Sync() }()

	srv := server.New(cfg, logger)

	// The stdio loop exits on its own when the client closes stdin; signals
	// cover the client being killed without closing the pipe.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.ServeStdio()
	}()

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
		return nil
	case err := <-errChan:
		return err
	}
}

// newLogger builds a zap logger that writes to stderr only — stdout belongs
// to the MCP JSON-RPC stream and must stay clean.
func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		cfg := zap.NewDevelopmentConfig()
		cfg.OutputPaths = []string{"stderr"}
		return cfg.Build()
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}
