// Package server exposes the analysis pipeline as MCP tools over stdio.
package server

import (
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/QuickkApps/GLM-Image-MCP/internal/config"
	"github.com/QuickkApps/GLM-Image-MCP/internal/service"
)

// Version is reported in the MCP initialize handshake.
const Version = "1.0.0"

// Server wraps the MCP server and its dependencies.
// In Go, you typically compose a struct with all the pieces your server needs,
// then wire them together in the constructor (New function).
type Server struct {
	cfg      *config.Config
	logger   *zap.Logger
	analyzer *service.Analyzer
	mcp      *server.MCPServer
}

// New creates and configures a new Server with all three tools registered.
func New(cfg *config.Config, logger *zap.Logger) *Server {
	s := &Server{
		cfg:      cfg,
		logger:   logger,
		analyzer: service.NewAnalyzer(cfg, logger),
		mcp: server.NewMCPServer(
			"glm-image-mcp",
			Version,
			server.WithToolCapabilities(false),
		),
	}
	s.registerTools()
	return s
}

// ServeStdio runs the MCP protocol loop over stdin/stdout. Blocks until the
// client disconnects or stdin closes. Logs must go to stderr — stdout carries
// the JSON-RPC stream.
func (s *Server) ServeStdio() error {
	s.logger.Info("starting MCP server on stdio")
	return server.ServeStdio(s.mcp)
}

// MCP returns the underlying MCP server (useful for testing).
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}
