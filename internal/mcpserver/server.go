// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mcpserver exposes post generation as a Model Context Protocol tool
// so agents can request a post without going through the CLI.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/pdiddy/blogsmith/internal/pipeline"
)

// ToolName is the name agents call.
const ToolName = "generate_blog"

// Runner produces the final post for one topic.
type Runner interface {
	Run(ctx context.Context, topic string) (string, error)
}

// Server wraps an MCP server whose single tool runs the pipeline.
type Server struct {
	runner    Runner
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// New builds the MCP server. version is reported to clients during
// initialization.
func New(r Runner, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{
		runner:    r,
		logger:    logger,
		mcpServer: server.NewMCPServer("blogsmith", version, server.WithToolCapabilities(false)),
	}
	s.mcpServer.AddTool(mcp.NewTool(ToolName,
		mcp.WithDescription("Research, outline, draft and rewrite a blog post about a topic. Returns the final post as markdown."),
		mcp.WithString("topic", mcp.Required(), mcp.Description("Subject of the post, e.g. \"Sustainable Living Tips\"")),
	), s.handleGenerate)
	return s
}

// ServeStdio serves the protocol on stdin and stdout until the client
// disconnects.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) handleGenerate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topic, err := request.RequireString("topic")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	topic = strings.TrimSpace(topic)

	final, err := s.runner.Run(ctx, topic)
	if err != nil {
		s.logger.Warn("generate_blog failed", "topic", topic, "error", err)
		return mcp.NewToolResultError(toolError(err)), nil
	}
	return mcp.NewToolResultText(final), nil
}

func toolError(err error) string {
	if errors.Is(err, pipeline.ErrInvalidInput) {
		return "topic must not be empty"
	}
	return fmt.Sprintf("generation failed: %v", err)
}
