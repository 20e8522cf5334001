package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/joescharf/codereview/internal/apperr"
	"github.com/joescharf/codereview/internal/config"
	"github.com/joescharf/codereview/internal/metrics"
	"github.com/joescharf/codereview/internal/models"
	"github.com/joescharf/codereview/internal/review"
)

// Reviewer produces a review for validated code.
type Reviewer interface {
	Review(ctx context.Context, code, language string) (*models.Review, error)
}

// Server exposes the review pipeline as MCP tools.
type Server struct {
	reviewer      Reviewer
	maxCodeLength int
}

// NewServer creates the MCP server wrapper. reviewer may be nil, in which
// case only the metrics tool is usable.
func NewServer(reviewer Reviewer, maxCodeLength int) *Server {
	return &Server{reviewer: reviewer, maxCodeLength: maxCodeLength}
}

// MCPServer returns a configured mcp-go server with all tools registered.
func (s *Server) MCPServer() *server.MCPServer {
	srv := server.NewMCPServer("codereview", config.APIVersion, server.WithToolCapabilities(true))

	srv.AddTool(s.reviewCodeTool())
	srv.AddTool(s.codeMetricsTool())

	return srv
}

// ServeStdio starts the stdio transport, blocking until ctx is cancelled.
func (s *Server) ServeStdio(ctx context.Context) error {
	srv := s.MCPServer()
	stdioServer := server.NewStdioServer(srv)
	return stdioServer.Listen(ctx, os.Stdin, os.Stdout)
}

// ---------------------------------------------------------------------------
// Tool definitions and handlers
// ---------------------------------------------------------------------------

// review_code
func (s *Server) reviewCodeTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("review_code",
		mcp.WithDescription("Review source code for readability, structure, and maintainability. Returns a JSON review with 0-100 category scores, an overall grade (A-F), issues, strengths, recommendations, and heuristic code metrics."),
		mcp.WithString("code", mcp.Required(), mcp.Description("Source code to review")),
		mcp.WithString("language", mcp.Description("Language of the code (default javascript)")),
	)
	return tool, s.handleReviewCode
}

func (s *Server) handleReviewCode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := request.RequireString("code")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: code"), nil
	}
	if appErr := review.ValidateCode(code, s.maxCodeLength); appErr != nil {
		return mcp.NewToolResultError(appErr.Message), nil
	}
	if s.reviewer == nil {
		return mcp.NewToolResultError("reviews are unavailable: no generation service is configured"), nil
	}

	language := review.NormalizeLanguage(request.GetString("language", ""))
	rv, err := s.reviewer.Review(ctx, code, language)
	if err != nil {
		return mcp.NewToolResultError(apperr.From(err).Message), nil
	}

	data, err := json.Marshal(rv)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal review: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// code_metrics
func (s *Server) codeMetricsTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("code_metrics",
		mcp.WithDescription("Compute heuristic metrics for source code without calling a model: non-blank line count, approximate function count, comment presence, and a complexity bucket (low, medium, high, very-high)."),
		mcp.WithString("code", mcp.Required(), mcp.Description("Source code to measure")),
	)
	return tool, s.handleCodeMetrics
}

func (s *Server) handleCodeMetrics(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := request.RequireString("code")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: code"), nil
	}

	data, err := json.Marshal(metrics.Estimate(code))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal metrics: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
