package cmd

import (
	"context"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/joescharf/codereview/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP stdio server for agent integration",
	Long: `Start an MCP (Model Context Protocol) server on stdio.

This lets coding agents request reviews natively. Configure with:

  {
    "mcpServers": {
      "codereview": { "command": "codereview", "args": ["mcp"] }
    }
  }

Available tools: review_code, code_metrics

code_metrics works without an API key; review_code needs a configured
provider.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return mcpRun()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func mcpRun() error {
	cfg := loadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), shutdownSignals()...)
	defer stop()

	var reviewer mcp.Reviewer
	if r, err := newReviewer(ctx, cfg); err != nil {
		ui.Warning("review_code disabled: %v", err)
	} else {
		reviewer = r
	}

	return mcp.NewServer(reviewer, cfg.MaxCodeLength).ServeStdio(ctx)
}
