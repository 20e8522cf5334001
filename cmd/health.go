package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joescharf/codereview/internal/client"
)

var (
	healthServer string
	healthJSON   bool
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check a running server's health",
	Long: `Query GET /api/health on a running server.

Without --server, the background server's recorded address is used,
falling back to the configured port on localhost.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return healthRun(cmd.Context())
	},
}

func init() {
	healthCmd.Flags().StringVar(&healthServer, "server", "", "server base URL, e.g. http://localhost:3001")
	healthCmd.Flags().BoolVar(&healthJSON, "json", false, "print the report as JSON")
	rootCmd.AddCommand(healthCmd)
}

// healthURL picks the server to query.
func healthURL() string {
	if healthServer != "" {
		return healthServer
	}
	if rec, running := pidFile().IsRunning(); running {
		return rec.URL()
	}
	return fmt.Sprintf("http://localhost:%d", loadConfig().Port)
}

func healthRun(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	url := healthURL()
	rep, err := client.New(url, nil).Health(ctx)
	if err != nil {
		return fmt.Errorf("%s is unreachable: %w", url, err)
	}
	if healthJSON {
		enc := json.NewEncoder(ui.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	ui.RenderHealth(*rep)
	return nil
}
