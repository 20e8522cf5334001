package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joescharf/codereview/internal/api"
	"github.com/joescharf/codereview/internal/config"
	"github.com/joescharf/codereview/internal/daemon"
	"github.com/joescharf/codereview/internal/health"
)

const (
	shutdownTimeout = 10 * time.Second
	stopTimeout     = 5 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the review API server",
	Long: `Start the HTTP API server in the foreground.

Endpoints:
  GET  /api/health   liveness and uptime
  GET  /api          service info
  POST /api/review   review {"code": "...", "language": "..."}

Use 'codereview serve start' to run it in the background.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveRun()
	},
}

var serveStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the server in the background",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveStartRun()
	},
}

var serveStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the background server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveStopRun()
	},
}

var serveStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the background server is running",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveStatusRun()
	},
}

func init() {
	serveCmd.PersistentFlags().IntP("port", "p", config.DefaultPort, "port to listen on")
	serveCmd.PersistentFlags().String("allowed-origin", config.DefaultAllowedOrigin, "browser origin allowed by CORS")
	_ = viper.BindPFlag("port", serveCmd.PersistentFlags().Lookup("port"))
	_ = viper.BindPFlag("allowed_origin", serveCmd.PersistentFlags().Lookup("allowed-origin"))

	serveCmd.AddCommand(serveStartCmd)
	serveCmd.AddCommand(serveStopCmd)
	serveCmd.AddCommand(serveStatusCmd)
	rootCmd.AddCommand(serveCmd)
}

func stateDir() string {
	dir, err := configDirFunc()
	if err != nil {
		return os.TempDir()
	}
	return dir
}

// pidFile returns the state file for the background server.
func pidFile() *daemon.PIDFile {
	return daemon.NewPIDFile(filepath.Join(stateDir(), "codereview-serve.pid"))
}

// serveLogPath returns where the background server writes its logs.
func serveLogPath() string {
	return filepath.Join(stateDir(), "codereview-serve.log")
}

func serveRun() error {
	cfg := loadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), shutdownSignals()...)
	defer stop()

	reviewer, err := newReviewer(ctx, cfg)
	if err != nil {
		return err
	}

	srv := api.NewServer(cfg, reviewer, health.NewReporter(config.ServiceName))
	httpSrv := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      cfg.LLM.Timeout + 30*time.Second,
	}

	pf := pidFile()
	if rec, running := pf.IsRunning(); running && rec.PID != os.Getpid() {
		return fmt.Errorf("server already running (PID %d, %s)", rec.PID, rec.URL())
	}

	if err := os.MkdirAll(filepath.Dir(pf.Path), 0o755); err == nil {
		if err := pf.Write(daemon.Record{Addr: httpSrv.Addr, Provider: cfg.LLM.Provider, Model: cfg.LLM.Model}); err != nil {
			slog.Warn("could not write PID file", "path", pf.Path, "error", err)
		}
		defer func() { _ = pf.Remove() }()
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	printBanner(cfg)
	slog.Info("server started",
		"addr", httpSrv.Addr,
		"provider", cfg.LLM.Provider,
		"model", cfg.LLM.Model,
		"environment", cfg.Environment,
		"allowed_origin", cfg.AllowedOrigin,
	)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on %s: %w", httpSrv.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func printBanner(cfg config.Config) {
	base := fmt.Sprintf("http://localhost:%d", cfg.Port)
	keyStatus := "✓ Configured"
	if cfg.LLM.APIKey == "" {
		keyStatus = "✗ Missing"
	}

	ui.Success("%s %s started", config.ServiceName, buildVersion)
	ui.Info("Server:        %s", base)
	ui.Info("API endpoint:  %s/api/review", base)
	ui.Info("Health check:  %s/api/health", base)
	ui.Info("Environment:   %s", cfg.Environment)
	ui.Info("Provider:      %s (%s)", cfg.LLM.Provider, cfg.LLM.Model)
	ui.Info("API key:       %s", keyStatus)
}

func serveStartRun() error {
	pf := pidFile()
	if rec, running := pf.IsRunning(); running {
		return fmt.Errorf("server already running (PID %d, %s)", rec.PID, rec.URL())
	}

	cfg := loadConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate executable: %w", err)
	}
	if err := os.MkdirAll(stateDir(), 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}
	logFile, err := os.OpenFile(serveLogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	child := exec.Command(exe, serveChildArgs(cfg)...)
	child.Stdout = logFile
	child.Stderr = logFile
	setDaemonAttrs(child)

	if err := child.Start(); err != nil {
		return fmt.Errorf("start server: %w", err)
	}
	_ = child.Process.Release()

	ui.Success("Server starting in background (PID %d)", child.Process.Pid)
	ui.Info("Logs: %s", serveLogPath())
	return nil
}

// serveChildArgs rebuilds the foreground serve command line for the detached
// child from the effective configuration.
func serveChildArgs(cfg config.Config) []string {
	args := []string{
		"serve",
		"--port", strconv.Itoa(cfg.Port),
		"--allowed-origin", cfg.AllowedOrigin,
	}
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		args = append(args, "--config", cfgFile)
	}
	return args
}

func serveStopRun() error {
	pf := pidFile()
	rec, running := pf.IsRunning()
	if !running {
		_ = pf.Remove()
		return fmt.Errorf("server is not running")
	}

	if err := pf.Signal(sigTERM()); err != nil {
		return fmt.Errorf("stop server (PID %d): %w", rec.PID, err)
	}

	deadline := time.Now().Add(stopTimeout)
	for time.Now().Before(deadline) {
		if _, alive := pf.IsRunning(); !alive {
			ui.Success("Server stopped (PID %d)", rec.PID)
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}

	ui.Warning("Server did not stop within %s; killing PID %d", stopTimeout, rec.PID)
	if err := pf.Signal(sigKILL()); err != nil {
		return fmt.Errorf("kill server (PID %d): %w", rec.PID, err)
	}
	_ = pf.Remove()
	return nil
}

func serveStatusRun() error {
	pf := pidFile()
	rec, running := pf.IsRunning()
	if !running {
		if rec.PID != 0 {
			_ = pf.Remove()
		}
		ui.Info("Server is not running")
		return nil
	}

	ui.Success("Server is running (PID %d)", rec.PID)
	ui.Info("URL:      %s", rec.URL())
	if rec.Provider != "" {
		ui.Info("Provider: %s (%s)", rec.Provider, rec.Model)
	}
	ui.Info("Since:    %s", rec.StartedAt.Local().Format(time.RFC1123))
	return nil
}
