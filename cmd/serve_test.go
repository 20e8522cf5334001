package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joescharf/codereview/internal/config"
	"github.com/joescharf/codereview/internal/daemon"
)

func TestPidFile_Path(t *testing.T) {
	dir := testEnv(t)

	pf := pidFile()
	assert.Equal(t, filepath.Join(dir, "codereview-serve.pid"), pf.Path)
}

func TestServeLogPath(t *testing.T) {
	dir := testEnv(t)

	assert.Equal(t, filepath.Join(dir, "codereview-serve.log"), serveLogPath())
}

func TestServeStatusRun_NotRunning(t *testing.T) {
	testEnv(t)

	// No PID file exists, so status should show "not running" without error.
	assert.NoError(t, serveStatusRun())
}

func TestServeStatusRun_Running(t *testing.T) {
	dir := testEnv(t)
	var out bytes.Buffer
	ui.Out = &out

	pf := daemon.NewPIDFile(filepath.Join(dir, "codereview-serve.pid"))
	require.NoError(t, pf.Write(daemon.Record{Addr: ":4321", Provider: "gemini", Model: "m"}))
	t.Cleanup(func() { _ = os.Remove(pf.Path) })

	require.NoError(t, serveStatusRun())
	assert.Contains(t, out.String(), "http://localhost:4321")
	assert.Contains(t, out.String(), "gemini (m)")
}

func TestServeStatusRun_RemovesStaleFile(t *testing.T) {
	dir := testEnv(t)

	pf := daemon.NewPIDFile(filepath.Join(dir, "codereview-serve.pid"))
	require.NoError(t, pf.Write(daemon.Record{PID: 999999, Addr: ":1"}))

	require.NoError(t, serveStatusRun())
	_, err := os.Stat(pf.Path)
	assert.True(t, os.IsNotExist(err))
}

func TestServeStopRun_NotRunning(t *testing.T) {
	testEnv(t)

	// No PID file exists, so stop should return an error.
	err := serveStopRun()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not running")
}

func TestServeStartRun_AlreadyRunning(t *testing.T) {
	dir := testEnv(t)

	// Write a PID file for the current process (which is alive).
	pf := daemon.NewPIDFile(filepath.Join(dir, "codereview-serve.pid"))
	require.NoError(t, pf.Write(daemon.Record{Addr: ":3001"}))
	t.Cleanup(func() { _ = os.Remove(pf.Path) })

	err := serveStartRun()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already running")
}

func TestServeStartRun_InvalidConfig(t *testing.T) {
	dir := testEnv(t)
	for _, name := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		t.Setenv(name, "")
	}

	err := serveStartRun()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no API key configured")
	_, statErr := os.Stat(filepath.Join(dir, "codereview-serve.log"))
	assert.True(t, os.IsNotExist(statErr), "nothing is started on invalid config")
}

func TestServeChildArgs(t *testing.T) {
	testEnv(t)

	args := serveChildArgs(config.Config{Port: 4100, AllowedOrigin: "https://app.example.com"})
	assert.Equal(t, []string{"serve", "--port", "4100", "--allowed-origin", "https://app.example.com"}, args)
}

func TestPrintBanner_HidesKey(t *testing.T) {
	testEnv(t)
	var out bytes.Buffer
	ui.Out = &out

	cfg := config.Config{Port: 3001, Environment: "development", LLM: config.LLMConfig{Provider: "gemini", Model: "m", APIKey: "super-secret"}}
	printBanner(cfg)
	assert.Contains(t, out.String(), "http://localhost:3001/api/review")
	assert.Contains(t, out.String(), "Configured")
	assert.NotContains(t, out.String(), "super-secret")

	out.Reset()
	cfg.LLM.APIKey = ""
	printBanner(cfg)
	assert.Contains(t, out.String(), "Missing")
}

func TestNewLogger(t *testing.T) {
	assert.True(t, newLogger(config.Config{Environment: "production"}).Handler().Enabled(context.Background(), parseLevel("info")))
	assert.Equal(t, "DEBUG", parseLevel("debug").String())
	assert.Equal(t, "WARN", parseLevel("warn").String())
	assert.Equal(t, "INFO", parseLevel("nonsense").String())
}
