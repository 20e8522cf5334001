package cmd

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"text/template"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/joescharf/codereview/internal/config"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or manage configuration",
	Long: `Show or manage codereview configuration.

Running bare 'codereview config' is the same as 'codereview config show'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configShowRun()
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create config file with commented defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		return configInitRun()
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration with sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		return configShowRun()
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open config file in $EDITOR",
	RunE: func(cmd *cobra.Command, args []string) error {
		return configEditRun()
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite existing config file")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)
	rootCmd.AddCommand(configCmd)
}

// configTemplate is the template for generating config.yaml with comments.
const configTemplate = `# codereview configuration
# See: codereview config show (for effective values and sources)

# HTTP server
port: {{ .Port }}
# Browser origin allowed by CORS (env alias: CLIENT_URL)
allowed_origin: "{{ .AllowedOrigin }}"
# "production" switches logs to JSON
environment: "{{ .Environment }}"
# Maximum code length in characters
max_code_length: {{ .MaxCodeLength }}

# Logging: debug, info, warn, error; format text or json (default by environment)
log_level: "{{ .LogLevel }}"
# log_format: json

# Generation service
llm:
  # gemini, anthropic, or openai
  provider: "{{ .Provider }}"
  model: "{{ .Model }}"
  # Prefer the provider's env var (GEMINI_API_KEY, ANTHROPIC_API_KEY, OPENAI_API_KEY)
  # api_key: ""
  # base_url: ""
  timeout: "{{ .Timeout }}"
  max_tokens: {{ .MaxTokens }}
`

type configTemplateData struct {
	Port          int
	AllowedOrigin string
	Environment   string
	MaxCodeLength int
	LogLevel      string
	Provider      string
	Model         string
	Timeout       string
	MaxTokens     int
}

func configFilePath() (string, error) {
	dir, err := configDirFunc()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func configInitRun() error {
	cfgPath, err := configFilePath()
	if err != nil {
		return err
	}

	// Check if file already exists
	if _, err := os.Stat(cfgPath); err == nil {
		if !configForce {
			return fmt.Errorf("config file already exists: %s (use --force to overwrite)", cfgPath)
		}
		ui.Warning("Overwriting existing config file")
	}

	// Build template data from current viper values
	effective := config.Load(viper.GetViper())
	data := configTemplateData{
		Port:          viper.GetInt("port"),
		AllowedOrigin: viper.GetString("allowed_origin"),
		Environment:   viper.GetString("environment"),
		MaxCodeLength: viper.GetInt("max_code_length"),
		LogLevel:      viper.GetString("log_level"),
		Provider:      effective.LLM.Provider,
		Model:         effective.LLM.Model,
		Timeout:       viper.GetDuration("llm.timeout").String(),
		MaxTokens:     viper.GetInt("llm.max_tokens"),
	}

	tmpl, err := template.New("config").Parse(configTemplate)
	if err != nil {
		return fmt.Errorf("template parse error: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("template execute error: %w", err)
	}

	// Create config directory
	dir := filepath.Dir(cfgPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(cfgPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	ui.Success("Config file created: %s", cfgPath)
	fmt.Fprintln(ui.Out)
	fmt.Fprint(ui.Out, buf.String())
	return nil
}

// configKeyInfo describes a config key for display purposes.
type configKeyInfo struct {
	Key     string
	EnvVars []string
	Secret  bool
}

var configKeys = []configKeyInfo{
	{Key: "port", EnvVars: []string{"CODEREVIEW_PORT", "PORT"}},
	{Key: "allowed_origin", EnvVars: []string{"CODEREVIEW_ALLOWED_ORIGIN", "CLIENT_URL"}},
	{Key: "environment", EnvVars: []string{"CODEREVIEW_ENVIRONMENT"}},
	{Key: "max_code_length", EnvVars: []string{"CODEREVIEW_MAX_CODE_LENGTH"}},
	{Key: "log_level", EnvVars: []string{"CODEREVIEW_LOG_LEVEL"}},
	{Key: "log_format", EnvVars: []string{"CODEREVIEW_LOG_FORMAT"}},
	{Key: "llm.provider", EnvVars: []string{"CODEREVIEW_LLM_PROVIDER"}},
	{Key: "llm.model", EnvVars: []string{"CODEREVIEW_LLM_MODEL"}},
	{Key: "llm.api_key", EnvVars: []string{"CODEREVIEW_LLM_API_KEY"}, Secret: true},
	{Key: "llm.base_url", EnvVars: []string{"CODEREVIEW_LLM_BASE_URL"}},
	{Key: "llm.timeout", EnvVars: []string{"CODEREVIEW_LLM_TIMEOUT"}},
	{Key: "llm.max_tokens", EnvVars: []string{"CODEREVIEW_LLM_MAX_TOKENS"}},
}

func configShowRun() error {
	cfgPath, err := configFilePath()
	if err != nil {
		return err
	}

	// Check if config file exists
	if _, err := os.Stat(cfgPath); err == nil {
		ui.Info("Config file: %s", cfgPath)
	} else {
		ui.Info("Config file: (none)")
	}
	fmt.Fprintln(ui.Out)

	// Read config file values to determine file source
	fileValues := readConfigFileValues(cfgPath)
	effective := config.Load(viper.GetViper())

	for _, k := range configKeys {
		val := viper.Get(k.Key)
		source := detectSource(k.Key, k.EnvVars, fileValues)
		switch k.Key {
		case "llm.provider":
			val = effective.LLM.Provider
		case "llm.model":
			val = effective.LLM.Model
		}
		if k.Secret {
			val = maskSecret(effective.LLM.APIKey)
			if viper.GetString(k.Key) == "" && effective.LLM.APIKey != "" {
				source = providerKeySource(effective.LLM.Provider)
			}
		}
		fmt.Fprintf(ui.Out, "  %-18s %v  %s\n", k.Key, val, source)
	}

	return nil
}

// maskSecret shows only enough of a credential to recognize it.
func maskSecret(s string) string {
	switch {
	case s == "":
		return "(not set)"
	case len(s) <= 8:
		return "********"
	default:
		return s[:4] + "..." + s[len(s)-4:]
	}
}

func providerKeySource(provider string) string {
	for _, name := range config.APIKeyEnvVars(provider) {
		if os.Getenv(name) != "" {
			return fmt.Sprintf("(env: %s)", name)
		}
	}
	return "(default)"
}

// readConfigFileValues reads the raw YAML file and returns a flat map of keys present in it.
func readConfigFileValues(path string) map[string]bool {
	result := make(map[string]bool)

	data, err := os.ReadFile(path)
	if err != nil {
		return result
	}

	var parsed map[string]any
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return result
	}

	// Flatten nested keys with dot notation
	flattenKeys("", parsed, result)
	return result
}

// flattenKeys recursively flattens a nested map to dot-notation keys.
func flattenKeys(prefix string, m map[string]any, result map[string]bool) {
	for key, val := range m {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}
		if nested, ok := val.(map[string]any); ok {
			flattenKeys(fullKey, nested, result)
		} else {
			result[fullKey] = true
		}
	}
}

// detectSource determines where a config value is coming from.
func detectSource(key string, envVars []string, fileValues map[string]bool) string {
	for _, envVar := range envVars {
		if _, ok := os.LookupEnv(envVar); ok {
			return fmt.Sprintf("(env: %s)", envVar)
		}
	}
	if fileValues[key] {
		return "(file)"
	}
	return "(default)"
}

func configEditRun() error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		return fmt.Errorf("$EDITOR is not set; set it to your preferred editor (e.g. export EDITOR=vim)")
	}

	cfgPath, err := configFilePath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		return fmt.Errorf("config file not found: %s (run 'codereview config init' first)", cfgPath)
	}

	editCmd := exec.Command(editor, cfgPath)
	editCmd.Stdin = os.Stdin
	editCmd.Stdout = os.Stdout
	editCmd.Stderr = os.Stderr
	return editCmd.Run()
}
