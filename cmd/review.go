package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joescharf/codereview/internal/apperr"
	"github.com/joescharf/codereview/internal/client"
	"github.com/joescharf/codereview/internal/models"
	"github.com/joescharf/codereview/internal/review"
)

var (
	reviewLanguage string
	reviewJSON     bool
	reviewServer   string
)

var reviewCmd = &cobra.Command{
	Use:   "review <file|->",
	Short: "Review a source file",
	Long: `Review a source file and print the scored result.

The file is reviewed in-process using the configured provider, or by a
running server when --server is given. Use "-" to read from stdin.
The language is inferred from the file extension unless --language is set.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return reviewRun(cmd.Context(), args[0])
	},
}

func init() {
	reviewCmd.Flags().StringVarP(&reviewLanguage, "language", "l", "", "language of the code (default: from extension, else javascript)")
	reviewCmd.Flags().BoolVar(&reviewJSON, "json", false, "print the review as JSON")
	reviewCmd.Flags().StringVar(&reviewServer, "server", "", "review via a running server, e.g. http://localhost:3001")
	rootCmd.AddCommand(reviewCmd)
}

type codeReviewer interface {
	Review(ctx context.Context, code, language string) (*models.Review, error)
}

func reviewRun(ctx context.Context, path string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	code, err := readSource(path)
	if err != nil {
		return err
	}

	language := reviewLanguage
	if language == "" {
		language = languageForPath(path)
	}
	language = review.NormalizeLanguage(language)

	cfg := loadConfig()
	var rv codeReviewer
	if reviewServer != "" {
		rv = client.New(reviewServer, nil)
	} else {
		if appErr := review.ValidateCode(code, cfg.MaxCodeLength); appErr != nil {
			return appErr
		}
		local, err := newReviewer(ctx, cfg)
		if err != nil {
			return err
		}
		rv = local
	}

	ui.VerboseLog("Reviewing %s as %s (%d characters)", displayName(path), language, len([]rune(code)))
	result, err := rv.Review(ctx, code, language)
	if err != nil {
		return reviewError(err)
	}
	return printReview(result)
}

func printReview(rv *models.Review) error {
	if reviewJSON {
		enc := json.NewEncoder(ui.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(rv)
	}
	return ui.RenderReview(rv)
}

// reviewError keeps caller-facing messages short; details are in the logs.
func reviewError(err error) error {
	var re *client.RemoteError
	if errors.As(err, &re) {
		return fmt.Errorf("review failed: %s", re.Message)
	}
	return fmt.Errorf("review failed: %s", apperr.From(err).Message)
}

func readSource(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", displayName(path), err)
	}
	return string(data), nil
}

func displayName(path string) string {
	if path == "-" {
		return "stdin"
	}
	return path
}

var extLanguages = map[string]string{
	".js":   "javascript",
	".mjs":  "javascript",
	".cjs":  "javascript",
	".jsx":  "javascript",
	".ts":   "typescript",
	".tsx":  "typescript",
	".py":   "python",
	".java": "java",
	".go":   "go",
	".rs":   "rust",
	".php":  "php",
	".rb":   "ruby",
}

// languageForPath infers a language label from the file extension.
// Unknown extensions are used as the label; stdin yields "".
func languageForPath(path string) string {
	if path == "-" {
		return ""
	}
	ext := strings.ToLower(filepath.Ext(path))
	if lang, ok := extLanguages[ext]; ok {
		return lang
	}
	return strings.TrimPrefix(ext, ".")
}
