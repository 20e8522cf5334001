package review

import (
	"strings"
	"unicode/utf8"

	"github.com/joescharf/codereview/internal/apperr"
	"github.com/joescharf/codereview/internal/models"
)

// ValidateCode checks that code is non-blank and at most maxLen characters.
func ValidateCode(code string, maxLen int) *apperr.AppError {
	if strings.TrimSpace(code) == "" {
		return apperr.Validation(apperr.MsgCodeEmpty)
	}
	if utf8.RuneCountInString(code) > maxLen {
		return apperr.TooLong(maxLen)
	}
	return nil
}

// NormalizeLanguage returns the trimmed language label, or the default when blank.
func NormalizeLanguage(language string) string {
	language = strings.TrimSpace(language)
	if language == "" {
		return models.DefaultLanguage
	}
	return language
}
