// Package apperr defines the error envelope surfaced at the system boundary.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an AppError.
type Kind string

const (
	KindValidation Kind = "validation"
	KindAIService  Kind = "ai_service"
	KindParse      Kind = "parse"
	KindUnknown    Kind = "unknown"
)

// Messages shown to callers. They never carry upstream detail.
const (
	MsgCodeRequired    = "Code is required and must be a string"
	MsgCodeEmpty       = "Code cannot be empty"
	MsgCodeTooLongFmt  = "Code is too long (max %d characters)"
	MsgLanguageType    = "Language must be a string"
	MsgInvalidJSON     = "Request body must be valid JSON"
	MsgBodyTooLarge    = "Request body is too large"
	MsgInvalidAPIKey   = "Invalid API key"
	MsgQuotaExceeded   = "API quota exceeded"
	MsgNoAIResponse    = "No response received from AI service"
	MsgAIServiceFailed = "Failed to communicate with AI service"
	MsgParseFailed     = "Failed to parse AI response"
	MsgInvalidReview   = "AI response did not match the review format"
	MsgInternal        = "Internal server error"
)

// AppError carries an HTTP-style status and a caller-safe message.
// Err holds the underlying cause for server-side logging only.
type AppError struct {
	Status  int
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%d): %s: %v", e.Kind, e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// New creates an AppError without an underlying cause.
func New(status int, kind Kind, msg string) *AppError {
	return &AppError{Status: status, Kind: kind, Message: msg}
}

// Wrap creates an AppError around an underlying cause.
func Wrap(err error, status int, kind Kind, msg string) *AppError {
	return &AppError{Status: status, Kind: kind, Message: msg, Err: err}
}

// Validation returns a 400 validation error.
func Validation(msg string) *AppError {
	return New(http.StatusBadRequest, KindValidation, msg)
}

// TooLong returns the 413 error for code above the length ceiling.
func TooLong(max int) *AppError {
	return New(http.StatusRequestEntityTooLarge, KindValidation, fmt.Sprintf(MsgCodeTooLongFmt, max))
}

// From returns err as an AppError, mapping anything uncategorized to a 500.
func From(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, http.StatusInternalServerError, KindUnknown, MsgInternal)
}
