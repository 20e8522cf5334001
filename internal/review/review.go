// Package review turns a code submission into a scored Review: it builds the
// prompt, asks the generation service once, and validates the reply.
package review

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/joescharf/codereview/internal/apperr"
	"github.com/joescharf/codereview/internal/config"
	"github.com/joescharf/codereview/internal/llm"
	"github.com/joescharf/codereview/internal/models"
)

const rawSnippetLen = 200

// Reviewer runs the review pipeline for one submission at a time.
type Reviewer struct {
	requester *Requester
	provider  string
	model     string
}

// NewReviewer creates a Reviewer backed by p.
func NewReviewer(p llm.Provider, cfg config.LLMConfig) *Reviewer {
	return &Reviewer{
		requester: NewRequester(p, cfg),
		provider:  p.Name(),
		model:     cfg.Model,
	}
}

// Review builds the prompt, requests a review and parses it. Every failure is
// returned as an *apperr.AppError whose message is safe to show callers.
func (r *Reviewer) Review(ctx context.Context, code, language string) (*models.Review, error) {
	language = NormalizeLanguage(language)
	start := time.Now()

	text, err := r.requester.Request(ctx, BuildPrompt(code, language))
	if err != nil {
		slog.Error("review request failed", "provider", r.provider, "model", r.model, "error", err)
		return nil, MapError(err)
	}

	rv, err := Parse(text, code)
	if err != nil {
		slog.Error("review reply rejected", "provider", r.provider, "error", err, "raw", snippet(text))
		return nil, MapError(err)
	}

	slog.Info("review completed",
		"provider", r.provider,
		"language", language,
		"chars", utf8.RuneCountInString(code),
		"score", rv.OverallScore,
		"grade", rv.OverallGrade,
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return rv, nil
}

// MapError converts a pipeline failure into the caller-facing AppError.
func MapError(err error) *apperr.AppError {
	if err == nil {
		return nil
	}
	if se, ok := llm.AsServiceError(err); ok {
		switch se.Cause {
		case llm.CauseCredential:
			return apperr.Wrap(err, http.StatusUnauthorized, apperr.KindAIService, apperr.MsgInvalidAPIKey)
		case llm.CauseQuota:
			return apperr.Wrap(err, http.StatusTooManyRequests, apperr.KindAIService, apperr.MsgQuotaExceeded)
		case llm.CauseEmpty:
			return apperr.Wrap(err, http.StatusBadGateway, apperr.KindAIService, apperr.MsgNoAIResponse)
		default:
			return apperr.Wrap(err, http.StatusInternalServerError, apperr.KindAIService, apperr.MsgAIServiceFailed)
		}
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		msg := apperr.MsgParseFailed
		if pe.Reason == ReasonInvalid {
			msg = apperr.MsgInvalidReview
		}
		return apperr.Wrap(err, http.StatusInternalServerError, apperr.KindParse, msg)
	}
	return apperr.From(err)
}

func snippet(s string) string {
	r := []rune(s)
	if len(r) <= rawSnippetLen {
		return s
	}
	return string(r[:rawSnippetLen]) + "..."
}
