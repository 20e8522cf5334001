package review

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joescharf/codereview/internal/apperr"
	"github.com/joescharf/codereview/internal/config"
	"github.com/joescharf/codereview/internal/llm"
	"github.com/joescharf/codereview/internal/models"
)

func testLLMConfig() config.LLMConfig {
	return config.LLMConfig{
		Provider:  config.ProviderGemini,
		Model:     "test-model",
		APIKey:    "secret-key-123",
		Timeout:   5 * time.Second,
		MaxTokens: 1024,
	}
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt(addFn, "javascript")

	assert.True(t, strings.HasPrefix(p, "You are an expert code reviewer specializing in code quality assessment. Your task"))
	assert.Contains(t, p, "review the following javascript code")
	assert.Contains(t, p, "```javascript\n"+addFn+"\n```")
	for _, want := range []string{
		"READABILITY (0-100)", "STRUCTURE (0-100)", "MAINTAINABILITY (0-100)",
		`"overallScore"`, `"overallGrade"`, `"summary"`, `"criticalIssues"`, `"recommendations"`,
		"A: 90-100", "F: <60",
		"Respond ONLY with valid JSON",
	} {
		assert.Contains(t, p, want)
	}
	assert.Equal(t, p, BuildPrompt(addFn, "javascript"))
}

func TestBuildPrompt_ExampleReplyParses(t *testing.T) {
	_, err := Parse(replyExample, addFn)
	assert.NoError(t, err)
}

func TestValidateCode(t *testing.T) {
	assert.Nil(t, ValidateCode("x", 10))
	assert.Nil(t, ValidateCode(strings.Repeat("a", 10), 10))
	assert.Nil(t, ValidateCode(strings.Repeat("é", 10), 10))

	err := ValidateCode("   \n\t", 10)
	require.NotNil(t, err)
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Equal(t, apperr.MsgCodeEmpty, err.Message)

	err = ValidateCode(strings.Repeat("a", 11), 10)
	require.NotNil(t, err)
	assert.Equal(t, http.StatusRequestEntityTooLarge, err.Status)
	assert.Equal(t, "Code is too long (max 10 characters)", err.Message)
}

func TestNormalizeLanguage(t *testing.T) {
	assert.Equal(t, models.DefaultLanguage, NormalizeLanguage(""))
	assert.Equal(t, models.DefaultLanguage, NormalizeLanguage("  "))
	assert.Equal(t, "python", NormalizeLanguage(" python "))
}

func TestRequester_PassesSettings(t *testing.T) {
	mock := &llm.MockProvider{Response: validReply}
	r := NewRequester(mock, testLLMConfig())

	text, err := r.Request(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, validReply, text)
	assert.Equal(t, 1, mock.Calls())
	assert.Equal(t, "prompt", mock.LastPrompt())

	s := mock.LastSettings()
	assert.Equal(t, "test-model", s.Model)
	assert.Equal(t, 1024, s.MaxTokens)
	assert.Equal(t, "code_review", s.SchemaName)
	assert.NotNil(t, s.Schema)
}

func TestRequester_BlankReplyIsEmpty(t *testing.T) {
	mock := &llm.MockProvider{Response: "  \n "}
	_, err := NewRequester(mock, testLLMConfig()).Request(context.Background(), "p")

	se, ok := llm.AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, llm.CauseEmpty, se.Cause)
}

func TestRequester_ClassifiesPlainErrors(t *testing.T) {
	mock := &llm.MockProvider{Err: errors.New("API key not valid. Please pass a valid API key.")}
	_, err := NewRequester(mock, testLLMConfig()).Request(context.Background(), "p")

	se, ok := llm.AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, llm.CauseCredential, se.Cause)
	assert.Equal(t, 1, mock.Calls())
}

func TestReviewer_Success(t *testing.T) {
	mock := &llm.MockProvider{Response: "```json\n" + validReply + "\n```"}
	rv, err := NewReviewer(mock, testLLMConfig()).Review(context.Background(), addFn, "")
	require.NoError(t, err)

	assert.Equal(t, 91.0, rv.OverallScore)
	assert.GreaterOrEqual(t, rv.Metrics.FunctionCount, 1)
	assert.Contains(t, mock.LastPrompt(), "```javascript\n")
}

func TestReviewer_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		mock    *llm.MockProvider
		status  int
		kind    apperr.Kind
		message string
	}{
		{
			name:    "credential",
			mock:    &llm.MockProvider{Err: &llm.ServiceError{Provider: "mock", Cause: llm.CauseCredential, Status: 401, Err: errors.New("bad key secret-key-123")}},
			status:  http.StatusUnauthorized,
			kind:    apperr.KindAIService,
			message: apperr.MsgInvalidAPIKey,
		},
		{
			name:    "quota",
			mock:    &llm.MockProvider{Err: errors.New("RESOURCE_EXHAUSTED: quota exceeded for project")},
			status:  http.StatusTooManyRequests,
			kind:    apperr.KindAIService,
			message: apperr.MsgQuotaExceeded,
		},
		{
			name:    "empty",
			mock:    &llm.MockProvider{Response: ""},
			status:  http.StatusBadGateway,
			kind:    apperr.KindAIService,
			message: apperr.MsgNoAIResponse,
		},
		{
			name:    "upstream",
			mock:    &llm.MockProvider{Err: errors.New("connection reset by peer")},
			status:  http.StatusInternalServerError,
			kind:    apperr.KindAIService,
			message: apperr.MsgAIServiceFailed,
		},
		{
			name:    "prose",
			mock:    &llm.MockProvider{Response: "This code is fine."},
			status:  http.StatusInternalServerError,
			kind:    apperr.KindParse,
			message: apperr.MsgParseFailed,
		},
		{
			name:    "missing fields",
			mock:    &llm.MockProvider{Response: `{"summary":"only this"}`},
			status:  http.StatusInternalServerError,
			kind:    apperr.KindParse,
			message: apperr.MsgInvalidReview,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rv, err := NewReviewer(tt.mock, testLLMConfig()).Review(context.Background(), addFn, "javascript")
			assert.Nil(t, rv)

			var appErr *apperr.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, tt.status, appErr.Status)
			assert.Equal(t, tt.kind, appErr.Kind)
			assert.Equal(t, tt.message, appErr.Message)
			assert.NotContains(t, appErr.Message, "secret-key-123")
			assert.Equal(t, 1, tt.mock.Calls())
		})
	}
}

func TestMapError_Unknown(t *testing.T) {
	assert.Nil(t, MapError(nil))

	appErr := MapError(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.Equal(t, apperr.KindUnknown, appErr.Kind)
	assert.Equal(t, apperr.MsgInternal, appErr.Message)
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "short", snippet("short"))
	long := strings.Repeat("x", 250)
	assert.Equal(t, strings.Repeat("x", 200)+"...", snippet(long))
}
