package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Cause tags why a generation call failed.
type Cause string

const (
	CauseCredential Cause = "credential"
	CauseQuota      Cause = "quota"
	CauseEmpty      Cause = "empty"
	CauseUpstream   Cause = "upstream"
)

// ServiceError is returned by providers when the generation service fails.
type ServiceError struct {
	Provider string
	Cause    Cause
	Status   int
	Err      error
}

func (e *ServiceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s failure", e.Provider, e.Cause)
	}
	return fmt.Sprintf("%s: %s failure: %v", e.Provider, e.Cause, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// AsServiceError extracts a ServiceError from err's chain.
func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// EmptyResponse reports a reply that carried no text.
func EmptyResponse(provider string) *ServiceError {
	return &ServiceError{Provider: provider, Cause: CauseEmpty, Err: errors.New("no text content in response")}
}

// Classify tags an error that carries no HTTP status by its message.
func Classify(provider string, err error) *ServiceError {
	return classify(provider, 0, err)
}

// classify tags err using the HTTP status when the SDK exposes one, falling
// back to matching the message. The message match is best effort only.
func classify(provider string, status int, err error) *ServiceError {
	if se, ok := AsServiceError(err); ok {
		return se
	}
	return &ServiceError{Provider: provider, Cause: causeOf(status, err), Status: status, Err: err}
}

func causeOf(status int, err error) Cause {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return CauseCredential
	case http.StatusTooManyRequests:
		return CauseQuota
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return CauseUpstream
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "api key"), strings.Contains(msg, "api_key"):
		return CauseCredential
	case strings.Contains(msg, "quota"), strings.Contains(msg, "resource_exhausted"):
		return CauseQuota
	default:
		return CauseUpstream
	}
}
