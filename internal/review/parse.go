package review

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/joescharf/codereview/internal/metrics"
	"github.com/joescharf/codereview/internal/models"
)

var fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*\\})\\s*```")

// ParseReason distinguishes unparseable replies from structurally invalid ones.
type ParseReason string

const (
	ReasonMalformed ParseReason = "malformed"
	ReasonInvalid   ParseReason = "invalid"
)

// ParseError reports a model reply that cannot become a Review.
type ParseError struct {
	Reason ParseReason
	Err    error
}

func (e *ParseError) Error() string {
	switch e.Reason {
	case ReasonMalformed:
		return fmt.Sprintf("parse review: malformed JSON: %v", e.Err)
	default:
		return fmt.Sprintf("parse review: invalid review structure: %v", e.Err)
	}
}

func (e *ParseError) Unwrap() error { return e.Err }

// reply is the JSON object the model is asked to return.
type reply struct {
	Readability     models.CategoryScore `json:"readability"`
	Structure       models.CategoryScore `json:"structure"`
	Maintainability models.CategoryScore `json:"maintainability"`
	OverallScore    float64              `json:"overallScore"`
	OverallGrade    models.Grade         `json:"overallGrade"`
	Summary         string               `json:"summary"`
	CriticalIssues  []string             `json:"criticalIssues"`
	Recommendations []string             `json:"recommendations"`
}

// ExtractJSON returns the JSON object inside a markdown code fence, or the
// whole trimmed text when there is no fence.
func ExtractJSON(text string) string {
	if m := fencedJSON.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return strings.TrimSpace(text)
}

// Parse turns a model reply into a Review and attaches metrics computed from
// code. Only field presence and JSON types are checked; values are kept as
// the model returned them.
func Parse(text, code string) (*models.Review, error) {
	raw := []byte(ExtractJSON(text))
	if !json.Valid(raw) {
		var syntaxErr error = errors.New("not valid JSON")
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			syntaxErr = err
		}
		return nil, &ParseError{Reason: ReasonMalformed, Err: syntaxErr}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, &ParseError{Reason: ReasonInvalid, Err: fmt.Errorf("reply is not a JSON object: %w", err)}
	}
	if err := checkFields(fields); err != nil {
		return nil, &ParseError{Reason: ReasonInvalid, Err: err}
	}

	// Nested values decode into typed fields; a mismatch there is invalid too.
	var r reply
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, &ParseError{Reason: ReasonInvalid, Err: err}
	}

	return &models.Review{
		Readability:     r.Readability,
		Structure:       r.Structure,
		Maintainability: r.Maintainability,
		OverallScore:    r.OverallScore,
		OverallGrade:    r.OverallGrade,
		Summary:         r.Summary,
		CriticalIssues:  r.CriticalIssues,
		Recommendations: r.Recommendations,
		Metrics:         metrics.Estimate(code),
	}, nil
}

type jsonKind int

const (
	kindOther jsonKind = iota
	kindObject
	kindArray
	kindString
	kindNumber
)

func kindOf(v json.RawMessage) jsonKind {
	v = bytes.TrimSpace(v)
	if len(v) == 0 {
		return kindOther
	}
	switch c := v[0]; {
	case c == '{':
		return kindObject
	case c == '[':
		return kindArray
	case c == '"':
		return kindString
	case c == '-' || (c >= '0' && c <= '9'):
		return kindNumber
	default:
		return kindOther
	}
}

func checkFields(fields map[string]json.RawMessage) error {
	for _, name := range []string{"readability", "structure", "maintainability"} {
		if kindOf(fields[name]) != kindObject {
			return fmt.Errorf("%s must be an object", name)
		}
	}
	if kindOf(fields["overallScore"]) != kindNumber {
		return errors.New("overallScore must be a number")
	}
	for _, name := range []string{"overallGrade", "summary"} {
		if kindOf(fields[name]) != kindString || string(bytes.TrimSpace(fields[name])) == `""` {
			return fmt.Errorf("%s must be a non-empty string", name)
		}
	}
	for _, name := range []string{"criticalIssues", "recommendations"} {
		if kindOf(fields[name]) != kindArray {
			return fmt.Errorf("%s must be an array", name)
		}
	}
	return nil
}
