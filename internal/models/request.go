package models

// DefaultLanguage is used when a request does not name a language.
const DefaultLanguage = "javascript"

// SupportedLanguages is advertised by the API. It is advisory only; any
// language label is accepted.
var SupportedLanguages = []string{
	"javascript",
	"typescript",
	"python",
	"java",
	"go",
	"rust",
	"php",
	"ruby",
}

// ReviewRequest is a validated review submission.
type ReviewRequest struct {
	Code     string `json:"code"`
	Language string `json:"language,omitempty"`
}
