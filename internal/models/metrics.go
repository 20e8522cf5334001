package models

// Complexity is a coarse bucket derived from branching tokens in the code.
type Complexity string

const (
	ComplexityLow      Complexity = "low"
	ComplexityMedium   Complexity = "medium"
	ComplexityHigh     Complexity = "high"
	ComplexityVeryHigh Complexity = "very-high"
)

// CodeMetrics are computed locally from the submitted code, never from model output.
type CodeMetrics struct {
	LinesOfCode   int        `json:"linesOfCode"`
	Complexity    Complexity `json:"complexity"`
	FunctionCount int        `json:"functionCount"`
	HasComments   bool       `json:"hasComments"`
}
