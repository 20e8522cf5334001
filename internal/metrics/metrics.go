// Package metrics estimates coarse structural facts about a code snippet.
// The patterns are textual approximations, not a parser.
package metrics

import (
	"regexp"
	"strings"

	"github.com/joescharf/codereview/internal/models"
)

var (
	functionPattern   = regexp.MustCompile(`function\s+\w+|const\s+\w+\s*=\s*\(|=>\s*\{|def\s+\w+|func\s+\w+`)
	commentPattern    = regexp.MustCompile(`//|/\*|\*/|#|"""`)
	complexityPattern = regexp.MustCompile(`if|else|for|while|switch|case|catch|\?\.|&&|\|\|`)
)

// Complexity bucket thresholds on the branching-token count.
const (
	veryHighThreshold = 15
	highThreshold     = 10
	mediumThreshold   = 5
)

// Estimate computes metrics for code. It never fails.
func Estimate(code string) models.CodeMetrics {
	return models.CodeMetrics{
		LinesOfCode:   CountLines(code),
		Complexity:    Bucket(CountBranches(code)),
		FunctionCount: len(functionPattern.FindAllStringIndex(code, -1)),
		HasComments:   commentPattern.MatchString(code),
	}
}

// CountLines returns the number of non-blank lines.
func CountLines(code string) int {
	n := 0
	for _, line := range strings.Split(code, "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}

// CountBranches counts branching and logical-operator tokens. Keywords are
// matched as substrings, so identifiers such as "notify" also count.
func CountBranches(code string) int {
	return len(complexityPattern.FindAllStringIndex(code, -1))
}

// Bucket maps a branching-token count to a complexity bucket.
func Bucket(branches int) models.Complexity {
	switch {
	case branches > veryHighThreshold:
		return models.ComplexityVeryHigh
	case branches > highThreshold:
		return models.ComplexityHigh
	case branches > mediumThreshold:
		return models.ComplexityMedium
	default:
		return models.ComplexityLow
	}
}
