package output

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joescharf/codereview/internal/health"
	"github.com/joescharf/codereview/internal/models"
)

func sampleReview() *models.Review {
	return &models.Review{
		Readability:     models.CategoryScore{Score: 95, Strengths: []string{"clear naming"}},
		Structure:       models.CategoryScore{Score: 72, Issues: []string{"long function"}},
		Maintainability: models.CategoryScore{Score: 58},
		OverallScore:    75,
		OverallGrade:    models.GradeC,
		Summary:         "Readable but long.",
		CriticalIssues:  []string{"unchecked error"},
		Recommendations: []string{"split parse()", "add tests"},
		Metrics: models.CodeMetrics{
			LinesOfCode:   42,
			Complexity:    models.ComplexityMedium,
			FunctionCount: 3,
			HasComments:   true,
		},
	}
}

func TestRenderReview(t *testing.T) {
	u, out, _ := newTestUI()
	require.NoError(t, u.RenderReview(sampleReview()))

	got := out.String()
	for _, want := range []string{
		"Readable but long.",
		"Readability", "Structure", "Maintainability",
		"42", "medium", "yes",
		"Critical issues", "unchecked error",
		"clear naming", "long function",
		"Recommendations", "1. split parse()", "2. add tests",
	} {
		assert.Contains(t, got, want)
	}
}

func TestRenderReview_OmitsEmptySections(t *testing.T) {
	rv := sampleReview()
	rv.CriticalIssues = nil
	rv.Recommendations = nil

	u, out, _ := newTestUI()
	require.NoError(t, u.RenderReview(rv))
	assert.NotContains(t, out.String(), "Critical issues")
	assert.NotContains(t, out.String(), "Recommendations")
}

func TestRenderHealth(t *testing.T) {
	u, out, _ := newTestUI()
	u.RenderHealth(health.Report{Status: "healthy", Service: "svc", UpTime: 12, Timestamp: time.Now()})
	assert.Contains(t, out.String(), "svc is healthy (up 12s)")
}
