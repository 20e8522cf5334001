package models

// Grade is the letter grade the model assigns to a review.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// GradeForScore returns the grade band a score falls in:
// A 90-100, B 80-89, C 70-79, D 60-69, F below 60.
// Reviews are never regraded with it; the model's grade is kept as returned.
func GradeForScore(score float64) Grade {
	switch {
	case score >= 90:
		return GradeA
	case score >= 80:
		return GradeB
	case score >= 70:
		return GradeC
	case score >= 60:
		return GradeD
	default:
		return GradeF
	}
}

// CategoryScore is the assessment of one quality aspect.
// Scores are kept exactly as the model returned them (0-100 expected, not clamped).
type CategoryScore struct {
	Score     float64  `json:"score"`
	Issues    []string `json:"issues"`
	Strengths []string `json:"strengths"`
}

// Review is the structured quality assessment produced for one submission.
type Review struct {
	Readability     CategoryScore `json:"readability"`
	Structure       CategoryScore `json:"structure"`
	Maintainability CategoryScore `json:"maintainability"`
	OverallScore    float64       `json:"overallScore"`
	OverallGrade    Grade         `json:"overallGrade"`
	Summary         string        `json:"summary"`
	CriticalIssues  []string      `json:"criticalIssues"`
	Recommendations []string      `json:"recommendations"`
	Metrics         CodeMetrics   `json:"metrics"`
}
