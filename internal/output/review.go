package output

import (
	"fmt"
	"strings"

	"github.com/joescharf/codereview/internal/health"
	"github.com/joescharf/codereview/internal/models"
)

// RenderReview prints a score card followed by per-category findings.
func (u *UI) RenderReview(rv *models.Review) error {
	fmt.Fprintf(u.Out, "\nOverall: %s/100  Grade %s\n",
		ScoreColor(rv.OverallScore), GradeColor(string(rv.OverallGrade)))
	if rv.Summary != "" {
		fmt.Fprintf(u.Out, "%s\n", rv.Summary)
	}
	fmt.Fprintln(u.Out)

	scores := u.Table([]string{"Category", "Score", "Issues", "Strengths"})
	for _, c := range []struct {
		name  string
		score models.CategoryScore
	}{
		{"Readability", rv.Readability},
		{"Structure", rv.Structure},
		{"Maintainability", rv.Maintainability},
	} {
		_ = scores.Append([]string{
			c.name,
			ScoreColor(c.score.Score),
			fmt.Sprintf("%d", len(c.score.Issues)),
			fmt.Sprintf("%d", len(c.score.Strengths)),
		})
	}
	if err := scores.Render(); err != nil {
		return err
	}

	fmt.Fprintln(u.Out)
	m := rv.Metrics
	metrics := u.Table([]string{"Lines", "Functions", "Complexity", "Comments"})
	_ = metrics.Append([]string{
		fmt.Sprintf("%d", m.LinesOfCode),
		fmt.Sprintf("%d", m.FunctionCount),
		ComplexityColor(string(m.Complexity)),
		yesNo(m.HasComments),
	})
	if err := metrics.Render(); err != nil {
		return err
	}

	u.section("Critical issues", rv.CriticalIssues, red)
	u.findings("Readability", rv.Readability)
	u.findings("Structure", rv.Structure)
	u.findings("Maintainability", rv.Maintainability)
	u.numbered("Recommendations", rv.Recommendations)
	return nil
}

// RenderHealth prints a one-line health summary.
func (u *UI) RenderHealth(rep health.Report) {
	u.Success("%s is %s (up %ds)", rep.Service, rep.Status, rep.UpTime)
}

func (u *UI) findings(name string, c models.CategoryScore) {
	if len(c.Issues) == 0 && len(c.Strengths) == 0 {
		return
	}
	fmt.Fprintf(u.Out, "\n%s %s\n", cyan(name), ScoreColor(c.Score))
	for _, s := range c.Strengths {
		fmt.Fprintf(u.Out, "  %s %s\n", successPrefix, s)
	}
	for _, s := range c.Issues {
		fmt.Fprintf(u.Out, "  %s %s\n", warningPrefix, s)
	}
}

func (u *UI) section(title string, items []string, colorize func(a ...any) string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(u.Out, "\n%s\n", colorize(title))
	for _, s := range items {
		fmt.Fprintf(u.Out, "  %s %s\n", errorPrefix, s)
	}
}

func (u *UI) numbered(title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(u.Out, "\n%s\n", cyan(title))
	width := len(fmt.Sprintf("%d", len(items)))
	for i, s := range items {
		fmt.Fprintf(u.Out, "  %*d. %s\n", width, i+1, strings.TrimSpace(s))
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
