package review

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joescharf/codereview/internal/apperr"
	"github.com/joescharf/codereview/internal/models"
)

const validReply = `{
  "readability": {"score": 95, "issues": [], "strengths": ["clear names"]},
  "structure": {"score": 88, "issues": ["one-liner"], "strengths": []},
  "maintainability": {"score": 90, "issues": [], "strengths": ["pure function"]},
  "overallScore": 91,
  "overallGrade": "A",
  "summary": "Small and clear.",
  "criticalIssues": [],
  "recommendations": ["Add a doc comment"]
}`

const addFn = "function add(a,b){return a+b}"

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare", `  {"a":1}  `, `{"a":1}`},
		{"fenced with tag", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"fenced without tag", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"prose around fence", "Here you go:\n```json\n{\"a\":{\"b\":2}}\n```\nThanks", `{"a":{"b":2}}`},
		{"no json", "  just prose  ", "just prose"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSON(tt.in))
		})
	}
}

func TestParse_Valid(t *testing.T) {
	rv, err := Parse(validReply, addFn)
	require.NoError(t, err)

	assert.Equal(t, 95.0, rv.Readability.Score)
	assert.Equal(t, 88.0, rv.Structure.Score)
	assert.Equal(t, 90.0, rv.Maintainability.Score)
	assert.Equal(t, models.GradeA, rv.OverallGrade)
	assert.Equal(t, "Small and clear.", rv.Summary)
	assert.Equal(t, []string{"Add a doc comment"}, rv.Recommendations)
	assert.Empty(t, rv.CriticalIssues)
	assert.GreaterOrEqual(t, rv.Metrics.FunctionCount, 1)
	assert.False(t, rv.Metrics.HasComments)
	assert.Equal(t, 1, rv.Metrics.LinesOfCode)
}

func TestParse_FencedMatchesBare(t *testing.T) {
	bare, err := Parse(validReply, addFn)
	require.NoError(t, err)

	for _, wrapped := range []string{
		"```json\n" + validReply + "\n```",
		"```\n" + validReply + "\n```",
	} {
		got, err := Parse(wrapped, addFn)
		require.NoError(t, err)
		assert.Equal(t, bare, got)
	}
}

func TestParse_NoCoercion(t *testing.T) {
	reply := `{"readability":{"score":150,"issues":[],"strengths":[]},
		"structure":{"score":-3,"issues":[],"strengths":[]},
		"maintainability":{"score":42.5,"issues":[],"strengths":[]},
		"overallScore":101,"overallGrade":"F","summary":"odd",
		"criticalIssues":[],"recommendations":[]}`

	rv, err := Parse(reply, "x")
	require.NoError(t, err)
	assert.Equal(t, 150.0, rv.Readability.Score)
	assert.Equal(t, -3.0, rv.Structure.Score)
	assert.Equal(t, 42.5, rv.Maintainability.Score)
	assert.Equal(t, 101.0, rv.OverallScore)
	assert.Equal(t, models.GradeF, rv.OverallGrade)
}

func TestParse_Malformed(t *testing.T) {
	for _, text := range []string{
		"The code looks great overall, nice work!",
		"",
		"```json\n{not json}\n```",
		`{"readability": {`,
	} {
		_, err := Parse(text, addFn)
		var pe *ParseError
		require.True(t, errors.As(err, &pe), "text %q", text)
		assert.Equal(t, ReasonMalformed, pe.Reason)
	}
}

func TestParse_MissingOrMistypedFields(t *testing.T) {
	var base map[string]any
	require.NoError(t, json.Unmarshal([]byte(validReply), &base))

	mutations := map[string]func(m map[string]any){
		"no readability":           func(m map[string]any) { delete(m, "readability") },
		"no structure":             func(m map[string]any) { delete(m, "structure") },
		"no maintainability":       func(m map[string]any) { delete(m, "maintainability") },
		"readability not object":   func(m map[string]any) { m["readability"] = 90 },
		"no overallScore":          func(m map[string]any) { delete(m, "overallScore") },
		"string overallScore":      func(m map[string]any) { m["overallScore"] = "91" },
		"no overallGrade":          func(m map[string]any) { delete(m, "overallGrade") },
		"empty overallGrade":       func(m map[string]any) { m["overallGrade"] = "" },
		"no summary":               func(m map[string]any) { delete(m, "summary") },
		"no criticalIssues":        func(m map[string]any) { delete(m, "criticalIssues") },
		"criticalIssues not array": func(m map[string]any) { m["criticalIssues"] = "none" },
		"no recommendations":       func(m map[string]any) { delete(m, "recommendations") },
		"null recommendations":     func(m map[string]any) { m["recommendations"] = nil },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			m := make(map[string]any, len(base))
			for k, v := range base {
				m[k] = v
			}
			mutate(m)
			raw, err := json.Marshal(m)
			require.NoError(t, err)

			_, err = Parse(string(raw), addFn)
			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, ReasonInvalid, pe.Reason)
		})
	}
}

func TestParse_NestedTypeMismatchIsInvalid(t *testing.T) {
	replies := map[string]string{
		"string category score": `{"readability":{"score":"85","issues":[],"strengths":[]},
			"structure":{"score":80,"issues":[],"strengths":[]},
			"maintainability":{"score":80,"issues":[],"strengths":[]},
			"overallScore":82,"overallGrade":"B","summary":"s",
			"criticalIssues":[],"recommendations":[]}`,
		"object critical issue": `{"readability":{"score":85,"issues":[],"strengths":[]},
			"structure":{"score":80,"issues":[],"strengths":[]},
			"maintainability":{"score":80,"issues":[],"strengths":[]},
			"overallScore":82,"overallGrade":"B","summary":"s",
			"criticalIssues":[{"line":3}],"recommendations":[]}`,
	}
	for name, text := range replies {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(text, addFn)
			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, ReasonInvalid, pe.Reason)
			assert.Equal(t, apperr.MsgInvalidReview, MapError(err).Message)
		})
	}
}

func TestParse_ArrayIsInvalid(t *testing.T) {
	_, err := Parse(`[1,2,3]`, addFn)
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, ReasonInvalid, pe.Reason)
}

func TestParse_MetricsFromCodeNotReply(t *testing.T) {
	reply := `{"readability":{"score":1,"issues":[],"strengths":[]},
		"structure":{"score":1,"issues":[],"strengths":[]},
		"maintainability":{"score":1,"issues":[],"strengths":[]},
		"overallScore":1,"overallGrade":"F","summary":"s",
		"criticalIssues":[],"recommendations":[],
		"metrics":{"linesOfCode":999,"complexity":"very-high","functionCount":50,"hasComments":true}}`

	rv, err := Parse(reply, "// note\nx = 1\n")
	require.NoError(t, err)
	assert.Equal(t, 2, rv.Metrics.LinesOfCode)
	assert.Equal(t, 0, rv.Metrics.FunctionCount)
	assert.True(t, rv.Metrics.HasComments)
	assert.Equal(t, models.ComplexityLow, rv.Metrics.Complexity)
}
