package review

import (
	"fmt"
	"strings"
)

// BuildPrompt generates the instruction sent to the generation service for one
// submission. It embeds the code in a fence labeled with the language and
// spells out the exact JSON reply the parser accepts.
func BuildPrompt(code, language string) string {
	var b strings.Builder

	b.WriteString("You are an expert code reviewer specializing in code quality assessment. ")
	fmt.Fprintf(&b, "Your task is to thoroughly review the following %s code for three key aspects: READABILITY, STRUCTURE, and MAINTAINABILITY.\n\n", language)

	b.WriteString("CODE TO REVIEW:\n")
	fmt.Fprintf(&b, "```%s\n%s\n```\n\n", language, code)

	b.WriteString("Please analyze this code and provide a comprehensive review following these guidelines:\n\n")

	b.WriteString("**READABILITY (0-100):**\n")
	b.WriteString("- Variable and function naming clarity\n")
	b.WriteString("- Code formatting and consistency\n")
	b.WriteString("- Comment quality and presence\n")
	b.WriteString("- Code clarity and self-documentation\n")
	b.WriteString("- Cognitive load required to understand the code\n\n")

	b.WriteString("**STRUCTURE (0-100):**\n")
	b.WriteString("- Code organization and modularity\n")
	b.WriteString("- Separation of concerns\n")
	b.WriteString("- Proper use of design patterns\n")
	b.WriteString("- Function/method size and cohesion\n")
	b.WriteString("- Coupling and dependencies\n")
	b.WriteString("- Logical flow and organization\n\n")

	b.WriteString("**MAINTAINABILITY (0-100):**\n")
	b.WriteString("- Code reusability\n")
	b.WriteString("- Extensibility and flexibility\n")
	b.WriteString("- Error handling and edge cases\n")
	b.WriteString("- Testing considerations\n")
	b.WriteString("- Technical debt indicators\n")
	b.WriteString("- Long-term sustainability\n\n")

	b.WriteString("For each category (readability, structure, maintainability):\n")
	b.WriteString("- Provide a score from 0-100\n")
	b.WriteString("- List specific ISSUES found (be detailed and reference actual code)\n")
	b.WriteString("- List STRENGTHS (what's done well)\n\n")

	b.WriteString("Additionally provide:\n")
	b.WriteString("- An OVERALL SCORE (weighted average)\n")
	b.WriteString("- An OVERALL GRADE (A: 90-100, B: 80-89, C: 70-79, D: 60-69, F: <60)\n")
	b.WriteString("- A brief SUMMARY (2-3 sentences)\n")
	b.WriteString("- CRITICAL ISSUES that must be addressed (can be empty array)\n")
	b.WriteString("- RECOMMENDATIONS for improvement (prioritized list)\n\n")

	b.WriteString("IMPORTANT: Respond ONLY with valid JSON. No markdown, no explanations, just the JSON object.\n\n")
	b.WriteString("Required JSON format:\n")
	b.WriteString(replyExample)
	b.WriteString("\n\nBe specific, constructive, and reference actual code elements in your feedback.")

	return b.String()
}

const replyExample = `{
  "readability": {
    "score": 85,
    "issues": ["issue 1", "issue 2"],
    "strengths": ["strength 1", "strength 2"]
  },
  "structure": {
    "score": 75,
    "issues": ["issue 1"],
    "strengths": ["strength 1"]
  },
  "maintainability": {
    "score": 80,
    "issues": ["issue 1"],
    "strengths": ["strength 1"]
  },
  "overallScore": 80,
  "overallGrade": "B",
  "summary": "Brief 2-3 sentence summary of the code quality",
  "criticalIssues": ["critical issue 1 that must be fixed"],
  "recommendations": ["recommendation 1", "recommendation 2", "recommendation 3"]
}`
