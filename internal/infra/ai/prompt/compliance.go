package prompt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wearcheck/compliance-api/internal/domain/compliance"
	"github.com/wearcheck/compliance-api/internal/domain/rules"
)

// schema block shared by all prompt variants. The backend must answer with
// exactly these fields.
const schema = `Respond with one valid JSON object only (no markdown, no commentary) in this format:
{
  "isCompliant": boolean,
  "issues": [
    { "kind": "missing"|"incorrect"|"prohibited", "item": "<string>", "description": "<string>" }
  ],
  "compliantItems": [
    { "item": "<string>", "description": "<string>" }
  ],
  "recommendations": [
    { "title": "<string>", "description": "<string>" }
  ]
}`

// System builds the industry-specific instruction set from the rule
// catalog: required items, prohibited items, and remediation guidance.
func System(industry compliance.Industry, r rules.IndustryRules) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a specialized dress code compliance expert for the %s industry with extensive professional experience in workplace safety standards and regulations.\n\n", industry)

	b.WriteString("Required items:\n")
	for _, item := range r.RequiredItems {
		fmt.Fprintf(&b, "- %s\n", item)
	}
	b.WriteString("\nProhibited items:\n")
	for _, item := range r.ProhibitedItems {
		fmt.Fprintf(&b, "- %s\n", item)
	}

	if rem := rules.RemediationsFor(industry); len(rem) > 0 {
		b.WriteString("\nRemediation guidance to draw recommendations from:\n")
		keys := make([]string, 0, len(rem))
		for k := range rem {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "- %s: %s\n", k, rem[k])
		}
	}

	b.WriteString(`
Analysis instructions:
1. Examine the provided images and/or description carefully, looking for both visible and missing elements.
2. Distinguish between critical safety violations and minor issues.
3. Base your assessment on current industry standards and proven safety best practices.
4. Provide detailed, actionable recommendations with specific standards when possible.

`)
	b.WriteString(schema)
	return b.String()
}

// UserText frames a text-only outfit description.
func UserText(industry compliance.Industry, description string) string {
	return fmt.Sprintf("Analyze this %s worker's outfit description for dress code compliance: %s", industry, description)
}

// ImageIntro frames the primary outfit image.
func ImageIntro(industry compliance.Industry) string {
	return fmt.Sprintf("Analyze this %s worker's outfit for dress code compliance:", industry)
}

// ReferenceIntro frames the additional reference images.
func ReferenceIntro() string {
	return "Here are additional reference images from different angles to help with the assessment:"
}

// RunInstructions are given to an assistants-style run on submit.
func RunInstructions(industry compliance.Industry) string {
	return fmt.Sprintf("Analyze the outfit for %s dress code compliance.\n%s", industry, schema)
}
