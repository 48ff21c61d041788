package fallback

import (
	"math/rand"

	"github.com/wearcheck/compliance-api/internal/domain/compliance"
)

// Generator produces locally canned compliance results when the reasoning
// backend is unconfigured, disabled, or masked out. It never fails; every
// scenario satisfies the result validator by construction.
type Generator struct{}

func New() *Generator { return &Generator{} }

// Generate picks one of the fixed scenarios for the industry uniformly at
// random and returns a copy of it.
func (g *Generator) Generate(industry compliance.Industry) *compliance.Result {
	scenarios := constructionScenarios
	if industry == compliance.IndustryHealthcare {
		scenarios = healthcareScenarios
	}
	return scenarios[rand.Intn(len(scenarios))].Clone()
}

var healthcareScenarios = []compliance.Result{
	{
		IsCompliant: true,
		Issues:      []compliance.Issue{},
		CompliantItems: []compliance.Item{
			{Item: "Scrubs", Description: "Clean, properly fitted blue scrubs"},
			{Item: "ID Badge", Description: "Properly displayed at chest level"},
			{Item: "Footwear", Description: "Clean white closed-toe shoes"},
			{Item: "Hair containment", Description: "Hair is properly secured and not touching collar"},
		},
		Recommendations: []compliance.Recommendation{
			{
				Title:       "Consider reducing jewelry",
				Description: "While your current jewelry is within acceptable limits, consider minimizing further for infection control purposes.",
			},
		},
	},
	{
		IsCompliant: false,
		Issues: []compliance.Issue{
			{Kind: compliance.IssueMissing, Item: "ID Badge", Description: "No ID badge is visible in the image or mentioned in the description"},
			{Kind: compliance.IssueProhibited, Item: "Footwear", Description: "Open-toed sandals are not permitted in healthcare settings"},
		},
		CompliantItems: []compliance.Item{
			{Item: "Scrubs", Description: "Properly wearing clean medical scrubs"},
		},
		Recommendations: []compliance.Recommendation{
			{
				Title:       "Display ID badge",
				Description: "Ensure your ID badge is visible and properly displayed at chest level. Contact your department administrator if you need a replacement.",
			},
			{
				Title:       "Change footwear",
				Description: "Switch to closed-toe, non-slip shoes that meet healthcare facility guidelines. Athletic shoes with leather uppers are recommended.",
			},
		},
	},
}

var constructionScenarios = []compliance.Result{
	{
		IsCompliant: true,
		Issues:      []compliance.Issue{},
		CompliantItems: []compliance.Item{
			{Item: "Hard Hat", Description: "ANSI-approved yellow hard hat in good condition"},
			{Item: "High-visibility clothing", Description: "Class 2 high-visibility vest with reflective strips"},
			{Item: "Safety footwear", Description: "Steel-toed boots that meet ASTM standards"},
			{Item: "Eye protection", Description: "Safety glasses with side shields"},
			{Item: "Proper workwear", Description: "Long-sleeve shirt and full-length pants"},
		},
		Recommendations: []compliance.Recommendation{
			{
				Title:       "Consider adding gloves",
				Description: "While not always required, task-appropriate gloves would provide additional protection for your hands.",
			},
		},
	},
	{
		IsCompliant: false,
		Issues: []compliance.Issue{
			{Kind: compliance.IssueMissing, Item: "Hard Hat", Description: "No hard hat is visible in the image or mentioned in the description"},
			{Kind: compliance.IssueMissing, Item: "Eye protection", Description: "No safety glasses or goggles are visible or mentioned"},
			{Kind: compliance.IssueProhibited, Item: "Footwear", Description: "Regular sneakers do not provide adequate protection for construction sites"},
		},
		CompliantItems: []compliance.Item{
			{Item: "High-visibility clothing", Description: "Properly wearing high-visibility vest"},
		},
		Recommendations: []compliance.Recommendation{
			{
				Title:       "Wear appropriate hard hat",
				Description: "Always wear an approved hard hat that meets ANSI/ISEA Z89.1 standards. Replace if damaged or older than 5 years.",
			},
			{
				Title:       "Use proper eye protection",
				Description: "Wear safety glasses or goggles that meet ANSI Z87.1 standards. Consider side shields for additional protection.",
			},
			{
				Title:       "Upgrade footwear",
				Description: "Use steel-toed or composite-toed boots that meet ASTM F2413 standards. Ensure they provide ankle support and puncture resistance.",
			},
		},
	},
}

// Scenarios exposes the canned set for an industry so tests can assert a
// generated result is one of them.
func Scenarios(industry compliance.Industry) []compliance.Result {
	if industry == compliance.IndustryHealthcare {
		return healthcareScenarios
	}
	return constructionScenarios
}
