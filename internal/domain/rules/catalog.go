package rules

import (
	"errors"

	"github.com/wearcheck/compliance-api/internal/domain/compliance"
)

// IndustryRules is the static dress-code rule set for one industry.
// Immutable, loaded at process start.
type IndustryRules struct {
	RequiredItems   []string `json:"requiredItems"`
	ProhibitedItems []string `json:"prohibitedItems"`
}

// ErrUnknownIndustry should be unreachable given the closed Industry set;
// it exists for the case where the enum itself is corrupted.
var ErrUnknownIndustry = errors.New("unknown industry")

var catalog = map[compliance.Industry]IndustryRules{
	compliance.IndustryHealthcare: {
		RequiredItems: []string{
			"scrubs or medical uniform",
			"closed-toe shoes",
			"ID badge",
			"clean uniform",
			"hair containment (if applicable)",
		},
		ProhibitedItems: []string{
			"open-toed shoes",
			"excessive jewelry",
			"long nails",
			"strong perfume/cologne",
			"casual clothing (jeans, t-shirts)",
		},
	},
	compliance.IndustryConstruction: {
		RequiredItems: []string{
			"hard hat",
			"high-visibility vest or clothing",
			"safety boots or shoes",
			"eye protection",
			"appropriate workwear (pants, long-sleeve shirts)",
		},
		ProhibitedItems: []string{
			"loose clothing",
			"jewelry",
			"sandals or casual shoes",
			"shorts (on most sites)",
			"damaged protective equipment",
		},
	},
}

// remediation guidance used when building backend instructions; keyed by
// the item the guidance addresses. Not exposed over the rules endpoint.
var remediations = map[compliance.Industry]map[string]string{
	compliance.IndustryHealthcare: {
		"ID badge": "Ensure the ID badge is visible and properly displayed at chest level.",
		"footwear": "Closed-toe, non-slip shoes that meet facility guidelines; athletic shoes with leather uppers are recommended.",
		"hair":     "Hair should be pulled back and secured above the collar.",
		"jewelry":  "Only simple rings, studs, and professional watches are typically allowed.",
		"uniform":  "Scrubs or medical uniform must be clean, wrinkle-free, and properly fitted.",
	},
	compliance.IndustryConstruction: {
		"hard hat":        "An approved hard hat meeting ANSI/ISEA Z89.1 standards; replace if damaged or older than 5 years.",
		"high-visibility": "Class 2 or 3 high-visibility clothing with intact reflective strips.",
		"footwear":        "Steel-toed or composite-toed boots meeting ASTM F2413 standards with ankle support.",
		"eye protection":  "Safety glasses or goggles meeting ANSI Z87.1 standards; consider side shields.",
		"gloves":          "Task-appropriate gloves: cut-resistant for sharp materials, insulated for electrical work.",
	},
}

// RulesFor returns the rule set for an industry. The slices are copies, so
// callers can hold or modify them freely.
func RulesFor(industry compliance.Industry) (IndustryRules, error) {
	r, ok := catalog[industry]
	if !ok {
		return IndustryRules{}, ErrUnknownIndustry
	}
	return IndustryRules{
		RequiredItems:   append([]string(nil), r.RequiredItems...),
		ProhibitedItems: append([]string(nil), r.ProhibitedItems...),
	}, nil
}

// RemediationsFor returns the remediation guidance for an industry. The
// returned map must not be mutated.
func RemediationsFor(industry compliance.Industry) map[string]string {
	return remediations[industry]
}
