package compliance

import (
	"encoding/json"
	"fmt"
)

// resultWire mirrors Result with pointer fields so that missing keys can be
// told apart from zero values. Type mismatches fail at unmarshal time.
type resultWire struct {
	IsCompliant     *bool             `json:"isCompliant"`
	Issues          *[]Issue          `json:"issues"`
	CompliantItems  *[]Item           `json:"compliantItems"`
	Recommendations *[]Recommendation `json:"recommendations"`
}

// ParseResult is the single gate between untrusted external JSON and a
// trusted Result. It checks, in order: isCompliant is a boolean, the three
// collections are present sequences, and every issue kind is one of the
// closed values. Unrecognized kinds are rejected, never coerced.
//
// The cross-field invariant "isCompliant implies no issues" is deliberately
// not checked here; callers may detect and log it.
func ParseResult(data []byte) (*Result, error) {
	var w resultWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrContractViolation, err)
	}
	if w.IsCompliant == nil {
		return nil, fmt.Errorf("%w: isCompliant missing or not a boolean", ErrContractViolation)
	}
	if w.Issues == nil {
		return nil, fmt.Errorf("%w: issues missing or not an array", ErrContractViolation)
	}
	if w.CompliantItems == nil {
		return nil, fmt.Errorf("%w: compliantItems missing or not an array", ErrContractViolation)
	}
	if w.Recommendations == nil {
		return nil, fmt.Errorf("%w: recommendations missing or not an array", ErrContractViolation)
	}

	res := &Result{
		IsCompliant:     *w.IsCompliant,
		Issues:          *w.Issues,
		CompliantItems:  *w.CompliantItems,
		Recommendations: *w.Recommendations,
	}
	if err := res.Validate(); err != nil {
		return nil, err
	}
	return res, nil
}

// Validate re-checks an already-structured Result against the same contract
// as ParseResult. Validating a valid Result twice yields the same outcome.
func (r *Result) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: nil result", ErrContractViolation)
	}
	if r.Issues == nil || r.CompliantItems == nil || r.Recommendations == nil {
		return fmt.Errorf("%w: collections must be present", ErrContractViolation)
	}
	for i, issue := range r.Issues {
		if !issue.Kind.Valid() {
			return fmt.Errorf("%w: issues[%d] has unrecognized kind %q", ErrContractViolation, i, issue.Kind)
		}
	}
	return nil
}
