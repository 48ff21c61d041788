package compliance

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

const validResultJSON = `{
  "isCompliant": false,
  "issues": [
    {"kind": "missing", "item": "hard hat", "description": "No hard hat is visible"}
  ],
  "compliantItems": [],
  "recommendations": [
    {"title": "Wear appropriate hard hat", "description": "Always wear an approved hard hat"}
  ]
}`

func TestParseResult_Valid(t *testing.T) {
	res, err := ParseResult([]byte(validResultJSON))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.IsCompliant {
		t.Fatalf("expected isCompliant=false")
	}
	if len(res.Issues) != 1 || res.Issues[0].Kind != IssueMissing || res.Issues[0].Item != "hard hat" {
		t.Fatalf("unexpected issues: %+v", res.Issues)
	}
	if len(res.CompliantItems) != 0 {
		t.Fatalf("expected empty compliantItems, got %+v", res.CompliantItems)
	}
	if len(res.Recommendations) != 1 {
		t.Fatalf("expected one recommendation, got %+v", res.Recommendations)
	}
}

func TestParseResult_MissingField(t *testing.T) {
	// compliantItems omitted entirely
	raw := `{"isCompliant": true, "issues": [], "recommendations": []}`
	if _, err := ParseResult([]byte(raw)); !errors.Is(err, ErrContractViolation) {
		t.Fatalf("expected ErrContractViolation, got %v", err)
	}
}

func TestParseResult_NullCollection(t *testing.T) {
	raw := `{"isCompliant": true, "issues": null, "compliantItems": [], "recommendations": []}`
	if _, err := ParseResult([]byte(raw)); !errors.Is(err, ErrContractViolation) {
		t.Fatalf("expected ErrContractViolation for null issues, got %v", err)
	}
}

func TestParseResult_MistypedBoolean(t *testing.T) {
	raw := `{"isCompliant": "yes", "issues": [], "compliantItems": [], "recommendations": []}`
	if _, err := ParseResult([]byte(raw)); !errors.Is(err, ErrContractViolation) {
		t.Fatalf("expected ErrContractViolation, got %v", err)
	}
}

func TestParseResult_UnknownIssueKind(t *testing.T) {
	raw := `{
	  "isCompliant": false,
	  "issues": [{"kind": "forbidden", "item": "sandals", "description": "open toed"}],
	  "compliantItems": [],
	  "recommendations": []
	}`
	if _, err := ParseResult([]byte(raw)); !errors.Is(err, ErrContractViolation) {
		t.Fatalf("expected ErrContractViolation for unknown kind, got %v", err)
	}
}

func TestParseResult_NotJSON(t *testing.T) {
	if _, err := ParseResult([]byte("not json")); !errors.Is(err, ErrContractViolation) {
		t.Fatalf("expected ErrContractViolation, got %v", err)
	}
}

// the cross-field invariant is deliberately not enforced
func TestParseResult_CompliantWithIssuesAccepted(t *testing.T) {
	raw := `{
	  "isCompliant": true,
	  "issues": [{"kind": "incorrect", "item": "vest", "description": "wrong class"}],
	  "compliantItems": [],
	  "recommendations": []
	}`
	if _, err := ParseResult([]byte(raw)); err != nil {
		t.Fatalf("loose contract should accept compliant-with-issues: %v", err)
	}
}

func TestValidate_Idempotent(t *testing.T) {
	res, err := ParseResult([]byte(validResultJSON))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := res.Validate(); err != nil {
		t.Fatalf("first validate failed: %v", err)
	}
	if err := res.Validate(); err != nil {
		t.Fatalf("second validate failed: %v", err)
	}
}

func TestResult_RoundTrip(t *testing.T) {
	res, err := ParseResult([]byte(validResultJSON))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	encoded, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	again, err := ParseResult(encoded)
	if err != nil {
		t.Fatalf("re-parse: %v", err)
	}
	if !reflect.DeepEqual(res, again) {
		t.Fatalf("round-trip mismatch:\n%+v\n%+v", res, again)
	}
}

func TestResult_CloneIsIndependent(t *testing.T) {
	res, err := ParseResult([]byte(validResultJSON))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := res.Clone()
	c.Issues[0].Item = "changed"
	if res.Issues[0].Item == "changed" {
		t.Fatalf("clone shares issue storage with original")
	}
}
