package compliance

import (
	"time"
)

// Industry enum. Closed set; anything else is a request error.
type Industry string

const (
	IndustryHealthcare   Industry = "healthcare"
	IndustryConstruction Industry = "construction"
)

// Industries lists every supported industry.
func Industries() []Industry {
	return []Industry{IndustryHealthcare, IndustryConstruction}
}

// Valid reports whether the industry is one of the supported values.
func (i Industry) Valid() bool {
	switch i {
	case IndustryHealthcare, IndustryConstruction:
		return true
	}
	return false
}

// IssueKind enum
type IssueKind string

const (
	IssueMissing    IssueKind = "missing"
	IssueIncorrect  IssueKind = "incorrect"
	IssueProhibited IssueKind = "prohibited"
)

// Valid reports whether the kind is one of the three closed values.
func (k IssueKind) Valid() bool {
	switch k {
	case IssueMissing, IssueIncorrect, IssueProhibited:
		return true
	}
	return false
}

// Issue is one compliance defect found in an outfit.
type Issue struct {
	Kind        IssueKind `json:"kind"`
	Item        string    `json:"item"`
	Description string    `json:"description"`
}

// Item is one outfit element confirmed compliant.
type Item struct {
	Item        string `json:"item"`
	Description string `json:"description"`
}

// Recommendation is an actionable remediation step.
type Recommendation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Result is the unit of truth returned to the caller and persisted.
type Result struct {
	IsCompliant     bool             `json:"isCompliant"`
	Issues          []Issue          `json:"issues"`
	CompliantItems  []Item           `json:"compliantItems"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Clone returns a deep copy so shared canned results can be handed out safely.
func (r *Result) Clone() *Result {
	out := &Result{
		IsCompliant:     r.IsCompliant,
		Issues:          make([]Issue, len(r.Issues)),
		CompliantItems:  make([]Item, len(r.CompliantItems)),
		Recommendations: make([]Recommendation, len(r.Recommendations)),
	}
	copy(out.Issues, r.Issues)
	copy(out.CompliantItems, r.CompliantItems)
	copy(out.Recommendations, r.Recommendations)
	return out
}

// RecordID identifier type. Assigned by the store at write time,
// monotonically increasing.
type RecordID int64

// Record is one persisted compliance check. Append-only: never mutated
// after creation, never deleted by the core.
type Record struct {
	ID          RecordID  `json:"id"`
	Industry    Industry  `json:"industry"`
	ImageBase64 string    `json:"imageBase64,omitempty"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Result      *Result   `json:"result"`
	CreatedAt   time.Time `json:"timestamp"`
}
