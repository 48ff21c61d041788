package ai

import (
	"context"

	"github.com/wearcheck/compliance-api/internal/domain/compliance"
)

// Request carries one outfit to the reasoning backend. Images stay in the
// base64 form they arrived in; adapters re-encode as their transport needs.
type Request struct {
	Industry              compliance.Industry
	ImageBase64           string
	ReferenceImagesBase64 []string
	Description           string
}

// Reasoner is the port to the external reasoning backend. It returns the
// raw candidate result JSON; callers must pass it through the result
// validator before trusting it.
type Reasoner interface {
	Infer(ctx context.Context, req Request) ([]byte, error)
}
