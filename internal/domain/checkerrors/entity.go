package checkerrors

import "time"

// CheckError is a persisted backend-failure entry. Written best-effort by
// the orchestrator when a reasoning-backend call fails or its result is
// substituted; never caller-visible.
type CheckError struct {
	ID          int64     `json:"id"`
	Industry    string    `json:"industry"`
	Stage       string    `json:"stage"` // backend | validation | persist
	Message     string    `json:"message"`
	DetailsJSON string    `json:"details_json,omitempty"` // raw JSON string
	CreatedAt   time.Time `json:"created_at"`
}
