package compliance

import "context"

// Repository port (interface for persistence). Append-only from the
// orchestrator's perspective: Save assigns the record id at write time.
type Repository interface {
	Save(ctx context.Context, r *Record) error
	Get(ctx context.Context, id RecordID) (*Record, error)
	Latest(ctx context.Context, limit int) ([]*Record, error)
	ByIndustry(ctx context.Context, industry Industry, page, pageSize int) ([]*Record, error)
}
