package checkerrors

import "context"

// Repository defines persistence for backend-failure entries.
type Repository interface {
	Save(ctx context.Context, e *CheckError) error
	Latest(ctx context.Context, limit int) ([]*CheckError, error)
}
