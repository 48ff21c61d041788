package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	domain "github.com/wearcheck/compliance-api/internal/domain/checkerrors"
)

type CheckErrorRepository struct {
	db *sql.DB
}

func NewCheckErrorRepository(db *sql.DB) *CheckErrorRepository {
	return &CheckErrorRepository{db: db}
}

func (r *CheckErrorRepository) Save(ctx context.Context, e *domain.CheckError) error {
	const q = `
INSERT INTO compliance_check_errors
  (industry, stage, message, details_json, created_at)
VALUES (?,?,?,?,?);
`
	industry := stringOrDash(e.Industry)
	stage := stringOrDash(e.Stage)
	msg := e.Message
	if strings.TrimSpace(msg) == "" {
		msg = "-"
	}
	details := e.DetailsJSON
	if strings.TrimSpace(details) == "" {
		details = "{}"
	} else {
		// ensure valid json; if invalid, wrap as string field
		var js any
		if json.Unmarshal([]byte(details), &js) != nil {
			b, _ := json.Marshal(map[string]string{"raw": details})
			details = string(b)
		}
	}
	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, q, industry, stage, msg, details, created)
	return err
}

// Latest returns the most recent failure entries
func (r *CheckErrorRepository) Latest(ctx context.Context, limit int) ([]*domain.CheckError, error) {
	if limit <= 0 {
		limit = 50
	}
	const q = `
SELECT id, industry, stage, message, details_json, created_at
FROM compliance_check_errors
ORDER BY id DESC
LIMIT ?;
`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.CheckError
	for rows.Next() {
		var e domain.CheckError
		var details sql.NullString
		var created time.Time
		if err := rows.Scan(&e.ID, &e.Industry, &e.Stage, &e.Message, &details, &created); err != nil {
			return nil, err
		}
		e.DetailsJSON = details.String
		e.CreatedAt = created
		out = append(out, &e)
	}
	return out, rows.Err()
}
