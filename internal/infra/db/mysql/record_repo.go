package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	domain "github.com/wearcheck/compliance-api/internal/domain/compliance"
)

type RecordRepository struct {
	db *sql.DB
}

func NewRecordRepository(db *sql.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// Save inserts a compliance record. The id is assigned by the database at
// write time (auto-increment, so unique and monotonically increasing) and
// written back onto the record.
func (r *RecordRepository) Save(ctx context.Context, rec *domain.Record) error {
	const q = `
INSERT INTO compliance_checks
  (industry, image_base64, description, image_url, result_json, created_at)
VALUES (?,?,?,?,?,?);
`
	result, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}

	res, err := r.db.ExecContext(ctx, q,
		string(rec.Industry),
		nullString(rec.ImageBase64),
		nullString(rec.Description),
		nullString(rec.ImageURL),
		string(result),
		created,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rec.ID = domain.RecordID(id)
	return nil
}

// Get by id
func (r *RecordRepository) Get(ctx context.Context, id domain.RecordID) (*domain.Record, error) {
	const q = `
SELECT id, industry, image_base64, description, image_url, result_json, created_at
FROM compliance_checks
WHERE id=?;
`
	return scanRecord(r.db.QueryRowContext(ctx, q, int64(id)))
}

// Latest returns the N most recent records
func (r *RecordRepository) Latest(ctx context.Context, limit int) ([]*domain.Record, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, industry, image_base64, description, image_url, result_json, created_at
FROM compliance_checks
ORDER BY id DESC
LIMIT ?;
`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

// ByIndustry returns a page of records ordered by created_at desc
func (r *RecordRepository) ByIndustry(ctx context.Context, industry domain.Industry, page, pageSize int) ([]*domain.Record, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	const q = `
SELECT id, industry, image_base64, description, image_url, result_json, created_at
FROM compliance_checks
WHERE industry=?
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?;
`
	rows, err := r.db.QueryContext(ctx, q, string(industry), pageSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*domain.Record, error) {
	var rec domain.Record
	var industry string
	var image, desc, url sql.NullString
	var result string
	var created time.Time
	if err := row.Scan(&rec.ID, &industry, &image, &desc, &url, &result, &created); err != nil {
		return nil, err
	}
	rec.Industry = domain.Industry(industry)
	rec.ImageBase64 = image.String
	rec.Description = desc.String
	rec.ImageURL = url.String
	rec.CreatedAt = created
	var res domain.Result
	if err := json.Unmarshal([]byte(result), &res); err != nil {
		return nil, fmt.Errorf("unmarshal result: %w", err)
	}
	rec.Result = &res
	return &rec, nil
}

func collectRecords(rows *sql.Rows) ([]*domain.Record, error) {
	var out []*domain.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
