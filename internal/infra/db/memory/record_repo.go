package memory

import (
	"context"
	"sort"
	"sync"

	domain "github.com/wearcheck/compliance-api/internal/domain/compliance"
)

// RecordRepository is the in-memory record store, used when no database is
// configured and as the test double. Ids are assigned at write time and
// monotonically increasing, matching the SQL stores.
type RecordRepository struct {
	mu      sync.Mutex
	nextID  int64
	records map[domain.RecordID]*domain.Record
}

func NewRecordRepository() *RecordRepository {
	return &RecordRepository{records: make(map[domain.RecordID]*domain.Record)}
}

func (r *RecordRepository) Save(_ context.Context, rec *domain.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	rec.ID = domain.RecordID(r.nextID)
	stored := *rec
	stored.Result = rec.Result.Clone()
	r.records[rec.ID] = &stored
	return nil
}

func (r *RecordRepository) Get(_ context.Context, id domain.RecordID) (*domain.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *rec
	out.Result = rec.Result.Clone()
	return &out, nil
}

func (r *RecordRepository) Latest(_ context.Context, limit int) ([]*domain.Record, error) {
	if limit <= 0 {
		limit = 20
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.all(func(*domain.Record) bool { return true })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *RecordRepository) ByIndustry(_ context.Context, industry domain.Industry, page, pageSize int) ([]*domain.Record, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.all(func(rec *domain.Record) bool { return rec.Industry == industry })
	start := (page - 1) * pageSize
	if start >= len(out) {
		return nil, nil
	}
	end := start + pageSize
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], nil
}

// all returns matching records newest-first. Caller holds the lock.
func (r *RecordRepository) all(match func(*domain.Record) bool) []*domain.Record {
	var out []*domain.Record
	for _, rec := range r.records {
		if !match(rec) {
			continue
		}
		c := *rec
		c.Result = rec.Result.Clone()
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}
