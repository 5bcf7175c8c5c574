// internal/app/store/attendance/attendancestore.go
package attendancestore

import (
	"context"
	"time"

	"github.com/dalemusser/clubhub/internal/app/system/docstore"
	"github.com/dalemusser/clubhub/internal/domain/models"
)

// Collection is the attendance collection name.
const Collection = "attendance"

// Store provides access to the attendance collection. Records are keyed by
// models.AttendanceID so a save is always a replace.
type Store struct {
	ds docstore.Store
}

// New creates a new attendance store.
func New(ds docstore.Store) *Store {
	return &Store{ds: ds}
}

// ForSession returns the records saved for one session.
func (s *Store) ForSession(ctx context.Context, kind, sessionID string) ([]models.AttendanceRecord, error) {
	var out []models.AttendanceRecord
	q := docstore.Where(
		docstore.Eq("reference_id", sessionID),
		docstore.Eq("reference_kind", kind),
	)
	if err := s.ds.Query(ctx, Collection, q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// All returns every attendance record.
func (s *Store) All(ctx context.Context) ([]models.AttendanceRecord, error) {
	var out []models.AttendanceRecord
	if err := s.ds.Query(ctx, Collection, docstore.Query{}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Upsert writes rec under its deterministic id.
func (s *Store) Upsert(ctx context.Context, rec models.AttendanceRecord) (models.AttendanceRecord, error) {
	rec.ID = models.AttendanceID(rec.ReferenceKind, rec.ReferenceID, rec.MemberID)
	rec.UpdatedAt = time.Now().UTC()
	if err := s.ds.Set(ctx, Collection, rec.ID, rec); err != nil {
		return models.AttendanceRecord{}, err
	}
	return rec, nil
}

// DeleteForSession removes every record of a session. It returns the
// number of records removed.
func (s *Store) DeleteForSession(ctx context.Context, kind, sessionID string) (int, error) {
	recs, err := s.ForSession(ctx, kind, sessionID)
	if err != nil {
		return 0, err
	}
	for i, r := range recs {
		if err := s.ds.Delete(ctx, Collection, r.ID); err != nil {
			return i, err
		}
	}
	return len(recs), nil
}

// Count returns the number of attendance documents.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.ds.Count(ctx, Collection)
}
