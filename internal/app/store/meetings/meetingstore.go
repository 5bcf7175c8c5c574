// internal/app/store/meetings/meetingstore.go
package meetingstore

import (
	"context"
	"time"

	"github.com/dalemusser/clubhub/internal/app/system/docstore"
	"github.com/dalemusser/clubhub/internal/domain/models"
)

// Collection is the meetings collection name.
const Collection = "meetings"

// Store provides access to the meetings collection.
type Store struct {
	ds docstore.Store
}

// New creates a new meeting store.
func New(ds docstore.Store) *Store {
	return &Store{ds: ds}
}

// List returns all meetings, newest first.
func (s *Store) List(ctx context.Context) ([]models.Meeting, error) {
	var out []models.Meeting
	if err := s.ds.Query(ctx, Collection, docstore.Query{}.OrderBy(docstore.Desc("date")), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns the meeting with the given id, or docstore.ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (models.Meeting, error) {
	var m models.Meeting
	if err := s.ds.Get(ctx, Collection, id, &m); err != nil {
		return models.Meeting{}, err
	}
	return m, nil
}

// Create inserts m. A regular meeting starts pending.
func (s *Store) Create(ctx context.Context, m models.Meeting) (models.Meeting, error) {
	now := time.Now().UTC()
	if m.Kind == "" {
		m.Kind = models.MeetingRegular
	}
	if m.Status == "" {
		if m.Kind == models.MeetingCancelled {
			m.Status = models.MeetingNotHeld
		} else {
			m.Status = models.MeetingPending
		}
	}
	m.CreatedAt = now
	m.UpdatedAt = now

	id, err := s.ds.Add(ctx, Collection, m)
	if err != nil {
		return models.Meeting{}, err
	}
	m.ID = id
	return m, nil
}

// MarkCompleted sets the meeting status to completed.
func (s *Store) MarkCompleted(ctx context.Context, id string) error {
	return s.ds.Update(ctx, Collection, id, map[string]any{
		"status":     models.MeetingCompleted,
		"updated_at": time.Now().UTC(),
	})
}

// Delete removes the meeting document.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.ds.Delete(ctx, Collection, id)
}
