// internal/app/store/events/eventstore.go
package eventstore

import (
	"context"
	"time"

	"github.com/dalemusser/clubhub/internal/app/system/docstore"
	"github.com/dalemusser/clubhub/internal/domain/models"
)

// Collection is the events collection name.
const Collection = "events"

// Store provides access to the events collection.
type Store struct {
	ds docstore.Store
}

// New creates a new event store.
func New(ds docstore.Store) *Store {
	return &Store{ds: ds}
}

// List returns all events, newest first.
func (s *Store) List(ctx context.Context) ([]models.Event, error) {
	var out []models.Event
	if err := s.ds.Query(ctx, Collection, docstore.Query{}.OrderBy(docstore.Desc("date")), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns the event with the given id, or docstore.ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (models.Event, error) {
	var e models.Event
	if err := s.ds.Get(ctx, Collection, id, &e); err != nil {
		return models.Event{}, err
	}
	return e, nil
}

// Create inserts e.
func (s *Store) Create(ctx context.Context, e models.Event) (models.Event, error) {
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now

	id, err := s.ds.Add(ctx, Collection, e)
	if err != nil {
		return models.Event{}, err
	}
	e.ID = id
	return e, nil
}

// Update replaces an existing event, keeping its CreatedAt.
func (s *Store) Update(ctx context.Context, e models.Event) (models.Event, error) {
	cur, err := s.Get(ctx, e.ID)
	if err != nil {
		return models.Event{}, err
	}
	e.CreatedAt = cur.CreatedAt
	e.UpdatedAt = time.Now().UTC()
	if err := s.ds.Set(ctx, Collection, e.ID, e); err != nil {
		return models.Event{}, err
	}
	return e, nil
}

// Delete removes the event document.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.ds.Delete(ctx, Collection, id)
}
