// internal/app/store/members/memberstore.go
package memberstore

import (
	"context"
	"strings"
	"time"

	"github.com/dalemusser/clubhub/internal/app/system/docstore"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
)

// Collection is the members collection name.
const Collection = "members"

// Store provides access to the members collection.
type Store struct {
	ds docstore.Store
}

// New creates a new member store.
func New(ds docstore.Store) *Store {
	return &Store{ds: ds}
}

// ListActive returns every active member ordered by name.
func (s *Store) ListActive(ctx context.Context) ([]models.Member, error) {
	var out []models.Member
	q := docstore.Where(docstore.Eq("status", models.MemberActive)).OrderBy(docstore.Asc("name"))
	if err := s.ds.Query(ctx, Collection, q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// List returns all members, active or not, ordered by name.
func (s *Store) List(ctx context.Context) ([]models.Member, error) {
	var out []models.Member
	if err := s.ds.Query(ctx, Collection, docstore.Query{}.OrderBy(docstore.Asc("name")), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns the member with the given id, or docstore.ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (models.Member, error) {
	var m models.Member
	if err := s.ds.Get(ctx, Collection, id, &m); err != nil {
		return models.Member{}, err
	}
	return m, nil
}

// Create inserts m. Status defaults to active and role to member.
func (s *Store) Create(ctx context.Context, m models.Member) (models.Member, error) {
	now := time.Now().UTC()
	m.Name = strings.TrimSpace(m.Name)
	m.NameCI = text.Fold(m.Name)
	if m.Status == "" {
		m.Status = models.MemberActive
	}
	if m.Role == "" {
		m.Role = models.DefaultMemberRole
	}
	m.CreatedAt = now
	m.UpdatedAt = now

	id, err := s.ds.Add(ctx, Collection, m)
	if err != nil {
		return models.Member{}, err
	}
	m.ID = id
	return m, nil
}

// Update replaces the profile of an existing member. Status and CreatedAt
// are carried over from the stored document.
func (s *Store) Update(ctx context.Context, m models.Member) (models.Member, error) {
	cur, err := s.Get(ctx, m.ID)
	if err != nil {
		return models.Member{}, err
	}
	m.Name = strings.TrimSpace(m.Name)
	m.NameCI = text.Fold(m.Name)
	if m.Status == "" {
		m.Status = cur.Status
	}
	if m.Role == "" {
		m.Role = cur.Role
	}
	m.CreatedAt = cur.CreatedAt
	m.UpdatedAt = time.Now().UTC()

	if err := s.ds.Set(ctx, Collection, m.ID, m); err != nil {
		return models.Member{}, err
	}
	return m, nil
}

// SetStatus flips a member between active and inactive.
func (s *Store) SetStatus(ctx context.Context, id, status string) error {
	return s.ds.Update(ctx, Collection, id, map[string]any{
		"status":     status,
		"updated_at": time.Now().UTC(),
	})
}

// Delete removes the member document.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.ds.Delete(ctx, Collection, id)
}
