// internal/app/store/finances/financestore.go
package financestore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/clubhub/internal/app/system/docstore"
	"github.com/dalemusser/clubhub/internal/domain/models"
)

// Collection is the finances collection name.
const Collection = "finances"

// Store provides access to the ledger.
type Store struct {
	ds docstore.Store
}

// New creates a new finance store.
func New(ds docstore.Store) *Store {
	return &Store{ds: ds}
}

// ForMonth returns the entries of one month (0-11), newest first.
func (s *Store) ForMonth(ctx context.Context, month, year int) ([]models.FinanceEntry, error) {
	var out []models.FinanceEntry
	q := docstore.Where(docstore.Eq("month", month), docstore.Eq("year", year)).
		OrderBy(docstore.Desc("date"), docstore.Desc("created_at"))
	if err := s.ds.Query(ctx, Collection, q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// All returns every ledger entry.
func (s *Store) All(ctx context.Context) ([]models.FinanceEntry, error) {
	var out []models.FinanceEntry
	if err := s.ds.Query(ctx, Collection, docstore.Query{}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns one entry, or docstore.ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (models.FinanceEntry, error) {
	var e models.FinanceEntry
	if err := s.ds.Get(ctx, Collection, id, &e); err != nil {
		return models.FinanceEntry{}, err
	}
	return e, nil
}

// Add appends e to the ledger under a generated id.
func (s *Store) Add(ctx context.Context, e models.FinanceEntry) (models.FinanceEntry, error) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	id, err := s.ds.Add(ctx, Collection, e)
	if err != nil {
		return models.FinanceEntry{}, err
	}
	e.ID = id
	return e, nil
}

// PutDues writes the dues entry of e's cell under models.DuesEntryID,
// replacing any earlier write of the same cell.
func (s *Store) PutDues(ctx context.Context, e models.FinanceEntry) (models.FinanceEntry, error) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	e.ID = models.DuesEntryID(e.MemberID, e.Month, e.Year)
	if err := s.ds.Set(ctx, Collection, e.ID, e); err != nil {
		return models.FinanceEntry{}, err
	}
	return e, nil
}

// FindDues returns the dues entry mirroring a payment. ok is false when
// there is none.
func (s *Store) FindDues(ctx context.Context, memberID string, month, year int) (models.FinanceEntry, bool, error) {
	e, err := s.Get(ctx, models.DuesEntryID(memberID, month, year))
	if errors.Is(err, docstore.ErrNotFound) {
		return models.FinanceEntry{}, false, nil
	}
	if err != nil {
		return models.FinanceEntry{}, false, err
	}
	if !e.IsDues() {
		return models.FinanceEntry{}, false, nil
	}
	return e, true, nil
}

// Delete removes one entry.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.ds.Delete(ctx, Collection, id)
}
