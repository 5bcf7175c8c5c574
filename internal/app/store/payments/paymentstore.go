// internal/app/store/payments/paymentstore.go
package paymentstore

import (
	"context"

	"github.com/dalemusser/clubhub/internal/app/system/docstore"
	"github.com/dalemusser/clubhub/internal/domain/models"
)

// Collection is the dues payments collection name.
const Collection = "memberPayments"

// Store provides access to dues payment marks.
type Store struct {
	ds docstore.Store
}

// New creates a new payment store.
func New(ds docstore.Store) *Store {
	return &Store{ds: ds}
}

// Exists reports whether the member has paid dues for month/year.
func (s *Store) Exists(ctx context.Context, memberID string, month, year int) (bool, error) {
	return s.ds.Exists(ctx, Collection, models.DuesPaymentID(memberID, month, year))
}

// Mark writes the payment under its deterministic id.
func (s *Store) Mark(ctx context.Context, p models.DuesPayment) error {
	p.ID = models.DuesPaymentID(p.MemberID, p.Month, p.Year)
	p.Paid = true
	return s.ds.Set(ctx, Collection, p.ID, p)
}

// Unmark removes the payment.
func (s *Store) Unmark(ctx context.Context, memberID string, month, year int) error {
	return s.ds.Delete(ctx, Collection, models.DuesPaymentID(memberID, month, year))
}

// ForYear returns all payments of a year.
func (s *Store) ForYear(ctx context.Context, year int) ([]models.DuesPayment, error) {
	var out []models.DuesPayment
	if err := s.ds.Query(ctx, Collection, docstore.Where(docstore.Eq("year", year)), &out); err != nil {
		return nil, err
	}
	return out, nil
}
