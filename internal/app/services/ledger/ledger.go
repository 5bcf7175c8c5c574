// Package ledger records manual income and expenses and summarises the
// club's finances by month.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	financestore "github.com/dalemusser/clubhub/internal/app/store/finances"
	"github.com/dalemusser/clubhub/internal/app/system/dates"
	"github.com/dalemusser/clubhub/internal/app/system/docstore"
	"github.com/dalemusser/clubhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/clubhub/internal/app/system/money"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrDuesManaged is returned when deleting an entry owned by the dues
	// grid. Such entries go away only by un-marking the payment.
	ErrDuesManaged = errors.New("dues entries are removed from the dues grid")
	// ErrEntryNotFound is returned when the entry does not exist.
	ErrEntryNotFound = errors.New("finance entry not found")

	ErrInvalidKind     = errors.New("kind must be income or expense")
	ErrInvalidCategory = errors.New("unknown category for this kind")
)

// IsValidation reports whether err is an input error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidKind) ||
		errors.Is(err, ErrInvalidCategory) ||
		errors.Is(err, money.ErrInvalidAmount) ||
		errors.Is(err, dates.ErrInvalidDate)
}

// NewEntry is a manual ledger line as submitted.
type NewEntry struct {
	Kind        string
	Amount      string // decimal, "12.50" or "12,50"
	Description string
	Category    string
	// OtherDetail names an "other" category; it is appended to it.
	OtherDetail string
	Date        string // YYYY-MM-DD
}

// Summary is one month of the ledger.
type Summary struct {
	Month   int                   `json:"month"`
	Year    int                   `json:"year"`
	Income  int64                 `json:"income"`
	Expense int64                 `json:"expense"`
	Balance int64                 `json:"balance"` // all time
	Entries []models.FinanceEntry `json:"entries"`
	Stale   bool                  `json:"stale,omitempty"`
}

// Service manages manual ledger entries.
type Service struct {
	finances *financestore.Store
	log      *zap.Logger
}

// New creates a ledger service over ds.
func New(ds docstore.Store, logger *zap.Logger) *Service {
	return &Service{finances: financestore.New(ds), log: logger}
}

// AddManualEntry validates e and appends it with origin "manual". Month and
// year are taken from the date.
func (s *Service) AddManualEntry(ctx context.Context, e NewEntry) (models.FinanceEntry, error) {
	var allowed []string
	defaultDesc := ""
	switch e.Kind {
	case models.FinanceIncome:
		allowed, defaultDesc = models.IncomeCategories, "Income"
	case models.FinanceExpense:
		allowed, defaultDesc = models.ExpenseCategories, "Expense"
	default:
		return models.FinanceEntry{}, ErrInvalidKind
	}

	cents, err := money.ParseCents(e.Amount)
	if err != nil {
		return models.FinanceEntry{}, err
	}
	month, year, err := dates.MonthYear(strings.TrimSpace(e.Date))
	if err != nil {
		return models.FinanceEntry{}, err
	}

	category := strings.TrimSpace(e.Category)
	if category != "" && !slices.Contains(allowed, category) {
		return models.FinanceEntry{}, fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}
	if detail := htmlsanitize.Text(e.OtherDetail); category == models.CategoryOther && detail != "" {
		category = models.CategoryOther + " — " + detail
	}

	desc := htmlsanitize.Text(e.Description)
	if desc == "" {
		desc = defaultDesc
	}

	entry, err := s.finances.Add(ctx, models.FinanceEntry{
		Kind:        e.Kind,
		Amount:      cents,
		Description: desc,
		Category:    category,
		Date:        strings.TrimSpace(e.Date),
		Month:       month,
		Year:        year,
		Origin:      models.OriginManual,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		s.log.Error("add finance entry failed", zap.String("kind", e.Kind), zap.Error(err))
		return models.FinanceEntry{}, fmt.Errorf("save entry: %w", err)
	}
	s.log.Info("finance entry added",
		zap.String("id", entry.ID),
		zap.String("kind", entry.Kind),
		zap.Int64("amount", entry.Amount))
	return entry, nil
}

// DeleteEntry removes a manual entry. Dues entries are refused with
// ErrDuesManaged.
func (s *Service) DeleteEntry(ctx context.Context, id string) error {
	entry, err := s.finances.Get(ctx, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrEntryNotFound
	}
	if err != nil {
		return fmt.Errorf("load entry: %w", err)
	}
	if entry.IsDues() {
		return ErrDuesManaged
	}
	if err := s.finances.Delete(ctx, id); err != nil {
		s.log.Error("delete finance entry failed", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("delete entry: %w", err)
	}
	s.log.Info("finance entry deleted", zap.String("id", id))
	return nil
}

// MonthSummary returns the month's entries (newest first), its income and
// expense totals, and the all-time balance. A store failure is logged and
// yields an empty summary with Stale set.
func (s *Service) MonthSummary(ctx context.Context, month, year int) Summary {
	var monthEntries, all []models.FinanceEntry
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { monthEntries, err = s.finances.ForMonth(gctx, month, year); return })
	g.Go(func() (err error) { all, err = s.finances.All(gctx); return })
	if err := g.Wait(); err != nil {
		s.log.Error("finance summary failed",
			zap.Int("month", month),
			zap.Int("year", year),
			zap.Error(err))
		return Summary{Month: month, Year: year, Entries: []models.FinanceEntry{}, Stale: true}
	}

	sum := Summary{Month: month, Year: year, Entries: monthEntries}
	if sum.Entries == nil {
		sum.Entries = []models.FinanceEntry{}
	}
	for _, e := range monthEntries {
		switch e.Kind {
		case models.FinanceIncome:
			sum.Income += e.Amount
		case models.FinanceExpense:
			sum.Expense += e.Amount
		}
	}
	for _, e := range all {
		sum.Balance += e.Signed()
	}
	return sum
}
