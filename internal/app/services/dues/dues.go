// Package dues keeps the monthly dues grid and its ledger entries in step.
//
// A cell (member, month, year) is PAID when a payment document exists under
// models.DuesPaymentID. Marking a cell writes the payment and appends an
// income entry with origin "dues" at the current rate; un-marking deletes
// both. The rate is captured when the entry is created.
package dues

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	financestore "github.com/dalemusser/clubhub/internal/app/store/finances"
	memberstore "github.com/dalemusser/clubhub/internal/app/store/members"
	paymentstore "github.com/dalemusser/clubhub/internal/app/store/payments"
	settingsstore "github.com/dalemusser/clubhub/internal/app/store/settings"
	"github.com/dalemusser/clubhub/internal/app/system/dates"
	"github.com/dalemusser/clubhub/internal/app/system/docstore"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Validation errors.
var (
	ErrMissingMember  = errors.New("member id is required")
	ErrMemberNotFound = errors.New("member not found")
	ErrInvalidMonth   = errors.New("month must be between 0 and 11")
	ErrInvalidYear    = errors.New("year must be positive")
	ErrInvalidRate    = errors.New("dues rate must be greater than zero")
)

// IsValidation reports whether err is one of this package's input errors.
func IsValidation(err error) bool {
	for _, v := range []error{ErrMissingMember, ErrMemberNotFound, ErrInvalidMonth, ErrInvalidYear, ErrInvalidRate} {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}

// ToggleResult is the state of a cell after a toggle.
type ToggleResult struct {
	MemberID string `json:"member_id"`
	Month    int    `json:"month"`
	Year     int    `json:"year"`
	Paid     bool   `json:"paid"`
	// Entry is the ledger entry created by a mark. Nil after an un-mark.
	Entry *models.FinanceEntry `json:"entry,omitempty"`
	// Shared is true when this call joined a toggle of the same cell that
	// was already in flight instead of flipping it again.
	Shared bool `json:"shared,omitempty"`
}

// GridRow is one member's line of the yearly checkbox grid.
type GridRow struct {
	MemberID string   `json:"member_id"`
	Name     string   `json:"name"`
	Paid     [12]bool `json:"paid"`
}

// Grid is the yearly dues grid.
type Grid struct {
	Year int       `json:"year"`
	Rate int64     `json:"rate"`
	Rows []GridRow `json:"rows"`
}

// Service toggles dues payments and manages the rate.
type Service struct {
	ds       docstore.Store
	members  *memberstore.Store
	payments *paymentstore.Store
	finances *financestore.Store
	settings *settingsstore.Store
	log      *zap.Logger
	tracer   trace.Tracer

	// inflight coalesces concurrent toggles of one cell.
	inflight singleflight.Group
}

// New creates a dues service. defaultRate (cents) applies until a rate is
// saved.
func New(ds docstore.Store, defaultRate int64, logger *zap.Logger) *Service {
	return &Service{
		ds:       ds,
		members:  memberstore.New(ds),
		payments: paymentstore.New(ds),
		finances: financestore.New(ds),
		settings: settingsstore.New(ds, defaultRate),
		log:      logger,
		tracer:   otel.Tracer("clubhub/dues"),
	}
}

// TogglePayment flips the cell. Whether the cell is paid is read from the
// store at call time. Concurrent toggles of the same cell in this process
// share one flip. Once started, a flip runs to completion even if ctx is
// cancelled; only the Long timeout bounds it.
func (s *Service) TogglePayment(ctx context.Context, memberID string, month, year int) (ToggleResult, error) {
	memberID = strings.TrimSpace(memberID)
	if memberID == "" {
		return ToggleResult{}, ErrMissingMember
	}
	if month < 0 || month > 11 {
		return ToggleResult{}, ErrInvalidMonth
	}
	if year <= 0 {
		return ToggleResult{}, ErrInvalidYear
	}

	key := models.DuesPaymentID(memberID, month, year)
	v, err, shared := s.inflight.Do(key, func() (any, error) {
		wctx, cancel := timeouts.Detach(ctx, timeouts.Long())
		defer cancel()
		return s.toggle(wctx, memberID, month, year)
	})
	if err != nil {
		return ToggleResult{}, err
	}
	res := v.(ToggleResult)
	res.Shared = shared
	return res, nil
}

func (s *Service) toggle(ctx context.Context, memberID string, month, year int) (ToggleResult, error) {
	ctx, span := s.tracer.Start(ctx, "dues.toggle",
		trace.WithAttributes(
			attribute.String("member.id", memberID),
			attribute.Int("period.month", month),
			attribute.Int("period.year", year),
		))
	defer span.End()

	res := ToggleResult{MemberID: memberID, Month: month, Year: year}

	paid, err := s.payments.Exists(ctx, memberID, month, year)
	if err != nil {
		span.RecordError(err)
		return res, fmt.Errorf("check payment: %w", err)
	}

	if paid {
		err = s.ds.Atomic(ctx, func(ctx context.Context) error {
			return s.unmark(ctx, memberID, month, year)
		})
		if err != nil {
			span.RecordError(err)
			s.log.Error("dues un-mark failed",
				zap.String("member_id", memberID),
				zap.Int("month", month),
				zap.Int("year", year),
				zap.Error(err))
			return res, err
		}
		span.SetAttributes(attribute.Bool("dues.paid", false))
		s.log.Info("dues un-marked",
			zap.String("member_id", memberID),
			zap.Int("month", month),
			zap.Int("year", year))
		return res, nil
	}

	member, err := s.members.Get(ctx, memberID)
	if errors.Is(err, docstore.ErrNotFound) {
		return res, ErrMemberNotFound
	}
	if err != nil {
		span.RecordError(err)
		return res, fmt.Errorf("load member: %w", err)
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		span.RecordError(err)
		return res, fmt.Errorf("load dues rate: %w", err)
	}

	var entry models.FinanceEntry
	err = s.ds.Atomic(ctx, func(ctx context.Context) error {
		var err error
		entry, err = s.mark(ctx, member, month, year, settings.DuesRate)
		return err
	})
	if err != nil {
		span.RecordError(err)
		s.log.Error("dues mark failed",
			zap.String("member_id", memberID),
			zap.Int("month", month),
			zap.Int("year", year),
			zap.Error(err))
		return res, err
	}

	span.SetAttributes(
		attribute.Bool("dues.paid", true),
		attribute.Int64("dues.amount", entry.Amount),
	)
	s.log.Info("dues marked",
		zap.String("member_id", memberID),
		zap.Int("month", month),
		zap.Int("year", year),
		zap.Int64("amount", entry.Amount))
	res.Paid = true
	res.Entry = &entry
	return res, nil
}

// mark writes the payment, then the ledger entry. Both ids are derived
// from the cell, so running mark twice leaves one of each.
func (s *Service) mark(ctx context.Context, m models.Member, month, year int, rate int64) (models.FinanceEntry, error) {
	now := time.Now()
	if err := s.payments.Mark(ctx, models.DuesPayment{
		MemberID: m.ID,
		Month:    month,
		Year:     year,
		PaidAt:   now.UTC(),
	}); err != nil {
		return models.FinanceEntry{}, fmt.Errorf("write payment: %w", err)
	}

	name := m.Name
	if name == "" {
		name = "Member"
	}
	entry, err := s.finances.PutDues(ctx, models.FinanceEntry{
		Kind:        models.FinanceIncome,
		Amount:      rate,
		Description: "Dues — " + name,
		Category:    models.CategoryDues,
		Date:        dates.Format(now),
		Month:       month,
		Year:        year,
		Origin:      models.OriginDues,
		MemberID:    m.ID,
		CreatedAt:   now.UTC(),
	})
	if err != nil {
		return models.FinanceEntry{}, fmt.Errorf("write dues entry: %w", err)
	}
	return entry, nil
}

// unmark deletes the payment, then its ledger entry if there is one.
func (s *Service) unmark(ctx context.Context, memberID string, month, year int) error {
	if err := s.payments.Unmark(ctx, memberID, month, year); err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	entry, ok, err := s.finances.FindDues(ctx, memberID, month, year)
	if err != nil {
		return fmt.Errorf("find dues entry: %w", err)
	}
	if !ok {
		s.log.Warn("no dues entry for payment",
			zap.String("member_id", memberID),
			zap.Int("month", month),
			zap.Int("year", year))
		return nil
	}
	if err := s.finances.Delete(ctx, entry.ID); err != nil {
		return fmt.Errorf("delete dues entry: %w", err)
	}
	return nil
}

// Grid returns the paid matrix of every active member for year.
func (s *Service) Grid(ctx context.Context, year int) (Grid, error) {
	if year <= 0 {
		return Grid{}, ErrInvalidYear
	}
	members, err := s.members.ListActive(ctx)
	if err != nil {
		return Grid{}, fmt.Errorf("list members: %w", err)
	}
	payments, err := s.payments.ForYear(ctx, year)
	if err != nil {
		return Grid{}, fmt.Errorf("list payments: %w", err)
	}
	rate, err := s.Rate(ctx)
	if err != nil {
		return Grid{}, err
	}

	paid := make(map[string]*[12]bool)
	for _, p := range payments {
		if p.Month < 0 || p.Month > 11 {
			continue
		}
		row, ok := paid[p.MemberID]
		if !ok {
			row = &[12]bool{}
			paid[p.MemberID] = row
		}
		row[p.Month] = true
	}

	g := Grid{Year: year, Rate: rate, Rows: make([]GridRow, 0, len(members))}
	for _, m := range members {
		row := GridRow{MemberID: m.ID, Name: m.Name}
		if p, ok := paid[m.ID]; ok {
			row.Paid = *p
		}
		g.Rows = append(g.Rows, row)
	}
	return g, nil
}

// Rate returns the current dues rate in cents.
func (s *Service) Rate(ctx context.Context) (int64, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("load dues rate: %w", err)
	}
	return settings.DuesRate, nil
}

// SetRate changes the rate used by future marks. Existing entries keep
// their amounts.
func (s *Service) SetRate(ctx context.Context, cents int64, updatedBy string) error {
	if cents <= 0 {
		return ErrInvalidRate
	}
	if err := s.settings.SetRate(ctx, cents, updatedBy); err != nil {
		s.log.Error("set dues rate failed", zap.Int64("rate", cents), zap.Error(err))
		return fmt.Errorf("save dues rate: %w", err)
	}
	s.log.Info("dues rate changed", zap.Int64("rate", cents), zap.String("by", updatedBy))
	return nil
}
