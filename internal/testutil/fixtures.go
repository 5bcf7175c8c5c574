package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/clubhub/internal/app/system/docstore"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	ds docstore.Store
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance over the given store.
// Most tests pass docstore.NewMemory().
func NewFixtures(t *testing.T, ds docstore.Store) *Fixtures {
	t.Helper()
	return &Fixtures{ds: ds, t: t}
}

// Store returns the underlying document store for direct access in tests.
func (f *Fixtures) Store() docstore.Store {
	return f.ds
}

// CreateMember creates an active member with the given name.
func (f *Fixtures) CreateMember(ctx context.Context, name string) models.Member {
	f.t.Helper()
	return f.createMember(ctx, name, models.MemberActive)
}

// CreateInactiveMember creates an inactive member with the given name.
func (f *Fixtures) CreateInactiveMember(ctx context.Context, name string) models.Member {
	f.t.Helper()
	return f.createMember(ctx, name, models.MemberInactive)
}

func (f *Fixtures) createMember(ctx context.Context, name, status string) models.Member {
	f.t.Helper()

	now := time.Now().UTC()
	m := models.Member{
		Name:      name,
		NameCI:    text.Fold(name),
		Status:    status,
		Role:      models.DefaultMemberRole,
		CreatedAt: now,
		UpdatedAt: now,
	}
	id, err := f.ds.Add(ctx, "members", m)
	if err != nil {
		f.t.Fatalf("failed to create member: %v", err)
	}
	m.ID = id
	return m
}

// CreateMeeting creates a regular, pending meeting on the given date.
func (f *Fixtures) CreateMeeting(ctx context.Context, date string) models.Meeting {
	f.t.Helper()
	return f.createMeeting(ctx, date, models.MeetingRegular, models.MeetingPending)
}

// CreateCancelledMeeting creates a cancelled meeting on the given date.
func (f *Fixtures) CreateCancelledMeeting(ctx context.Context, date string) models.Meeting {
	f.t.Helper()
	return f.createMeeting(ctx, date, models.MeetingCancelled, models.MeetingNotHeld)
}

func (f *Fixtures) createMeeting(ctx context.Context, date, kind, status string) models.Meeting {
	f.t.Helper()

	now := time.Now().UTC()
	m := models.Meeting{
		Date:      date,
		Kind:      kind,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	id, err := f.ds.Add(ctx, "meetings", m)
	if err != nil {
		f.t.Fatalf("failed to create meeting: %v", err)
	}
	m.ID = id
	return m
}

// CreateEvent creates an event with the given name and date.
func (f *Fixtures) CreateEvent(ctx context.Context, name, date string) models.Event {
	f.t.Helper()

	now := time.Now().UTC()
	e := models.Event{
		Name:      name,
		Date:      date,
		CreatedAt: now,
		UpdatedAt: now,
	}
	id, err := f.ds.Add(ctx, "events", e)
	if err != nil {
		f.t.Fatalf("failed to create event: %v", err)
	}
	e.ID = id
	return e
}

// MarkAttendance writes an attendance record for member at session.
func (f *Fixtures) MarkAttendance(ctx context.Context, s models.Session, memberID, status string) models.AttendanceRecord {
	f.t.Helper()

	rec := models.AttendanceRecord{
		ID:            models.AttendanceID(s.Kind, s.ID, memberID),
		MemberID:      memberID,
		ReferenceID:   s.ID,
		ReferenceKind: s.Kind,
		Status:        status,
		UpdatedAt:     time.Now().UTC(),
	}
	if err := f.ds.Set(ctx, "attendance", rec.ID, rec); err != nil {
		f.t.Fatalf("failed to mark attendance: %v", err)
	}
	return rec
}

// CreateManualEntry creates a manual ledger entry.
func (f *Fixtures) CreateManualEntry(ctx context.Context, kind string, cents int64, date string, month, year int) models.FinanceEntry {
	f.t.Helper()

	e := models.FinanceEntry{
		Kind:        kind,
		Amount:      cents,
		Description: "fixture",
		Category:    models.CategoryOther,
		Date:        date,
		Month:       month,
		Year:        year,
		Origin:      models.OriginManual,
		CreatedAt:   time.Now().UTC(),
	}
	id, err := f.ds.Add(ctx, "finances", e)
	if err != nil {
		f.t.Fatalf("failed to create finance entry: %v", err)
	}
	e.ID = id
	return e
}
