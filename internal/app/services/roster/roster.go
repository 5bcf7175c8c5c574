// Package roster materialises and saves the attendance sheet of one
// meeting or event.
package roster

import (
	"context"
	"errors"
	"fmt"
	"strings"

	attendancestore "github.com/dalemusser/clubhub/internal/app/store/attendance"
	eventstore "github.com/dalemusser/clubhub/internal/app/store/events"
	meetingstore "github.com/dalemusser/clubhub/internal/app/store/meetings"
	memberstore "github.com/dalemusser/clubhub/internal/app/store/members"
	"github.com/dalemusser/clubhub/internal/app/system/docstore"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Validation errors. Nothing is written when one of these is returned.
var (
	ErrUnknownKind      = errors.New("session kind must be meeting or event")
	ErrMissingSession   = errors.New("session id is required")
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionCancelled = errors.New("a cancelled meeting has no attendance")
	ErrMissingMember    = errors.New("every entry needs a member id")
	ErrUnknownMember    = errors.New("member not found")
	ErrInvalidStatus    = errors.New("status must be present, absent or excused")
)

// PartialWriteError reports a save that stopped after Written of Total
// records. Records already written are kept; saving the same roster again
// converges.
type PartialWriteError struct {
	Written int
	Total   int
	Err     error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("roster saved %d of %d records: %v", e.Written, e.Total, e.Err)
}

func (e *PartialWriteError) Unwrap() error { return e.Err }

// Entry is one member's line on the sheet.
type Entry struct {
	MemberID string `json:"member_id"`
	Name     string `json:"name"`
	Status   string `json:"status"`
	Note     string `json:"note"`
	// Recorded is true when the status comes from a saved record rather
	// than the present default.
	Recorded bool `json:"recorded"`
	// Inactive marks a member who has left but has a saved record here.
	Inactive bool `json:"inactive,omitempty"`
}

// Roster is the attendance sheet of one session.
type Roster struct {
	Session models.Session `json:"session"`
	Entries []Entry        `json:"entries"`
	// Stale is set when the store could not be read; Entries is then empty.
	Stale bool `json:"stale,omitempty"`
}

// Service opens and saves rosters.
type Service struct {
	members    *memberstore.Store
	meetings   *meetingstore.Store
	events     *eventstore.Store
	attendance *attendancestore.Store
	log        *zap.Logger
	tracer     trace.Tracer
}

// New creates a roster service over ds.
func New(ds docstore.Store, logger *zap.Logger) *Service {
	return &Service{
		members:    memberstore.New(ds),
		meetings:   meetingstore.New(ds),
		events:     eventstore.New(ds),
		attendance: attendancestore.New(ds),
		log:        logger,
		tracer:     otel.Tracer("clubhub/roster"),
	}
}

// OpenRoster builds the sheet for a session: every active member, plus any
// member who already has a record for it. Members without a record default
// to present with an empty note.
func (s *Service) OpenRoster(ctx context.Context, kind, sessionID string) (Roster, error) {
	ctx, span := s.tracer.Start(ctx, "roster.open",
		trace.WithAttributes(
			attribute.String("session.kind", kind),
			attribute.String("session.id", sessionID),
		))
	defer span.End()

	sess, err := s.resolve(ctx, kind, sessionID)
	if err != nil {
		if IsValidation(err) {
			return Roster{}, err
		}
		return s.stale(span, sess, err), nil
	}

	var (
		members []models.Member
		records []models.AttendanceRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { members, err = s.members.List(gctx); return })
	g.Go(func() (err error) { records, err = s.attendance.ForSession(gctx, kind, sessionID); return })
	if err := g.Wait(); err != nil {
		return s.stale(span, sess, err), nil
	}

	r := Build(sess, members, records)
	span.SetAttributes(attribute.Int("roster.entries", len(r.Entries)))
	return r, nil
}

func (s *Service) stale(span trace.Span, sess models.Session, err error) Roster {
	span.RecordError(err)
	s.log.Error("open roster failed",
		zap.String("kind", sess.Kind),
		zap.String("session_id", sess.ID),
		zap.Error(err))
	return Roster{Session: sess, Entries: []Entry{}, Stale: true}
}

// Build is the pure merge behind OpenRoster. members must be ordered by name.
func Build(sess models.Session, members []models.Member, records []models.AttendanceRecord) Roster {
	byMember := make(map[string]models.AttendanceRecord, len(records))
	for _, rec := range records {
		byMember[rec.MemberID] = rec
	}

	r := Roster{Session: sess, Entries: make([]Entry, 0, len(members))}
	for _, m := range members {
		rec, has := byMember[m.ID]
		if !m.IsActive() && !has {
			continue
		}
		e := Entry{
			MemberID: m.ID,
			Name:     m.Name,
			Status:   models.AttendancePresent,
			Inactive: !m.IsActive(),
		}
		if has {
			e.Status = rec.Status
			e.Note = rec.Note
			e.Recorded = true
		}
		r.Entries = append(r.Entries, e)
	}
	return r
}

// MarkAll sets every loaded entry to status, keeping notes.
func MarkAll(r Roster, status string) (Roster, error) {
	if !models.ValidAttendanceStatus(status) {
		return r, ErrInvalidStatus
	}
	entries := make([]Entry, len(r.Entries))
	for i, e := range r.Entries {
		e.Status = status
		entries[i] = e
	}
	r.Entries = entries
	return r, nil
}

// SaveRoster upserts one record per entry, in order, under the
// deterministic attendance id, then marks a meeting completed. Input is
// validated before any write, including that every member exists. Once
// writing starts, cancelling ctx does not stop it. A store failure stops
// the save and is returned as *PartialWriteError.
func (s *Service) SaveRoster(ctx context.Context, kind, sessionID string, entries []Entry) (int, error) {
	ctx, span := s.tracer.Start(ctx, "roster.save",
		trace.WithAttributes(
			attribute.String("session.kind", kind),
			attribute.String("session.id", sessionID),
			attribute.Int("roster.entries", len(entries)),
		))
	defer span.End()

	if err := validateEntries(entries); err != nil {
		return 0, err
	}
	if _, err := s.resolve(ctx, kind, sessionID); err != nil {
		if !IsValidation(err) {
			span.RecordError(err)
			s.log.Error("save roster: session lookup failed",
				zap.String("kind", kind),
				zap.String("session_id", sessionID),
				zap.Error(err))
			return 0, &PartialWriteError{Total: len(entries), Err: err}
		}
		return 0, err
	}
	if err := s.checkMembers(ctx, entries); err != nil {
		if !IsValidation(err) {
			span.RecordError(err)
			s.log.Error("save roster: member lookup failed",
				zap.String("kind", kind),
				zap.String("session_id", sessionID),
				zap.Error(err))
			return 0, &PartialWriteError{Total: len(entries), Err: err}
		}
		return 0, err
	}

	ctx, cancel := timeouts.Detach(ctx, timeouts.Long())
	defer cancel()

	for i, e := range entries {
		_, err := s.attendance.Upsert(ctx, models.AttendanceRecord{
			MemberID:      e.MemberID,
			ReferenceID:   sessionID,
			ReferenceKind: kind,
			Status:        e.Status,
			Note:          strings.TrimSpace(e.Note),
		})
		if err != nil {
			span.RecordError(err)
			s.log.Error("save roster: write failed",
				zap.String("kind", kind),
				zap.String("session_id", sessionID),
				zap.String("member_id", e.MemberID),
				zap.Int("written", i),
				zap.Int("total", len(entries)),
				zap.Error(err))
			return i, &PartialWriteError{Written: i, Total: len(entries), Err: err}
		}
	}

	if kind == models.SessionMeeting {
		if err := s.meetings.MarkCompleted(ctx, sessionID); err != nil {
			span.RecordError(err)
			s.log.Error("save roster: mark meeting completed failed",
				zap.String("session_id", sessionID),
				zap.Error(err))
			return len(entries), &PartialWriteError{Written: len(entries), Total: len(entries), Err: err}
		}
	}

	s.log.Info("roster saved",
		zap.String("kind", kind),
		zap.String("session_id", sessionID),
		zap.Int("records", len(entries)))
	return len(entries), nil
}

func validateEntries(entries []Entry) error {
	for _, e := range entries {
		if strings.TrimSpace(e.MemberID) == "" {
			return ErrMissingMember
		}
		if !models.ValidAttendanceStatus(e.Status) {
			return fmt.Errorf("%w: %q", ErrInvalidStatus, e.Status)
		}
	}
	return nil
}

// checkMembers refuses entries whose member is not in the store. Inactive
// members are accepted.
func (s *Service) checkMembers(ctx context.Context, entries []Entry) error {
	members, err := s.members.List(ctx)
	if err != nil {
		return fmt.Errorf("list members: %w", err)
	}
	known := make(map[string]struct{}, len(members))
	for _, m := range members {
		known[m.ID] = struct{}{}
	}
	for _, e := range entries {
		if _, ok := known[e.MemberID]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownMember, e.MemberID)
		}
	}
	return nil
}

// resolve loads the session and checks it can take attendance.
func (s *Service) resolve(ctx context.Context, kind, id string) (models.Session, error) {
	sess := models.Session{ID: id, Kind: kind}
	if strings.TrimSpace(id) == "" {
		return sess, ErrMissingSession
	}
	switch kind {
	case models.SessionMeeting:
		m, err := s.meetings.Get(ctx, id)
		if err != nil {
			return sess, notFound(err)
		}
		if m.IsCancelled() {
			return m.Session(), ErrSessionCancelled
		}
		return m.Session(), nil
	case models.SessionEvent:
		e, err := s.events.Get(ctx, id)
		if err != nil {
			return sess, notFound(err)
		}
		return e.Session(), nil
	}
	return sess, ErrUnknownKind
}

func notFound(err error) error {
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrSessionNotFound
	}
	return err
}

// IsValidation reports whether err is one of this package's input errors.
func IsValidation(err error) bool {
	for _, v := range []error{ErrUnknownKind, ErrMissingSession, ErrSessionNotFound, ErrSessionCancelled, ErrMissingMember, ErrUnknownMember, ErrInvalidStatus} {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}
