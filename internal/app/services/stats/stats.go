// Package stats computes the monthly attendance summary shown on the
// dashboard.
package stats

import (
	"context"
	"math"
	"strings"
	"sync"

	attendancestore "github.com/dalemusser/clubhub/internal/app/store/attendance"
	eventstore "github.com/dalemusser/clubhub/internal/app/store/events"
	meetingstore "github.com/dalemusser/clubhub/internal/app/store/meetings"
	memberstore "github.com/dalemusser/clubhub/internal/app/store/members"
	"github.com/dalemusser/clubhub/internal/app/system/dates"
	"github.com/dalemusser/clubhub/internal/app/system/docstore"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// MemberStats is one member's line in the monthly chart.
type MemberStats struct {
	MemberID   string `json:"member_id"`
	Name       string `json:"name"`
	Label      string `json:"label"` // first name
	PresentPct int    `json:"present_pct"`
	ExcusedPct int    `json:"excused_pct"`
}

// MonthlyStats is the dashboard summary for one month (0-11) of a year.
type MonthlyStats struct {
	Month        int           `json:"month"`
	Year         int           `json:"year"`
	MeetingCount int           `json:"meeting_count"`
	EventCount   int           `json:"event_count"`
	PerMember    []MemberStats `json:"per_member"`
	AveragePct   int           `json:"average_pct"`
	Loading      bool          `json:"loading"`
	// Stale is set when the store could not be read and the result is the
	// last good one for the period (or zero).
	Stale bool `json:"stale"`
}

type period struct{ month, year int }

// Service computes monthly statistics.
type Service struct {
	members    *memberstore.Store
	meetings   *meetingstore.Store
	events     *eventstore.Store
	attendance *attendancestore.Store
	log        *zap.Logger
	tracer     trace.Tracer

	mu   sync.Mutex
	last map[period]MonthlyStats
}

// New creates a stats service over ds.
func New(ds docstore.Store, logger *zap.Logger) *Service {
	return &Service{
		members:    memberstore.New(ds),
		meetings:   meetingstore.New(ds),
		events:     eventstore.New(ds),
		attendance: attendancestore.New(ds),
		log:        logger,
		tracer:     otel.Tracer("clubhub/stats"),
		last:       make(map[period]MonthlyStats),
	}
}

// ComputeMonthlyStats joins members, sessions and attendance for the
// period. It never returns an error: when a read fails the failure is
// logged and the previous result for the period (or a zero result) is
// returned with Stale set.
func (s *Service) ComputeMonthlyStats(ctx context.Context, month, year int) MonthlyStats {
	ctx, span := s.tracer.Start(ctx, "stats.compute_monthly",
		trace.WithAttributes(
			attribute.Int("period.month", month),
			attribute.Int("period.year", year),
		))
	defer span.End()

	var (
		members    []models.Member
		meetings   []models.Meeting
		events     []models.Event
		attendance []models.AttendanceRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { members, err = s.members.ListActive(gctx); return })
	g.Go(func() (err error) { meetings, err = s.meetings.List(gctx); return })
	g.Go(func() (err error) { events, err = s.events.List(gctx); return })
	g.Go(func() (err error) { attendance, err = s.attendance.All(gctx); return })

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("stats.stale", true))
		s.log.Error("compute monthly stats failed",
			zap.Int("month", month),
			zap.Int("year", year),
			zap.Error(err))
		return s.previous(month, year)
	}

	out := Compute(month, year, members, meetings, events, attendance)
	span.SetAttributes(
		attribute.Int("stats.meetings", out.MeetingCount),
		attribute.Int("stats.events", out.EventCount),
		attribute.Int("stats.members", len(out.PerMember)),
	)

	s.mu.Lock()
	s.last[period{month, year}] = out
	s.mu.Unlock()
	return out
}

func (s *Service) previous(month, year int) MonthlyStats {
	s.mu.Lock()
	prev, ok := s.last[period{month, year}]
	s.mu.Unlock()
	if !ok {
		prev = MonthlyStats{Month: month, Year: year, PerMember: []MemberStats{}}
	}
	prev.Loading = false
	prev.Stale = true
	return prev
}

// Compute is the pure join behind ComputeMonthlyStats. members must already
// be the active roster in display order.
func Compute(month, year int, members []models.Member, meetings []models.Meeting, events []models.Event, attendance []models.AttendanceRecord) MonthlyStats {
	sessions := make(map[string]struct{})
	meetingCount := 0
	for _, m := range meetings {
		if m.IsCancelled() || !dates.InMonth(m.Date, month, year) {
			continue
		}
		meetingCount++
		sessions[m.ID] = struct{}{}
	}
	eventCount := 0
	for _, e := range events {
		if !dates.InMonth(e.Date, month, year) {
			continue
		}
		eventCount++
		sessions[e.ID] = struct{}{}
	}
	total := meetingCount + eventCount

	type tally struct{ present, excused int }
	counts := make(map[string]*tally, len(members))
	for _, m := range members {
		counts[m.ID] = &tally{}
	}
	for _, a := range attendance {
		if _, ok := sessions[a.ReferenceID]; !ok {
			continue
		}
		c, ok := counts[a.MemberID]
		if !ok {
			continue
		}
		switch a.Status {
		case models.AttendancePresent:
			c.present++
		case models.AttendanceExcused:
			c.excused++
		}
	}

	out := MonthlyStats{
		Month:        month,
		Year:         year,
		MeetingCount: meetingCount,
		EventCount:   eventCount,
		PerMember:    make([]MemberStats, 0, len(members)),
	}
	sum := 0
	for _, m := range members {
		c := counts[m.ID]
		ms := MemberStats{
			MemberID:   m.ID,
			Name:       m.Name,
			Label:      FirstName(m.Name),
			PresentPct: pct(c.present, total),
			ExcusedPct: pct(c.excused, total),
		}
		// Excused sessions count as attended for the club average.
		sum += ms.PresentPct + ms.ExcusedPct
		out.PerMember = append(out.PerMember, ms)
	}
	if len(members) > 0 {
		out.AveragePct = round(float64(sum) / float64(len(members)))
	}
	return out
}

// FirstName returns the first whitespace-delimited token of name.
func FirstName(name string) string {
	if f := strings.Fields(name); len(f) > 0 {
		return f[0]
	}
	return ""
}

func pct(n, total int) int {
	if total == 0 {
		return 0
	}
	return round(100 * float64(n) / float64(total))
}

// round rounds halves up.
func round(v float64) int {
	return int(math.Floor(v + 0.5))
}
