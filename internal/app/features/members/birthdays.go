// internal/app/features/members/birthdays.go
package members

import (
	"net/http"
	"sort"
	"time"

	"github.com/dalemusser/clubhub/internal/app/system/dates"
	"github.com/dalemusser/clubhub/internal/app/system/httpjson"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"go.uber.org/zap"
)

type birthday struct {
	MemberID string `json:"member_id"`
	Name     string `json:"name"`
	Date     string `json:"date"` // this week's occurrence
}

// ServeBirthdays handles GET /api/members/birthdays: active members whose
// birthday falls in the current Sunday to Saturday week.
func (h *Handler) ServeBirthdays(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "member birthdays")
	defer cancel()

	members, err := h.Members.ListActive(ctx)
	if err != nil {
		h.Log.Error("list members for birthdays failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load members")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"birthdays": birthdaysInWeek(members, h.now())})
}

// birthdaysInWeek returns the members with a birthday in the week of now,
// in calendar order. A week spanning New Year checks each date against its
// own year; February 29 birthdays fall on March 1 in common years.
func birthdaysInWeek(members []models.Member, now time.Time) []birthday {
	start, end := dates.WeekBounds(now)
	out := []birthday{}
	for _, m := range members {
		bd, err := dates.Parse(m.Birthdate, now.Location())
		if err != nil {
			continue
		}
		for _, y := range []int{start.Year(), end.Year()} {
			d := time.Date(y, bd.Month(), bd.Day(), 0, 0, 0, 0, now.Location())
			if !d.Before(start) && !d.After(end) {
				out = append(out, birthday{MemberID: m.ID, Name: m.Name, Date: dates.Format(d)})
				break
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
