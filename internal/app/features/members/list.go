// internal/app/features/members/list.go
package members

import (
	"net/http"

	"github.com/dalemusser/clubhub/internal/app/system/httpjson"
	"github.com/dalemusser/clubhub/internal/app/system/search"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.uber.org/zap"
)

type listResponse struct {
	Members []models.Member `json:"members"`
	Active  int             `json:"active"`
	Total   int             `json:"total"`
}

// ServeList handles GET /api/members?q=&status=.
// q matches name or role ignoring case and accents; status is active,
// inactive or empty for all. Active and Total count the unfiltered roster.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list members")
	defer cancel()

	all, err := h.Members.List(ctx)
	if err != nil {
		h.Log.Error("list members failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load members")
		return
	}

	q := search.Normalize(query.Get(r, "q"))
	status := search.StatusFilter(query.Get(r, "status"), models.MemberActive, models.MemberInactive)

	resp := listResponse{Members: []models.Member{}, Total: len(all)}
	for _, m := range all {
		if m.IsActive() {
			resp.Active++
		}
		if status != "" && m.Status != status {
			continue
		}
		if !search.Matches(q, m.Name, m.Role) {
			continue
		}
		resp.Members = append(resp.Members, m)
	}

	httpjson.Write(w, http.StatusOK, resp)
}
