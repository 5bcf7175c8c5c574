// internal/app/features/dashboard/handler.go
package dashboard

import (
	"net/http"
	"time"

	"github.com/dalemusser/clubhub/internal/app/services/stats"
	"github.com/dalemusser/clubhub/internal/app/system/docstore"
	"github.com/dalemusser/clubhub/internal/app/system/httpjson"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type Handler struct {
	Stats *stats.Service
	Log   *zap.Logger

	now func() time.Time
}

func NewHandler(ds docstore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Stats: stats.New(ds, logger),
		Log:   logger,
		now:   time.Now,
	}
}

// ServeDashboard handles GET /api/dashboard?month=&year=.
// month is zero-based; both default to the current month. Store failures
// still answer 200 with a stale or zero result.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	month, okM := httpjson.IntParam(r, "month", int(now.Month())-1)
	year, okY := httpjson.IntParam(r, "year", now.Year())
	if !okM || !okY || month < 0 || month > 11 || year < 1 {
		httpjson.Error(w, http.StatusBadRequest, "month must be 0-11 and year positive")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "dashboard stats")
	defer cancel()

	res := h.Stats.ComputeMonthlyStats(ctx, month, year)
	if res.Stale {
		h.Log.Warn("dashboard served stale statistics", zap.Int("month", month), zap.Int("year", year))
	}
	httpjson.Write(w, http.StatusOK, res)
}
