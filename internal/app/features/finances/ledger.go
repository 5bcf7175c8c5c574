// internal/app/features/finances/ledger.go
package finances

import (
	"errors"
	"net/http"

	"github.com/dalemusser/clubhub/internal/app/services/ledger"
	"github.com/dalemusser/clubhub/internal/app/system/httpjson"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ServeSummary handles GET /api/finances?month=&year= (month zero-based,
// both default to now). A store failure answers 200 with stale set.
func (h *Handler) ServeSummary(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	month, okM := httpjson.IntParam(r, "month", int(now.Month())-1)
	year, okY := httpjson.IntParam(r, "year", now.Year())
	if !okM || !okY || month < 0 || month > 11 || year < 1 {
		httpjson.Error(w, http.StatusBadRequest, "month must be 0-11 and year positive")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "finance summary")
	defer cancel()

	httpjson.Write(w, http.StatusOK, h.Ledger.MonthSummary(ctx, month, year))
}

// HandleAdd handles POST /api/finances with a manual income or expense.
func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var in entryInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "add finance entry")
	defer cancel()

	entry, err := h.Ledger.AddManualEntry(ctx, ledger.NewEntry{
		Kind:        in.Kind,
		Amount:      string(in.Amount),
		Description: in.Description,
		Category:    in.Category,
		OtherDetail: in.OtherDetail,
		Date:        in.Date,
	})
	if ledger.IsValidation(err) {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.Log.Error("add finance entry failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not save entry")
		return
	}
	httpjson.Write(w, http.StatusCreated, entry)
}

// HandleDelete handles DELETE /api/finances/{id}. Dues entries answer 409:
// they are removed by un-marking the dues grid.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "delete finance entry")
	defer cancel()

	err := h.Ledger.DeleteEntry(ctx, id)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, ledger.ErrDuesManaged):
		httpjson.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, ledger.ErrEntryNotFound):
		httpjson.Error(w, http.StatusNotFound, err.Error())
	default:
		h.Log.Error("delete finance entry failed", zap.String("id", id), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not delete entry")
	}
}
