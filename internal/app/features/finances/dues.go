// internal/app/features/finances/dues.go
package finances

import (
	"errors"
	"net/http"

	"github.com/dalemusser/clubhub/internal/app/services/dues"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/httpjson"
	"github.com/dalemusser/clubhub/internal/app/system/money"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// ServeDuesGrid handles GET /api/finances/dues?year=.
func (h *Handler) ServeDuesGrid(w http.ResponseWriter, r *http.Request) {
	year, ok := httpjson.IntParam(r, "year", h.now().Year())
	if !ok {
		httpjson.Error(w, http.StatusBadRequest, dues.ErrInvalidYear.Error())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "dues grid")
	defer cancel()

	grid, err := h.Dues.Grid(ctx, year)
	if dues.IsValidation(err) {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.Log.Error("dues grid failed", zap.Int("year", year), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load dues")
		return
	}
	httpjson.Write(w, http.StatusOK, grid)
}

// HandleToggle handles POST /api/finances/dues/toggle. The response is the
// cell's state after the toggle; on failure the client should re-read the
// grid rather than trust its own checkbox.
func (h *Handler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	var in toggleInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if in.Month == nil {
		httpjson.Error(w, http.StatusBadRequest, dues.ErrInvalidMonth.Error())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "toggle dues")
	defer cancel()

	res, err := h.Dues.TogglePayment(ctx, in.MemberID, *in.Month, in.Year)
	switch {
	case err == nil:
		httpjson.Write(w, http.StatusOK, res)
	case errors.Is(err, dues.ErrMemberNotFound):
		httpjson.Error(w, http.StatusNotFound, err.Error())
	case dues.IsValidation(err):
		httpjson.Error(w, http.StatusBadRequest, err.Error())
	default:
		httpjson.Error(w, http.StatusInternalServerError, "dues payment could not be updated")
	}
}

// ServeRate handles GET /api/finances/dues/rate.
func (h *Handler) ServeRate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "dues rate")
	defer cancel()

	rate, err := h.Dues.Rate(ctx)
	if err != nil {
		h.Log.Error("load dues rate failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load dues rate")
		return
	}
	httpjson.Write(w, http.StatusOK, rateResponse{Rate: rate, Display: money.Format(rate)})
}

// HandleSetRate handles PUT /api/finances/dues/rate with {"rate": 20.00}.
// Payments already recorded keep their amounts.
func (h *Handler) HandleSetRate(w http.ResponseWriter, r *http.Request) {
	var in rateInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	cents, err := money.ParseCents(string(in.Rate))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, dues.ErrInvalidRate.Error())
		return
	}

	by := ""
	if u, ok := auth.CurrentUser(r); ok {
		by = u.Email
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "set dues rate")
	defer cancel()

	if err := h.Dues.SetRate(ctx, cents, by); err != nil {
		if dues.IsValidation(err) {
			httpjson.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		httpjson.Error(w, http.StatusInternalServerError, "could not save dues rate")
		return
	}
	httpjson.Write(w, http.StatusOK, rateResponse{Rate: cents, Display: money.Format(cents)})
}
