// internal/app/features/events/events.go
package events

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/clubhub/internal/app/system/docstore"
	"github.com/dalemusser/clubhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/clubhub/internal/app/system/httpjson"
	"github.com/dalemusser/clubhub/internal/app/system/inputval"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type eventInput struct {
	Name         string `json:"name" validate:"required,max=200" label:"Name"`
	Date         string `json:"date" validate:"required,ymd" label:"Date"`
	Venue        string `json:"venue" validate:"max=200" label:"Venue"`
	Partnerships string `json:"partnerships" validate:"max=500" label:"Partnerships"`
	Description  string `json:"description" validate:"max=2000" label:"Description"`
}

func decodeEvent(w http.ResponseWriter, r *http.Request) (models.Event, bool) {
	var in eventInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return models.Event{}, false
	}
	in.Name = htmlsanitize.Text(in.Name)
	in.Date = strings.TrimSpace(in.Date)
	if res := inputval.Validate(in); res.HasErrors() {
		httpjson.Error(w, http.StatusBadRequest, res.First())
		return models.Event{}, false
	}
	return models.Event{
		Name:         in.Name,
		Date:         in.Date,
		Venue:        htmlsanitize.Text(in.Venue),
		Partnerships: htmlsanitize.Text(in.Partnerships),
		Description:  htmlsanitize.Text(in.Description),
	}, true
}

// ServeList handles GET /api/events, newest first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list events")
	defer cancel()

	list, err := h.Events.List(ctx)
	if err != nil {
		h.Log.Error("list events failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load events")
		return
	}
	if list == nil {
		list = []models.Event{}
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"events": list})
}

// HandleCreate handles POST /api/events.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	e, ok := decodeEvent(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create event")
	defer cancel()

	created, err := h.Events.Create(ctx, e)
	if err != nil {
		h.Log.Error("create event failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not save event")
		return
	}
	h.Log.Info("event created", zap.String("event_id", created.ID))
	httpjson.Write(w, http.StatusCreated, created)
}

// HandleUpdate handles PUT /api/events/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	e, ok := decodeEvent(w, r)
	if !ok {
		return
	}
	e.ID = id

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update event")
	defer cancel()

	updated, err := h.Events.Update(ctx, e)
	if errors.Is(err, docstore.ErrNotFound) {
		httpjson.Error(w, http.StatusNotFound, "event not found")
		return
	}
	if err != nil {
		h.Log.Error("update event failed", zap.String("event_id", id), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not save event")
		return
	}
	httpjson.Write(w, http.StatusOK, updated)
}

// HandleDelete handles DELETE /api/events/{id} along with the event's
// attendance records.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "delete event")
	defer cancel()

	var removed int
	err := h.Store.Atomic(ctx, func(ctx context.Context) error {
		if err := h.Events.Delete(ctx, id); err != nil {
			return err
		}
		n, err := h.Records.DeleteForSession(ctx, models.SessionEvent, id)
		removed = n
		return err
	})
	if err != nil {
		h.Log.Error("delete event failed", zap.String("event_id", id), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not delete event")
		return
	}
	h.Log.Info("event deleted", zap.String("event_id", id), zap.Int("attendance_removed", removed))
	w.WriteHeader(http.StatusNoContent)
}
