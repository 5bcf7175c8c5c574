// internal/app/features/meetings/meetings.go
package meetings

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/clubhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/clubhub/internal/app/system/httpjson"
	"github.com/dalemusser/clubhub/internal/app/system/inputval"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type meetingInput struct {
	Date        string `json:"date" validate:"required,ymd" label:"Date"`
	Description string `json:"description" validate:"max=500" label:"Description"`
	// Cancelled records a date on which the club did not meet.
	Cancelled bool   `json:"cancelled"`
	Reason    string `json:"reason" validate:"max=500" label:"Reason"`
}

// ServeList handles GET /api/meetings, newest first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list meetings")
	defer cancel()

	list, err := h.Meetings.List(ctx)
	if err != nil {
		h.Log.Error("list meetings failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load meetings")
		return
	}
	if list == nil {
		list = []models.Meeting{}
	}
	held := 0
	for _, m := range list {
		if !m.IsCancelled() {
			held++
		}
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"meetings": list, "regular": held})
}

// HandleCreate handles POST /api/meetings. A regular meeting starts
// pending; a cancelled one is a calendar marker with a reason.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in meetingInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	in.Date = strings.TrimSpace(in.Date)
	if res := inputval.Validate(in); res.HasErrors() {
		httpjson.Error(w, http.StatusBadRequest, res.First())
		return
	}

	m := models.Meeting{
		Date:        in.Date,
		Description: htmlsanitize.Text(in.Description),
		Kind:        models.MeetingRegular,
	}
	if in.Cancelled {
		m.Kind = models.MeetingCancelled
		m.Reason = htmlsanitize.Text(in.Reason)
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create meeting")
	defer cancel()

	created, err := h.Meetings.Create(ctx, m)
	if err != nil {
		h.Log.Error("create meeting failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not save meeting")
		return
	}
	h.Log.Info("meeting created", zap.String("meeting_id", created.ID), zap.String("kind", created.Kind))
	httpjson.Write(w, http.StatusCreated, created)
}

// HandleDelete handles DELETE /api/meetings/{id}. The meeting's attendance
// records go with it.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "delete meeting")
	defer cancel()

	var removed int
	err := h.Store.Atomic(ctx, func(ctx context.Context) error {
		if err := h.Meetings.Delete(ctx, id); err != nil {
			return err
		}
		n, err := h.Records.DeleteForSession(ctx, models.SessionMeeting, id)
		removed = n
		return err
	})
	if err != nil {
		h.Log.Error("delete meeting failed", zap.String("meeting_id", id), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not delete meeting")
		return
	}
	h.Log.Info("meeting deleted", zap.String("meeting_id", id), zap.Int("attendance_removed", removed))
	w.WriteHeader(http.StatusNoContent)
}
