// Package attendance serves the attendance sheet of a meeting or event.
// Meetings and events mount the same handlers under /{id}/roster.
package attendance

import (
	"errors"
	"net/http"

	"github.com/dalemusser/clubhub/internal/app/services/roster"
	"github.com/dalemusser/clubhub/internal/app/system/docstore"
	"github.com/dalemusser/clubhub/internal/app/system/httpjson"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Roster *roster.Service
	Log    *zap.Logger
}

func NewHandler(ds docstore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Roster: roster.New(ds, logger),
		Log:    logger,
	}
}

// saveRequest is the PUT body. MarkAll, when set, overrides the status of
// every entry before saving.
type saveRequest struct {
	Entries []roster.Entry `json:"entries"`
	MarkAll string         `json:"mark_all,omitempty"`
}

type saveResponse struct {
	Saved int    `json:"saved"`
	Total int    `json:"total"`
	Error string `json:"error,omitempty"`
}

// Open returns the GET handler for the roster of kind's {id}.
func (h *Handler) Open(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "open roster")
		defer cancel()

		ros, err := h.Roster.OpenRoster(ctx, kind, id)
		if err != nil {
			writeError(w, err)
			return
		}
		httpjson.Write(w, http.StatusOK, ros)
	}
}

// Save returns the PUT handler for the roster of kind's {id}.
func (h *Handler) Save(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req saveRequest
		if err := httpjson.Decode(w, r, &req); err != nil {
			httpjson.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		if req.MarkAll != "" {
			marked, err := roster.MarkAll(roster.Roster{Entries: req.Entries}, req.MarkAll)
			if err != nil {
				writeError(w, err)
				return
			}
			req.Entries = marked.Entries
		}

		ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "save roster")
		defer cancel()

		n, err := h.Roster.SaveRoster(ctx, kind, id, req.Entries)
		var pw *roster.PartialWriteError
		if errors.As(err, &pw) {
			httpjson.Write(w, http.StatusInternalServerError, saveResponse{
				Saved: pw.Written,
				Total: pw.Total,
				Error: "attendance was only partly saved; save again to finish",
			})
			return
		}
		if err != nil {
			writeError(w, err)
			return
		}
		httpjson.Write(w, http.StatusOK, saveResponse{Saved: n, Total: len(req.Entries)})
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, roster.ErrSessionNotFound):
		httpjson.Error(w, http.StatusNotFound, err.Error())
	case roster.IsValidation(err):
		httpjson.Error(w, http.StatusBadRequest, err.Error())
	default:
		httpjson.Error(w, http.StatusInternalServerError, "attendance could not be processed")
	}
}
