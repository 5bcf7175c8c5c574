// internal/app/features/members/edit.go
package members

import (
	"errors"
	"net/http"

	"github.com/dalemusser/clubhub/internal/app/system/docstore"
	"github.com/dalemusser/clubhub/internal/app/system/httpjson"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// HandleCreate handles POST /api/members.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in memberInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	m, err := in.toMember()
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create member")
	defer cancel()

	created, err := h.Members.Create(ctx, m)
	if err != nil {
		h.Log.Error("create member failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not save member")
		return
	}
	h.Log.Info("member created", zap.String("member_id", created.ID))
	httpjson.Write(w, http.StatusCreated, created)
}

// HandleUpdate handles PUT /api/members/{id}. An empty status or role keeps
// the stored value.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var in memberInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	m, err := in.toMember()
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	m.ID = id

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update member")
	defer cancel()

	updated, err := h.Members.Update(ctx, m)
	if errors.Is(err, docstore.ErrNotFound) {
		httpjson.Error(w, http.StatusNotFound, "member not found")
		return
	}
	if err != nil {
		h.Log.Error("update member failed", zap.String("member_id", id), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not save member")
		return
	}
	httpjson.Write(w, http.StatusOK, updated)
}

// HandleDeactivate handles POST /api/members/{id}/deactivate. The member
// leaves the active roster; past attendance and payments are kept.
func (h *Handler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "deactivate member")
	defer cancel()

	err := h.Members.SetStatus(ctx, id, models.MemberInactive)
	if errors.Is(err, docstore.ErrNotFound) {
		httpjson.Error(w, http.StatusNotFound, "member not found")
		return
	}
	if err != nil {
		h.Log.Error("deactivate member failed", zap.String("member_id", id), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not update member")
		return
	}
	h.Log.Info("member deactivated", zap.String("member_id", id))
	w.WriteHeader(http.StatusNoContent)
}

// HandleDelete handles DELETE /api/members/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "delete member")
	defer cancel()

	if err := h.Members.Delete(ctx, id); err != nil {
		h.Log.Error("delete member failed", zap.String("member_id", id), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not delete member")
		return
	}
	h.Log.Info("member deleted", zap.String("member_id", id))
	w.WriteHeader(http.StatusNoContent)
}
