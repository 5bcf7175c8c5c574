// internal/app/features/meetings/routes.go
package meetings

import (
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the meeting routes. Typically:
// r.Mount("/api/meetings", meetings.Routes(handler, sm))
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", h.ServeList)
		pr.Post("/", h.HandleCreate)
		pr.Delete("/{id}", h.HandleDelete)

		pr.Get("/{id}/roster", h.Attendance.Open(models.SessionMeeting))
		pr.Put("/{id}/roster", h.Attendance.Save(models.SessionMeeting))
	})

	return r
}
