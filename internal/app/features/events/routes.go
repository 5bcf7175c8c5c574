// internal/app/features/events/routes.go
package events

import (
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the event routes. Typically:
// r.Mount("/api/events", events.Routes(handler, sm))
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", h.ServeList)
		pr.Post("/", h.HandleCreate)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Delete("/{id}", h.HandleDelete)

		pr.Get("/{id}/roster", h.Attendance.Open(models.SessionEvent))
		pr.Put("/{id}/roster", h.Attendance.Save(models.SessionEvent))
	})

	return r
}
