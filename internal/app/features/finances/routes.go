// internal/app/features/finances/routes.go
package finances

import (
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the ledger and dues routes. Typically:
// r.Mount("/api/finances", finances.Routes(handler, sm))
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", h.ServeSummary)
		pr.Post("/", h.HandleAdd)
		pr.Delete("/{id}", h.HandleDelete)

		pr.Get("/dues", h.ServeDuesGrid)
		pr.Post("/dues/toggle", h.HandleToggle)
		pr.Get("/dues/rate", h.ServeRate)
		pr.Put("/dues/rate", h.HandleSetRate)
	})

	return r
}
