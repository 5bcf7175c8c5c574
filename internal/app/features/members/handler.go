// internal/app/features/members/handler.go
package members

import (
	"time"

	memberstore "github.com/dalemusser/clubhub/internal/app/store/members"
	"github.com/dalemusser/clubhub/internal/app/system/docstore"
	"go.uber.org/zap"
)

// Handler is the feature-level handler for Members.
// It holds the document store, member store, and logger provided by
// DBDeps / Startup.
type Handler struct {
	Store   docstore.Store
	Log     *zap.Logger
	Members *memberstore.Store

	now func() time.Time
}

func NewHandler(ds docstore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Store:   ds,
		Log:     logger,
		Members: memberstore.New(ds),
		now:     time.Now,
	}
}
