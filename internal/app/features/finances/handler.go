// internal/app/features/finances/handler.go
package finances

import (
	"time"

	"github.com/dalemusser/clubhub/internal/app/services/dues"
	"github.com/dalemusser/clubhub/internal/app/services/ledger"
	"github.com/dalemusser/clubhub/internal/app/system/docstore"
	"go.uber.org/zap"
)

// Handler serves the club ledger and the dues grid. Amounts in responses
// are integer cents; amounts in requests are decimals.
type Handler struct {
	Ledger *ledger.Service
	Dues   *dues.Service
	Log    *zap.Logger

	now func() time.Time
}

// NewHandler builds the finance services over ds. defaultRate (cents) is
// the dues rate until one is saved.
func NewHandler(ds docstore.Store, defaultRate int64, logger *zap.Logger) *Handler {
	return &Handler{
		Ledger: ledger.New(ds, logger),
		Dues:   dues.New(ds, defaultRate, logger),
		Log:    logger,
		now:    time.Now,
	}
}
