// internal/app/features/events/handler.go
package events

import (
	"github.com/dalemusser/clubhub/internal/app/features/attendance"
	attendancestore "github.com/dalemusser/clubhub/internal/app/store/attendance"
	eventstore "github.com/dalemusser/clubhub/internal/app/store/events"
	"github.com/dalemusser/clubhub/internal/app/system/docstore"
	"go.uber.org/zap"
)

// Handler serves club events and their attendance sheets.
type Handler struct {
	Store      docstore.Store
	Log        *zap.Logger
	Events     *eventstore.Store
	Records    *attendancestore.Store
	Attendance *attendance.Handler
}

func NewHandler(ds docstore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Store:      ds,
		Log:        logger,
		Events:     eventstore.New(ds),
		Records:    attendancestore.New(ds),
		Attendance: attendance.NewHandler(ds, logger),
	}
}
