// internal/app/features/meetings/handler.go
package meetings

import (
	"github.com/dalemusser/clubhub/internal/app/features/attendance"
	attendancestore "github.com/dalemusser/clubhub/internal/app/store/attendance"
	meetingstore "github.com/dalemusser/clubhub/internal/app/store/meetings"
	"github.com/dalemusser/clubhub/internal/app/system/docstore"
	"go.uber.org/zap"
)

// Handler serves the meeting calendar and, through Attendance, the
// attendance sheet of each meeting.
type Handler struct {
	Store      docstore.Store
	Log        *zap.Logger
	Meetings   *meetingstore.Store
	Records    *attendancestore.Store
	Attendance *attendance.Handler
}

func NewHandler(ds docstore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Store:      ds,
		Log:        logger,
		Meetings:   meetingstore.New(ds),
		Records:    attendancestore.New(ds),
		Attendance: attendance.NewHandler(ds, logger),
	}
}
