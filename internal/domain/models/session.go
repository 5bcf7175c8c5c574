// internal/domain/models/session.go
package models

import "time"

// Session kinds. The kind doubles as the attendance reference discriminator
// and as the prefix of attendance document ids.
const (
	SessionMeeting = "meeting"
	SessionEvent   = "event"
)

// Meeting kinds. A cancelled meeting is a calendar marker only: it never
// takes attendance and is excluded from statistics.
const (
	MeetingRegular   = "regular"
	MeetingCancelled = "cancelled"
)

// Meeting statuses.
const (
	MeetingPending   = "pending"
	MeetingCompleted = "completed"
	MeetingNotHeld   = "cancelled"
)

// Session is the part of a meeting or event that attendance cares about.
type Session struct {
	ID   string `json:"id"`
	Kind string `json:"kind"` // SessionMeeting | SessionEvent
	Date string `json:"date"` // YYYY-MM-DD
}

// Meeting is a dated club meeting.
type Meeting struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Date        string    `bson:"date" json:"date"` // YYYY-MM-DD
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Kind        string    `bson:"kind" json:"kind"`
	Status      string    `bson:"status" json:"status"`
	Reason      string    `bson:"reason,omitempty" json:"reason,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

// IsCancelled reports whether the meeting was marked as not happening.
func (m Meeting) IsCancelled() bool {
	return m.Kind == MeetingCancelled
}

// Session returns the attendance view of the meeting.
func (m Meeting) Session() Session {
	return Session{ID: m.ID, Kind: SessionMeeting, Date: m.Date}
}

// Event is a dated club event (service project, outing, partnership).
type Event struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Date         string    `bson:"date" json:"date"` // YYYY-MM-DD
	Venue        string    `bson:"venue,omitempty" json:"venue,omitempty"`
	Partnerships string    `bson:"partnerships,omitempty" json:"partnerships,omitempty"`
	Description  string    `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}

// Session returns the attendance view of the event.
func (e Event) Session() Session {
	return Session{ID: e.ID, Kind: SessionEvent, Date: e.Date}
}
