// internal/domain/models/attendance.go
package models

import "time"

// Attendance statuses.
const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceExcused = "excused"
)

// ValidAttendanceStatus reports whether s is one of the three statuses.
func ValidAttendanceStatus(s string) bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceExcused:
		return true
	}
	return false
}

// AttendanceRecord is one member's attendance at one session.
// The document id is AttendanceID(kind, sessionID, memberID), so there is at
// most one record per (member, session) and saving is a replace.
type AttendanceRecord struct {
	ID            string    `bson:"_id,omitempty" json:"id"`
	MemberID      string    `bson:"member_id" json:"member_id"`
	ReferenceID   string    `bson:"reference_id" json:"reference_id"`
	ReferenceKind string    `bson:"reference_kind" json:"reference_kind"`
	Status        string    `bson:"status" json:"status"`
	Note          string    `bson:"note" json:"note"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updated_at"`
}

// AttendanceID builds the deterministic attendance document id.
func AttendanceID(kind, sessionID, memberID string) string {
	return kind + "_" + sessionID + "_" + memberID
}
