// internal/domain/models/member.go
package models

import "time"

// Member statuses. Removing someone from the roster flips the status to
// inactive; a hard delete also exists for outright removal.
const (
	MemberActive   = "active"
	MemberInactive = "inactive"
)

// DefaultMemberRole is assigned when a member is created without a role.
const DefaultMemberRole = "member"

// MemberRoles lists the club positions a member can hold.
var MemberRoles = []string{
	"president",
	"vice_president",
	"projects_director",
	"finance_director",
	"dqa_committee",
	"ri_committee",
	"public_image",
	"secretary",
	"member",
	"exchange_student",
}

// LanguageLevels lists the accepted proficiency levels.
var LanguageLevels = []string{"A1", "A2", "B1", "B2", "C1", "C2", "native"}

// Language is one (language, proficiency) pair on a member profile.
// Other holds the free-text name when Language is "other".
type Language struct {
	Language string `bson:"language" json:"language"`
	Level    string `bson:"level,omitempty" json:"level,omitempty"`
	Other    string `bson:"other,omitempty" json:"other,omitempty"`
}

// DisplayName returns Other for "other" entries, the language otherwise.
func (l Language) DisplayName() string {
	if l.Language == "other" && l.Other != "" {
		return l.Other
	}
	return l.Language
}

// Member is a club member.
type Member struct {
	ID     string `bson:"_id,omitempty" json:"id"`
	Name   string `bson:"name" json:"name"`
	NameCI string `bson:"name_ci" json:"-"` // lowercase, diacritics-stripped
	Status string `bson:"status" json:"status"`
	Role   string `bson:"role" json:"role"`

	Birthdate string `bson:"birthdate,omitempty" json:"birthdate,omitempty"` // YYYY-MM-DD
	Contact   string `bson:"contact,omitempty" json:"contact,omitempty"`

	GuardianName    string `bson:"guardian_name,omitempty" json:"guardian_name,omitempty"`
	GuardianContact string `bson:"guardian_contact,omitempty" json:"guardian_contact,omitempty"`

	School    string     `bson:"school,omitempty" json:"school,omitempty"`
	Languages []Language `bson:"languages,omitempty" json:"languages,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsActive reports whether the member is on the active roster.
func (m Member) IsActive() bool {
	return m.Status == MemberActive
}
