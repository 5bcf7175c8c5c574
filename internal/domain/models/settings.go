// internal/domain/models/settings.go
package models

import "time"

// SettingsID is the fixed id of the singleton settings document.
const SettingsID = "config"

// DefaultDuesRate is the monthly dues amount in cents used until a director
// sets one.
const DefaultDuesRate int64 = 1500

// Settings is the club-wide configuration document.
type Settings struct {
	ID        string     `bson:"_id,omitempty" json:"-"`
	DuesRate  int64      `bson:"dues_rate" json:"dues_rate"` // cents per member per month
	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
	UpdatedBy string     `bson:"updated_by,omitempty" json:"updated_by,omitempty"`
}
