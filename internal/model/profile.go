package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Profile represents a user profile with push settings. One row per user;
// the FCM token may be absent or stale.
type Profile struct {
	ID                uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	FCMToken          *string        `json:"fcm_token" gorm:"size:512"`
	PreferredSportIDs pq.StringArray `json:"preferred_sport_ids" gorm:"type:text[]"`
	NotifyNewActivity bool           `json:"notify_new_activity" gorm:"default:true"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// TableName binds to the existing production table
func (Profile) TableName() string { return "perfil" }

// PrefersSport reports whether sportID is in the profile's preferred set.
// Profiles with an empty set prefer nothing (strict opt-in).
func (p *Profile) PrefersSport(sportID string) bool {
	for _, id := range p.PreferredSportIDs {
		if id == sportID {
			return true
		}
	}
	return false
}

// UserPreferredLocation is one of a user's preferred zones. A user may have
// zero or more; only membership is derived from these rows.
type UserPreferredLocation struct {
	ID       int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID   uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	RegionID *int64    `json:"region_id" gorm:"index"`
	ComunaID *int64    `json:"comuna_id" gorm:"index"`
}

// TableName binds to the existing production table
func (UserPreferredLocation) TableName() string { return "user_preferred_locations" }
