package model

import (
	"time"

	"github.com/google/uuid"
)

// Alert records that a user was notified about an activity. The pair
// (user_id, activity_id) is unique; display fields are denormalized at
// creation time so the in-app alert list never re-joins activities.
// Rows are only ever inserted by this service; is_read is managed by the app.
type Alert struct {
	ID               uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID           uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_alerts_user_activity"`
	ActivityID       uuid.UUID  `json:"activity_id" gorm:"type:uuid;not null;uniqueIndex:idx_alerts_user_activity"`
	ActivityTitle    string     `json:"activity_title" gorm:"size:255"`
	ActivityDate     *time.Time `json:"activity_date" gorm:"type:timestamptz"`
	PlaceName        *string    `json:"place_name" gorm:"size:255"`
	FormattedAddress *string    `json:"formatted_address" gorm:"size:500"`
	SportName        *string    `json:"sport_name" gorm:"size:100"`
	IsRead           bool       `json:"is_read" gorm:"default:false"`
	CreatedAt        time.Time  `json:"created_at"`
}

// TableName binds to the existing production table
func (Alert) TableName() string { return "alerts" }
