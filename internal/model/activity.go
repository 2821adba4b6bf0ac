package model

import (
	"time"

	"github.com/google/uuid"
)

// Activity represents a sports activity created in the app. This service
// only reads activities; creation and editing live in the main backend.
type Activity struct {
	ID               uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title            string     `json:"title" gorm:"size:255"`
	Date             *time.Time `json:"date" gorm:"type:timestamptz"`
	RegionID         *int64     `json:"region_id" gorm:"index"`
	ComunaID         *int64     `json:"comuna_id" gorm:"index"`
	SportID          *string    `json:"sport_id" gorm:"type:uuid;index"`
	PlaceName        *string    `json:"place_name" gorm:"size:255"`
	FormattedAddress *string    `json:"formatted_address" gorm:"size:500"`
	CreatorID        *uuid.UUID `json:"creator_id" gorm:"type:uuid;index"`
	CreatedAt        time.Time  `json:"created_at"`
}

// TableName binds to the existing production table
func (Activity) TableName() string { return "actividades" }

// HasLocation reports whether the activity carries at least one of
// region/comuna, the minimum needed to resolve an audience
func (a *Activity) HasLocation() bool {
	return a.RegionID != nil || a.ComunaID != nil
}
