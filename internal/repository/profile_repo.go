package repository

import (
	"github.com/google/uuid"
	"github.com/teamup-cl/notify-api/internal/model"
	"gorm.io/gorm"
)

// ProfileRepository handles read access to user profiles
type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// FindNotifiable returns the profiles among userIDs that opted in to
// new-activity notifications. Sport and creator filtering happen in the
// service layer.
func (r *ProfileRepository) FindNotifiable(userIDs []uuid.UUID) ([]model.Profile, error) {
	var profiles []model.Profile
	if len(userIDs) == 0 {
		return profiles, nil
	}
	err := r.db.
		Where("id IN ? AND notify_new_activity = ?", userIDs, true).
		Find(&profiles).Error
	return profiles, err
}
