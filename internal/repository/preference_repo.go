package repository

import (
	"github.com/google/uuid"
	"github.com/teamup-cl/notify-api/internal/model"
	"gorm.io/gorm"
)

// PreferenceRepository handles read access to user location preferences
type PreferenceRepository struct {
	db *gorm.DB
}

func NewPreferenceRepository(db *gorm.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// UserIDsByComuna returns the users who prefer the given comuna
func (r *PreferenceRepository) UserIDsByComuna(comunaID int64) ([]uuid.UUID, error) {
	var userIDs []uuid.UUID
	err := r.db.Model(&model.UserPreferredLocation{}).
		Where("comuna_id = ?", comunaID).
		Pluck("user_id", &userIDs).Error
	return userIDs, err
}

// UserIDsByRegion returns the users who prefer the given region
func (r *PreferenceRepository) UserIDsByRegion(regionID int64) ([]uuid.UUID, error) {
	var userIDs []uuid.UUID
	err := r.db.Model(&model.UserPreferredLocation{}).
		Where("region_id = ?", regionID).
		Pluck("user_id", &userIDs).Error
	return userIDs, err
}
