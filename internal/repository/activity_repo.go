package repository

import (
	"github.com/google/uuid"
	"github.com/teamup-cl/notify-api/internal/model"
	"gorm.io/gorm"
)

// ActivityRepository handles read access to activities
type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// FindByID finds an activity by UUID
func (r *ActivityRepository) FindByID(id uuid.UUID) (*model.Activity, error) {
	var activity model.Activity
	err := r.db.Where("id = ?", id).First(&activity).Error
	if err != nil {
		return nil, err
	}
	return &activity, nil
}
