package repository

import (
	"github.com/teamup-cl/notify-api/internal/model"
	"gorm.io/gorm"
)

// SportRepository handles read access to the sports catalog
type SportRepository struct {
	db *gorm.DB
}

func NewSportRepository(db *gorm.DB) *SportRepository {
	return &SportRepository{db: db}
}

// FindNameByID returns the display name for a sport
func (r *SportRepository) FindNameByID(id string) (string, error) {
	var sport model.Sport
	err := r.db.Where("id = ?", id).First(&sport).Error
	if err != nil {
		return "", err
	}
	return sport.Name, nil
}
