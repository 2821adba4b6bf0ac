package repository

import (
	"github.com/google/uuid"
	"github.com/teamup-cl/notify-api/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AlertRepository handles the notification dedup ledger
type AlertRepository struct {
	db *gorm.DB
}

func NewAlertRepository(db *gorm.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

// AlertedUserIDs returns which of userIDs already hold an alert row for the
// activity
func (r *AlertRepository) AlertedUserIDs(activityID uuid.UUID, userIDs []uuid.UUID) ([]uuid.UUID, error) {
	var alerted []uuid.UUID
	if len(userIDs) == 0 {
		return alerted, nil
	}
	err := r.db.Model(&model.Alert{}).
		Where("activity_id = ? AND user_id IN ?", activityID, userIDs).
		Pluck("user_id", &alerted).Error
	return alerted, err
}

// CreateBatch inserts alert rows. Conflicts on (user_id, activity_id) are
// ignored so concurrent invocations for the same activity cannot duplicate
// rows.
func (r *AlertRepository) CreateBatch(alerts []model.Alert) error {
	if len(alerts) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "activity_id"}},
		DoNothing: true,
	}).Create(&alerts).Error
}
