package model

// Sport is a catalog entry, read only for its display name
type Sport struct {
	ID   string `json:"id" gorm:"type:uuid;primaryKey"`
	Name string `json:"name" gorm:"size:100;not null"`
}

// TableName binds to the existing production table
func (Sport) TableName() string { return "deportes" }
