package types

import (
	"time"

	"github.com/google/uuid"
)

// Position is the single simulated coordinate per user. Updates overwrite
// the previous row; no history is kept.
type Position struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    int64     `gorm:"uniqueIndex;not null;column:user_id" json:"user_id"`
	Latitude  float64   `gorm:"not null;column:latitude" json:"latitude"`
	Longitude float64   `gorm:"not null;column:longitude" json:"longitude"`
	Timestamp time.Time `gorm:"not null;column:timestamp" json:"timestamp"`
	Accuracy  float64   `gorm:"column:accuracy" json:"accuracy,omitempty"`
}

func (Position) TableName() string {
	return "positions"
}
