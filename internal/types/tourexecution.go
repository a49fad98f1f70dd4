package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	ExecutionStatusActive    = "active"
	ExecutionStatusCompleted = "completed"
	ExecutionStatusAbandoned = "abandoned"
)

// TourExecution tracks one user's attempt at one tour from start to
// completion or abandonment. Rows are never deleted; completed and
// abandoned executions stay as the audit trail.
//
// At most one active execution may exist per user; the database enforces
// this with a partial unique index on (user_id) where status = 'active'
// in addition to the application-level check.
type TourExecution struct {
	ID                 uuid.UUID                              `gorm:"type:uuid;primaryKey" json:"id"`
	UserID             int64                                  `gorm:"index;not null;column:user_id" json:"user_id"`
	TourID             uuid.UUID                              `gorm:"type:uuid;index;not null;column:tour_id" json:"tour_id"`
	Status             string                                 `gorm:"size:20;not null;index;column:status" json:"status"`
	CurrentPosition    *TrackedPosition                       `gorm:"serializer:json;column:current_position" json:"current_position,omitempty"`
	CompletedKeypoints datatypes.JSONSlice[CompletedKeypoint] `gorm:"column:completed_keypoints" json:"completed_keypoints"`
	StartedAt          time.Time                              `gorm:"not null;index;column:started_at" json:"started_at"`
	CompletedAt        *time.Time                             `gorm:"column:completed_at" json:"completed_at,omitempty"`
	AbandonedAt        *time.Time                             `gorm:"column:abandoned_at" json:"abandoned_at,omitempty"`
	LastActivity       time.Time                              `gorm:"not null;column:last_activity" json:"last_activity"`

	// Version guards the read-compute-write cycle of a proximity check.
	// Concurrent checks serialize on it; the loser re-reads and retries.
	Version int64 `gorm:"not null;default:0;column:version" json:"-"`
}

func (TourExecution) TableName() string {
	return "tour_executions"
}

// TrackedPosition is the execution's snapshot of the user's last known
// coordinate, refreshed on start and on every proximity check.
type TrackedPosition struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
}

// CompletedKeypoint records where and when a keypoint was reached.
// KeypointIndex matches the tour keypoint's order value and appears at
// most once per execution.
type CompletedKeypoint struct {
	KeypointIndex int       `json:"keypoint_index"`
	CompletedAt   time.Time `json:"completed_at"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
}

// CompletedIndexSet returns the set of completed keypoint indices.
func (e *TourExecution) CompletedIndexSet() map[int]bool {
	set := make(map[int]bool, len(e.CompletedKeypoints))
	for _, ck := range e.CompletedKeypoints {
		set[ck.KeypointIndex] = true
	}
	return set
}
