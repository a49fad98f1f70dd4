package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	TourStatusDraft     = "draft"
	TourStatusPublished = "published"
	TourStatusArchived  = "archived"
)

type Tour struct {
	ID             uuid.UUID                           `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string                              `gorm:"size:100;not null;column:name" json:"name"`
	Description    string                              `gorm:"type:text;not null;column:description" json:"description"`
	AuthorID       int64                               `gorm:"index;not null;column:author_id" json:"author_id"`
	Status         string                              `gorm:"size:20;not null;index;column:status" json:"status"`
	Difficulty     string                              `gorm:"size:20;not null;column:difficulty" json:"difficulty"` // easy, medium, hard
	Price          float64                             `gorm:"not null;default:0;column:price" json:"price"`
	DistanceKm     float64                             `gorm:"not null;default:0;column:distance_km" json:"distance_km"`
	Tags           datatypes.JSONSlice[string]         `json:"tags"`
	Keypoints      datatypes.JSONSlice[Keypoint]       `json:"keypoints"`
	TransportTimes datatypes.JSONSlice[TransportTime]  `json:"transport_times"`
	Reviews        datatypes.JSONSlice[Review]         `json:"reviews"`
	CreatedAt      time.Time                           `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time                           `gorm:"not null" json:"updated_at"`
	PublishedAt    *time.Time                          `gorm:"column:published_at" json:"published_at,omitempty"`
	ArchivedAt     *time.Time                          `gorm:"column:archived_at" json:"archived_at,omitempty"`
}

func (Tour) TableName() string {
	return "tours"
}

// Keypoint is an ordered, geolocated waypoint of a tour. Order is the
// 0-based position in the keypoint list and doubles as the keypoint's
// identity in completed_keypoints records.
type Keypoint struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	Images      []string `json:"images"`
	Order       int      `json:"order"`
}

type Review struct {
	UserID    int64     `json:"user_id"`
	Rating    int       `json:"rating"` // 1-5
	Comment   string    `json:"comment"`
	VisitDate time.Time `json:"visit_date"`
	CreatedAt time.Time `json:"created_at"`
	Images    []string  `json:"images"`
}

type TransportTime struct {
	TransportType   string `json:"transport_type"` // walking, bicycle, car
	DurationMinutes int    `json:"duration_minutes"`
}
