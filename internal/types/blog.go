package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Blog struct {
	ID          uuid.UUID                     `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string                        `gorm:"size:200;not null;column:title" json:"title"`
	Description string                        `gorm:"type:text;not null;column:description" json:"description"`
	AuthorID    int64                         `gorm:"index;not null;column:author_id" json:"author_id"`
	Images      datatypes.JSONSlice[string]   `json:"images"`
	Likes       datatypes.JSONSlice[int64]    `json:"likes"`
	Comments    datatypes.JSONSlice[Comment]  `json:"comments"`
	CreatedAt   time.Time                     `gorm:"not null;index" json:"created_at"`
	UpdatedAt   time.Time                     `gorm:"not null" json:"updated_at"`
}

func (Blog) TableName() string {
	return "blogs"
}

type Comment struct {
	UserID    int64     `json:"user_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
