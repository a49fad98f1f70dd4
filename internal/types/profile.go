package types

import "time"

type Profile struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       int64     `gorm:"uniqueIndex;not null;column:user_id" json:"user_id"`
	FirstName    string    `gorm:"size:100;column:first_name" json:"first_name"`
	LastName     string    `gorm:"size:100;column:last_name" json:"last_name"`
	ProfileImage string    `gorm:"column:profile_image" json:"profile_image"`
	Biography    string    `gorm:"type:text;column:biography" json:"biography"`
	Motto        string    `gorm:"column:motto" json:"motto"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}
