package types

import "time"

type UserToken struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       int64     `gorm:"index;not null;column:user_id" json:"user_id"`
	AccessToken  string    `gorm:"uniqueIndex;size:512;not null;column:access_token" json:"access_token"`
	RefreshToken string    `gorm:"uniqueIndex;size:64;not null;column:refresh_token" json:"refresh_token"`
	ExpiresAt    time.Time `gorm:"column:expires_at" json:"expires_at"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

func (UserToken) TableName() string {
	return "user_tokens"
}
