package types

import "time"

// PurchaseToken proves a user bought access to a tour. Issued at checkout,
// one per cart item.
type PurchaseToken struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64      `gorm:"index;not null;column:user_id" json:"user_id"`
	TourID      string     `gorm:"index;size:64;not null;column:tour_id" json:"tour_id"`
	Token       string     `gorm:"uniqueIndex;size:64;not null;column:token" json:"token"`
	PurchasedAt time.Time  `gorm:"not null;column:purchased_at" json:"purchased_at"`
	ExpiresAt   *time.Time `gorm:"column:expires_at" json:"expires_at,omitempty"`
	IsActive    bool       `gorm:"not null;default:true;column:is_active" json:"is_active"`
}

func (PurchaseToken) TableName() string {
	return "purchase_tokens"
}

// TourPurchaseInfo is the /purchase/check response shape.
type TourPurchaseInfo struct {
	TourID      string `json:"tour_id"`
	IsPurchased bool   `json:"is_purchased"`
	Token       string `json:"token,omitempty"`
}
