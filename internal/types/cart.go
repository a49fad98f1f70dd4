package types

import "time"

type ShoppingCart struct {
	ID         int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64      `gorm:"uniqueIndex;not null;column:user_id" json:"user_id"`
	TotalPrice float64    `gorm:"not null;default:0;column:total_price" json:"total_price"`
	CreatedAt  time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"not null" json:"updated_at"`
	Items      []CartItem `gorm:"foreignKey:CartID" json:"items,omitempty"`
}

func (ShoppingCart) TableName() string {
	return "shopping_carts"
}

type CartItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID    int64     `gorm:"uniqueIndex:idx_cart_tour;not null;column:cart_id" json:"cart_id"`
	TourID    string    `gorm:"uniqueIndex:idx_cart_tour;size:64;not null;column:tour_id" json:"tour_id"`
	TourName  string    `gorm:"size:100;not null;column:tour_name" json:"tour_name"`
	Price     float64   `gorm:"not null;column:price" json:"price"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (CartItem) TableName() string {
	return "cart_items"
}
