package models

import (
	"time"

	"gorm.io/gorm"
)

// CartItem is one menu item in a user's open cart. The cart is implicit:
// all non-deleted items for a user.
type CartItem struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	UserID     uint           `gorm:"not null;index" json:"user_id"`
	MenuItemID uint           `gorm:"not null" json:"menu_item_id"`
	Quantity   int            `gorm:"not null;default:1" json:"quantity"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	MenuItem MenuItem `gorm:"foreignKey:MenuItemID" json:"menu_item"`
}

func (CartItem) TableName() string {
	return "cart_items"
}
