package models

import (
	"time"

	"gorm.io/gorm"
)

type Order struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Reference      string         `gorm:"size:64;uniqueIndex;not null" json:"reference"`
	UserID         uint           `gorm:"not null;index" json:"user_id"`
	RestaurantID   uint           `gorm:"not null;index" json:"restaurant_id"`
	AddressID      uint           `gorm:"not null" json:"address_id"`
	Status         string         `gorm:"size:20;not null;index" json:"status"` // see domain constants
	SubtotalXAF    int64          `gorm:"not null" json:"subtotal_xaf"`
	DeliveryFeeXAF int64          `gorm:"not null" json:"delivery_fee_xaf"`
	ServiceFeeXAF  int64          `gorm:"not null" json:"service_fee_xaf"`
	TotalXAF       int64          `gorm:"not null" json:"total_xaf"`
	PaidAt         *time.Time     `json:"paid_at"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Items      []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	Restaurant Restaurant  `gorm:"foreignKey:RestaurantID" json:"restaurant,omitempty"`
	Address    Address     `gorm:"foreignKey:AddressID" json:"address,omitempty"`
}

// OrderItem freezes the menu item name and price at checkout time.
type OrderItem struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	OrderID      uint   `gorm:"not null;index" json:"order_id"`
	MenuItemID   uint   `gorm:"not null" json:"menu_item_id"`
	Name         string `gorm:"size:128;not null" json:"name"`
	UnitPriceXAF int64  `gorm:"not null" json:"unit_price_xaf"`
	Quantity     int    `gorm:"not null" json:"quantity"`
}

func (Order) TableName() string     { return "orders" }
func (OrderItem) TableName() string { return "order_items" }
