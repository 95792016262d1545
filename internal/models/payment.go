package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment is the persisted record of a collection attempt; the live flow is
// driven in memory by the orchestrator, this row is its durable trace.
type Payment struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	OrderRef    string         `gorm:"size:64;not null;index" json:"order_ref"`
	AmountXAF   int64          `gorm:"not null" json:"amount_xaf"`
	Currency    string         `gorm:"size:3;default:'XAF'" json:"currency"`
	Provider    string         `gorm:"size:20;not null" json:"provider"` // mtn | orange
	Phone       string         `gorm:"size:20" json:"phone"`
	Reference   string         `gorm:"size:255;index" json:"reference"` // gateway transaction reference
	Status      string         `gorm:"size:20;not null;index" json:"status"`
	FailReason  string         `gorm:"size:40" json:"fail_reason,omitempty"`
	Attempt     int            `gorm:"not null;default:1" json:"attempt"`
	CompletedAt *time.Time     `json:"completed_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Payment) TableName() string {
	return "payments"
}
