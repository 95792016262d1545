package repository

import (
	"chopwell/internal/models"

	"gorm.io/gorm"
)

type CartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

func (r *CartRepository) Add(item *models.CartItem) error {
	// Same item twice bumps the quantity instead of duplicating the row.
	var existing models.CartItem
	err := r.db.Where("user_id = ? AND menu_item_id = ?", item.UserID, item.MenuItemID).First(&existing).Error
	if err == nil {
		existing.Quantity += item.Quantity
		return r.db.Save(&existing).Error
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	return r.db.Create(item).Error
}

func (r *CartRepository) ListByUserID(userID uint) ([]models.CartItem, error) {
	var list []models.CartItem
	err := r.db.Preload("MenuItem").Where("user_id = ?", userID).Find(&list).Error
	return list, err
}

func (r *CartRepository) Remove(id, userID uint) error {
	return r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.CartItem{}).Error
}

// Clear empties the user's cart (called when payment succeeds).
func (r *CartRepository) Clear(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
}
