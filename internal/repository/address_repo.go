package repository

import (
	"chopwell/internal/models"

	"gorm.io/gorm"
)

type AddressRepository struct {
	db *gorm.DB
}

func NewAddressRepository(db *gorm.DB) *AddressRepository {
	return &AddressRepository{db: db}
}

func (r *AddressRepository) Create(a *models.Address) error {
	return r.db.Create(a).Error
}

func (r *AddressRepository) GetByID(id uint) (*models.Address, error) {
	var a models.Address
	err := r.db.First(&a, id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AddressRepository) ListByUserID(userID uint) ([]models.Address, error) {
	var list []models.Address
	err := r.db.Where("user_id = ?", userID).Order("is_default DESC, created_at DESC").Find(&list).Error
	return list, err
}

func (r *AddressRepository) Delete(id, userID uint) error {
	return r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Address{}).Error
}
