package repository

import (
	"chopwell/internal/models"

	"gorm.io/gorm"
)

type RestaurantRepository struct {
	db *gorm.DB
}

func NewRestaurantRepository(db *gorm.DB) *RestaurantRepository {
	return &RestaurantRepository{db: db}
}

func (r *RestaurantRepository) List(city string, limit, offset int) ([]models.Restaurant, error) {
	var list []models.Restaurant
	q := r.db.Where("is_open = ?", true)
	if city != "" {
		q = q.Where("city = ?", city)
	}
	err := q.Order("name").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *RestaurantRepository) GetByID(id uint) (*models.Restaurant, error) {
	var rest models.Restaurant
	err := r.db.Preload("MenuItems", "available = ?", true).First(&rest, id).Error
	if err != nil {
		return nil, err
	}
	return &rest, nil
}

func (r *RestaurantRepository) GetMenuItem(id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	err := r.db.First(&item, id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}
