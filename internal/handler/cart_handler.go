package handler

import (
	"net/http"
	"strconv"

	"chopwell/internal/middleware"
	"chopwell/internal/models"
	"chopwell/internal/repository"

	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	cartRepo       *repository.CartRepository
	restaurantRepo *repository.RestaurantRepository
}

func NewCartHandler(cartRepo *repository.CartRepository, restaurantRepo *repository.RestaurantRepository) *CartHandler {
	return &CartHandler{cartRepo: cartRepo, restaurantRepo: restaurantRepo}
}

func (h *CartHandler) Add(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		MenuItemID uint `json:"menu_item_id" binding:"required"`
		Quantity   int  `json:"quantity" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item, err := h.restaurantRepo.GetMenuItem(req.MenuItemID)
	if err != nil || !item.Available {
		c.JSON(http.StatusNotFound, gin.H{"error": "menu item not available"})
		return
	}
	entry := &models.CartItem{
		UserID:     userID,
		MenuItemID: req.MenuItemID,
		Quantity:   req.Quantity,
	}
	if err := h.cartRepo.Add(entry); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not add to cart"})
		return
	}
	h.List(c)
}

func (h *CartHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	items, err := h.cartRepo.ListByUserID(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load cart"})
		return
	}
	var subtotal int64
	for _, it := range items {
		subtotal += it.MenuItem.PriceXAF * int64(it.Quantity)
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "subtotal_xaf": subtotal})
}

func (h *CartHandler) Remove(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.cartRepo.Remove(uint(id), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not remove item"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": true})
}
