package handler

import (
	"net/http"
	"strconv"

	"chopwell/internal/repository"

	"github.com/gin-gonic/gin"
)

type RestaurantHandler struct {
	restaurantRepo *repository.RestaurantRepository
}

func NewRestaurantHandler(restaurantRepo *repository.RestaurantRepository) *RestaurantHandler {
	return &RestaurantHandler{restaurantRepo: restaurantRepo}
}

func (h *RestaurantHandler) List(c *gin.Context) {
	city := c.Query("city")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.restaurantRepo.List(city, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "listing failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"restaurants": list})
}

func (h *RestaurantHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	rest, err := h.restaurantRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "restaurant not found"})
		return
	}
	c.JSON(http.StatusOK, rest)
}
