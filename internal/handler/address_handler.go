package handler

import (
	"net/http"
	"strconv"

	"chopwell/internal/middleware"
	"chopwell/internal/models"
	"chopwell/internal/repository"

	"github.com/gin-gonic/gin"
)

type AddressHandler struct {
	addressRepo *repository.AddressRepository
}

func NewAddressHandler(addressRepo *repository.AddressRepository) *AddressHandler {
	return &AddressHandler{addressRepo: addressRepo}
}

func (h *AddressHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		Label     string  `json:"label"`
		Street    string  `json:"street" binding:"required"`
		City      string  `json:"city" binding:"required"`
		Latitude  float64 `json:"latitude" binding:"required"`
		Longitude float64 `json:"longitude" binding:"required"`
		IsDefault bool    `json:"is_default"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	addr := &models.Address{
		UserID:    userID,
		Label:     req.Label,
		Street:    req.Street,
		City:      req.City,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		IsDefault: req.IsDefault,
	}
	if err := h.addressRepo.Create(addr); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save address"})
		return
	}
	c.JSON(http.StatusCreated, addr)
}

func (h *AddressHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	list, err := h.addressRepo.ListByUserID(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load addresses"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"addresses": list})
}

func (h *AddressHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.addressRepo.Delete(uint(id), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete address"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
