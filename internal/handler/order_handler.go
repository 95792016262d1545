package handler

import (
	"errors"
	"net/http"
	"strconv"

	"chopwell/internal/middleware"
	"chopwell/internal/repository"
	"chopwell/internal/service"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderRepo   *repository.OrderRepository
	checkoutSvc *service.CheckoutService
}

func NewOrderHandler(orderRepo *repository.OrderRepository, checkoutSvc *service.CheckoutService) *OrderHandler {
	return &OrderHandler{orderRepo: orderRepo, checkoutSvc: checkoutSvc}
}

// Checkout creates an order from the current cart. The order waits in
// PENDING_PAYMENT until the payment flow resolves.
func (h *OrderHandler) Checkout(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		AddressID uint `json:"address_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	order, err := h.checkoutSvc.CreateOrder(userID, req.AddressID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart),
			errors.Is(err, service.ErrMixedCart),
			errors.Is(err, service.ErrOutOfRange),
			errors.Is(err, service.ErrAddressUnknown):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "checkout failed"})
		}
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) ListMine(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.orderRepo.ListByUserID(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": list})
}

// Get returns one order with items for tracking.
func (h *OrderHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)
	order, err := h.orderRepo.GetByReference(c.Param("ref"))
	if err != nil || order.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	c.JSON(http.StatusOK, order)
}
