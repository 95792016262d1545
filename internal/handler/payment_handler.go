package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"chopwell/internal/domain"
	"chopwell/internal/middleware"
	"chopwell/internal/models"
	"chopwell/internal/payment"
	"chopwell/pkg/momo"

	"github.com/gin-gonic/gin"
)

// The slices of the repositories and redis guard this handler touches.
// repository.OrderRepository, repository.PaymentRepository and
// cache.PaymentGuard satisfy them; tests substitute fakes.
type orderStore interface {
	GetByReference(ref string) (*models.Order, error)
}

type paymentStore interface {
	Create(p *models.Payment) error
	GetLatestByOrderRef(ref string) (*models.Payment, error)
	Update(p *models.Payment) error
}

type initiationGuard interface {
	Acquire(ctx context.Context, orderRef string) (bool, error)
	Release(ctx context.Context, orderRef string) error
}

// PaymentHandler translates HTTP intents (select method, cancel, retry)
// into orchestrator actions and exposes the session snapshot.
type PaymentHandler struct {
	manager     *payment.Manager
	orderRepo   orderStore
	paymentRepo paymentStore
	guard       initiationGuard
}

func NewPaymentHandler(
	manager *payment.Manager,
	orderRepo orderStore,
	paymentRepo paymentStore,
	guard initiationGuard,
) *PaymentHandler {
	return &PaymentHandler{
		manager:     manager,
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		guard:       guard,
	}
}

// Initiate starts (or restarts, after Retry) the mobile-money flow for a
// PENDING_PAYMENT order.
func (h *PaymentHandler) Initiate(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		OrderRef   string `json:"order_ref" binding:"required"`
		Provider   string `json:"provider" binding:"required"`
		Phone      string `json:"phone" binding:"required"`
		PayerName  string `json:"payer_name" binding:"required"`
		PayerEmail string `json:"payer_email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !momo.ValidProvider(req.Provider) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported provider", "reason": payment.ReasonValidation})
		return
	}
	provider := momo.Provider(strings.ToLower(req.Provider))
	if !momo.ValidPhone(req.Phone, provider) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "phone number not valid for " + req.Provider, "reason": payment.ReasonValidation})
		return
	}

	order, err := h.orderRepo.GetByReference(req.OrderRef)
	if err != nil || order.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	if order.Status != domain.OrderStatusPendingPayment {
		c.JSON(http.StatusConflict, gin.H{"error": "order is not awaiting payment"})
		return
	}

	orch, ok := h.manager.Get(req.OrderRef)
	createdHere := false
	if !ok {
		acquired, err := h.guard.Acquire(c.Request.Context(), req.OrderRef)
		if err != nil {
			log.Printf("[PAY] guard error order_ref=%s: %v", req.OrderRef, err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "payment service unavailable"})
			return
		}
		if !acquired {
			c.JSON(http.StatusConflict, gin.H{"error": "a payment for this order is already in progress or completed"})
			return
		}
		sess := payment.NewSession(order.Reference, userID, order.TotalXAF-order.ServiceFeeXAF, order.ServiceFeeXAF)
		orch, err = h.manager.Create(sess)
		if err != nil {
			_ = h.guard.Release(c.Request.Context(), req.OrderRef)
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		createdHere = true
	} else if snap := orch.Snapshot(); snap.State != payment.StateMethodSelection {
		c.JSON(http.StatusConflict, gin.H{"error": "payment already in progress", "payment": snap})
		return
	} else if snap.AttemptCount > 1 {
		// A retried attempt re-acquires the guard released on failure.
		if acquired, err := h.guard.Acquire(c.Request.Context(), req.OrderRef); err != nil || !acquired {
			c.JSON(http.StatusConflict, gin.H{"error": "a payment for this order is already in progress or completed"})
			return
		}
	}

	snap := orch.Snapshot()
	record := &models.Payment{
		UserID:    userID,
		OrderRef:  order.Reference,
		AmountXAF: order.TotalXAF,
		Currency:  domain.Currency,
		Provider:  string(provider),
		Phone:     req.Phone,
		Status:    domain.PaymentStatusPending,
		Attempt:   snap.AttemptCount,
	}
	if err := h.paymentRepo.Create(record); err != nil {
		// Held guard with no live flow would lock the order out until
		// the key expiry.
		_ = h.guard.Release(c.Request.Context(), req.OrderRef)
		if createdHere {
			h.manager.Remove(req.OrderRef)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "payment record failed"})
		return
	}

	err = orch.SelectMethod(c.Request.Context(), payment.MethodSelection{
		Provider:   provider,
		Phone:      req.Phone,
		PayerName:  req.PayerName,
		PayerEmail: req.PayerEmail,
	})
	switch {
	case errors.Is(err, payment.ErrInvalidPhone):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "reason": payment.ReasonValidation})
		return
	case errors.Is(err, payment.ErrBadState):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"payment": orch.Snapshot()})
}

// Status returns the live snapshot, or the persisted record once the
// session has been discarded.
func (h *PaymentHandler) Status(c *gin.Context) {
	userID := middleware.GetUserID(c)
	ref := c.Param("ref")
	if orch, ok := h.manager.Get(ref); ok {
		if orch.UserID() != userID {
			c.JSON(http.StatusNotFound, gin.H{"error": "payment not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"payment": orch.Snapshot()})
		return
	}
	p, err := h.paymentRepo.GetLatestByOrderRef(ref)
	if err != nil || p.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "payment not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": gin.H{
		"order_ref":     p.OrderRef,
		"state":         p.Status,
		"reason":        p.FailReason,
		"attempt_count": p.Attempt,
	}})
}

// Cancel abandons the current attempt. No terminal result is emitted; the
// session is discarded and the order stays PENDING_PAYMENT.
func (h *PaymentHandler) Cancel(c *gin.Context) {
	userID := middleware.GetUserID(c)
	ref := c.Param("ref")
	orch, ok := h.manager.Get(ref)
	if !ok || orch.UserID() != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "payment not found"})
		return
	}
	orch.Cancel()
	h.manager.Remove(ref)
	_ = h.guard.Release(c.Request.Context(), ref)
	if p, err := h.paymentRepo.GetLatestByOrderRef(ref); err == nil && p.Status == domain.PaymentStatusPending {
		p.Status = domain.PaymentStatusCancelled
		_ = h.paymentRepo.Update(p)
	}
	log.Printf("[PAY] order_ref=%s cancelled via API", ref)
	c.JSON(http.StatusOK, gin.H{"cancelled": true})
}

// Retry resets a failed session back to method selection; the client then
// calls Initiate again with fresh details.
func (h *PaymentHandler) Retry(c *gin.Context) {
	userID := middleware.GetUserID(c)
	ref := c.Param("ref")
	orch, ok := h.manager.Get(ref)
	if !ok || orch.UserID() != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "payment not found"})
		return
	}
	if err := orch.Retry(); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "retry is only allowed after a failed payment"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": orch.Snapshot()})
}
