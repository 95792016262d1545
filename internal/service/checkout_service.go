package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"chopwell/config"
	"chopwell/internal/cache"
	"chopwell/internal/domain"
	"chopwell/internal/models"
	"chopwell/internal/payment"
	"chopwell/internal/repository"
	"chopwell/pkg/geo"

	"github.com/google/uuid"
)

var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrMixedCart      = errors.New("cart contains items from more than one restaurant")
	ErrOutOfRange     = errors.New("address outside the restaurant delivery radius")
	ErrAddressUnknown = errors.New("address not found")
)

// CheckoutService turns carts into orders and reacts to terminal payment
// results (the order/cart collaborators of the payment flow).
type CheckoutService struct {
	cfg            *config.Config
	orderRepo      *repository.OrderRepository
	cartRepo       *repository.CartRepository
	paymentRepo    *repository.PaymentRepository
	addressRepo    *repository.AddressRepository
	restaurantRepo *repository.RestaurantRepository
	notifSvc       *NotificationService
	guard          *cache.PaymentGuard

	// sessions lets terminal handling discard the live orchestrator once the
	// flow hands off to order tracking. Set after the payment manager is
	// built (the manager itself is constructed with this service as hooks).
	sessions interface{ Remove(orderRef string) }
}

func NewCheckoutService(
	cfg *config.Config,
	orderRepo *repository.OrderRepository,
	cartRepo *repository.CartRepository,
	paymentRepo *repository.PaymentRepository,
	addressRepo *repository.AddressRepository,
	restaurantRepo *repository.RestaurantRepository,
	notifSvc *NotificationService,
	guard *cache.PaymentGuard,
) *CheckoutService {
	return &CheckoutService{
		cfg:            cfg,
		orderRepo:      orderRepo,
		cartRepo:       cartRepo,
		paymentRepo:    paymentRepo,
		addressRepo:    addressRepo,
		restaurantRepo: restaurantRepo,
		notifSvc:       notifSvc,
		guard:          guard,
	}
}

func (s *CheckoutService) AttachSessions(sessions interface{ Remove(orderRef string) }) {
	s.sessions = sessions
}

// CreateOrder builds a PENDING_PAYMENT order from the user's cart: item
// prices frozen, delivery fee from haversine distance, service fee as a
// percentage of the subtotal.
func (s *CheckoutService) CreateOrder(userID, addressID uint) (*models.Order, error) {
	items, err := s.cartRepo.ListByUserID(userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	restaurantID := items[0].MenuItem.RestaurantID
	for _, it := range items {
		if it.MenuItem.RestaurantID != restaurantID {
			return nil, ErrMixedCart
		}
	}
	addr, err := s.addressRepo.GetByID(addressID)
	if err != nil || addr.UserID != userID {
		return nil, ErrAddressUnknown
	}
	rest, err := s.restaurantRepo.GetByID(restaurantID)
	if err != nil {
		return nil, err
	}
	distKm := geo.HaversineKm(rest.Latitude, rest.Longitude, addr.Latitude, addr.Longitude)
	if distKm > s.cfg.Delivery.MaxRadiusKm {
		return nil, ErrOutOfRange
	}

	var subtotal int64
	orderItems := make([]models.OrderItem, 0, len(items))
	for _, it := range items {
		subtotal += it.MenuItem.PriceXAF * int64(it.Quantity)
		orderItems = append(orderItems, models.OrderItem{
			MenuItemID:   it.MenuItemID,
			Name:         it.MenuItem.Name,
			UnitPriceXAF: it.MenuItem.PriceXAF,
			Quantity:     it.Quantity,
		})
	}
	deliveryFee := geo.DeliveryFeeXAF(distKm, s.cfg.Delivery.BaseFeeXAF, s.cfg.Delivery.FeePerKmXAF)
	serviceFee := int64(math.Round(float64(subtotal) * s.cfg.Delivery.ServiceFeePct))

	order := &models.Order{
		Reference:      fmt.Sprintf("cw-%s", uuid.New().String()),
		UserID:         userID,
		RestaurantID:   restaurantID,
		AddressID:      addressID,
		Status:         domain.OrderStatusPendingPayment,
		SubtotalXAF:    subtotal,
		DeliveryFeeXAF: deliveryFee,
		ServiceFeeXAF:  serviceFee,
		TotalXAF:       subtotal + deliveryFee + serviceFee,
		Items:          orderItems,
	}
	if err := s.orderRepo.Create(order); err != nil {
		return nil, err
	}
	return order, nil
}

// PaymentSucceeded is the orchestrator hook for a completed collection:
// payment row closed, order advances to PAID, cart cleared, user notified.
func (s *CheckoutService) PaymentSucceeded(orderRef string) {
	order, err := s.orderRepo.GetByReference(orderRef)
	if err != nil {
		log.Printf("[CHECKOUT] succeeded hook: order not found ref=%s: %v", orderRef, err)
		return
	}
	now := time.Now()
	if p, err := s.paymentRepo.GetLatestByOrderRef(orderRef); err == nil {
		p.Status = domain.PaymentStatusCompleted
		p.CompletedAt = &now
		_ = s.paymentRepo.Update(p)
	}
	order.Status = domain.OrderStatusPaid
	order.PaidAt = &now
	if err := s.orderRepo.Update(order); err != nil {
		log.Printf("[CHECKOUT] mark paid failed ref=%s: %v", orderRef, err)
	}
	if err := s.cartRepo.Clear(order.UserID); err != nil {
		log.Printf("[CHECKOUT] cart clear failed user=%d: %v", order.UserID, err)
	}
	_ = s.guard.MarkCompleted(context.Background(), orderRef)
	_ = s.notifSvc.Notify(order.UserID, domain.NotifTypePayment,
		"Payment received",
		fmt.Sprintf("Your payment of %d XAF for order %s was received. The restaurant is preparing your food.", order.TotalXAF, orderRef),
		map[string]interface{}{"order_ref": orderRef},
	)
	if s.sessions != nil {
		s.sessions.Remove(orderRef)
	}
}

// PaymentFailed is the orchestrator hook for a terminal failure. The
// session stays registered so the user can retry.
func (s *CheckoutService) PaymentFailed(orderRef string, reason payment.FailureReason) {
	order, err := s.orderRepo.GetByReference(orderRef)
	if err != nil {
		log.Printf("[CHECKOUT] failed hook: order not found ref=%s: %v", orderRef, err)
		return
	}
	if p, err := s.paymentRepo.GetLatestByOrderRef(orderRef); err == nil {
		p.Status = domain.PaymentStatusFailed
		p.FailReason = string(reason)
		_ = s.paymentRepo.Update(p)
	}
	_ = s.guard.Release(context.Background(), orderRef)
	_ = s.notifSvc.Notify(order.UserID, domain.NotifTypePayment,
		"Payment not completed",
		failureMessage(reason),
		map[string]interface{}{"order_ref": orderRef, "reason": string(reason)},
	)
}

func failureMessage(reason payment.FailureReason) string {
	switch reason {
	case payment.ReasonTimeout:
		return "We could not confirm your payment in time. If you approved it on your phone, contact support; otherwise please try again."
	case payment.ReasonGatewayExpired:
		return "The payment request expired before you confirmed it. Please try again."
	case payment.ReasonNetwork:
		return "We could not reach the payment service. Please try again."
	default:
		return "The payment was declined. Please try again or use a different number."
	}
}
