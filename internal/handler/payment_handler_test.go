package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chopwell/internal/domain"
	"chopwell/internal/models"
	"chopwell/internal/payment"
	"chopwell/pkg/momo"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type stubGateway struct{}

func (stubGateway) Collect(ctx context.Context, req momo.CollectRequest) (*momo.CollectResult, error) {
	return &momo.CollectResult{Success: true, Reference: "gw-1", UssdCode: "*126#"}, nil
}

func (stubGateway) CheckStatus(ctx context.Context, reference string) (momo.Status, error) {
	return momo.StatusPending, nil
}

type nopHooks struct{}

func (nopHooks) PaymentSucceeded(string)                     {}
func (nopHooks) PaymentFailed(string, payment.FailureReason) {}

type nopSink struct{}

func (nopSink) Publish(uint, payment.Snapshot) {}

type stubOrders struct{ order *models.Order }

func (s *stubOrders) GetByReference(ref string) (*models.Order, error) {
	if s.order == nil || s.order.Reference != ref {
		return nil, errors.New("record not found")
	}
	return s.order, nil
}

type stubPayments struct {
	createErr error
	rows      []*models.Payment
}

func (s *stubPayments) Create(p *models.Payment) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.rows = append(s.rows, p)
	return nil
}

func (s *stubPayments) GetLatestByOrderRef(ref string) (*models.Payment, error) {
	for i := len(s.rows) - 1; i >= 0; i-- {
		if s.rows[i].OrderRef == ref {
			return s.rows[i], nil
		}
	}
	return nil, errors.New("record not found")
}

func (s *stubPayments) Update(*models.Payment) error { return nil }

type stubGuard struct {
	held     bool
	acquires int
	releases int
}

func (g *stubGuard) Acquire(ctx context.Context, orderRef string) (bool, error) {
	if g.held {
		return false, nil
	}
	g.held = true
	g.acquires++
	return true, nil
}

func (g *stubGuard) Release(ctx context.Context, orderRef string) error {
	g.held = false
	g.releases++
	return nil
}

func initiateRig(t *testing.T, payments *stubPayments, guard *stubGuard) (*gin.Engine, *payment.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	mgr := payment.NewManager(stubGateway{}, nopHooks{}, nopSink{}, payment.Timings{
		UssdGrace:    time.Minute,
		PollInterval: time.Minute,
		Deadline:     time.Hour,
	})
	orders := &stubOrders{order: &models.Order{
		Reference:     "cw-1",
		UserID:        9,
		Status:        domain.OrderStatusPendingPayment,
		ServiceFeeXAF: 150,
		TotalXAF:      5150,
	}}
	h := NewPaymentHandler(mgr, orders, payments, guard)
	r := gin.New()
	r.POST("/payments/momo/initiate", func(c *gin.Context) { c.Set("user_id", uint(9)) }, h.Initiate)
	return r, mgr
}

func postInitiate(r *gin.Engine) *httptest.ResponseRecorder {
	body, _ := json.Marshal(gin.H{
		"order_ref":   "cw-1",
		"provider":    "mtn",
		"phone":       "670000000",
		"payer_name":  "Ama Njoya",
		"payer_email": "ama@example.com",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/payments/momo/initiate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestInitiateAccepted(t *testing.T) {
	payments := &stubPayments{}
	guard := &stubGuard{}
	r, _ := initiateRig(t, payments, guard)

	w := postInitiate(r)
	require.Equal(t, http.StatusAccepted, w.Code)
	require.Contains(t, w.Body.String(), string(payment.StateAwaitingUssdAck))
	require.Len(t, payments.rows, 1)
	require.True(t, guard.held, "guard stays held while the flow is live")
}

func TestInitiateReleasesGuardWhenRecordFails(t *testing.T) {
	payments := &stubPayments{createErr: errors.New("db down")}
	guard := &stubGuard{}
	r, mgr := initiateRig(t, payments, guard)

	w := postInitiate(r)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, 1, guard.releases, "guard must not stay held with no live flow")
	require.False(t, guard.held)
	_, ok := mgr.Get("cw-1")
	require.False(t, ok, "dangling session would skip the guard on the next attempt")

	// The order is immediately payable again once the database recovers.
	payments.createErr = nil
	w = postInitiate(r)
	require.Equal(t, http.StatusAccepted, w.Code)
	require.Equal(t, 2, guard.acquires)
}
