package momo

import (
	"context"
	"fmt"
	"strconv"
)

// CollectRequest is the gateway initiation payload.
type CollectRequest struct {
	OrderRef    string
	AmountXAF   int64
	Provider    Provider
	Phone       string // normalized, 237-prefixed
	PayerName   string
	PayerEmail  string
	Description string
}

// CollectResult is what initiation returns. Success false with Error set
// means the gateway rejected the collection outright.
type CollectResult struct {
	Success   bool
	Reference string // gateway transaction reference
	UssdCode  string // present when the operator wants a dial-in confirmation
	Error     string
}

// Gateway is the network boundary to the mobile-money collection API.
type Gateway interface {
	Collect(ctx context.Context, req CollectRequest) (*CollectResult, error)
	CheckStatus(ctx context.Context, reference string) (Status, error)
}

// BuildCollectRequest assembles the initiation payload from session fields.
// Pure: the same inputs always produce the same request. The service fee is
// folded into the collected amount; CamPay collects a single total.
func BuildCollectRequest(orderRef, phone string, provider Provider, amountXAF, serviceFeeXAF int64, payerName, payerEmail string) CollectRequest {
	return CollectRequest{
		OrderRef:    orderRef,
		AmountXAF:   amountXAF + serviceFeeXAF,
		Provider:    provider,
		Phone:       "237" + normalizePhone(phone),
		PayerName:   payerName,
		PayerEmail:  payerEmail,
		Description: fmt.Sprintf("ChopWell order %s (%s XAF)", orderRef, strconv.FormatInt(amountXAF+serviceFeeXAF, 10)),
	}
}
