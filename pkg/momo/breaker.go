package momo

import (
	"context"

	"github.com/sony/gobreaker"
)

// BreakerGateway wraps a Gateway with a circuit breaker so a flapping
// collection API fails fast instead of holding checkout requests open.
type BreakerGateway struct {
	inner Gateway
	cb    *gobreaker.CircuitBreaker
}

func NewBreakerGateway(inner Gateway) *BreakerGateway {
	return &BreakerGateway{
		inner: inner,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "campay",
			MaxRequests: 2,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= 5
			},
		}),
	}
}

func (b *BreakerGateway) Collect(ctx context.Context, req CollectRequest) (*CollectResult, error) {
	res, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.Collect(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return res.(*CollectResult), nil
}

func (b *BreakerGateway) CheckStatus(ctx context.Context, reference string) (Status, error) {
	res, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.CheckStatus(ctx, reference)
	})
	if err != nil {
		return StatusUnknown, err
	}
	return res.(Status), nil
}
