package bookings

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type PaymentRequest struct {
	BookingRef string
	Method     string
	Amount     float64
}

type PaymentReceipt struct {
	Reference string
	Method    string
	Amount    float64
}

// PaymentGateway charges a booking. Failures must wrap ErrPaymentFailed.
type PaymentGateway interface {
	Charge(ctx context.Context, req PaymentRequest) (*PaymentReceipt, error)
}

// StaticGateway accepts every charge made with one of its configured methods
type StaticGateway struct {
	methods map[string]bool
}

func NewStaticGateway(methods []string) *StaticGateway {
	g := &StaticGateway{methods: make(map[string]bool, len(methods))}
	for _, m := range methods {
		g.methods[strings.ToLower(strings.TrimSpace(m))] = true
	}
	return g
}

func (g *StaticGateway) Charge(ctx context.Context, req PaymentRequest) (*PaymentReceipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	method := strings.ToLower(req.Method)
	if !g.methods[method] {
		return nil, fmt.Errorf("%w: unsupported payment method %q", ErrPaymentFailed, req.Method)
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: invalid amount %.2f", ErrPaymentFailed, req.Amount)
	}
	return &PaymentReceipt{
		Reference: "PAY-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:16]),
		Method:    method,
		Amount:    req.Amount,
	}, nil
}
