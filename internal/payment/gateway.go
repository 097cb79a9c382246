package payment

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"rail-ticketing/internal/logger"
	"rail-ticketing/internal/models"
)

// Gateway is the external payment collaborator. The booking core only records
// payment status as reported by it; refunds are a one-way notification with
// no synchronous guarantee.
type Gateway interface {
	NotifyRefund(ctx context.Context, payment models.Payment) error
}

// StripeGateway forwards refund notifications to Stripe using the provider
// reference captured when the payment was recorded.
type StripeGateway struct {
	client *client.API
	log    *logger.Logger
}

func NewStripeGateway(secretKey string, log *logger.Logger) (*StripeGateway, error) {
	if secretKey == "" {
		return nil, fmt.Errorf("stripe secret key not set")
	}
	sc := client.New(secretKey, nil)
	return &StripeGateway{client: sc, log: log}, nil
}

func (g *StripeGateway) NotifyRefund(ctx context.Context, p models.Payment) error {
	if p.ProviderRef == "" {
		return fmt.Errorf("payment %s has no provider reference", p.ID)
	}

	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(p.ProviderRef),
	}
	params.Context = ctx

	refund, err := g.client.Refunds.New(params)
	if err != nil {
		g.log.Error("STRIPE", fmt.Sprintf("Refund request failed for payment %s: %v", p.ID, err))
		return err
	}

	g.log.Info("STRIPE", fmt.Sprintf("Refund %s created for payment %s (%.2f)", refund.ID, p.ID, p.FinalAmount))
	return nil
}

// NoopGateway is used when no payment provider is configured, e.g. in tests
// and local development.
type NoopGateway struct {
	log *logger.Logger
}

func NewNoopGateway(log *logger.Logger) *NoopGateway {
	return &NoopGateway{log: log}
}

func (g *NoopGateway) NotifyRefund(_ context.Context, p models.Payment) error {
	if g.log != nil {
		g.log.Info("PAYMENT", fmt.Sprintf("Refund notification skipped for payment %s (no gateway configured)", p.ID))
	}
	return nil
}
