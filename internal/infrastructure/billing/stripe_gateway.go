package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sony/gobreaker/v2"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/checkout/session"
	"github.com/stripe/stripe-go/v81/webhook"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/application/trade"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/infrastructure/breaker"
	"go.uber.org/zap"
)

const metadataOrderID = "orderId"

// StripeGateway implements trade.PaymentGateway with Stripe Checkout
type StripeGateway struct {
	config  *StripeConfig
	client  *session.Client
	breaker *gobreaker.CircuitBreaker[*stripe.CheckoutSession]
	logger  *zap.Logger
}

// NewStripeGateway creates a gateway backed by the Stripe API
func NewStripeGateway(config *StripeConfig, logger *zap.Logger) (*StripeGateway, error) {
	return NewStripeGatewayWithBackend(config, stripe.GetBackend(stripe.APIBackend), logger)
}

// NewStripeGatewayWithBackend creates a gateway on a specific Stripe backend
func NewStripeGatewayWithBackend(config *StripeConfig, backend stripe.Backend, logger *zap.Logger) (*StripeGateway, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &StripeGateway{
		config:  config,
		client:  &session.Client{B: backend, Key: config.SecretKey},
		breaker: breaker.New[*stripe.CheckoutSession]("stripe", breaker.DefaultConfig(), logger),
		logger:  logger,
	}, nil
}

// CreateCheckoutSession creates a hosted payment page for an order
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req trade.CheckoutRequest) (*trade.CheckoutSession, error) {
	g.logger.Debug("Creating Stripe checkout session",
		zap.String("order_id", req.OrderID.String()),
		zap.Int("lines", len(req.Lines)))

	currency := strings.ToLower(string(req.Currency))
	items := make([]*stripe.CheckoutSessionLineItemParams, 0, len(req.Lines))
	for _, line := range req.Lines {
		product := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(line.Name),
		}
		if line.Image != "" {
			product.Images = stripe.StringSlice([]string{line.Image})
		}
		items = append(items, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(currency),
				ProductData: product,
				UnitAmount:  stripe.Int64(line.UnitAmount),
			},
			Quantity: stripe.Int64(line.Quantity),
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:         items,
		SuccessURL:        stripe.String(req.SuccessURL),
		CancelURL:         stripe.String(req.CancelURL),
		ClientReferenceID: stripe.String(req.OrderID.String()),
		Metadata:          map[string]string{metadataOrderID: req.OrderID.String()},
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}

	sess, err := g.call(ctx, &params.Params, func() (*stripe.CheckoutSession, error) {
		return g.client.New(params)
	})
	if err != nil {
		g.logger.Error("Failed to create Stripe checkout session",
			zap.String("order_id", req.OrderID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("stripe: failed to create checkout session: %w", err)
	}

	g.logger.Info("Created Stripe checkout session",
		zap.String("order_id", req.OrderID.String()),
		zap.String("session_id", sess.ID))

	return toCheckoutSession(sess), nil
}

// GetCheckoutSession retrieves a checkout session to inspect its payment status
func (g *StripeGateway) GetCheckoutSession(ctx context.Context, sessionID string) (*trade.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	sess, err := g.call(ctx, &params.Params, func() (*stripe.CheckoutSession, error) {
		return g.client.Get(sessionID, params)
	})
	if err != nil {
		g.logger.Error("Failed to get Stripe checkout session",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return nil, fmt.Errorf("stripe: failed to get checkout session: %w", err)
	}
	return toCheckoutSession(sess), nil
}

// ParseWebhook verifies the Stripe-Signature header and decodes the event
func (g *StripeGateway) ParseWebhook(payload []byte, signature string) (*trade.WebhookEvent, error) {
	if g.config.WebhookSecret == "" {
		return nil, fmt.Errorf("stripe: webhook secret is not configured")
	}

	event, err := webhook.ConstructEventWithOptions(payload, signature, g.config.WebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("stripe: webhook verification failed: %w", err)
	}

	out := &trade.WebhookEvent{ID: event.ID, Type: string(event.Type)}
	if !strings.HasPrefix(out.Type, "checkout.session.") || event.Data == nil {
		return out, nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return nil, fmt.Errorf("stripe: failed to decode checkout session: %w", err)
	}
	out.SessionID = sess.ID
	out.OrderID = orderIDOf(&sess)
	out.Paid = sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid
	return out, nil
}

// call runs fn behind the circuit breaker with the request context and timeout
func (g *StripeGateway) call(ctx context.Context, params *stripe.Params, fn func() (*stripe.CheckoutSession, error)) (*stripe.CheckoutSession, error) {
	if g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
	}
	params.Context = ctx
	return g.breaker.Execute(fn)
}

func toCheckoutSession(sess *stripe.CheckoutSession) *trade.CheckoutSession {
	return &trade.CheckoutSession{
		ID:                sess.ID,
		URL:               sess.URL,
		ClientReferenceID: orderIDOf(sess),
		Paid:              sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
	}
}

func orderIDOf(sess *stripe.CheckoutSession) string {
	if sess.ClientReferenceID != "" {
		return sess.ClientReferenceID
	}
	return sess.Metadata[metadataOrderID]
}

// Ensure StripeGateway implements PaymentGateway
var _ trade.PaymentGateway = (*StripeGateway)(nil)
