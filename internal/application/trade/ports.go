package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/application/notification"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/cart"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/shared/valueobject"
)

// CartStore reads and clears the stored cart an order is built from
type CartStore interface {
	Snapshot(ctx context.Context, userID uuid.UUID) (*cart.Cart, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

// CheckoutLine is one line item shown on the hosted checkout page
type CheckoutLine struct {
	Name       string
	Image      string
	UnitAmount int64 // minor units
	Quantity   int64
}

// CheckoutRequest describes a hosted checkout session to create
type CheckoutRequest struct {
	OrderID       uuid.UUID
	CustomerEmail string
	Currency      valueobject.Currency
	Lines         []CheckoutLine
	SuccessURL    string
	CancelURL     string
	// IdempotencyKey is forwarded so a retried create returns the same session
	IdempotencyKey string
}

// CheckoutSession is the gateway's view of a hosted checkout session
type CheckoutSession struct {
	ID                string
	URL               string
	ClientReferenceID string
	Paid              bool
}

// WebhookEvent is a verified gateway notification about a checkout session
type WebhookEvent struct {
	ID        string
	Type      string
	SessionID string
	OrderID   string
	Paid      bool
}

// Webhook event types acted upon
const (
	WebhookSessionCompleted   = "checkout.session.completed"
	WebhookSessionAsyncPaid   = "checkout.session.async_payment_succeeded"
	WebhookSessionAsyncFailed = "checkout.session.async_payment_failed"
	WebhookSessionExpired     = "checkout.session.expired"
)

// PaymentGateway creates and inspects hosted checkout sessions
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error)
	// ParseWebhook verifies the signature and decodes the event
	ParseWebhook(payload []byte, signature string) (*WebhookEvent, error)
}

// ConfirmationMailer sends the order confirmation email
type ConfirmationMailer interface {
	SendOrderConfirmation(ctx context.Context, details notification.OrderDetails) error
}

// Recorder observes checkout outcomes for metrics
type Recorder interface {
	OrderPlaced(method string, amount decimal.Decimal)
	PaymentConfirmed(method string)
	OrderAbandoned(reason string)
}
