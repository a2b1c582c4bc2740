package trade

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/application/notification"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/catalog"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/shared"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/shared/valueobject"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/trade"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	idempotencyPending = "pending"
	deliveryLineName   = "Delivery Charges"
)

// ServiceConfig configures checkout
type ServiceConfig struct {
	DeliveryCharge decimal.Decimal
	Currency       valueobject.Currency
	// PurgeAbandoned deletes unpaid hosted checkout orders instead of cancelling them
	PurgeAbandoned bool
	IdempotencyTTL time.Duration
	EmailTimeout   time.Duration
}

// DefaultServiceConfig returns default configuration
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		DeliveryCharge: decimal.NewFromInt(10),
		Currency:       valueobject.DefaultCurrency,
		IdempotencyTTL: 24 * time.Hour,
		EmailTimeout:   30 * time.Second,
	}
}

// Dependencies groups the collaborators of OrderService.
// Gateway, Mailer, Idempotency, Events and Recorder may be nil.
type Dependencies struct {
	Orders      trade.OrderRepository
	Products    catalog.ProductRepository
	Carts       CartStore
	Tx          shared.Transactor
	Gateway     PaymentGateway
	Mailer      ConfirmationMailer
	Idempotency shared.IdempotencyStore
	Events      shared.OutboxEventSaver
	Recorder    Recorder
}

// OrderService orchestrates checkout, payment verification and order administration
type OrderService struct {
	orders   trade.OrderRepository
	products catalog.ProductRepository
	carts    CartStore
	tx       shared.Transactor
	gateway  PaymentGateway
	mailer   ConfirmationMailer
	idem     shared.IdempotencyStore
	events   shared.OutboxEventSaver
	recorder Recorder
	config   ServiceConfig
	logger   *zap.Logger
	emails   sync.WaitGroup
}

// NewOrderService creates a new OrderService
func NewOrderService(deps Dependencies, config ServiceConfig, logger *zap.Logger) *OrderService {
	if config.Currency == "" {
		config.Currency = valueobject.DefaultCurrency
	}
	if config.IdempotencyTTL <= 0 {
		config.IdempotencyTTL = 24 * time.Hour
	}
	return &OrderService{
		orders:   deps.Orders,
		products: deps.Products,
		carts:    deps.Carts,
		tx:       deps.Tx,
		gateway:  deps.Gateway,
		mailer:   deps.Mailer,
		idem:     deps.Idempotency,
		events:   deps.Events,
		recorder: deps.Recorder,
		config:   config,
		logger:   logger,
	}
}

// PlaceCOD places a cash-on-delivery order from the user's stored cart
func (s *OrderService) PlaceCOD(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (_ *PlaceOrderResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "place_cod", attribute.String("user_id", userID.String()))
	defer telemetry.EndSpan(span, &err)

	return s.guard(ctx, userID, input.IdempotencyKey, func() (*PlaceOrderResult, error) {
		order, err := s.buildOrder(ctx, userID, input.Address, trade.PaymentMethodCOD)
		if err != nil {
			return nil, err
		}
		if err := s.persist(ctx, order, true); err != nil {
			return nil, err
		}
		s.clearCart(ctx, userID)
		s.observePlaced(order)
		s.sendConfirmation(ctx, order)

		s.logger.Info("Order placed",
			zap.String("order_id", order.ID.String()),
			zap.String("user_id", userID.String()),
			zap.String("payment_method", string(order.PaymentMethod)),
			zap.String("amount", order.Amount.String()))
		return &PlaceOrderResult{Order: ToOrderResponse(order)}, nil
	})
}

// PlaceStripe creates an order awaiting payment and a hosted checkout session
// for it. origin is the storefront base URL the customer returns to.
func (s *OrderService) PlaceStripe(ctx context.Context, userID uuid.UUID, origin string, input PlaceOrderInput) (_ *PlaceOrderResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "place_stripe", attribute.String("user_id", userID.String()))
	defer telemetry.EndSpan(span, &err)

	if s.gateway == nil {
		return nil, shared.NewDomainError("PAYMENT_GATEWAY_ERROR", "Online payment is not available")
	}
	base, err := normalizeOrigin(origin)
	if err != nil {
		return nil, err
	}

	return s.guard(ctx, userID, input.IdempotencyKey, func() (*PlaceOrderResult, error) {
		order, err := s.buildOrder(ctx, userID, input.Address, trade.PaymentMethodStripe)
		if err != nil {
			return nil, err
		}
		if err := s.persist(ctx, order, true); err != nil {
			return nil, err
		}

		session, err := s.gateway.CreateCheckoutSession(ctx, s.checkoutRequest(order, base))
		if err != nil {
			s.logger.Error("Failed to create checkout session",
				zap.String("order_id", order.ID.String()),
				zap.Error(err))
			s.abandonQuietly(context.WithoutCancel(ctx), order, "gateway_error")
			return nil, shared.NewDomainError("PAYMENT_GATEWAY_ERROR", "Payment provider is unavailable")
		}

		if err := order.AttachCheckoutSession(session.ID); err != nil {
			return nil, err
		}
		if err := s.persist(ctx, order, false); err != nil {
			return nil, err
		}

		s.logger.Info("Checkout session created",
			zap.String("order_id", order.ID.String()),
			zap.String("session_id", session.ID))
		return &PlaceOrderResult{Order: ToOrderResponse(order), SessionURL: session.URL}, nil
	})
}

// VerifyStripe handles the customer's return from hosted checkout. success
// reflects the redirect; when the order has a session its payment status is
// confirmed with the gateway before the order is marked paid. A session that
// is not yet paid leaves the order awaiting payment; only a failed return or
// a webhook abandons it.
func (s *OrderService) VerifyStripe(ctx context.Context, userID, orderID uuid.UUID, success bool) (_ *VerifyResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "verify_stripe",
		attribute.String("order_id", orderID.String()),
		attribute.Bool("success", success))
	defer telemetry.EndSpan(span, &err)

	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.IsOwnedBy(userID) {
		return nil, shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
	}
	if order.PaymentMethod != trade.PaymentMethodStripe {
		return nil, shared.NewDomainError("INVALID_STATE", "Order was not paid online")
	}

	if order.Payment {
		resp := ToOrderResponse(order)
		return &VerifyResult{Success: true, Order: &resp}, nil
	}

	if success && order.CheckoutSessionID != "" && s.gateway != nil {
		session, err := s.gateway.GetCheckoutSession(ctx, order.CheckoutSessionID)
		if err != nil {
			s.logger.Error("Failed to retrieve checkout session",
				zap.String("order_id", order.ID.String()),
				zap.Error(err))
			return nil, shared.NewDomainError("PAYMENT_GATEWAY_ERROR", "Could not verify payment")
		}
		if !session.Paid {
			// delayed methods settle through the webhook; the order stays open until then
			s.logger.Warn("Checkout returned success for an unpaid session",
				zap.String("order_id", order.ID.String()),
				zap.String("session_id", session.ID))
			resp := ToOrderResponse(order)
			return &VerifyResult{Success: false, Order: &resp}, nil
		}
	}

	if success {
		if err := s.confirm(ctx, order); err != nil {
			return nil, err
		}
		resp := ToOrderResponse(order)
		return &VerifyResult{Success: true, Order: &resp}, nil
	}

	purged, err := s.abandon(ctx, order, "payment_failed")
	if err != nil {
		return nil, err
	}
	if purged {
		return &VerifyResult{Success: false}, nil
	}
	resp := ToOrderResponse(order)
	return &VerifyResult{Success: false, Order: &resp}, nil
}

// HandleStripeWebhook applies a signed gateway notification. Redeliveries of
// the same event id are ignored.
func (s *OrderService) HandleStripeWebhook(ctx context.Context, payload []byte, signature string) (err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "stripe_webhook")
	defer telemetry.EndSpan(span, &err)

	if s.gateway == nil {
		return shared.NewDomainError("PAYMENT_GATEWAY_ERROR", "Online payment is not available")
	}
	event, err := s.gateway.ParseWebhook(payload, signature)
	if err != nil {
		s.logger.Warn("Rejected webhook", zap.Error(err))
		return shared.NewDomainError("INVALID_SIGNATURE", "Invalid webhook signature")
	}

	key := "webhook:stripe:" + event.ID
	if s.idem != nil && event.ID != "" {
		claimed, err := s.idem.Reserve(ctx, key, idempotencyPending, s.config.IdempotencyTTL)
		if err != nil {
			s.logger.Warn("Idempotency store unavailable, processing webhook anyway", zap.Error(err))
		} else if !claimed {
			s.logger.Debug("Duplicate webhook ignored", zap.String("event_id", event.ID))
			return nil
		}
	}

	if err := s.applyWebhook(ctx, event); err != nil {
		if s.idem != nil && event.ID != "" {
			if rerr := s.idem.Release(context.WithoutCancel(ctx), key); rerr != nil {
				s.logger.Warn("Failed to release webhook key", zap.Error(rerr))
			}
		}
		return err
	}
	return nil
}

func (s *OrderService) applyWebhook(ctx context.Context, event *WebhookEvent) error {
	var paid bool
	switch event.Type {
	case WebhookSessionCompleted:
		if !event.Paid {
			// delayed payment methods settle later through async_payment_succeeded
			return nil
		}
		paid = true
	case WebhookSessionAsyncPaid:
		paid = true
	case WebhookSessionExpired, WebhookSessionAsyncFailed:
		paid = false
	default:
		s.logger.Debug("Webhook event ignored", zap.String("type", event.Type))
		return nil
	}

	order, err := s.orderForEvent(ctx, event)
	if err != nil {
		var de *shared.DomainError
		if errors.As(err, &de) && de.Code == "ORDER_NOT_FOUND" {
			s.logger.Warn("Webhook references unknown order",
				zap.String("event_id", event.ID),
				zap.String("session_id", event.SessionID))
			return nil
		}
		return err
	}

	if paid {
		err = s.confirm(ctx, order)
	} else {
		_, err = s.abandon(ctx, order, "session_expired")
	}
	var de *shared.DomainError
	if errors.As(err, &de) && de.Code == "INVALID_STATUS_TRANSITION" {
		s.logger.Warn("Webhook does not apply to order state",
			zap.String("order_id", order.ID.String()),
			zap.String("status", order.Status.String()),
			zap.String("type", event.Type))
		return nil
	}
	return err
}

func (s *OrderService) orderForEvent(ctx context.Context, event *WebhookEvent) (*trade.Order, error) {
	if id, err := uuid.Parse(event.OrderID); err == nil {
		return s.findOrder(ctx, id)
	}
	if event.SessionID == "" {
		return nil, shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
	}
	order, err := s.orders.FindByCheckoutSession(ctx, event.SessionID)
	if err != nil {
		return nil, s.mapFindError(err, event.SessionID)
	}
	return order, nil
}

// UserOrders lists the caller's orders, newest first
func (s *OrderService) UserOrders(ctx context.Context, userID uuid.UUID) ([]OrderResponse, error) {
	orders, err := s.orders.FindByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list user orders", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list orders")
	}
	return ToOrderResponses(orders), nil
}

// AllOrders lists every order, newest first
func (s *OrderService) AllOrders(ctx context.Context) ([]OrderResponse, error) {
	orders, err := s.orders.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list orders", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list orders")
	}
	return ToOrderResponses(orders), nil
}

// UpdateStatus applies an admin status change validated against the transition table
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*OrderResponse, error) {
	target, err := trade.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	from := order.Status
	if err := order.ChangeStatus(target); err != nil {
		return nil, err
	}
	if from != order.Status {
		if err := s.persist(ctx, order, false); err != nil {
			return nil, err
		}
		s.logger.Info("Order status updated",
			zap.String("order_id", order.ID.String()),
			zap.String("from", from.String()),
			zap.String("to", order.Status.String()))
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// Wait blocks until in-flight confirmation emails have finished
func (s *OrderService) Wait() {
	s.emails.Wait()
}

// buildOrder resolves the stored cart against live catalog prices.
// Entries whose product no longer exists are dropped.
func (s *OrderService) buildOrder(ctx context.Context, userID uuid.UUID, address valueobject.Address, method trade.PaymentMethod) (*trade.Order, error) {
	address, err := valueobject.NewAddress(address)
	if err != nil {
		return nil, err
	}
	c, err := s.carts.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, shared.NewDomainError("CART_EMPTY", "Cart is empty")
	}

	ids := make([]uuid.UUID, 0)
	for _, raw := range c.ProductIDs() {
		if id, err := uuid.Parse(raw); err == nil {
			ids = append(ids, id)
		}
	}
	byID := make(map[string]*catalog.Product, len(ids))
	if len(ids) > 0 {
		products, err := s.products.FindByIDs(ctx, ids)
		if err != nil {
			s.logger.Error("Failed to resolve cart products", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load cart products")
		}
		for i := range products {
			byID[products[i].ID.String()] = &products[i]
		}
	}

	items := make([]trade.OrderItem, 0)
	for _, line := range c.Lines() {
		p, ok := byID[line.ProductID]
		if !ok {
			s.logger.Debug("Dropping unresolvable cart entry", zap.String("product_id", line.ProductID))
			continue
		}
		items = append(items, trade.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Image:     p.PrimaryImage(),
			Size:      line.Size,
			Quantity:  line.Quantity,
		})
	}
	return trade.NewOrder(userID, items, address, s.config.DeliveryCharge, s.config.Currency, method)
}

// persist writes the order and its pending events in one transaction
func (s *OrderService) persist(ctx context.Context, order *trade.Order, create bool) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		if create {
			err = s.orders.Create(ctx, order)
		} else {
			err = s.orders.SaveWithLock(ctx, order)
		}
		if err != nil {
			return err
		}
		return s.saveEvents(ctx, order.PendingEvents())
	})
	if err != nil {
		if errors.Is(err, shared.ErrConcurrencyConflict) {
			return shared.NewDomainError("CONCURRENCY_CONFLICT", "Order was modified concurrently, please retry")
		}
		s.logger.Error("Failed to save order", zap.String("order_id", order.ID.String()), zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to save order")
	}
	order.ClearEvents()
	return nil
}

func (s *OrderService) confirm(ctx context.Context, order *trade.Order) error {
	changed, err := order.ConfirmPayment()
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	if err := s.persist(ctx, order, false); err != nil {
		return err
	}
	s.clearCart(ctx, order.UserID)
	if s.recorder != nil {
		s.recorder.PaymentConfirmed(string(order.PaymentMethod))
	}
	s.observePlaced(order)
	s.sendConfirmation(ctx, order)
	s.logger.Info("Payment confirmed",
		zap.String("order_id", order.ID.String()),
		zap.String("session_id", order.CheckoutSessionID))
	return nil
}

// abandon cancels or, with purge enabled, deletes an unpaid order.
// It reports whether the order was deleted.
func (s *OrderService) abandon(ctx context.Context, order *trade.Order, reason string) (bool, error) {
	changed, err := order.Abandon()
	if err != nil {
		return false, err
	}
	if !changed {
		return false, nil
	}

	if s.config.PurgeAbandoned {
		err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
			if err := s.orders.Delete(ctx, order.ID); err != nil {
				return err
			}
			return s.saveEvents(ctx, order.PendingEvents())
		})
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			s.logger.Error("Failed to delete abandoned order", zap.String("order_id", order.ID.String()), zap.Error(err))
			return false, shared.NewDomainError("INTERNAL_ERROR", "Failed to update order")
		}
		order.ClearEvents()
	} else if err := s.persist(ctx, order, false); err != nil {
		return false, err
	}

	if s.recorder != nil {
		s.recorder.OrderAbandoned(reason)
	}
	s.logger.Info("Checkout abandoned",
		zap.String("order_id", order.ID.String()),
		zap.String("reason", reason),
		zap.Bool("purged", s.config.PurgeAbandoned))
	return s.config.PurgeAbandoned, nil
}

func (s *OrderService) abandonQuietly(ctx context.Context, order *trade.Order, reason string) {
	if _, err := s.abandon(ctx, order, reason); err != nil {
		s.logger.Warn("Failed to abandon order", zap.String("order_id", order.ID.String()), zap.Error(err))
	}
}

// guard runs place once per idempotency key. A repeated key returns the
// original result; a key whose first attempt is still running is a DUPLICATE_REQUEST.
func (s *OrderService) guard(ctx context.Context, userID uuid.UUID, key string, place func() (*PlaceOrderResult, error)) (*PlaceOrderResult, error) {
	key = strings.TrimSpace(key)
	if s.idem == nil || key == "" {
		return place()
	}
	storeKey := fmt.Sprintf("checkout:%s:%s", userID, key)

	claimed, err := s.idem.Reserve(ctx, storeKey, idempotencyPending, s.config.IdempotencyTTL)
	if err != nil {
		s.logger.Warn("Idempotency store unavailable, placing without guard", zap.Error(err))
		return place()
	}
	if !claimed {
		return s.replay(ctx, userID, storeKey)
	}

	result, err := place()
	if err != nil {
		if rerr := s.idem.Release(context.WithoutCancel(ctx), storeKey); rerr != nil {
			s.logger.Warn("Failed to release idempotency key", zap.Error(rerr))
		}
		return nil, err
	}
	value := result.Order.ID.String() + "|" + result.SessionURL
	if err := s.idem.Set(context.WithoutCancel(ctx), storeKey, value, s.config.IdempotencyTTL); err != nil {
		s.logger.Warn("Failed to record idempotency result", zap.Error(err))
	}
	return result, nil
}

func (s *OrderService) replay(ctx context.Context, userID uuid.UUID, storeKey string) (*PlaceOrderResult, error) {
	value, ok, err := s.idem.Lookup(ctx, storeKey)
	if err != nil || !ok || value == idempotencyPending {
		return nil, shared.NewDomainError("DUPLICATE_REQUEST", "This order is already being processed")
	}
	rawID, sessionURL, _ := strings.Cut(value, "|")
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, shared.NewDomainError("DUPLICATE_REQUEST", "This order is already being processed")
	}
	order, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.IsOwnedBy(userID) {
		return nil, shared.NewDomainError("DUPLICATE_REQUEST", "This order is already being processed")
	}
	s.logger.Info("Replayed checkout", zap.String("order_id", order.ID.String()))
	return &PlaceOrderResult{Order: ToOrderResponse(order), SessionURL: sessionURL}, nil
}

func (s *OrderService) checkoutRequest(order *trade.Order, base string) CheckoutRequest {
	lines := make([]CheckoutLine, 0, len(order.Items)+1)
	for _, item := range order.Items {
		lines = append(lines, CheckoutLine{
			Name:       item.Name,
			Image:      item.Image,
			UnitAmount: valueobject.MinorUnits(item.Price),
			Quantity:   int64(item.Quantity),
		})
	}
	if order.DeliveryCharge.IsPositive() {
		lines = append(lines, CheckoutLine{
			Name:       deliveryLineName,
			UnitAmount: valueobject.MinorUnits(order.DeliveryCharge),
			Quantity:   1,
		})
	}
	id := order.ID.String()
	return CheckoutRequest{
		OrderID:        order.ID,
		CustomerEmail:  order.Address.Email,
		Currency:       order.Currency,
		Lines:          lines,
		SuccessURL:     base + "/verify?success=true&orderId=" + id,
		CancelURL:      base + "/verify?success=false&orderId=" + id,
		IdempotencyKey: "checkout-" + id,
	}
}

func (s *OrderService) sendConfirmation(ctx context.Context, order *trade.Order) {
	if s.mailer == nil {
		return
	}
	details := confirmationDetails(order)
	orderID := order.ID.String()

	s.emails.Add(1)
	go func() {
		defer s.emails.Done()
		sendCtx := context.WithoutCancel(ctx)
		if s.config.EmailTimeout > 0 {
			var cancel context.CancelFunc
			sendCtx, cancel = context.WithTimeout(sendCtx, s.config.EmailTimeout)
			defer cancel()
		}
		if err := s.mailer.SendOrderConfirmation(sendCtx, details); err != nil {
			s.logger.Warn("Order confirmation email failed",
				zap.String("order_id", orderID),
				zap.Error(err))
		}
	}()
}

func (s *OrderService) clearCart(ctx context.Context, userID uuid.UUID) {
	if err := s.carts.Clear(context.WithoutCancel(ctx), userID); err != nil {
		s.logger.Warn("Failed to clear cart after order", zap.String("user_id", userID.String()), zap.Error(err))
	}
}

func (s *OrderService) observePlaced(order *trade.Order) {
	if s.recorder != nil {
		s.recorder.OrderPlaced(string(order.PaymentMethod), order.Amount)
	}
}

func (s *OrderService) saveEvents(ctx context.Context, events []shared.DomainEvent) error {
	if s.events == nil || len(events) == 0 {
		return nil
	}
	return s.events.SaveEvents(ctx, events...)
}

func (s *OrderService) findOrder(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapFindError(err, id.String())
	}
	return order, nil
}

func (s *OrderService) mapFindError(err error, ref string) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
	}
	s.logger.Error("Failed to load order", zap.String("ref", ref), zap.Error(err))
	return shared.NewDomainError("INTERNAL_ERROR", "Failed to load order")
}

func confirmationDetails(order *trade.Order) notification.OrderDetails {
	lines := make([]notification.OrderLine, len(order.Items))
	for i, item := range order.Items {
		lines[i] = notification.OrderLine{
			Name:     item.Name,
			Size:     item.Size,
			Quantity: item.Quantity,
			Price:    item.Price,
		}
	}
	return notification.OrderDetails{
		OrderID:  order.ID.String(),
		Name:     order.Address.FullName(),
		Items:    lines,
		Address:  order.Address,
		Amount:   order.Amount,
		Currency: order.Currency,
	}
}

// normalizeOrigin accepts an absolute http(s) origin and strips any path
func normalizeOrigin(origin string) (string, error) {
	origin = strings.TrimSpace(origin)
	u, err := url.Parse(origin)
	if err != nil || origin == "" || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", shared.NewDomainError("INVALID_INPUT", "A valid Origin header is required")
	}
	return u.Scheme + "://" + u.Host, nil
}
