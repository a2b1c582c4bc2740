package notification

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/identity"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/shared"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// OrderLine is one purchased item in a confirmation email
type OrderLine struct {
	Name     string          `json:"name"`
	Size     string          `json:"size"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// OrderDetails is the content of an order confirmation
type OrderDetails struct {
	OrderID  string
	Name     string
	Items    []OrderLine
	Address  valueobject.Address
	Amount   decimal.Decimal
	Currency valueobject.Currency
}

// Service sends transactional emails
type Service struct {
	mailer    Mailer
	storeName string
	logger    *zap.Logger
}

// NewService creates a new notification Service
func NewService(mailer Mailer, storeName string, logger *zap.Logger) *Service {
	if storeName == "" {
		storeName = "Clothing E-commerce"
	}
	return &Service{mailer: mailer, storeName: storeName, logger: logger}
}

// SendNewsletterConfirmation welcomes a new newsletter subscriber
func (s *Service) SendNewsletterConfirmation(ctx context.Context, email string) error {
	email = identity.NormalizeEmail(email)
	if err := identity.ValidateEmail(email); err != nil {
		return err
	}
	body, err := render(newsletterTemplate, newsletterData{Store: s.storeName})
	if err != nil {
		s.logger.Error("Failed to render newsletter email", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to prepare email")
	}
	return s.send(ctx, Message{To: email, Subject: newsletterSubject, HTMLBody: body})
}

// SendOrderConfirmation emails the order summary to the shipping address email
func (s *Service) SendOrderConfirmation(ctx context.Context, details OrderDetails) error {
	if len(details.Items) == 0 || details.Address.IsEmpty() || !details.Amount.IsPositive() {
		return shared.NewDomainError("INVALID_INPUT", "Missing order details")
	}
	to := identity.NormalizeEmail(details.Address.Email)
	if err := identity.ValidateEmail(to); err != nil {
		return err
	}

	name := details.Name
	if name == "" {
		name = details.Address.FullName()
	}
	lines := make([]orderLineData, 0, len(details.Items))
	for _, item := range details.Items {
		lines = append(lines, orderLineData{
			Name:     item.Name,
			Size:     item.Size,
			Quantity: item.Quantity,
			Price:    formatAmount(item.Price, details.Currency),
		})
	}
	body, err := render(orderTemplate, orderData{
		Store:        s.storeName,
		Name:         name,
		OrderID:      details.OrderID,
		Items:        lines,
		AddressLines: details.Address.Lines(),
		Amount:       formatAmount(details.Amount, details.Currency),
	})
	if err != nil {
		s.logger.Error("Failed to render order email", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to prepare email")
	}
	return s.send(ctx, Message{To: to, Subject: orderSubject, HTMLBody: body})
}

func (s *Service) send(ctx context.Context, msg Message) error {
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.Error("Email delivery failed",
			zap.String("subject", msg.Subject),
			zap.Error(err))
		return shared.NewDomainError("EMAIL_DELIVERY_FAILED", "Failed to send email. Please try again.")
	}
	s.logger.Info("Email sent", zap.String("subject", msg.Subject))
	return nil
}

func formatAmount(amount decimal.Decimal, currency valueobject.Currency) string {
	if currency == "" {
		return amount.StringFixed(2)
	}
	return strings.ToUpper(string(currency)) + " " + amount.StringFixed(2)
}
