// Package mail delivers notification emails over SMTP.
package mail

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/application/notification"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/infrastructure/breaker"
	"go.uber.org/zap"
	gomail "gopkg.in/mail.v2"
)

// Config holds SMTP delivery settings
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	Timeout  time.Duration
}

// sender is the part of *gomail.Dialer used to deliver messages
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer implements notification.Mailer over an SMTP relay
type SMTPMailer struct {
	config  Config
	sender  sender
	breaker *gobreaker.CircuitBreaker[struct{}]
	logger  *zap.Logger
}

// NewSMTPMailer creates a mailer dialing cfg.Host for every message
func NewSMTPMailer(cfg Config, logger *zap.Logger) (*SMTPMailer, error) {
	if cfg.Host == "" {
		return nil, errors.New("mail: smtp host is required")
	}
	if cfg.From == "" {
		return nil, errors.New("mail: from address is required")
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	if cfg.Timeout > 0 {
		d.Timeout = cfg.Timeout
	}
	d.StartTLSPolicy = gomail.OpportunisticStartTLS

	return newSMTPMailer(cfg, d, logger), nil
}

func newSMTPMailer(cfg Config, s sender, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{
		config:  cfg,
		sender:  s,
		breaker: breaker.New[struct{}]("smtp", breaker.DefaultConfig(), logger),
		logger:  logger,
	}
}

// Send implements notification.Mailer
func (m *SMTPMailer) Send(ctx context.Context, msg notification.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	message := m.build(msg)
	_, err := m.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, m.sender.DialAndSend(message)
	})
	if err != nil {
		m.logger.Error("Failed to send email",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
			zap.Bool("breaker_open", breaker.IsOpen(err)),
			zap.Error(err))
		return fmt.Errorf("mail: send to %s: %w", msg.To, err)
	}

	m.logger.Info("Email sent", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}

func (m *SMTPMailer) build(msg notification.Message) *gomail.Message {
	message := gomail.NewMessage()
	if m.config.FromName != "" {
		message.SetAddressHeader("From", m.config.From, m.config.FromName)
	} else {
		message.SetHeader("From", m.config.From)
	}
	message.SetHeader("To", msg.To)
	message.SetHeader("Subject", msg.Subject)

	switch {
	case msg.TextBody != "" && msg.HTMLBody != "":
		message.SetBody("text/plain", msg.TextBody)
		message.AddAlternative("text/html", msg.HTMLBody)
	case msg.HTMLBody != "":
		message.SetBody("text/html", msg.HTMLBody)
	default:
		message.SetBody("text/plain", msg.TextBody)
	}
	return message
}

// LogMailer logs messages instead of sending them. It is used when SMTP is
// not configured.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer creates a new LogMailer
func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send implements notification.Mailer
func (m *LogMailer) Send(_ context.Context, msg notification.Message) error {
	m.logger.Info("Email not sent, SMTP disabled",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("html_bytes", len(msg.HTMLBody)))
	return nil
}

var (
	_ notification.Mailer = (*SMTPMailer)(nil)
	_ notification.Mailer = (*LogMailer)(nil)
)
