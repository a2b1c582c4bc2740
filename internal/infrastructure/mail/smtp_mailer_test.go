package mail

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/application/notification"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	gomail "gopkg.in/mail.v2"
)

type fakeSender struct {
	sent  []*gomail.Message
	err   error
	calls int
}

func (s *fakeSender) DialAndSend(m ...*gomail.Message) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, m...)
	return nil
}

func render(t *testing.T, m *gomail.Message) string {
	t.Helper()
	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	return buf.String()
}

func testConfig() Config {
	return Config{Host: "smtp.example.com", From: "shop@example.com", FromName: "Clothing Store"}
}

func TestSMTPMailer_Send(t *testing.T) {
	s := &fakeSender{}
	mailer := newSMTPMailer(testConfig(), s, zap.NewNop())

	err := mailer.Send(context.Background(), notification.Message{
		To:       "buyer@example.com",
		Subject:  "Order Confirmation - Clothing E-commerce",
		HTMLBody: "<p>Thanks</p>",
		TextBody: "Thanks",
	})

	require.NoError(t, err)
	require.Len(t, s.sent, 1)
	raw := render(t, s.sent[0])
	assert.Contains(t, raw, `From: "Clothing Store" <shop@example.com>`)
	assert.Contains(t, raw, "To: buyer@example.com")
	assert.Contains(t, raw, "Subject: Order Confirmation - Clothing E-commerce")
	assert.Contains(t, raw, "multipart/alternative")
	assert.Contains(t, raw, "<p>Thanks</p>")
}

func TestSMTPMailer_Send_HTMLOnly(t *testing.T) {
	s := &fakeSender{}
	cfg := testConfig()
	cfg.FromName = ""
	mailer := newSMTPMailer(cfg, s, zap.NewNop())

	require.NoError(t, mailer.Send(context.Background(), notification.Message{To: "a@example.com", Subject: "Hi", HTMLBody: "<b>hi</b>"}))

	raw := render(t, s.sent[0])
	assert.Contains(t, raw, "From: shop@example.com")
	assert.Contains(t, raw, "Content-Type: text/html")
}

func TestSMTPMailer_Send_Failure(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	s := &fakeSender{err: errors.New("535 authentication failed")}
	mailer := newSMTPMailer(testConfig(), s, zap.New(core))

	err := mailer.Send(context.Background(), notification.Message{To: "a@example.com", Subject: "Hi", TextBody: "hi"})

	assert.ErrorContains(t, err, "535 authentication failed")
	assert.Equal(t, 1, logs.FilterMessage("Failed to send email").Len())
}

func TestSMTPMailer_Send_BreakerStopsDialing(t *testing.T) {
	s := &fakeSender{err: errors.New("connection refused")}
	mailer := newSMTPMailer(testConfig(), s, zap.NewNop())
	msg := notification.Message{To: "a@example.com", Subject: "Hi", TextBody: "hi"}

	for range 7 {
		_ = mailer.Send(context.Background(), msg)
	}

	assert.Equal(t, 5, s.calls)
}

func TestSMTPMailer_Send_CancelledContext(t *testing.T) {
	s := &fakeSender{}
	mailer := newSMTPMailer(testConfig(), s, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := mailer.Send(ctx, notification.Message{To: "a@example.com"})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, s.calls)
}

func TestNewSMTPMailer_Validation(t *testing.T) {
	_, err := NewSMTPMailer(Config{From: "shop@example.com"}, zap.NewNop())
	assert.ErrorContains(t, err, "smtp host is required")

	_, err = NewSMTPMailer(Config{Host: "smtp.example.com"}, zap.NewNop())
	assert.ErrorContains(t, err, "from address is required")

	mailer, err := NewSMTPMailer(testConfig(), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 587, mailer.config.Port)
}

func TestNewSMTPMailer_Timeout(t *testing.T) {
	cfg := testConfig()
	cfg.Timeout = 3 * time.Second

	mailer, err := NewSMTPMailer(cfg, zap.NewNop())
	require.NoError(t, err)
	d, ok := mailer.sender.(*gomail.Dialer)
	require.True(t, ok)
	assert.Equal(t, 3*time.Second, d.Timeout)
}

func TestLogMailer_Send(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	mailer := NewLogMailer(zap.New(core))

	require.NoError(t, mailer.Send(context.Background(), notification.Message{To: "a@example.com", Subject: "Welcome"}))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "a@example.com", entries[0].ContextMap()["to"])
}
