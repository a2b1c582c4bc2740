package notification

import "context"

// Message is a single outbound email
type Message struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}

// Mailer delivers one message. Implementations return an error when the
// message was not accepted by the relay.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
