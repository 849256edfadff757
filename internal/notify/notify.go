// Package notify delivers quotation documents to customers over outbound
// messaging channels.
package notify

import (
	"context"
	"log/slog"
)

// Message is one outbound notification about a rendered quotation.
type Message struct {
	Phone        string
	CustomerName string
	Number       string
	DocumentURL  string
}

// Sender pushes a message to the customer. Implementations wrap WhatsApp, SMS
// or email gateways.
type Sender interface {
	Send(ctx context.Context, m Message) error
}

// LogSender is the default Sender: it records the notification instead of
// delivering it. Used until a messaging gateway is configured.
type LogSender struct {
	Logger *slog.Logger
}

func (s *LogSender) Send(_ context.Context, m Message) error {
	s.Logger.Info("quotation notification",
		slog.String("phone", m.Phone),
		slog.String("number", m.Number),
		slog.String("document_url", m.DocumentURL))
	return nil
}
