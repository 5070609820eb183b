package mailer

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mailgun/mailgun-go/v4"
)

// MailgunSender sends through the Mailgun HTTP API.
type MailgunSender struct {
	mg mailgun.Mailgun
}

func NewMailgunSender(domain, apiKey string, timeout time.Duration) *MailgunSender {
	mg := mailgun.NewMailgun(domain, apiKey)
	mg.SetClient(&http.Client{Timeout: timeout})
	return &MailgunSender{mg: mg}
}

func (s *MailgunSender) Send(ctx context.Context, msg Message) (string, error) {
	if err := msg.validate(); err != nil {
		return "", err
	}

	m := s.mg.NewMessage(msg.From, msg.Subject, msg.Text, msg.To)
	m.SetHtml(msg.HTML)

	_, id, err := s.mg.Send(ctx, m)
	if err != nil {
		return "", fmt.Errorf("mailgun send: %w", err)
	}
	return id, nil
}
