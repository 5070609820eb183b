// Package payment opens and inspects checkout sessions with the payment
// provider and verifies its webhook notifications.
package payment

import (
	"context"
	"errors"

	"ageback-backend-go/internal/models"
)

var (
	ErrNotFound        = errors.New("payment session not found")
	ErrSignature       = errors.New("webhook signature verification failed")
	ErrWebhookDisabled = errors.New("webhook secret not configured")
	ErrMalformedEvent  = errors.New("malformed webhook event")
)

// Gateway is the payment provider as seen by the billing service.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req models.CheckoutRequest) (*models.CheckoutSession, error)
	GetSession(ctx context.Context, sessionID string) (*models.PaymentStatus, error)
	// ParseWebhook verifies the signature header and decodes the event.
	ParseWebhook(payload []byte, signature string) (*models.PaymentEvent, error)
}
