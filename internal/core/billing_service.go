package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"ageback-backend-go/internal/models"
	"ageback-backend-go/internal/payment"
)

type billingService struct {
	gateway      payment.Gateway
	accounts     AccountService
	redirectBase string
	logger       *zap.Logger
}

// NewBillingService creates a BillingService. Checkout sessions redirect
// back to redirectBase.
func NewBillingService(gateway payment.Gateway, accounts AccountService, redirectBase string, logger *zap.Logger) BillingService {
	return &billingService{
		gateway:      gateway,
		accounts:     accounts,
		redirectBase: strings.TrimRight(redirectBase, "/"),
		logger:       logger,
	}
}

func (s *billingService) ListPlans() map[string]models.Plan {
	out := make(map[string]models.Plan)
	for _, p := range models.Plans() {
		out[p.Key] = p
	}
	return out
}

func (s *billingService) CreateCheckoutSession(ctx context.Context, planKey string) (*models.CheckoutSession, error) {
	return s.openSession(ctx, planKey, models.CheckoutPayment)
}

func (s *billingService) CreateSubscriptionSession(ctx context.Context, planKey string) (*models.CheckoutSession, error) {
	return s.openSession(ctx, planKey, models.CheckoutSubscription)
}

func (s *billingService) openSession(ctx context.Context, planKey string, mode models.CheckoutMode) (*models.CheckoutSession, error) {
	planKey = strings.TrimSpace(planKey)
	if planKey == "" {
		return nil, invalid(ReasonPlanRequired, "planId is required")
	}
	plan, ok := models.PlanByKey(planKey)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPlanNotFound, planKey)
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, models.CheckoutRequest{
		Plan:       plan,
		Mode:       mode,
		SuccessURL: s.redirectBase + "/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  s.redirectBase + "/paywall",
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPaymentProvider, err)
	}

	s.logger.Info("Checkout session created",
		zap.String("sessionId", session.ID),
		zap.String("plan", plan.Key),
		zap.String("mode", string(mode)))
	return session, nil
}

func (s *billingService) GetPaymentStatus(ctx context.Context, sessionID string) (*models.PaymentStatus, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, invalid(ReasonSessionRequired, "sessionId is required")
	}

	status, err := s.gateway.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, payment.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrPaymentSessionNotFound, sessionID)
		}
		return nil, fmt.Errorf("%w: %w", ErrPaymentProvider, err)
	}
	return status, nil
}

func (s *billingService) VerifyPaidSession(ctx context.Context, sessionID, email string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("%w: no checkout session supplied", ErrPaymentNotCompleted)
	}
	status, err := s.GetPaymentStatus(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrPaymentSessionNotFound) {
			return fmt.Errorf("%w: %w", ErrPaymentNotCompleted, err)
		}
		return err
	}

	if !status.Paid() {
		return fmt.Errorf("%w: session %s is %q", ErrPaymentNotCompleted, sessionID, status.Status)
	}
	if models.NormalizeEmail(status.CustomerEmail) != models.NormalizeEmail(email) {
		return fmt.Errorf("%w: session %s was paid by another email", ErrPaymentNotCompleted, sessionID)
	}
	return nil
}

func (s *billingService) HandleStripeWebhook(ctx context.Context, signature string, payload []byte) error {
	event, err := s.gateway.ParseWebhook(payload, signature)
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrWebhookDisabled):
			return ErrWebhookNotConfigured
		case errors.Is(err, payment.ErrSignature):
			return fmt.Errorf("%w: %w", ErrWebhookSignature, err)
		default:
			return fmt.Errorf("%w: %w", ErrWebhookProcessing, err)
		}
	}

	if event.Type != models.PaymentEventCheckoutCompleted {
		s.logger.Debug("Stripe webhook ignored (unhandled type)",
			zap.String("eventId", event.ID), zap.String("type", event.RawType))
		return nil
	}

	session := event.Session
	if !session.Paid() {
		s.logger.Info("Checkout completed without payment, skipping upgrade",
			zap.String("sessionId", session.SessionID), zap.String("status", session.Status))
		return nil
	}
	email := models.NormalizeEmail(session.CustomerEmail)
	if email == "" {
		s.logger.Warn("Paid checkout session carries no customer email", zap.String("sessionId", session.SessionID))
		return nil
	}

	input := models.PaymentSuccessInput{Email: email, Name: session.CustomerName, SessionID: session.SessionID}
	_, err = s.accounts.CompletePayment(ctx, input)
	if errors.Is(err, ErrUserNotFound) {
		// Paid without going through intake first.
		if _, _, err := s.accounts.CreateLead(ctx, models.LeadInput{Name: leadName(session.CustomerName, email), Email: email}); err != nil {
			return fmt.Errorf("%w: create lead for %s: %w", ErrWebhookProcessing, email, err)
		}
		_, err = s.accounts.CompletePayment(ctx, input)
	}

	switch {
	case err == nil:
		s.logger.Info("Customer upgraded from webhook", zap.String("eventId", event.ID), zap.String("email", email))
		return nil
	case errors.Is(err, ErrAlreadyCustomer):
		s.logger.Info("Webhook for existing customer acknowledged", zap.String("eventId", event.ID), zap.String("email", email))
		return nil
	default:
		return fmt.Errorf("%w: %w", ErrWebhookProcessing, err)
	}
}

func leadName(name, email string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	local, _, _ := strings.Cut(email, "@")
	return local
}
