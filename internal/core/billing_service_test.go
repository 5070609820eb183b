package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ageback-backend-go/internal/models"
	"ageback-backend-go/internal/payment"
)

func newBilling(t *testing.T) (*MockGateway, *accountFixture, BillingService) {
	t.Helper()
	gw := &MockGateway{}
	accounts := newAccountFixture(t)
	return gw, accounts, NewBillingService(gw, accounts.service, "https://app.example.com/", zap.NewNop())
}

func TestCreateCheckoutSession(t *testing.T) {
	ctx := context.Background()

	t.Run("Should open a one-time session for a known plan", func(t *testing.T) {
		gw, _, svc := newBilling(t)
		gw.On("CreateCheckoutSession", mock.Anything, mock.MatchedBy(func(req models.CheckoutRequest) bool {
			return req.Plan.Key == "premium" &&
				req.Plan.Amount == 1599 &&
				req.Mode == models.CheckoutPayment &&
				req.SuccessURL == "https://app.example.com/success?session_id={CHECKOUT_SESSION_ID}" &&
				req.CancelURL == "https://app.example.com/paywall"
		})).Return(&models.CheckoutSession{ID: "cs_1", URL: "https://checkout.stripe.com/c/cs_1"}, nil).Once()

		s, err := svc.CreateCheckoutSession(ctx, "premium")
		require.NoError(t, err)
		assert.Equal(t, "cs_1", s.ID)
		gw.AssertExpectations(t)
	})

	t.Run("Should open a monthly subscription", func(t *testing.T) {
		gw, _, svc := newBilling(t)
		gw.On("CreateCheckoutSession", mock.Anything, mock.MatchedBy(func(req models.CheckoutRequest) bool {
			return req.Mode == models.CheckoutSubscription
		})).Return(&models.CheckoutSession{ID: "cs_2"}, nil).Once()

		_, err := svc.CreateSubscriptionSession(ctx, "basic")
		require.NoError(t, err)
		gw.AssertExpectations(t)
	})

	t.Run("Should reject unknown plans without calling the provider", func(t *testing.T) {
		gw, _, svc := newBilling(t)

		_, err := svc.CreateCheckoutSession(ctx, "platinum")
		assert.ErrorIs(t, err, ErrPlanNotFound)
		_, err = svc.CreateCheckoutSession(ctx, "")
		assert.ErrorIs(t, err, ErrValidation)
		gw.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything)
	})

	t.Run("Should wrap provider faults", func(t *testing.T) {
		gw, _, svc := newBilling(t)
		gw.On("CreateCheckoutSession", mock.Anything, mock.Anything).Return(nil, errors.New("stripe: 500")).Once()

		_, err := svc.CreateCheckoutSession(ctx, "pro")
		assert.ErrorIs(t, err, ErrPaymentProvider)
	})
}

func TestListPlans(t *testing.T) {
	_, _, svc := newBilling(t)

	plans := svc.ListPlans()
	assert.Len(t, plans, 3)
	assert.Equal(t, int64(2599), plans["pro"].Amount)
	assert.Equal(t, "usd", plans["basic"].Currency)
}

func TestVerifyPaidSession(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name   string
		status *models.PaymentStatus
		err    error
		want   error
	}{
		{"Should accept a paid session for the same email", &models.PaymentStatus{Status: "paid", CustomerEmail: "Anna@Example.com"}, nil, nil},
		{"Should reject an unpaid session", &models.PaymentStatus{Status: "unpaid", CustomerEmail: "anna@example.com"}, nil, ErrPaymentNotCompleted},
		{"Should reject another payer", &models.PaymentStatus{Status: "paid", CustomerEmail: "eve@example.com"}, nil, ErrPaymentNotCompleted},
		{"Should reject an unknown session", nil, payment.ErrNotFound, ErrPaymentNotCompleted},
		{"Should surface provider faults", nil, errors.New("timeout"), ErrPaymentProvider},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gw, _, svc := newBilling(t)
			gw.On("GetSession", mock.Anything, "cs_1").Return(tc.status, tc.err).Once()

			err := svc.VerifyPaidSession(ctx, "cs_1", "anna@example.com")
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}

	t.Run("Should reject a missing session without calling the provider", func(t *testing.T) {
		gw, _, svc := newBilling(t)

		err := svc.VerifyPaidSession(ctx, "  ", "anna@example.com")

		assert.ErrorIs(t, err, ErrPaymentNotCompleted)
		gw.AssertNotCalled(t, "GetSession", mock.Anything, mock.Anything)
	})
}

func completedEvent(email, name, status string) *models.PaymentEvent {
	return &models.PaymentEvent{
		ID:      "evt_1",
		Type:    models.PaymentEventCheckoutCompleted,
		RawType: "checkout.session.completed",
		Session: &models.PaymentStatus{SessionID: "cs_1", Status: status, CustomerEmail: email, CustomerName: name},
	}
}

func TestHandleStripeWebhook(t *testing.T) {
	ctx := context.Background()
	payload := []byte(`{}`)

	t.Run("Should upgrade the paying lead", func(t *testing.T) {
		gw, accounts, svc := newBilling(t)
		_, _, err := accounts.service.CreateLead(ctx, models.LeadInput{Name: "Anna", Email: "anna@example.com"})
		require.NoError(t, err)
		gw.On("ParseWebhook", payload, "sig").Return(completedEvent("anna@example.com", "", "paid"), nil)
		accounts.sender.On("Send", mock.Anything, mock.Anything).Return("msg", nil).Once()

		require.NoError(t, svc.HandleStripeWebhook(ctx, "sig", payload))
		assert.Equal(t, models.RoleCustomer, accounts.stored(t, "anna@example.com").Role)
		accounts.sender.AssertExpectations(t)
	})

	t.Run("Should create a lead for an unknown payer", func(t *testing.T) {
		gw, accounts, svc := newBilling(t)
		gw.On("ParseWebhook", payload, "sig").Return(completedEvent("new@example.com", "", "paid"), nil)
		accounts.sender.On("Send", mock.Anything, mock.Anything).Return("msg", nil).Once()

		require.NoError(t, svc.HandleStripeWebhook(ctx, "sig", payload))
		u := accounts.stored(t, "new@example.com")
		assert.Equal(t, models.RoleCustomer, u.Role)
		assert.Equal(t, "new", u.Name)
	})

	t.Run("Should acknowledge a repeat delivery", func(t *testing.T) {
		gw, accounts, svc := newBilling(t)
		seedCustomer(t, accounts, "anna@example.com", "AbC12345")
		gw.On("ParseWebhook", payload, "sig").Return(completedEvent("anna@example.com", "Anna", "paid"), nil)

		assert.NoError(t, svc.HandleStripeWebhook(ctx, "sig", payload))
		accounts.sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("Should skip unpaid and unrelated events", func(t *testing.T) {
		gw, accounts, svc := newBilling(t)
		gw.On("ParseWebhook", payload, "unpaid").Return(completedEvent("anna@example.com", "", "unpaid"), nil)
		gw.On("ParseWebhook", payload, "other").Return(&models.PaymentEvent{ID: "evt_2", Type: models.PaymentEventIgnored, RawType: "invoice.paid"}, nil)

		assert.NoError(t, svc.HandleStripeWebhook(ctx, "unpaid", payload))
		assert.NoError(t, svc.HandleStripeWebhook(ctx, "other", payload))
		assert.Zero(t, accounts.users.count())
	})

	t.Run("Should map verification errors", func(t *testing.T) {
		gw, _, svc := newBilling(t)
		gw.On("ParseWebhook", payload, "bad").Return(nil, payment.ErrSignature)
		gw.On("ParseWebhook", payload, "off").Return(nil, payment.ErrWebhookDisabled)

		assert.ErrorIs(t, svc.HandleStripeWebhook(ctx, "bad", payload), ErrWebhookSignature)
		assert.ErrorIs(t, svc.HandleStripeWebhook(ctx, "off", payload), ErrWebhookNotConfigured)
	})
}
