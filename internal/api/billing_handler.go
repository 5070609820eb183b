package api

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ageback-backend-go/internal/core"
	"ageback-backend-go/internal/models"
)

// maxWebhookBytes bounds the Stripe webhook body.
const maxWebhookBytes = 64 << 10

// BillingHandler handles plans, checkout and payment completion.
type BillingHandler struct {
	billingService core.BillingService
	accountService core.AccountService
	verifySession  bool
	logger         *zap.Logger
}

// NewBillingHandler creates a BillingHandler. With verifySession set, the
// payment-success route only upgrades against a paid session.
func NewBillingHandler(bs core.BillingService, as core.AccountService, verifySession bool, logger *zap.Logger) *BillingHandler {
	return &BillingHandler{billingService: bs, accountService: as, verifySession: verifySession, logger: logger}
}

// ListPlans handles GET /plans.
func (h *BillingHandler) ListPlans(c *gin.Context) {
	c.JSON(http.StatusOK, h.billingService.ListPlans())
}

// CreateCheckoutSession handles POST /create-checkout-session.
func (h *BillingHandler) CreateCheckoutSession(c *gin.Context) {
	h.openSession(c, h.billingService.CreateCheckoutSession)
}

// CreateSubscriptionSession handles POST /create-subscription-session.
func (h *BillingHandler) CreateSubscriptionSession(c *gin.Context) {
	h.openSession(c, h.billingService.CreateSubscriptionSession)
}

func (h *BillingHandler) openSession(c *gin.Context, open func(ctx context.Context, planKey string) (*models.CheckoutSession, error)) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	session, err := open(c.Request.Context(), req.PlanID)
	if err != nil {
		mapBillingError(h.logger, c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// GetPaymentStatus handles GET /payment-status/:sessionId.
func (h *BillingHandler) GetPaymentStatus(c *gin.Context) {
	status, err := h.billingService.GetPaymentStatus(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		mapBillingError(h.logger, c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// PaymentSuccess handles POST /api/payment/success.
func (h *BillingHandler) PaymentSuccess(c *gin.Context) {
	var req PaymentSuccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}
	ctx := requestContext(c)

	if strings.TrimSpace(req.Email) == "" {
		respondError(c, apiError{http.StatusBadRequest, core.ReasonEmailRequired, "Email is required"})
		return
	}
	sessionID := strings.TrimSpace(req.SessionID)
	if h.verifySession || sessionID != "" {
		if err := h.billingService.VerifyPaidSession(ctx, sessionID, req.Email); err != nil {
			h.logger.Warn("Payment success rejected",
				zap.String("email", models.NormalizeEmail(req.Email)),
				zap.String("sessionId", sessionID),
				zap.Error(err))
			mapBillingError(h.logger, c, err)
			return
		}
	}

	result, err := h.accountService.CompletePayment(ctx, models.PaymentSuccessInput{
		Email:     req.Email,
		Name:      req.Name,
		SessionID: sessionID,
	})
	if err != nil {
		mapAccountError(h.logger, c, err)
		return
	}

	emailSent := result.EmailSent
	c.JSON(http.StatusOK, UpgradeResponse{
		Success:   true,
		Message:   "Password generated and user updated",
		User:      result.User,
		Password:  result.Credential,
		EmailSent: &emailSent,
	})
}

// HandleStripeWebhook handles POST /webhooks/stripe.
// Stripe authenticates the request with the Stripe-Signature header.
func (h *BillingHandler) HandleStripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBytes))
	if err != nil {
		h.logger.Warn("Stripe webhook: failed to read body", zap.Error(err))
		respondError(c, apiError{http.StatusBadRequest, ReasonInvalidRequest, "Failed to read webhook payload"})
		return
	}

	if err := h.billingService.HandleStripeWebhook(requestContext(c), c.GetHeader("Stripe-Signature"), payload); err != nil {
		mapBillingError(h.logger, c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
