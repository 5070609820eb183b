package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ageback-backend-go/internal/core"
)

// Machine-readable failure reasons not covered by core validation reasons.
const (
	ReasonInvalidRequest       = "invalid_request"
	ReasonUserNotFound         = "user_not_found"
	ReasonAlreadyCustomer      = "already_customer"
	ReasonNotCustomer          = "not_customer"
	ReasonCredentialNotSet     = "password_not_set"
	ReasonInvalidCredential    = "invalid_password"
	ReasonLessonNotFound       = "lesson_not_found"
	ReasonPlanNotFound         = "plan_not_found"
	ReasonSessionNotFound      = "session_not_found"
	ReasonPaymentNotCompleted  = "payment_not_completed"
	ReasonPaymentProvider      = "payment_provider_error"
	ReasonWebhookSignature     = "webhook_signature_invalid"
	ReasonWebhookProcessing    = "webhook_processing_failed"
	ReasonWebhookNotConfigured = "webhook_not_configured"
	ReasonFileNotFound         = "file_not_found"
	ReasonFileStore            = "file_store_error"
	ReasonEmailDelivery        = "email_delivery_failed"
	ReasonInternal             = "internal_error"
)

// apiError is a resolved HTTP failure.
type apiError struct {
	status  int
	reason  string
	message string
}

func respondError(c *gin.Context, e apiError) {
	c.JSON(e.status, ErrorResponse{Success: false, Message: e.message, Reason: e.reason})
}

// validationError resolves a *core.ValidationError, if err carries one.
func validationError(err error) (apiError, bool) {
	var ve *core.ValidationError
	if errors.As(err, &ve) {
		return apiError{http.StatusBadRequest, ve.Reason, ve.Message}, true
	}
	return apiError{}, false
}

func internalError(logger *zap.Logger, c *gin.Context, err error) apiError {
	logger.Error("Request failed",
		zap.String("route", c.FullPath()),
		zap.Error(err))
	return apiError{http.StatusInternalServerError, ReasonInternal, "Server error"}
}

// mapAccountError maps errors from core.AccountService.
func mapAccountError(logger *zap.Logger, c *gin.Context, err error) {
	if e, ok := validationError(err); ok {
		respondError(c, e)
		return
	}

	var e apiError
	switch {
	case errors.Is(err, core.ErrUserNotFound):
		e = apiError{http.StatusNotFound, ReasonUserNotFound, "User not found"}
	case errors.Is(err, core.ErrAlreadyCustomer):
		e = apiError{http.StatusConflict, ReasonAlreadyCustomer, "User is already a customer"}
	case errors.Is(err, core.ErrNotCustomer):
		e = apiError{http.StatusForbidden, ReasonNotCustomer, "Access is available to customers only"}
	case errors.Is(err, core.ErrCredentialNotSet):
		e = apiError{http.StatusForbidden, ReasonCredentialNotSet, "Password has not been set"}
	case errors.Is(err, core.ErrInvalidCredential):
		e = apiError{http.StatusUnauthorized, ReasonInvalidCredential, "Invalid password"}
	case errors.Is(err, core.ErrEmailDelivery):
		logger.Warn("Email delivery failed", zap.Error(err))
		e = apiError{http.StatusBadGateway, ReasonEmailDelivery, "Failed to send email"}
	default:
		e = internalError(logger, c, err)
	}
	respondError(c, e)
}

// mapSignInError differs from mapAccountError only for unknown emails,
// which are reported as an authentication failure.
func mapSignInError(logger *zap.Logger, c *gin.Context, err error) {
	if errors.Is(err, core.ErrUserNotFound) {
		respondError(c, apiError{http.StatusUnauthorized, ReasonUserNotFound, "User not found"})
		return
	}
	mapAccountError(logger, c, err)
}

// mapLessonError maps errors from core.LessonService.
func mapLessonError(logger *zap.Logger, c *gin.Context, err error) {
	if e, ok := validationError(err); ok {
		respondError(c, e)
		return
	}

	var e apiError
	switch {
	case errors.Is(err, core.ErrLessonNotFound):
		e = apiError{http.StatusNotFound, ReasonLessonNotFound, "Lesson not found"}
	default:
		e = internalError(logger, c, err)
	}
	respondError(c, e)
}

// mapBillingError maps errors from core.BillingService.
func mapBillingError(logger *zap.Logger, c *gin.Context, err error) {
	if e, ok := validationError(err); ok {
		respondError(c, e)
		return
	}

	var e apiError
	switch {
	case errors.Is(err, core.ErrPlanNotFound):
		e = apiError{http.StatusNotFound, ReasonPlanNotFound, "Invalid pricing plan"}
	case errors.Is(err, core.ErrPaymentSessionNotFound):
		e = apiError{http.StatusNotFound, ReasonSessionNotFound, "Payment session not found"}
	case errors.Is(err, core.ErrPaymentNotCompleted):
		e = apiError{http.StatusPaymentRequired, ReasonPaymentNotCompleted, "Payment has not been completed"}
	case errors.Is(err, core.ErrPaymentProvider):
		logger.Warn("Payment provider call failed", zap.Error(err))
		e = apiError{http.StatusBadGateway, ReasonPaymentProvider, "Payment provider error"}
	case errors.Is(err, core.ErrWebhookSignature):
		e = apiError{http.StatusBadRequest, ReasonWebhookSignature, "Webhook signature verification failed"}
	case errors.Is(err, core.ErrWebhookNotConfigured):
		e = apiError{http.StatusServiceUnavailable, ReasonWebhookNotConfigured, "Webhook endpoint is not configured"}
	case errors.Is(err, core.ErrWebhookProcessing):
		logger.Error("Stripe webhook processing failed", zap.Error(err))
		e = apiError{http.StatusInternalServerError, ReasonWebhookProcessing, "Webhook processing error"}
	default:
		e = internalError(logger, c, err)
	}
	respondError(c, e)
}

// mapMediaError maps errors from core.MediaService.
func mapMediaError(logger *zap.Logger, c *gin.Context, err error) {
	if e, ok := validationError(err); ok {
		respondError(c, e)
		return
	}

	var e apiError
	switch {
	case errors.Is(err, core.ErrFileNotFound):
		e = apiError{http.StatusNotFound, ReasonFileNotFound, "File not found"}
	case errors.Is(err, core.ErrLessonNotFound):
		e = apiError{http.StatusNotFound, ReasonLessonNotFound, "Lesson not found"}
	case errors.Is(err, core.ErrFileStore):
		logger.Warn("File store call failed", zap.Error(err))
		e = apiError{http.StatusBadGateway, ReasonFileStore, "File store error"}
	default:
		e = internalError(logger, c, err)
	}
	respondError(c, e)
}
