package core

import "errors"

// Service-level errors. Handlers translate these into HTTP statuses.
var (
	ErrValidation = errors.New("validation failed")

	ErrUserNotFound      = errors.New("user not found")
	ErrAlreadyCustomer   = errors.New("user is already a customer")
	ErrNotCustomer       = errors.New("user is not a customer")
	ErrCredentialNotSet  = errors.New("credential has not been issued")
	ErrInvalidCredential = errors.New("invalid credential")

	ErrLessonNotFound = errors.New("lesson not found")

	ErrPlanNotFound           = errors.New("plan not found")
	ErrPaymentSessionNotFound = errors.New("payment session not found")
	ErrPaymentProvider        = errors.New("payment provider operation failed")
	ErrPaymentNotCompleted    = errors.New("payment not completed")
	ErrWebhookSignature       = errors.New("webhook signature verification failed")
	ErrWebhookProcessing      = errors.New("webhook processing failed")
	ErrWebhookNotConfigured   = errors.New("webhook not configured")

	ErrFileStore    = errors.New("file store operation failed")
	ErrFileNotFound = errors.New("file not found")

	ErrEmailDelivery = errors.New("email delivery failed")
)

// ValidationError reports rejected input with a machine-readable reason.
// It matches ErrValidation under errors.Is.
type ValidationError struct {
	Reason  string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(reason, message string) error {
	return &ValidationError{Reason: reason, Message: message}
}

// Validation reasons.
const (
	ReasonNameRequired       = "name_required"
	ReasonEmailRequired      = "email_required"
	ReasonCredentialRequired = "password_required"
	ReasonLessonRequired     = "lesson_id_required"
	ReasonUnknownLesson      = "unknown_lesson"
	ReasonTitleRequired      = "title_required"
	ReasonSessionRequired    = "session_id_required"
	ReasonPlanRequired       = "plan_required"
	ReasonFileRequired       = "file_required"
	ReasonInvalidRole        = "invalid_role"
)
