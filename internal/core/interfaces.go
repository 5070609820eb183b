package core

import (
	"context"
	"io"

	"ageback-backend-go/internal/models"
)

// AccountService owns the lead → customer lifecycle.
type AccountService interface {
	// CreateLead creates a lead, or refreshes the profile of an existing
	// user with the same email. The bool reports whether a record was created.
	CreateLead(ctx context.Context, input models.LeadInput) (*models.UserIdentity, bool, error)
	// UpgradeToCustomer is the explicit upgrade. No email is sent.
	UpgradeToCustomer(ctx context.Context, email string) (*models.UpgradeResult, error)
	// CompletePayment upgrades after a successful payment and emails the credential.
	CompletePayment(ctx context.Context, input models.PaymentSuccessInput) (*models.UpgradeResult, error)
	Authenticate(ctx context.Context, email, credential string) (*models.UserIdentity, error)
	MarkLessonViewed(ctx context.Context, email string, lessonID models.LessonID) (map[models.LessonID]bool, error)
	GetProfile(ctx context.Context, email string) (*models.UserProfile, error)
	ListUsers(ctx context.Context) ([]models.AdminUserView, error)
	SetRole(ctx context.Context, userID string, role models.Role) (*models.RoleChange, error)
}

// LessonService resolves lessons through the persisted → linked → seed cascade.
type LessonService interface {
	GetLesson(ctx context.Context, id models.LessonID) (*models.Lesson, error)
	// GetAllLessons never fails; store faults degrade to the seed catalog.
	GetAllLessons(ctx context.Context) map[models.LessonID]models.Lesson
	UpdateExternalRefs(ctx context.Context, id models.LessonID, update models.LessonRefsUpdate) (*models.Lesson, error)
	UpdateTitle(ctx context.Context, id models.LessonID, title string) (*models.Lesson, error)
	// SeedDefaults inserts every catalog lesson missing from the store and
	// returns how many were inserted.
	SeedDefaults(ctx context.Context) (int, error)
}

// BillingService fronts the payment provider.
type BillingService interface {
	ListPlans() map[string]models.Plan
	CreateCheckoutSession(ctx context.Context, planKey string) (*models.CheckoutSession, error)
	CreateSubscriptionSession(ctx context.Context, planKey string) (*models.CheckoutSession, error)
	GetPaymentStatus(ctx context.Context, sessionID string) (*models.PaymentStatus, error)
	// VerifyPaidSession checks that sessionID is paid by email.
	VerifyPaidSession(ctx context.Context, sessionID, email string) error
	HandleStripeWebhook(ctx context.Context, signature string, payload []byte) error
}

// NotificationService sends credential emails.
type NotificationService interface {
	SendCredential(ctx context.Context, to, name, credential string) (string, error)
	SendTestCredential(ctx context.Context, to string) (*models.TestEmailResult, error)
}

// MediaService manages lesson assets in the file store.
type MediaService interface {
	ListVideos(ctx context.Context) ([]models.StoredFile, error)
	ListImages(ctx context.Context, folder string) ([]models.StoredFile, error)
	UploadVideo(ctx context.Context, name, contentType string, body io.Reader, lessonID *models.LessonID) (*models.StoredFile, error)
	DeleteFile(ctx context.Context, fileID string) error
	CheckConnection(ctx context.Context) error
}

// AuditService defines the interface for audit logging operations.
type AuditService interface {
	CreateAuditLog(ctx context.Context, logEntry models.AuditLog) error
	// Record appends an entry for the actor in ctx. Failures are logged.
	Record(ctx context.Context, action, targetType, targetID string, details map[string]any)
}

// CredentialService issues and checks access credentials.
type CredentialService interface {
	Issue(length int) (*IssuedCredential, error)
	Verify(credential, hash string) (bool, error)
	// Reveal opens the sealed copy for admin display.
	Reveal(sealed string) (string, error)
}
