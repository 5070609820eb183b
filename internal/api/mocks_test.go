package api

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"ageback-backend-go/internal/models"
)

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) CreateLead(ctx context.Context, input models.LeadInput) (*models.UserIdentity, bool, error) {
	args := m.Called(ctx, input)
	identity, _ := args.Get(0).(*models.UserIdentity)
	return identity, args.Bool(1), args.Error(2)
}

func (m *MockAccountService) UpgradeToCustomer(ctx context.Context, email string) (*models.UpgradeResult, error) {
	args := m.Called(ctx, email)
	result, _ := args.Get(0).(*models.UpgradeResult)
	return result, args.Error(1)
}

func (m *MockAccountService) CompletePayment(ctx context.Context, input models.PaymentSuccessInput) (*models.UpgradeResult, error) {
	args := m.Called(ctx, input)
	result, _ := args.Get(0).(*models.UpgradeResult)
	return result, args.Error(1)
}

func (m *MockAccountService) Authenticate(ctx context.Context, email, credential string) (*models.UserIdentity, error) {
	args := m.Called(ctx, email, credential)
	identity, _ := args.Get(0).(*models.UserIdentity)
	return identity, args.Error(1)
}

func (m *MockAccountService) MarkLessonViewed(ctx context.Context, email string, lessonID models.LessonID) (map[models.LessonID]bool, error) {
	args := m.Called(ctx, email, lessonID)
	viewed, _ := args.Get(0).(map[models.LessonID]bool)
	return viewed, args.Error(1)
}

func (m *MockAccountService) GetProfile(ctx context.Context, email string) (*models.UserProfile, error) {
	args := m.Called(ctx, email)
	profile, _ := args.Get(0).(*models.UserProfile)
	return profile, args.Error(1)
}

func (m *MockAccountService) ListUsers(ctx context.Context) ([]models.AdminUserView, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]models.AdminUserView)
	return users, args.Error(1)
}

func (m *MockAccountService) SetRole(ctx context.Context, userID string, role models.Role) (*models.RoleChange, error) {
	args := m.Called(ctx, userID, role)
	change, _ := args.Get(0).(*models.RoleChange)
	return change, args.Error(1)
}

type MockLessonService struct {
	mock.Mock
}

func (m *MockLessonService) GetLesson(ctx context.Context, id models.LessonID) (*models.Lesson, error) {
	args := m.Called(ctx, id)
	lesson, _ := args.Get(0).(*models.Lesson)
	return lesson, args.Error(1)
}

func (m *MockLessonService) GetAllLessons(ctx context.Context) map[models.LessonID]models.Lesson {
	args := m.Called(ctx)
	return args.Get(0).(map[models.LessonID]models.Lesson)
}

func (m *MockLessonService) UpdateExternalRefs(ctx context.Context, id models.LessonID, update models.LessonRefsUpdate) (*models.Lesson, error) {
	args := m.Called(ctx, id, update)
	lesson, _ := args.Get(0).(*models.Lesson)
	return lesson, args.Error(1)
}

func (m *MockLessonService) UpdateTitle(ctx context.Context, id models.LessonID, title string) (*models.Lesson, error) {
	args := m.Called(ctx, id, title)
	lesson, _ := args.Get(0).(*models.Lesson)
	return lesson, args.Error(1)
}

func (m *MockLessonService) SeedDefaults(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockBillingService struct {
	mock.Mock
}

func (m *MockBillingService) ListPlans() map[string]models.Plan {
	args := m.Called()
	return args.Get(0).(map[string]models.Plan)
}

func (m *MockBillingService) CreateCheckoutSession(ctx context.Context, planKey string) (*models.CheckoutSession, error) {
	args := m.Called(ctx, planKey)
	session, _ := args.Get(0).(*models.CheckoutSession)
	return session, args.Error(1)
}

func (m *MockBillingService) CreateSubscriptionSession(ctx context.Context, planKey string) (*models.CheckoutSession, error) {
	args := m.Called(ctx, planKey)
	session, _ := args.Get(0).(*models.CheckoutSession)
	return session, args.Error(1)
}

func (m *MockBillingService) GetPaymentStatus(ctx context.Context, sessionID string) (*models.PaymentStatus, error) {
	args := m.Called(ctx, sessionID)
	status, _ := args.Get(0).(*models.PaymentStatus)
	return status, args.Error(1)
}

func (m *MockBillingService) VerifyPaidSession(ctx context.Context, sessionID, email string) error {
	return m.Called(ctx, sessionID, email).Error(0)
}

func (m *MockBillingService) HandleStripeWebhook(ctx context.Context, signature string, payload []byte) error {
	return m.Called(ctx, signature, payload).Error(0)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) SendCredential(ctx context.Context, to, name, credential string) (string, error) {
	args := m.Called(ctx, to, name, credential)
	return args.String(0), args.Error(1)
}

func (m *MockNotificationService) SendTestCredential(ctx context.Context, to string) (*models.TestEmailResult, error) {
	args := m.Called(ctx, to)
	result, _ := args.Get(0).(*models.TestEmailResult)
	return result, args.Error(1)
}

type MockMediaService struct {
	mock.Mock
}

func (m *MockMediaService) ListVideos(ctx context.Context) ([]models.StoredFile, error) {
	args := m.Called(ctx)
	files, _ := args.Get(0).([]models.StoredFile)
	return files, args.Error(1)
}

func (m *MockMediaService) ListImages(ctx context.Context, folder string) ([]models.StoredFile, error) {
	args := m.Called(ctx, folder)
	files, _ := args.Get(0).([]models.StoredFile)
	return files, args.Error(1)
}

func (m *MockMediaService) UploadVideo(ctx context.Context, name, contentType string, body io.Reader, lessonID *models.LessonID) (*models.StoredFile, error) {
	args := m.Called(ctx, name, contentType, body, lessonID)
	file, _ := args.Get(0).(*models.StoredFile)
	return file, args.Error(1)
}

func (m *MockMediaService) DeleteFile(ctx context.Context, fileID string) error {
	return m.Called(ctx, fileID).Error(0)
}

func (m *MockMediaService) CheckConnection(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
