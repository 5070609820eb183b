package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ageback-backend-go/internal/db"
	"ageback-backend-go/internal/metrics"
	"ageback-backend-go/internal/models"
)

// accountService implements the AccountService interface.
type accountService struct {
	users       db.UserRepository
	credentials CredentialService
	notifier    NotificationService
	audit       AuditService
	logger      *zap.Logger
}

// NewAccountService creates a new AccountService instance.
func NewAccountService(users db.UserRepository, credentials CredentialService, notifier NotificationService, audit AuditService, logger *zap.Logger) AccountService {
	return &accountService{
		users:       users,
		credentials: credentials,
		notifier:    notifier,
		audit:       audit,
		logger:      logger,
	}
}

func (s *accountService) CreateLead(ctx context.Context, input models.LeadInput) (*models.UserIdentity, bool, error) {
	name := strings.TrimSpace(input.Name)
	email := models.NormalizeEmail(input.Email)
	if name == "" {
		return nil, false, invalid(ReasonNameRequired, "name is required")
	}
	if email == "" {
		return nil, false, invalid(ReasonEmailRequired, "email is required")
	}

	existing, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return s.refreshLead(ctx, existing, name, input)
	case !errors.Is(err, db.ErrNotFound):
		return nil, false, fmt.Errorf("failed to look up user '%s': %w", email, err)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:            uuid.NewString(),
		Email:         email,
		Name:          name,
		Role:          models.RoleLead,
		Goals:         nonNil(input.Goals),
		IssueAreas:    nonNil(input.IssueAreas),
		Attributes:    input.Attributes,
		ViewedLessons: map[models.LessonID]bool{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if !errors.Is(err, db.ErrAlreadyExists) {
			return nil, false, fmt.Errorf("failed to create lead '%s': %w", email, err)
		}
		// Lost a race with a concurrent create for the same email.
		existing, err := s.users.GetByEmail(ctx, email)
		if err != nil {
			return nil, false, fmt.Errorf("failed to reload user '%s' after conflict: %w", email, err)
		}
		return s.refreshLead(ctx, existing, name, input)
	}

	metrics.AccountTransitions.WithLabelValues(metrics.TransitionLeadCreated).Inc()
	identity := user.Identity()
	return &identity, true, nil
}

// refreshLead updates the mutable profile fields of an existing user.
// The role is left alone.
func (s *accountService) refreshLead(ctx context.Context, user *models.User, name string, input models.LeadInput) (*models.UserIdentity, bool, error) {
	user.Name = name
	if input.Goals != nil {
		user.Goals = input.Goals
	}
	if input.IssueAreas != nil {
		user.IssueAreas = input.IssueAreas
	}
	if input.Attributes != nil {
		user.Attributes = input.Attributes
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, false, fmt.Errorf("failed to update user '%s': %w", user.Email, err)
	}

	metrics.AccountTransitions.WithLabelValues(metrics.TransitionLeadRefreshed).Inc()
	identity := user.Identity()
	return &identity, false, nil
}

func (s *accountService) UpgradeToCustomer(ctx context.Context, email string) (*models.UpgradeResult, error) {
	user, issued, err := s.upgrade(ctx, email, "", CredentialLengthStandard, nil)
	if err != nil {
		return nil, err
	}
	return &models.UpgradeResult{User: user.Identity(), Credential: issued.Plain}, nil
}

func (s *accountService) CompletePayment(ctx context.Context, input models.PaymentSuccessInput) (*models.UpgradeResult, error) {
	var details map[string]any
	if input.SessionID != "" {
		details = map[string]any{"sessionId": input.SessionID}
	}

	user, issued, err := s.upgrade(ctx, input.Email, strings.TrimSpace(input.Name), CredentialLengthPayment, details)
	if err != nil {
		return nil, err
	}

	result := &models.UpgradeResult{User: user.Identity(), Credential: issued.Plain}

	// The upgrade stands even when the email cannot be delivered.
	if _, err := s.notifier.SendCredential(ctx, user.Email, user.Name, issued.Plain); err != nil {
		s.logger.Error("Credential email failed after upgrade",
			zap.String("email", user.Email), zap.Error(err))
		return result, nil
	}
	result.EmailSent = true
	return result, nil
}

// upgrade moves a lead to customer with a freshly issued credential.
// A non-empty name replaces the stored display name.
func (s *accountService) upgrade(ctx context.Context, email, name string, length int, details map[string]any) (*models.User, *IssuedCredential, error) {
	email = models.NormalizeEmail(email)
	if email == "" {
		return nil, nil, invalid(ReasonEmailRequired, "email is required")
	}

	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, nil, err
	}

	switch user.Role {
	case models.RoleCustomer:
		return nil, nil, fmt.Errorf("%w: %s", ErrAlreadyCustomer, email)
	case models.RoleLead:
	default:
		return nil, nil, fmt.Errorf("user '%s' has unknown role %q", email, user.Role)
	}

	issued, err := s.credentials.Issue(length)
	if err != nil {
		return nil, nil, err
	}
	grantCustomer(user, issued)
	if name != "" && name != user.Name {
		user.Name = name
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, nil, fmt.Errorf("failed to save upgraded user '%s': %w", email, err)
	}

	metrics.AccountTransitions.WithLabelValues(metrics.TransitionUpgraded).Inc()
	s.audit.Record(ctx, models.AuditCustomerUpgraded, models.TargetUser, user.ID, details)
	s.logger.Info("User upgraded to customer", zap.String("userId", user.ID), zap.String("email", email))
	return user, issued, nil
}

// grantCustomer applies the customer state with a new credential and a
// fresh, all-unviewed lesson map.
func grantCustomer(user *models.User, issued *IssuedCredential) {
	user.Role = models.RoleCustomer
	user.IsVerified = true
	user.CredentialHash = issued.Hash
	user.CredentialCipher = issued.Sealed

	viewed := make(map[models.LessonID]bool)
	for _, id := range models.KnownLessonIDs() {
		viewed[id] = false
	}
	user.ViewedLessons = viewed
}

func (s *accountService) Authenticate(ctx context.Context, email, credential string) (*models.UserIdentity, error) {
	email = models.NormalizeEmail(email)
	if email == "" {
		return nil, invalid(ReasonEmailRequired, "email is required")
	}
	if credential == "" {
		return nil, invalid(ReasonCredentialRequired, "password is required")
	}

	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	switch user.Role {
	case models.RoleCustomer:
	case models.RoleLead:
		return nil, ErrNotCustomer
	default:
		return nil, fmt.Errorf("%w: unknown role %q", ErrNotCustomer, user.Role)
	}
	if !user.HasCredential() {
		return nil, ErrCredentialNotSet
	}

	ok, err := s.credentials.Verify(credential, user.CredentialHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify credential for '%s': %w", email, err)
	}
	if !ok {
		return nil, ErrInvalidCredential
	}

	identity := user.Identity()
	return &identity, nil
}

func (s *accountService) MarkLessonViewed(ctx context.Context, email string, lessonID models.LessonID) (map[models.LessonID]bool, error) {
	email = models.NormalizeEmail(email)
	if email == "" {
		return nil, invalid(ReasonEmailRequired, "email is required")
	}
	if lessonID == 0 {
		return nil, invalid(ReasonLessonRequired, "lessonId is required")
	}
	if !models.IsKnownLesson(lessonID) {
		return nil, invalid(ReasonUnknownLesson, fmt.Sprintf("lesson %d does not exist", lessonID))
	}

	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	switch user.Role {
	case models.RoleCustomer:
	case models.RoleLead:
		return nil, ErrNotCustomer
	default:
		return nil, fmt.Errorf("%w: unknown role %q", ErrNotCustomer, user.Role)
	}

	if user.ViewedLessons == nil {
		user.ViewedLessons = make(map[models.LessonID]bool)
	}
	if user.ViewedLessons[lessonID] {
		return user.ViewedLessons, nil
	}

	user.ViewedLessons[lessonID] = true
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save viewed lessons for '%s': %w", email, err)
	}
	return user.ViewedLessons, nil
}

func (s *accountService) GetProfile(ctx context.Context, email string) (*models.UserProfile, error) {
	email = models.NormalizeEmail(email)
	if email == "" {
		return nil, invalid(ReasonEmailRequired, "email is required")
	}

	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	profile := user.Profile()
	return &profile, nil
}

func (s *accountService) ListUsers(ctx context.Context) ([]models.AdminUserView, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	views := make([]models.AdminUserView, 0, len(users))
	for _, u := range users {
		views = append(views, s.adminView(u))
	}
	return views, nil
}

func (s *accountService) adminView(u *models.User) models.AdminUserView {
	view := models.AdminUserView{
		UserProfile:   u.Profile(),
		HasCredential: u.HasCredential(),
		UpdatedAt:     u.UpdatedAt,
	}
	if u.CredentialCipher != "" {
		plain, err := s.credentials.Reveal(u.CredentialCipher)
		if err != nil {
			s.logger.Warn("Failed to reveal stored credential", zap.String("userId", u.ID), zap.Error(err))
		} else {
			view.Credential = plain
		}
	}
	return view
}

func (s *accountService) SetRole(ctx context.Context, userID string, role models.Role) (*models.RoleChange, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: user with ID '%s'", ErrUserNotFound, userID)
		}
		return nil, fmt.Errorf("failed to get user by ID '%s' from repository: %w", userID, err)
	}

	previous := user.Role
	change := &models.RoleChange{}

	switch role {
	case models.RoleCustomer:
		if user.HasCredential() {
			user.Role = models.RoleCustomer
			user.IsVerified = true
			break
		}
		issued, err := s.credentials.Issue(CredentialLengthPayment)
		if err != nil {
			return nil, err
		}
		grantCustomer(user, issued)
		change.Issued = true
		change.Credential = issued.Plain
	case models.RoleLead:
		// The credential is kept so it can be shown again later.
		user.Role = models.RoleLead
	default:
		return nil, invalid(ReasonInvalidRole, fmt.Sprintf("unknown role %q", role))
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save role for user '%s': %w", userID, err)
	}

	metrics.AccountTransitions.WithLabelValues(metrics.TransitionRoleSet).Inc()
	s.audit.Record(ctx, models.AuditRoleSet, models.TargetUser, user.ID, map[string]any{
		"from":             string(previous),
		"to":               string(role),
		"credentialIssued": change.Issued,
	})

	change.User = s.adminView(user)
	return change, nil
}

func (s *accountService) findByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, email)
		}
		return nil, fmt.Errorf("failed to get user '%s' from repository: %w", email, err)
	}
	return user, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
