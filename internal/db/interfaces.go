package db

import (
	"context"

	"ageback-backend-go/internal/models"
)

// UserRepository defines the interface for user data storage operations.
// Emails are expected in normalized form.
type UserRepository interface {
	// Create stores a new user. It returns ErrAlreadyExists when the email is taken.
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, userID string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Update replaces the stored record and refreshes UpdatedAt.
	Update(ctx context.Context, user *models.User) error
	// List returns every user, newest first.
	List(ctx context.Context) ([]*models.User, error)
}

// LessonRepository defines the interface for persisted lesson overrides.
type LessonRepository interface {
	Get(ctx context.Context, id models.LessonID) (*models.Lesson, error)
	List(ctx context.Context) ([]*models.Lesson, error)
	// Upsert writes the full record, creating it if needed.
	Upsert(ctx context.Context, lesson *models.Lesson) error
	// CreateIfAbsent inserts lesson unless a row for its id exists.
	CreateIfAbsent(ctx context.Context, lesson *models.Lesson) (bool, error)
}

// AuditRepository defines the interface for audit log data storage operations.
type AuditRepository interface {
	Create(ctx context.Context, logEntry models.AuditLog) error
}

// Store bundles the repositories of one backing database.
type Store struct {
	Users   UserRepository
	Lessons LessonRepository
	Audit   AuditRepository
	Close   func() error
}
