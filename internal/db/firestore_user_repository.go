package db

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"ageback-backend-go/internal/models"
)

const (
	usersCollection      = "users"
	userEmailsCollection = "userEmails"
)

// emailClaim reserves an email for one user id. Claims are written in the
// same transaction as the user document so a concurrent duplicate fails.
type emailClaim struct {
	UserID string `firestore:"userId"`
}

type firestoreUserRepository struct {
	client *firestore.Client
}

// NewFirestoreUserRepository creates a new instance of firestoreUserRepository.
func NewFirestoreUserRepository(client *firestore.Client) UserRepository {
	return &firestoreUserRepository{client: client}
}

func (r *firestoreUserRepository) userRef(id string) *firestore.DocumentRef {
	return r.client.Collection(usersCollection).Doc(id)
}

func (r *firestoreUserRepository) emailRef(email string) *firestore.DocumentRef {
	// Document ids may not contain '/'.
	return r.client.Collection(userEmailsCollection).Doc(url.PathEscape(email))
}

func (r *firestoreUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" || user.Email == "" {
		return errors.New("user ID and email cannot be empty for Create operation")
	}
	user.UpdatedAt = now()
	rec := toUserRecord(user)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := tx.Create(r.emailRef(user.Email), emailClaim{UserID: user.ID}); err != nil {
			return err
		}
		return tx.Create(r.userRef(user.ID), rec)
	})
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return fmt.Errorf("user with email '%s': %w", user.Email, ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create user with ID '%s': %w", user.ID, err)
	}
	return nil
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty for GetByID operation")
	}
	docSnap, err := r.userRef(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("user with ID '%s' not found: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user with ID '%s': %w", userID, err)
	}

	var rec userRecord
	if err := docSnap.DataTo(&rec); err != nil {
		return nil, fmt.Errorf("failed to decode user data for ID '%s': %w", userID, err)
	}
	rec.ID = docSnap.Ref.ID
	return rec.toModel(), nil
}

func (r *firestoreUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	claimSnap, err := r.emailRef(email).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("user with email '%s' not found: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to look up email '%s': %w", email, err)
	}

	var claim emailClaim
	if err := claimSnap.DataTo(&claim); err != nil {
		return nil, fmt.Errorf("failed to decode email claim for '%s': %w", email, err)
	}
	return r.GetByID(ctx, claim.UserID)
}

// Update overwrites the user document. The email claim is left as is since
// the email of a record never changes.
func (r *firestoreUserRepository) Update(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		return errors.New("user ID cannot be empty for Update operation")
	}
	user.UpdatedAt = now()
	if _, err := r.userRef(user.ID).Set(ctx, toUserRecord(user)); err != nil {
		return fmt.Errorf("failed to update user with ID '%s': %w", user.ID, err)
	}
	return nil
}

func (r *firestoreUserRepository) List(ctx context.Context) ([]*models.User, error) {
	iter := r.client.Collection(usersCollection).OrderBy("createdAt", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	var users []*models.User
	for {
		docSnap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate users: %w", err)
		}
		var rec userRecord
		if err := docSnap.DataTo(&rec); err != nil {
			return nil, fmt.Errorf("failed to decode user %s: %w", docSnap.Ref.ID, err)
		}
		rec.ID = docSnap.Ref.ID
		users = append(users, rec.toModel())
	}
	return users, nil
}
