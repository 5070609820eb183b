package db

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"ageback-backend-go/internal/models"
)

type mongoUserRepository struct {
	users *mongo.Collection
}

// NewMongoUserRepository expects EnsureIndexes to have run on database.
func NewMongoUserRepository(database *mongo.Database) UserRepository {
	return &mongoUserRepository{users: database.Collection(usersCollection)}
}

func (r *mongoUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" || user.Email == "" {
		return errors.New("user ID and email cannot be empty for Create operation")
	}
	user.UpdatedAt = now()
	if _, err := r.users.InsertOne(ctx, toUserRecord(user)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("user with email '%s': %w", user.Email, ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create user with ID '%s': %w", user.ID, err)
	}
	return nil
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.M, what string) (*models.User, error) {
	var rec userRecord
	if err := r.users.FindOne(ctx, filter).Decode(&rec); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("user %s not found: %w", what, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user %s: %w", what, err)
	}
	return rec.toModel(), nil
}

func (r *mongoUserRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": userID}, "with ID '"+userID+"'")
}

func (r *mongoUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email}, "with email '"+email+"'")
}

func (r *mongoUserRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = now()
	res, err := r.users.ReplaceOne(ctx, bson.M{"_id": user.ID}, toUserRecord(user))
	if err != nil {
		return fmt.Errorf("failed to update user with ID '%s': %w", user.ID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("user with ID '%s' not found: %w", user.ID, ErrNotFound)
	}
	return nil
}

func (r *mongoUserRepository) List(ctx context.Context) ([]*models.User, error) {
	cursor, err := r.users.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	var recs []userRecord
	if err := cursor.All(ctx, &recs); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	users := make([]*models.User, 0, len(recs))
	for _, rec := range recs {
		users = append(users, rec.toModel())
	}
	return users, nil
}
