package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"ageback-backend-go/internal/models"
)

func newTestDatabase(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}
	ctx := context.Background()
	client, err := ConnectMongo(ctx, uri, 5*time.Second)
	require.NoError(t, err)

	database := client.Database("ageback_test_" + uuid.NewString()[:8])
	require.NoError(t, EnsureIndexes(ctx, database))
	t.Cleanup(func() {
		_ = database.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	return database
}

func TestMongoUserRepository(t *testing.T) {
	database := newTestDatabase(t)
	repo := NewMongoUserRepository(database)
	ctx := context.Background()

	first := &models.User{ID: uuid.NewString(), Email: "ann@example.com", Name: "Ann", Role: models.RoleLead, CreatedAt: time.Now().UTC().Add(-time.Hour)}
	second := &models.User{ID: uuid.NewString(), Email: "bob@example.com", Name: "Bob", Role: models.RoleLead, CreatedAt: time.Now().UTC()}

	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	t.Run("Should enforce email uniqueness", func(t *testing.T) {
		dup := *first
		dup.ID = uuid.NewString()
		assert.ErrorIs(t, repo.Create(ctx, &dup), ErrAlreadyExists)
	})

	t.Run("Should list newest first", func(t *testing.T) {
		users, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, "bob@example.com", users[0].Email)
	})

	t.Run("Should report missing ids on update", func(t *testing.T) {
		err := repo.Update(ctx, &models.User{ID: "nope", Email: "x@example.com"})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestMongoLessonRepository(t *testing.T) {
	database := newTestDatabase(t)
	repo := NewMongoLessonRepository(database)
	ctx := context.Background()

	_, err := repo.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	seed, _ := models.SeedLesson(1)
	created, err := repo.CreateIfAbsent(ctx, &seed)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.CreateIfAbsent(ctx, &seed)
	require.NoError(t, err)
	assert.False(t, created)

	seed.Title = "Renamed"
	require.NoError(t, repo.Upsert(ctx, &seed))

	lessons, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, lessons, 1)
	assert.Equal(t, "Renamed", lessons[0].Title)
}
