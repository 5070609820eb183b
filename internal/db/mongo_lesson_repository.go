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

type mongoLessonRepository struct {
	lessons *mongo.Collection
}

func NewMongoLessonRepository(database *mongo.Database) LessonRepository {
	return &mongoLessonRepository{lessons: database.Collection(lessonsCollection)}
}

func (r *mongoLessonRepository) Get(ctx context.Context, id models.LessonID) (*models.Lesson, error) {
	var rec lessonRecord
	if err := r.lessons.FindOne(ctx, bson.M{"_id": int(id)}).Decode(&rec); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("lesson %d not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get lesson %d: %w", id, err)
	}
	return rec.toModel(), nil
}

func (r *mongoLessonRepository) List(ctx context.Context) ([]*models.Lesson, error) {
	cursor, err := r.lessons.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list lessons: %w", err)
	}
	var recs []lessonRecord
	if err := cursor.All(ctx, &recs); err != nil {
		return nil, fmt.Errorf("failed to decode lessons: %w", err)
	}

	lessons := make([]*models.Lesson, 0, len(recs))
	for _, rec := range recs {
		lessons = append(lessons, rec.toModel())
	}
	return lessons, nil
}

func (r *mongoLessonRepository) Upsert(ctx context.Context, lesson *models.Lesson) error {
	lesson.UpdatedAt = now()
	_, err := r.lessons.ReplaceOne(ctx, bson.M{"_id": int(lesson.ID)}, toLessonRecord(lesson), options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert lesson %d: %w", lesson.ID, err)
	}
	return nil
}

func (r *mongoLessonRepository) CreateIfAbsent(ctx context.Context, lesson *models.Lesson) (bool, error) {
	lesson.UpdatedAt = now()
	if _, err := r.lessons.InsertOne(ctx, toLessonRecord(lesson)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create lesson %d: %w", lesson.ID, err)
	}
	return true, nil
}
