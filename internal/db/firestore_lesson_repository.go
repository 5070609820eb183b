package db

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"ageback-backend-go/internal/models"
)

const lessonsCollection = "lessons"

type firestoreLessonRepository struct {
	client *firestore.Client
}

// NewFirestoreLessonRepository stores lessons keyed by their decimal id.
func NewFirestoreLessonRepository(client *firestore.Client) LessonRepository {
	return &firestoreLessonRepository{client: client}
}

func (r *firestoreLessonRepository) ref(id models.LessonID) *firestore.DocumentRef {
	return r.client.Collection(lessonsCollection).Doc(id.String())
}

func (r *firestoreLessonRepository) Get(ctx context.Context, id models.LessonID) (*models.Lesson, error) {
	docSnap, err := r.ref(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("lesson %d not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get lesson %d: %w", id, err)
	}

	var rec lessonRecord
	if err := docSnap.DataTo(&rec); err != nil {
		return nil, fmt.Errorf("failed to decode lesson %d: %w", id, err)
	}
	return rec.toModel(), nil
}

func (r *firestoreLessonRepository) List(ctx context.Context) ([]*models.Lesson, error) {
	iter := r.client.Collection(lessonsCollection).Documents(ctx)
	defer iter.Stop()

	var lessons []*models.Lesson
	for {
		docSnap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate lessons: %w", err)
		}
		var rec lessonRecord
		if err := docSnap.DataTo(&rec); err != nil {
			return nil, fmt.Errorf("failed to decode lesson %s: %w", docSnap.Ref.ID, err)
		}
		lessons = append(lessons, rec.toModel())
	}
	return lessons, nil
}

func (r *firestoreLessonRepository) Upsert(ctx context.Context, lesson *models.Lesson) error {
	lesson.UpdatedAt = now()
	if _, err := r.ref(lesson.ID).Set(ctx, toLessonRecord(lesson)); err != nil {
		return fmt.Errorf("failed to upsert lesson %d: %w", lesson.ID, err)
	}
	return nil
}

func (r *firestoreLessonRepository) CreateIfAbsent(ctx context.Context, lesson *models.Lesson) (bool, error) {
	lesson.UpdatedAt = now()
	_, err := r.ref(lesson.ID).Create(ctx, toLessonRecord(lesson))
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return false, nil
		}
		return false, fmt.Errorf("failed to create lesson %d: %w", lesson.ID, err)
	}
	return true, nil
}
