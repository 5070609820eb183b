package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"ageback-backend-go/internal/db"
	"ageback-backend-go/internal/metrics"
	"ageback-backend-go/internal/models"
	"ageback-backend-go/internal/storage"
)

type lessonService struct {
	lessons     db.LessonRepository
	files       storage.FileStore
	audit       AuditService
	linkTimeout time.Duration
	logger      *zap.Logger
}

// NewLessonService creates a LessonService. linkTimeout bounds each
// individual file store lookup.
func NewLessonService(lessons db.LessonRepository, files storage.FileStore, audit AuditService, linkTimeout time.Duration, logger *zap.Logger) LessonService {
	return &lessonService{
		lessons:     lessons,
		files:       files,
		audit:       audit,
		linkTimeout: linkTimeout,
		logger:      logger,
	}
}

func (s *lessonService) GetLesson(ctx context.Context, id models.LessonID) (*models.Lesson, error) {
	lesson, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	s.resolve(ctx, lesson)
	return lesson, nil
}

// lookup returns the persisted record for id, else a copy of its catalog
// entry. A store fault on a catalog id degrades to the catalog entry.
func (s *lessonService) lookup(ctx context.Context, id models.LessonID) (*models.Lesson, error) {
	stored, err := s.lessons.Get(ctx, id)
	switch {
	case err == nil:
		return stored, nil
	case errors.Is(err, db.ErrNotFound):
	default:
		s.logger.Warn("Lesson store read failed, using catalog entry",
			zap.Int("lessonId", int(id)), zap.Error(err))
	}

	seed, ok := models.SeedLesson(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrLessonNotFound, id)
	}
	return &seed, nil
}

type linkField struct {
	name string
	ref  string
	dst  *string
}

// resolve replaces the URL of every field whose external reference
// resolves. Lookups run concurrently and fail independently; a failed
// lookup leaves the stored URL in place.
func (s *lessonService) resolve(ctx context.Context, l *models.Lesson) {
	if !l.HasExternalRefs() {
		return
	}

	fields := []linkField{
		{name: "video", ref: l.ExternalVideoRef, dst: &l.VideoURL},
		{name: "thumbnail", ref: l.ExternalThumbnailRef, dst: &l.ThumbnailURL},
		{name: "preview", ref: l.ExternalPreviewRef, dst: &l.PreviewURL},
	}

	var g errgroup.Group
	for _, f := range fields {
		if f.ref == "" {
			continue
		}
		g.Go(func() error {
			linkCtx, cancel := context.WithTimeout(ctx, s.linkTimeout)
			defer cancel()

			link, err := s.files.Link(linkCtx, f.ref)
			if err != nil {
				metrics.LessonLinkResolutions.WithLabelValues(f.name, metrics.OutcomeFallback).Inc()
				s.logger.Warn("Lesson link resolution failed, keeping stored URL",
					zap.Int("lessonId", int(l.ID)),
					zap.String("field", f.name),
					zap.String("ref", f.ref),
					zap.Error(err))
				return nil
			}
			metrics.LessonLinkResolutions.WithLabelValues(f.name, metrics.OutcomeResolved).Inc()
			*f.dst = link
			return nil
		})
	}
	_ = g.Wait()
}

func (s *lessonService) GetAllLessons(ctx context.Context) map[models.LessonID]models.Lesson {
	stored, err := s.lessons.List(ctx)
	if err != nil {
		s.logger.Warn("Lesson store list failed, returning catalog", zap.Error(err))
		out := make(map[models.LessonID]models.Lesson)
		for _, l := range models.SeedLessons() {
			out[l.ID] = l
		}
		return out
	}

	byID := make(map[models.LessonID]*models.Lesson, len(stored))
	for _, l := range stored {
		byID[l.ID] = l
	}

	ids := models.KnownLessonIDs()
	resolved := make([]models.Lesson, len(ids))

	var g errgroup.Group
	for i, id := range ids {
		lesson, ok := byID[id]
		if !ok {
			seed, _ := models.SeedLesson(id)
			lesson = &seed
		}
		g.Go(func() error {
			s.resolve(ctx, lesson)
			resolved[i] = *lesson
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[models.LessonID]models.Lesson, len(resolved))
	for _, l := range resolved {
		out[l.ID] = l
	}
	return out
}

// loadForEdit returns the record an admin edit applies to: the persisted
// row, or a fresh copy of the catalog entry when none exists yet.
func (s *lessonService) loadForEdit(ctx context.Context, id models.LessonID) (*models.Lesson, bool, error) {
	stored, err := s.lessons.Get(ctx, id)
	if err == nil {
		return stored, false, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return nil, false, fmt.Errorf("get lesson %d: %w", id, err)
	}

	seed, ok := models.SeedLesson(id)
	if !ok {
		return nil, false, fmt.Errorf("%w: %d", ErrLessonNotFound, id)
	}
	return &seed, true, nil
}

func (s *lessonService) UpdateExternalRefs(ctx context.Context, id models.LessonID, update models.LessonRefsUpdate) (*models.Lesson, error) {
	lesson, created, err := s.loadForEdit(ctx, id)
	if err != nil {
		return nil, err
	}

	update.Apply(lesson)
	if err := s.lessons.Upsert(ctx, lesson); err != nil {
		return nil, fmt.Errorf("save lesson %d: %w", id, err)
	}

	s.audit.Record(ctx, models.AuditLessonUpdated, models.TargetLesson, id.String(), map[string]any{
		"fields":  suppliedRefFields(update),
		"created": created,
	})
	return lesson, nil
}

func (s *lessonService) UpdateTitle(ctx context.Context, id models.LessonID, title string) (*models.Lesson, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, invalid(ReasonTitleRequired, "title must not be empty")
	}

	lesson, created, err := s.loadForEdit(ctx, id)
	if err != nil {
		return nil, err
	}

	lesson.Title = title
	if err := s.lessons.Upsert(ctx, lesson); err != nil {
		return nil, fmt.Errorf("save lesson %d: %w", id, err)
	}

	s.audit.Record(ctx, models.AuditLessonUpdated, models.TargetLesson, id.String(), map[string]any{
		"fields":  []string{"title"},
		"created": created,
	})
	return lesson, nil
}

func (s *lessonService) SeedDefaults(ctx context.Context) (int, error) {
	inserted := 0
	for _, l := range models.SeedLessons() {
		ok, err := s.lessons.CreateIfAbsent(ctx, &l)
		if err != nil {
			return inserted, fmt.Errorf("seed lesson %d: %w", l.ID, err)
		}
		if ok {
			inserted++
		}
	}
	return inserted, nil
}

func suppliedRefFields(u models.LessonRefsUpdate) []string {
	fields := []string{}
	if u.ExternalVideoRef.Set {
		fields = append(fields, "externalVideoRef")
	}
	if u.ExternalThumbnailRef.Set {
		fields = append(fields, "externalThumbnailRef")
	}
	if u.ExternalPreviewRef.Set {
		fields = append(fields, "externalPreviewRef")
	}
	return fields
}
