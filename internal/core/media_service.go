package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"ageback-backend-go/internal/models"
	"ageback-backend-go/internal/storage"
)

// Folders below the file store root.
const (
	VideoFolder        = "lessons"
	DefaultImageFolder = "thumbnails"
)

type mediaService struct {
	files   storage.FileStore
	lessons LessonService
	audit   AuditService
	logger  *zap.Logger
}

func NewMediaService(files storage.FileStore, lessons LessonService, audit AuditService, logger *zap.Logger) MediaService {
	return &mediaService{files: files, lessons: lessons, audit: audit, logger: logger}
}

func (s *mediaService) ListVideos(ctx context.Context) ([]models.StoredFile, error) {
	files, err := s.files.List(ctx, VideoFolder)
	if err != nil {
		return nil, fileError(err)
	}
	videos := []models.StoredFile{}
	for _, f := range files {
		if storage.IsVideo(f.MimeType, f.Name) {
			videos = append(videos, f)
		}
	}
	return videos, nil
}

// ListImages lists the images of folder. A missing folder yields an empty list.
func (s *mediaService) ListImages(ctx context.Context, folder string) ([]models.StoredFile, error) {
	folder = strings.TrimSpace(folder)
	if folder == "" {
		folder = DefaultImageFolder
	}

	files, err := s.files.List(ctx, folder)
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) {
			return []models.StoredFile{}, nil
		}
		return nil, fileError(err)
	}
	images := []models.StoredFile{}
	for _, f := range files {
		if storage.IsImage(f.MimeType) {
			images = append(images, f)
		}
	}
	return images, nil
}

// UploadVideo stores a video and, when lessonID is set, links it as that
// lesson's video reference.
func (s *mediaService) UploadVideo(ctx context.Context, name, contentType string, body io.Reader, lessonID *models.LessonID) (*models.StoredFile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid(ReasonFileRequired, "file is required")
	}
	if lessonID != nil && !models.IsKnownLesson(*lessonID) {
		return nil, invalid(ReasonUnknownLesson, fmt.Sprintf("lesson %d does not exist", *lessonID))
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	file, err := s.files.Upload(ctx, VideoFolder, name, contentType, body)
	if err != nil {
		return nil, fileError(err)
	}
	s.audit.Record(ctx, models.AuditFileUploaded, models.TargetFile, file.ID, map[string]any{"name": file.Name})

	if lessonID != nil {
		update := models.LessonRefsUpdate{ExternalVideoRef: models.Some(file.ID)}
		if _, err := s.lessons.UpdateExternalRefs(ctx, *lessonID, update); err != nil {
			return nil, fmt.Errorf("link file %s to lesson %d: %w", file.ID, *lessonID, err)
		}
	}
	return file, nil
}

func (s *mediaService) DeleteFile(ctx context.Context, fileID string) error {
	fileID = strings.TrimSpace(fileID)
	if fileID == "" {
		return invalid(ReasonFileRequired, "fileId is required")
	}
	if err := s.files.Delete(ctx, fileID); err != nil {
		return fileError(err)
	}
	s.audit.Record(ctx, models.AuditFileDeleted, models.TargetFile, fileID, nil)
	return nil
}

func (s *mediaService) CheckConnection(ctx context.Context) error {
	if err := s.files.Check(ctx); err != nil {
		return fileError(err)
	}
	return nil
}

func fileError(err error) error {
	if errors.Is(err, storage.ErrFileNotFound) {
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	}
	return fmt.Errorf("%w: %w", ErrFileStore, err)
}
