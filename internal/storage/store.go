// Package storage resolves and manages lesson media held by an external
// file store.
package storage

import (
	"context"
	"errors"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"ageback-backend-go/internal/models"
)

var (
	// ErrFileNotFound is returned when a reference names no file.
	ErrFileNotFound = errors.New("file not found")
	// ErrUnavailable is returned by a store that is not configured.
	ErrUnavailable = errors.New("file store unavailable")
)

// FileStore is an external file store holding lesson media.
type FileStore interface {
	// Link turns a file reference into a displayable link. The variant
	// depends on the media type of the file.
	Link(ctx context.Context, ref string) (string, error)
	// List returns the files of a folder below the store root.
	List(ctx context.Context, folder string) ([]models.StoredFile, error)
	Upload(ctx context.Context, folder, name, contentType string, body io.Reader) (*models.StoredFile, error)
	Delete(ctx context.Context, ref string) error
	// Check verifies that the store is reachable with the configured credentials.
	Check(ctx context.Context) error
}

// Disabled is the store used when no provider is configured. Every call
// fails with ErrUnavailable so lesson resolution falls back to static URLs.
type Disabled struct{}

func (Disabled) Link(context.Context, string) (string, error) { return "", ErrUnavailable }

func (Disabled) List(context.Context, string) ([]models.StoredFile, error) { return nil, ErrUnavailable }

func (Disabled) Upload(context.Context, string, string, string, io.Reader) (*models.StoredFile, error) {
	return nil, ErrUnavailable
}

func (Disabled) Delete(context.Context, string) error { return ErrUnavailable }

func (Disabled) Check(context.Context) error { return ErrUnavailable }

// IsVideo reports whether a file is a lesson video.
func IsVideo(mimeType, name string) bool {
	return strings.HasPrefix(mimeType, "video/") || strings.HasSuffix(strings.ToLower(name), ".mp4")
}

// IsImage reports whether a file is an image.
func IsImage(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/")
}

var videoTypes = map[string]string{
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".m4v":  "video/x-m4v",
}

// ContentTypeFor guesses a media type from a file name.
func ContentTypeFor(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if t, ok := videoTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}
