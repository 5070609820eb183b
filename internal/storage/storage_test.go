package storage

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ageback-backend-go/internal/models"
)

type countingStore struct {
	links   map[string]string
	calls   int
	deleted []string
}

func (s *countingStore) Link(_ context.Context, ref string) (string, error) {
	s.calls++
	link, ok := s.links[ref]
	if !ok {
		return "", ErrFileNotFound
	}
	return link, nil
}

func (s *countingStore) List(context.Context, string) ([]models.StoredFile, error) { return nil, nil }

func (s *countingStore) Upload(context.Context, string, string, string, io.Reader) (*models.StoredFile, error) {
	return &models.StoredFile{ID: "new"}, nil
}

func (s *countingStore) Delete(_ context.Context, ref string) error {
	s.deleted = append(s.deleted, ref)
	return nil
}

func (s *countingStore) Check(context.Context) error { return nil }

func newCache(t *testing.T, inner FileStore) (*CachedStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCachedStore(inner, client, time.Minute, zap.NewNop()), mr
}

func TestCachedStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Should serve repeated lookups from redis", func(t *testing.T) {
		inner := &countingStore{links: map[string]string{"abc": "https://drive.google.com/file/d/abc/preview"}}
		cache, mr := newCache(t, inner)

		first, err := cache.Link(ctx, "abc")
		require.NoError(t, err)
		second, err := cache.Link(ctx, "abc")
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, 1, inner.calls)
		assert.True(t, mr.Exists("filelink:abc"))
		assert.Equal(t, time.Minute, mr.TTL("filelink:abc"))
	})

	t.Run("Should not cache failed lookups", func(t *testing.T) {
		inner := &countingStore{links: map[string]string{}}
		cache, mr := newCache(t, inner)

		_, err := cache.Link(ctx, "missing")
		assert.ErrorIs(t, err, ErrFileNotFound)
		assert.False(t, mr.Exists("filelink:missing"))
	})

	t.Run("Should fall through when redis is down", func(t *testing.T) {
		inner := &countingStore{links: map[string]string{"abc": "link"}}
		cache, mr := newCache(t, inner)
		mr.Close()

		link, err := cache.Link(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, "link", link)
	})

	t.Run("Should invalidate on delete", func(t *testing.T) {
		inner := &countingStore{links: map[string]string{"abc": "link"}}
		cache, mr := newCache(t, inner)

		_, err := cache.Link(ctx, "abc")
		require.NoError(t, err)
		require.NoError(t, cache.Delete(ctx, "abc"))

		assert.False(t, mr.Exists("filelink:abc"))
		assert.Equal(t, []string{"abc"}, inner.deleted)
	})
}

func TestDriveLink(t *testing.T) {
	assert.Equal(t, "https://drive.google.com/file/d/vid1/preview", DriveLink("vid1", "video/mp4"))
	assert.Equal(t, "https://drive.google.com/uc?export=view&id=img1", DriveLink("img1", "image/jpeg"))
	assert.Equal(t, "https://drive.google.com/file/d/doc1/preview", DriveLink("doc1", "application/pdf"))
}

func TestMediaTypes(t *testing.T) {
	assert.True(t, IsVideo("video/quicktime", "clip.mov"))
	assert.True(t, IsVideo("application/octet-stream", "LESSON.MP4"))
	assert.False(t, IsVideo("image/png", "thumb.png"))
	assert.True(t, IsImage("image/png"))
	assert.False(t, IsImage("video/mp4"))
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "video/mp4", ContentTypeFor("Intro.MP4"))
	assert.Equal(t, "video/quicktime", ContentTypeFor("clip.mov"))
	assert.Equal(t, "image/png", ContentTypeFor("thumb.png"))
	assert.Equal(t, "application/octet-stream", ContentTypeFor("README"))
}

func TestEscapeDriveQuery(t *testing.T) {
	assert.Equal(t, `it\'s`, escapeDriveQuery("it's"))
}

func TestDisabled(t *testing.T) {
	_, err := Disabled{}.Link(context.Background(), "x")
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestBucketPublicURL(t *testing.T) {
	s := &BucketStore{bucket: "media"}
	assert.Equal(t, "https://storage.googleapis.com/media/lessons/my%20video.mp4", s.PublicURL("lessons/my video.mp4"))
}
