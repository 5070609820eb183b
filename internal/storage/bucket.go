package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"ageback-backend-go/internal/models"
)

// BucketStore keeps lesson media as objects under folder prefixes of a
// Cloud Storage bucket. References are object names.
type BucketStore struct {
	client *gcs.Client
	bucket string
}

func NewBucketStore(ctx context.Context, credentialsJSON []byte, bucket string) (*BucketStore, error) {
	opts := []option.ClientOption{option.WithScopes(gcs.ScopeReadWrite)}
	if len(credentialsJSON) > 0 {
		opts = append(opts, option.WithCredentialsJSON(credentialsJSON))
	}
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage.NewClient: %w", err)
	}
	return &BucketStore{client: client, bucket: bucket}, nil
}

// PublicURL is the public object URL for key.
func (s *BucketStore) PublicURL(key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return "https://storage.googleapis.com/" + s.bucket + "/" + strings.Join(segments, "/")
}

func (s *BucketStore) Link(ctx context.Context, ref string) (string, error) {
	if _, err := s.client.Bucket(s.bucket).Object(ref).Attrs(ctx); err != nil {
		return "", bucketError(ref, err)
	}
	return s.PublicURL(ref), nil
}

func (s *BucketStore) List(ctx context.Context, folder string) ([]models.StoredFile, error) {
	it := s.client.Bucket(s.bucket).Objects(ctx, &gcs.Query{Prefix: strings.Trim(folder, "/") + "/"})

	var files []models.StoredFile
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list bucket folder %q: %w", folder, err)
		}
		if strings.HasSuffix(attrs.Name, "/") {
			continue
		}
		files = append(files, s.toStoredFile(attrs))
	}
	return files, nil
}

func (s *BucketStore) Upload(ctx context.Context, folder, name, contentType string, body io.Reader) (*models.StoredFile, error) {
	key := path.Join(strings.Trim(folder, "/"), path.Base(name))

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, body); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to close GCS writer: %w", err)
	}
	stored := s.toStoredFile(w.Attrs())
	return &stored, nil
}

func (s *BucketStore) Delete(ctx context.Context, ref string) error {
	if err := s.client.Bucket(s.bucket).Object(ref).Delete(ctx); err != nil {
		return bucketError(ref, err)
	}
	return nil
}

func (s *BucketStore) Check(ctx context.Context) error {
	if _, err := s.client.Bucket(s.bucket).Attrs(ctx); err != nil {
		return fmt.Errorf("bucket %q: %w", s.bucket, err)
	}
	return nil
}

func (s *BucketStore) Close() error {
	return s.client.Close()
}

func (s *BucketStore) toStoredFile(attrs *gcs.ObjectAttrs) models.StoredFile {
	return models.StoredFile{
		ID:          attrs.Name,
		Name:        path.Base(attrs.Name),
		MimeType:    attrs.ContentType,
		Size:        attrs.Size,
		CreatedTime: attrs.Created,
		Link:        s.PublicURL(attrs.Name),
	}
}

func bucketError(ref string, err error) error {
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return fmt.Errorf("object %q: %w", ref, ErrFileNotFound)
	}
	return fmt.Errorf("object %q: %w", ref, err)
}
