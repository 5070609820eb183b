package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"ageback-backend-go/internal/models"
)

const (
	driveFolderMimeType = "application/vnd.google-apps.folder"
	driveListFields     = "nextPageToken, files(id, name, mimeType, size, createdTime)"
	driveFileFields     = "id, name, mimeType, size, createdTime"
)

// DriveStore keeps lesson media in folders below a Google Drive root folder.
type DriveStore struct {
	svc    *drive.Service
	rootID string
}

// NewDriveStore authenticates with a service account key. An empty key
// falls back to Application Default Credentials.
func NewDriveStore(ctx context.Context, credentialsJSON []byte, rootFolderID string) (*DriveStore, error) {
	opts := []option.ClientOption{option.WithScopes(drive.DriveScope)}
	if len(credentialsJSON) > 0 {
		opts = append(opts, option.WithCredentialsJSON(credentialsJSON))
	}
	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("drive.NewService: %w", err)
	}
	return &DriveStore{svc: svc, rootID: rootFolderID}, nil
}

// DriveLink builds the displayable link for a Drive file: an embeddable
// player for videos and a direct view for images.
func DriveLink(id, mimeType string) string {
	if IsImage(mimeType) {
		return "https://drive.google.com/uc?export=view&id=" + id
	}
	return "https://drive.google.com/file/d/" + id + "/preview"
}

func (s *DriveStore) Link(ctx context.Context, ref string) (string, error) {
	f, err := s.svc.Files.Get(ref).Fields("id, mimeType").Context(ctx).Do()
	if err != nil {
		return "", driveError(ref, err)
	}
	return DriveLink(f.Id, f.MimeType), nil
}

func (s *DriveStore) List(ctx context.Context, folder string) ([]models.StoredFile, error) {
	folderID, err := s.folderID(ctx, folder)
	if err != nil {
		return nil, err
	}

	var files []models.StoredFile
	q := fmt.Sprintf("'%s' in parents and trashed = false", folderID)
	err = s.svc.Files.List().Q(q).Fields(driveListFields).OrderBy("name").Context(ctx).
		Pages(ctx, func(page *drive.FileList) error {
			for _, f := range page.Files {
				if f.MimeType == driveFolderMimeType {
					continue
				}
				files = append(files, toStoredFile(f))
			}
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("list drive folder %q: %w", folder, err)
	}
	return files, nil
}

func (s *DriveStore) Upload(ctx context.Context, folder, name, contentType string, body io.Reader) (*models.StoredFile, error) {
	folderID, err := s.folderID(ctx, folder)
	if err != nil {
		return nil, err
	}

	meta := &drive.File{Name: name, Parents: []string{folderID}, MimeType: contentType}
	f, err := s.svc.Files.Create(meta).
		Media(body, googleapi.ContentType(contentType)).
		Fields(driveFileFields).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("upload %q to drive: %w", name, err)
	}
	stored := toStoredFile(f)
	return &stored, nil
}

func (s *DriveStore) Delete(ctx context.Context, ref string) error {
	if err := s.svc.Files.Delete(ref).Context(ctx).Do(); err != nil {
		return driveError(ref, err)
	}
	return nil
}

func (s *DriveStore) Check(ctx context.Context) error {
	if _, err := s.svc.About.Get().Fields("user").Context(ctx).Do(); err != nil {
		return fmt.Errorf("drive about: %w", err)
	}
	if _, err := s.svc.Files.Get(s.rootID).Fields("id").Context(ctx).Do(); err != nil {
		return driveError(s.rootID, err)
	}
	return nil
}

// folderID finds a direct child folder of the root by name.
func (s *DriveStore) folderID(ctx context.Context, name string) (string, error) {
	q := fmt.Sprintf("name = '%s' and '%s' in parents and mimeType = '%s' and trashed = false",
		escapeDriveQuery(name), s.rootID, driveFolderMimeType)
	res, err := s.svc.Files.List().Q(q).Fields("files(id, name)").PageSize(1).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("find drive folder %q: %w", name, err)
	}
	if len(res.Files) == 0 {
		return "", fmt.Errorf("drive folder %q: %w", name, ErrFileNotFound)
	}
	return res.Files[0].Id, nil
}

func toStoredFile(f *drive.File) models.StoredFile {
	created, _ := time.Parse(time.RFC3339, f.CreatedTime)
	return models.StoredFile{
		ID:          f.Id,
		Name:        f.Name,
		MimeType:    f.MimeType,
		Size:        f.Size,
		CreatedTime: created,
		Link:        DriveLink(f.Id, f.MimeType),
	}
}

func driveError(ref string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusNotFound {
		return fmt.Errorf("drive file %q: %w", ref, ErrFileNotFound)
	}
	return fmt.Errorf("drive file %q: %w", ref, err)
}

func escapeDriveQuery(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}
