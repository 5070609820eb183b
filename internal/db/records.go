package db

import (
	"strconv"
	"time"

	"ageback-backend-go/internal/models"
)

// userRecord is the stored shape of a user in both backends. Map keys of
// viewedLessons are decimal strings because neither store accepts integer keys.
type userRecord struct {
	ID               string            `firestore:"id" bson:"_id"`
	Email            string            `firestore:"email" bson:"email"`
	Name             string            `firestore:"name" bson:"name"`
	Role             string            `firestore:"role" bson:"role"`
	CredentialHash   string            `firestore:"credentialHash" bson:"credentialHash"`
	CredentialCipher string            `firestore:"credentialCipher" bson:"credentialCipher"`
	IsVerified       bool              `firestore:"isVerified" bson:"isVerified"`
	Goals            []string          `firestore:"goals" bson:"goals"`
	IssueAreas       []string          `firestore:"issueAreas" bson:"issueAreas"`
	Attributes       map[string]string `firestore:"attributes" bson:"attributes"`
	ViewedLessons    map[string]bool   `firestore:"viewedLessons" bson:"viewedLessons"`
	CreatedAt        time.Time         `firestore:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time         `firestore:"updatedAt" bson:"updatedAt"`
}

func toUserRecord(u *models.User) userRecord {
	rec := userRecord{
		ID:               u.ID,
		Email:            u.Email,
		Name:             u.Name,
		Role:             string(u.Role),
		CredentialHash:   u.CredentialHash,
		CredentialCipher: u.CredentialCipher,
		IsVerified:       u.IsVerified,
		Goals:            nonNilStrings(u.Goals),
		IssueAreas:       nonNilStrings(u.IssueAreas),
		Attributes:       u.Attributes,
		ViewedLessons:    make(map[string]bool, len(u.ViewedLessons)),
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
	if rec.Attributes == nil {
		rec.Attributes = map[string]string{}
	}
	for id, viewed := range u.ViewedLessons {
		rec.ViewedLessons[id.String()] = viewed
	}
	return rec
}

func (rec userRecord) toModel() *models.User {
	u := &models.User{
		ID:               rec.ID,
		Email:            rec.Email,
		Name:             rec.Name,
		Role:             models.Role(rec.Role),
		CredentialHash:   rec.CredentialHash,
		CredentialCipher: rec.CredentialCipher,
		IsVerified:       rec.IsVerified,
		Goals:            nonNilStrings(rec.Goals),
		IssueAreas:       nonNilStrings(rec.IssueAreas),
		Attributes:       rec.Attributes,
		ViewedLessons:    make(map[models.LessonID]bool, len(rec.ViewedLessons)),
		CreatedAt:        rec.CreatedAt,
		UpdatedAt:        rec.UpdatedAt,
	}
	for key, viewed := range rec.ViewedLessons {
		// Keys that are not lesson ids were never written by this service.
		if n, err := strconv.Atoi(key); err == nil {
			u.ViewedLessons[models.LessonID(n)] = viewed
		}
	}
	return u
}

type lessonRecord struct {
	LessonID             int       `firestore:"lessonId" bson:"_id"`
	Title                string    `firestore:"title" bson:"title"`
	Category             string    `firestore:"category" bson:"category"`
	Duration             string    `firestore:"duration" bson:"duration"`
	Description          string    `firestore:"description" bson:"description"`
	TipTitle             string    `firestore:"tipTitle" bson:"tipTitle"`
	TipText              string    `firestore:"tipText" bson:"tipText"`
	ExternalVideoRef     string    `firestore:"externalVideoRef" bson:"externalVideoRef"`
	ExternalThumbnailRef string    `firestore:"externalThumbnailRef" bson:"externalThumbnailRef"`
	ExternalPreviewRef   string    `firestore:"externalPreviewRef" bson:"externalPreviewRef"`
	VideoURL             string    `firestore:"videoUrl" bson:"videoUrl"`
	ThumbnailURL         string    `firestore:"thumbnailUrl" bson:"thumbnailUrl"`
	PreviewURL           string    `firestore:"videoPreview" bson:"videoPreview"`
	UpdatedAt            time.Time `firestore:"updatedAt" bson:"updatedAt"`
}

func toLessonRecord(l *models.Lesson) lessonRecord {
	return lessonRecord{
		LessonID:             int(l.ID),
		Title:                l.Title,
		Category:             l.Category,
		Duration:             l.Duration,
		Description:          l.Description,
		TipTitle:             l.TipTitle,
		TipText:              l.TipText,
		ExternalVideoRef:     l.ExternalVideoRef,
		ExternalThumbnailRef: l.ExternalThumbnailRef,
		ExternalPreviewRef:   l.ExternalPreviewRef,
		VideoURL:             l.VideoURL,
		ThumbnailURL:         l.ThumbnailURL,
		PreviewURL:           l.PreviewURL,
		UpdatedAt:            l.UpdatedAt,
	}
}

func (rec lessonRecord) toModel() *models.Lesson {
	return &models.Lesson{
		ID:                   models.LessonID(rec.LessonID),
		Title:                rec.Title,
		Category:             rec.Category,
		Duration:             rec.Duration,
		Description:          rec.Description,
		TipTitle:             rec.TipTitle,
		TipText:              rec.TipText,
		ExternalVideoRef:     rec.ExternalVideoRef,
		ExternalThumbnailRef: rec.ExternalThumbnailRef,
		ExternalPreviewRef:   rec.ExternalPreviewRef,
		VideoURL:             rec.VideoURL,
		ThumbnailURL:         rec.ThumbnailURL,
		PreviewURL:           rec.PreviewURL,
		UpdatedAt:            rec.UpdatedAt,
	}
}

type auditRecord struct {
	ID         string         `firestore:"id" bson:"_id"`
	Timestamp  time.Time      `firestore:"timestamp" bson:"timestamp"`
	Actor      string         `firestore:"actor" bson:"actor"`
	Action     string         `firestore:"action" bson:"action"`
	TargetType string         `firestore:"targetType,omitempty" bson:"targetType,omitempty"`
	TargetID   string         `firestore:"targetId,omitempty" bson:"targetId,omitempty"`
	IPAddress  string         `firestore:"ipAddress,omitempty" bson:"ipAddress,omitempty"`
	Details    map[string]any `firestore:"details,omitempty" bson:"details,omitempty"`
}

func toAuditRecord(a models.AuditLog) auditRecord {
	return auditRecord{
		ID:         a.ID,
		Timestamp:  a.Timestamp,
		Actor:      a.Actor,
		Action:     a.Action,
		TargetType: a.TargetType,
		TargetID:   a.TargetID,
		IPAddress:  a.IPAddress,
		Details:    a.Details,
	}
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func now() time.Time {
	return time.Now().UTC()
}
