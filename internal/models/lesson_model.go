package models

import (
	"bytes"
	"fmt"
	"strconv"
	"time"
)

// LessonID identifies a lesson from the fixed catalog.
type LessonID int

// ParseLessonID parses a positive decimal lesson id.
func ParseLessonID(s string) (LessonID, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid lesson id %q", s)
	}
	return LessonID(n), nil
}

func (id LessonID) String() string {
	return strconv.Itoa(int(id))
}

// UnmarshalJSON accepts the id as a number or as a quoted decimal string.
// null leaves the id unset.
func (id *LessonID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		data = data[1 : len(data)-1]
	}
	n, err := strconv.Atoi(string(data))
	if err != nil {
		return fmt.Errorf("invalid lesson id %s", data)
	}
	*id = LessonID(n)
	return nil
}

// Lesson is a lesson record. The URL fields hold either the static
// location or, once resolved, a link produced by the file store.
type Lesson struct {
	ID                   LessonID  `json:"id"`
	Title                string    `json:"title"`
	Category             string    `json:"category"`
	Duration             string    `json:"duration"`
	Description          string    `json:"description"`
	TipTitle             string    `json:"tipTitle"`
	TipText              string    `json:"tipText"`
	ExternalVideoRef     string    `json:"externalVideoRef"`
	ExternalThumbnailRef string    `json:"externalThumbnailRef"`
	ExternalPreviewRef   string    `json:"externalPreviewRef"`
	VideoURL             string    `json:"videoUrl"`
	ThumbnailURL         string    `json:"thumbnailUrl"`
	PreviewURL           string    `json:"videoPreview"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// HasExternalRefs reports whether any file store reference is set.
func (l *Lesson) HasExternalRefs() bool {
	return l.ExternalVideoRef != "" || l.ExternalThumbnailRef != "" || l.ExternalPreviewRef != ""
}

// LessonRefsUpdate carries the reference fields of an admin edit.
// Fields that were not supplied are left untouched.
type LessonRefsUpdate struct {
	ExternalVideoRef     OptionalString `json:"externalVideoRef"`
	ExternalThumbnailRef OptionalString `json:"externalThumbnailRef"`
	ExternalPreviewRef   OptionalString `json:"externalPreviewRef"`
}

// Apply writes the supplied fields onto l.
func (u LessonRefsUpdate) Apply(l *Lesson) {
	u.ExternalVideoRef.ApplyTo(&l.ExternalVideoRef)
	u.ExternalThumbnailRef.ApplyTo(&l.ExternalThumbnailRef)
	u.ExternalPreviewRef.ApplyTo(&l.ExternalPreviewRef)
}
