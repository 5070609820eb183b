package models

import "time"

// StoredFile describes a file held by the external file store.
type StoredFile struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	MimeType    string    `json:"mimeType"`
	Size        int64     `json:"size"`
	CreatedTime time.Time `json:"createdTime"`
	Link        string    `json:"link"`
}
