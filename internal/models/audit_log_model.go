package models

import "time"

// Audit actions.
const (
	AuditCustomerUpgraded = "CUSTOMER_UPGRADED"
	AuditRoleSet          = "ROLE_SET"
	AuditLessonUpdated    = "LESSON_UPDATED"
	AuditFileUploaded     = "FILE_UPLOADED"
	AuditFileDeleted      = "FILE_DELETED"
)

// Audit target types.
const (
	TargetUser   = "USER"
	TargetLesson = "LESSON"
	TargetFile   = "FILE"
)

// AuditLog represents an audit trail event.
type AuditLog struct {
	ID         string         `json:"id"`
	Timestamp  time.Time      `json:"timestamp"`
	Actor      string         `json:"actor"`  // Who performed the action: admin uid, "system" or the user's email
	Action     string         `json:"action"` // e.g., CUSTOMER_UPGRADED, LESSON_UPDATED
	TargetType string         `json:"targetType,omitempty"`
	TargetID   string         `json:"targetId,omitempty"`
	IPAddress  string         `json:"ipAddress,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
}
