package models

import (
	"fmt"
	"strings"
	"time"
)

// Role is the account lifecycle state of a user.
type Role string

const (
	RoleLead     Role = "lead"
	RoleCustomer Role = "customer"
)

// ParseRole converts a wire value into a Role. Matching is case-insensitive.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleLead, RoleCustomer:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// User represents an account in the system. The credential is never
// serialized; it is revealed to admins through AdminUserView only.
type User struct {
	ID               string            `json:"id"`
	Email            string            `json:"email"`
	Name             string            `json:"name"`
	Role             Role              `json:"role"`
	CredentialHash   string            `json:"-"`
	CredentialCipher string            `json:"-"`
	IsVerified       bool              `json:"isVerified"`
	Goals            []string          `json:"goals"`
	IssueAreas       []string          `json:"issueAreas"`
	Attributes       map[string]string `json:"attributes,omitempty"`
	ViewedLessons    map[LessonID]bool `json:"viewedLessons"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// HasCredential reports whether a credential has been issued.
func (u *User) HasCredential() bool {
	return u.CredentialHash != ""
}

// UserIdentity holds the public fields returned by lifecycle operations.
type UserIdentity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// UserProfile is the profile view of a user.
type UserProfile struct {
	UserIdentity
	IsVerified    bool              `json:"isVerified"`
	Goals         []string          `json:"goals"`
	IssueAreas    []string          `json:"issueAreas"`
	Attributes    map[string]string `json:"attributes,omitempty"`
	ViewedLessons map[LessonID]bool `json:"viewedLessons"`
	CreatedAt     time.Time         `json:"createdAt"`
}

// AdminUserView is the admin listing row, including the issued credential.
type AdminUserView struct {
	UserProfile
	HasCredential bool      `json:"hasCredential"`
	Credential    string    `json:"credential,omitempty"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (u *User) Identity() UserIdentity {
	return UserIdentity{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

func (u *User) Profile() UserProfile {
	p := UserProfile{
		UserIdentity:  u.Identity(),
		IsVerified:    u.IsVerified,
		Goals:         u.Goals,
		IssueAreas:    u.IssueAreas,
		Attributes:    u.Attributes,
		ViewedLessons: u.ViewedLessons,
		CreatedAt:     u.CreatedAt,
	}
	if p.Goals == nil {
		p.Goals = []string{}
	}
	if p.IssueAreas == nil {
		p.IssueAreas = []string{}
	}
	if p.ViewedLessons == nil {
		p.ViewedLessons = map[LessonID]bool{}
	}
	return p
}

// NormalizeEmail is the canonical form used as the identity key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
