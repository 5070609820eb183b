package api

import "ageback-backend-go/internal/models"

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
}

// --- Request DTOs ---

type CreateLeadRequest struct {
	Name       string            `json:"name"`
	Email      string            `json:"email"`
	Goals      []string          `json:"goals"`
	IssueAreas []string          `json:"issueAreas"`
	Attributes map[string]string `json:"attributes"`
}

type EmailRequest struct {
	Email string `json:"email"`
}

type PaymentSuccessRequest struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	SessionID string `json:"sessionId"`
}

type MarkLessonViewedRequest struct {
	Email    string          `json:"email"`
	LessonID models.LessonID `json:"lessonId" binding:"required,lessonid"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CheckoutRequest struct {
	PlanID string `json:"planId"`
}

type UpdateTitleRequest struct {
	Title string `json:"title"`
}

type SetRoleRequest struct {
	Role string `json:"role" binding:"required,role"`
}

// --- Response DTOs ---

type UserResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	User    models.UserIdentity `json:"user"`
}

type UpgradeResponse struct {
	Success   bool                `json:"success"`
	Message   string              `json:"message"`
	User      models.UserIdentity `json:"user"`
	Password  string              `json:"password"`
	EmailSent *bool               `json:"emailSent,omitempty"`
}

type ViewedLessonsResponse struct {
	Success       bool                     `json:"success"`
	Message       string                   `json:"message"`
	ViewedLessons map[models.LessonID]bool `json:"viewedLessons"`
}

type ProfileResponse struct {
	Success bool               `json:"success"`
	User    models.UserProfile `json:"user"`
}

type AdminUsersResponse struct {
	Success bool                   `json:"success"`
	Users   []models.AdminUserView `json:"users"`
}

type RoleChangeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	*models.RoleChange
}

type TestEmailResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	*models.TestEmailResult
}

type LessonResponse struct {
	Success bool           `json:"success"`
	Lesson  *models.Lesson `json:"lesson"`
}

type FilesResponse struct {
	Success bool                `json:"success"`
	Files   []models.StoredFile `json:"files"`
}

type FileResponse struct {
	Success bool               `json:"success"`
	File    *models.StoredFile `json:"file"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
