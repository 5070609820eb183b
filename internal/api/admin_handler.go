package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ageback-backend-go/internal/core"
	"ageback-backend-go/internal/models"
	"ageback-backend-go/internal/storage"
)

// maxUploadBytes bounds a single multipart video upload.
const maxUploadBytes = 2 << 30

// AdminHandler handles the /api/admin endpoints that are not lesson edits.
type AdminHandler struct {
	accountService      core.AccountService
	notificationService core.NotificationService
	mediaService        core.MediaService
	logger              *zap.Logger
}

func NewAdminHandler(as core.AccountService, ns core.NotificationService, ms core.MediaService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{accountService: as, notificationService: ns, mediaService: ms, logger: logger}
}

// ListUsers handles GET /api/admin/users.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.accountService.ListUsers(requestContext(c))
	if err != nil {
		mapAccountError(h.logger, c, err)
		return
	}
	c.JSON(http.StatusOK, AdminUsersResponse{Success: true, Users: users})
}

// SetRole handles POST /api/admin/users/:id/role.
func (h *AdminHandler) SetRole(c *gin.Context) {
	var req SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}
	role, err := models.ParseRole(req.Role)
	if err != nil {
		respondError(c, apiError{http.StatusBadRequest, core.ReasonInvalidRole, "Role must be lead or customer"})
		return
	}

	change, err := h.accountService.SetRole(requestContext(c), c.Param("id"), role)
	if err != nil {
		mapAccountError(h.logger, c, err)
		return
	}
	c.JSON(http.StatusOK, RoleChangeResponse{
		Success:    true,
		Message:    fmt.Sprintf("User role changed to %s", role),
		RoleChange: change,
	})
}

// SendTestEmail handles POST /api/admin/test-email.
func (h *AdminHandler) SendTestEmail(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	result, err := h.notificationService.SendTestCredential(requestContext(c), req.Email)
	if err != nil {
		mapAccountError(h.logger, c, err)
		return
	}
	c.JSON(http.StatusOK, TestEmailResponse{Success: true, Message: "Test email sent", TestEmailResult: result})
}

// ListVideos handles GET /api/admin/files/videos.
func (h *AdminHandler) ListVideos(c *gin.Context) {
	files, err := h.mediaService.ListVideos(c.Request.Context())
	if err != nil {
		mapMediaError(h.logger, c, err)
		return
	}
	c.JSON(http.StatusOK, FilesResponse{Success: true, Files: files})
}

// ListImages handles GET /api/admin/files/images?folder=.
func (h *AdminHandler) ListImages(c *gin.Context) {
	files, err := h.mediaService.ListImages(c.Request.Context(), c.Query("folder"))
	if err != nil {
		mapMediaError(h.logger, c, err)
		return
	}
	c.JSON(http.StatusOK, FilesResponse{Success: true, Files: files})
}

// UploadVideo handles POST /api/admin/files/videos as multipart form data
// with a "file" part and an optional "lessonId" field.
func (h *AdminHandler) UploadVideo(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	header, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			respondError(c, apiError{http.StatusBadRequest, core.ReasonFileRequired, "file is required"})
			return
		}
		respondError(c, apiError{http.StatusBadRequest, ReasonInvalidRequest, "Invalid multipart payload"})
		return
	}

	var lessonID *models.LessonID
	if raw := c.PostForm("lessonId"); raw != "" {
		id, err := models.ParseLessonID(raw)
		if err != nil || !models.IsKnownLesson(id) {
			respondError(c, apiError{http.StatusBadRequest, core.ReasonUnknownLesson, "Unknown lesson"})
			return
		}
		lessonID = &id
	}

	f, err := header.Open()
	if err != nil {
		respondError(c, internalError(h.logger, c, err))
		return
	}
	defer f.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = storage.ContentTypeFor(header.Filename)
	}

	file, err := h.mediaService.UploadVideo(requestContext(c), header.Filename, contentType, f, lessonID)
	if err != nil {
		mapMediaError(h.logger, c, err)
		return
	}
	c.JSON(http.StatusCreated, FileResponse{Success: true, File: file})
}

// DeleteFile handles DELETE /api/admin/files/:fileId.
func (h *AdminHandler) DeleteFile(c *gin.Context) {
	if err := h.mediaService.DeleteFile(requestContext(c), c.Param("fileId")); err != nil {
		mapMediaError(h.logger, c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "File deleted"})
}

// CheckFileStore handles GET /api/admin/files/check.
func (h *AdminHandler) CheckFileStore(c *gin.Context) {
	if err := h.mediaService.CheckConnection(c.Request.Context()); err != nil {
		mapMediaError(h.logger, c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "File store is reachable"})
}
