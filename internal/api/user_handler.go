package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ageback-backend-go/internal/core"
	"ageback-backend-go/internal/models"
)

// UserHandler handles the lead and customer endpoints under /api/users.
type UserHandler struct {
	accountService core.AccountService
	logger         *zap.Logger
}

func NewUserHandler(as core.AccountService, logger *zap.Logger) *UserHandler {
	return &UserHandler{accountService: as, logger: logger}
}

// CreateLead handles POST /api/users/create-lead.
// Responds 201 when a record was created and 200 when an existing one was refreshed.
func (h *UserHandler) CreateLead(c *gin.Context) {
	var req CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	identity, created, err := h.accountService.CreateLead(requestContext(c), models.LeadInput{
		Name:       req.Name,
		Email:      req.Email,
		Goals:      req.Goals,
		IssueAreas: req.IssueAreas,
		Attributes: req.Attributes,
	})
	if err != nil {
		mapAccountError(h.logger, c, err)
		return
	}

	if created {
		c.JSON(http.StatusCreated, UserResponse{Success: true, Message: "Lead user created successfully", User: *identity})
		return
	}
	c.JSON(http.StatusOK, UserResponse{Success: true, Message: "Lead user updated", User: *identity})
}

// UpgradeToCustomer handles POST /api/users/upgrade-to-customer.
func (h *UserHandler) UpgradeToCustomer(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	result, err := h.accountService.UpgradeToCustomer(requestContext(c), req.Email)
	if err != nil {
		mapAccountError(h.logger, c, err)
		return
	}

	c.JSON(http.StatusOK, UpgradeResponse{
		Success:  true,
		Message:  "User upgraded to customer",
		User:     result.User,
		Password: result.Credential,
	})
}

// MarkLessonViewed handles POST /api/users/mark-lesson-viewed.
func (h *UserHandler) MarkLessonViewed(c *gin.Context) {
	var req MarkLessonViewedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	viewed, err := h.accountService.MarkLessonViewed(requestContext(c), req.Email, req.LessonID)
	if err != nil {
		mapAccountError(h.logger, c, err)
		return
	}

	c.JSON(http.StatusOK, ViewedLessonsResponse{
		Success:       true,
		Message:       fmt.Sprintf("Lesson %d marked as viewed", req.LessonID),
		ViewedLessons: viewed,
	})
}

// GetProfile handles GET /api/users/profile/:email.
func (h *UserHandler) GetProfile(c *gin.Context) {
	profile, err := h.accountService.GetProfile(requestContext(c), c.Param("email"))
	if err != nil {
		mapAccountError(h.logger, c, err)
		return
	}
	c.JSON(http.StatusOK, ProfileResponse{Success: true, User: *profile})
}
