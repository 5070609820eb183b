package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ageback-backend-go/internal/core"
	"ageback-backend-go/internal/models"
)

// LessonHandler serves lesson records and the admin lesson edits.
type LessonHandler struct {
	lessonService core.LessonService
	logger        *zap.Logger
}

func NewLessonHandler(ls core.LessonService, logger *zap.Logger) *LessonHandler {
	return &LessonHandler{lessonService: ls, logger: logger}
}

func (h *LessonHandler) lessonID(c *gin.Context) (models.LessonID, bool) {
	id, err := models.ParseLessonID(c.Param("id"))
	if err != nil {
		respondError(c, apiError{http.StatusNotFound, ReasonLessonNotFound, "Lesson not found"})
		return 0, false
	}
	return id, true
}

// GetLesson handles GET /lesson/:id.
func (h *LessonHandler) GetLesson(c *gin.Context) {
	id, ok := h.lessonID(c)
	if !ok {
		return
	}

	lesson, err := h.lessonService.GetLesson(c.Request.Context(), id)
	if err != nil {
		mapLessonError(h.logger, c, err)
		return
	}
	c.JSON(http.StatusOK, lesson)
}

// GetAllLessons handles GET /lessons. The body is an object keyed by lesson id.
func (h *LessonHandler) GetAllLessons(c *gin.Context) {
	c.JSON(http.StatusOK, h.lessonService.GetAllLessons(c.Request.Context()))
}

// UpdateExternalRefs handles PUT /api/admin/lessons/:id/refs.
func (h *LessonHandler) UpdateExternalRefs(c *gin.Context) {
	id, ok := h.lessonID(c)
	if !ok {
		return
	}

	var req models.LessonRefsUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	lesson, err := h.lessonService.UpdateExternalRefs(requestContext(c), id, req)
	if err != nil {
		mapLessonError(h.logger, c, err)
		return
	}
	c.JSON(http.StatusOK, LessonResponse{Success: true, Lesson: lesson})
}

// UpdateTitle handles PUT /api/admin/lessons/:id/title.
func (h *LessonHandler) UpdateTitle(c *gin.Context) {
	id, ok := h.lessonID(c)
	if !ok {
		return
	}

	var req UpdateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	lesson, err := h.lessonService.UpdateTitle(requestContext(c), id, req.Title)
	if err != nil {
		mapLessonError(h.logger, c, err)
		return
	}
	c.JSON(http.StatusOK, LessonResponse{Success: true, Lesson: lesson})
}
