package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ageback-backend-go/internal/core"
)

// AuthHandler handles customer sign-in.
type AuthHandler struct {
	accountService core.AccountService
	logger         *zap.Logger
}

func NewAuthHandler(as core.AccountService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{accountService: as, logger: logger}
}

// SignIn handles POST /api/auth/signin.
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	identity, err := h.accountService.Authenticate(requestContext(c), req.Email, req.Password)
	if err != nil {
		mapSignInError(h.logger, c, err)
		return
	}

	c.JSON(http.StatusOK, UserResponse{Success: true, Message: "Authorization successful", User: *identity})
}
