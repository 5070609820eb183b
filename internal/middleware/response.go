package middleware

import "github.com/gin-gonic/gin"

// ErrorResponse mirrors api.ErrorResponse; it is redeclared here so the
// middleware package does not import api.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
}

func abortWithError(c *gin.Context, status int, reason, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Success: false, Message: message, Reason: reason})
}
