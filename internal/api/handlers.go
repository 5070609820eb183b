package api

import (
	"context"

	"github.com/gin-gonic/gin"

	"ageback-backend-go/internal/core"
	"ageback-backend-go/internal/middleware"
)

// requestContext carries the caller identity into the service layer for
// the audit trail. Outside the admin group the actor is left empty.
func requestContext(c *gin.Context) context.Context {
	meta := core.RequestMeta{IPAddress: c.ClientIP()}
	if uid := c.GetString(middleware.AdminUIDKey); uid != "" {
		meta.Actor = "admin:" + uid
	}
	return core.WithRequestMeta(c.Request.Context(), meta)
}
