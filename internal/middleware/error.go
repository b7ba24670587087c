// File: internal/middleware/error.go
package middleware

import (
	"fmt"
	"io"

	"property_listing_backend/internal/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Recovery converts panics into the generic 500 response and logs them through zap only.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered interface{}) {
		logger.Error("Recovered from panic",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", c.GetString(common.RequestIDKey)),
			zap.Stack("stack"),
		)
		common.RespondWithError(c, common.ErrInternalServer.WithDetails(fmt.Sprint(recovered)))
	})
}

// NotFound answers unmatched routes.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		common.RespondWithError(c, common.ErrRouteNotFound)
	}
}
