// File: internal/middleware/auth.go
package middleware

import (
	"property_listing_backend/internal/common"
	"property_listing_backend/internal/identity"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthMiddleware verifies the bearer token of every request and stores the caller identity.
// Requests without a verifiable token are rejected before any handler runs.
func AuthMiddleware(verifier identity.Verifier, logger *zap.Logger) gin.HandlerFunc {
	logger = logger.Named("AuthMiddleware")
	return func(c *gin.Context) {
		token := common.GetTokenFromContext(c)
		if token == "" {
			logger.Debug("Bearer token missing", zap.String("path", c.Request.URL.Path))
			common.RespondWithError(c, common.ErrUnauthorized)
			return
		}

		id, err := verifier.VerifyIDToken(c.Request.Context(), token)
		if err != nil {
			logger.Warn("Token verification failed", zap.Error(err), zap.String("path", c.Request.URL.Path))
			common.RespondWithError(c, verificationAPIError(err))
			return
		}

		common.SetIdentity(c, id)
		logger.Debug("User authenticated successfully", zap.String("userID", id.UserID))
		c.Next()
	}
}

func verificationAPIError(err error) *common.APIError {
	kind, code := identity.ClassifyFailure(err)
	switch kind {
	case identity.FailureExpired:
		return common.ErrTokenExpired
	case identity.FailureRevoked:
		return common.ErrTokenRevoked
	case identity.FailureMalformed:
		return common.ErrInvalidTokenFormat
	}
	if code != "" {
		return common.ErrInvalidToken.WithCode(code)
	}
	return common.ErrInvalidToken
}
