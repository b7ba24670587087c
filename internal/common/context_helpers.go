// File: internal/common/context_helpers.go
package common

import (
	"strings"

	"property_listing_backend/internal/identity"

	"github.com/gin-gonic/gin"
)

// GetTokenFromContext retrieves the bearer token from the Authorization header.
// Returns an empty string when the header is absent, lacks the "Bearer " prefix, or carries no token.
func GetTokenFromContext(c *gin.Context) string {
	authHeader := c.GetHeader(AuthorizationHeader)
	if !strings.HasPrefix(authHeader, AuthorizationTypeBearer) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, AuthorizationTypeBearer))
}

// SetIdentity stores the verified caller identity on the request.
func SetIdentity(c *gin.Context, id *identity.Identity) {
	c.Set(IdentityKey, id)
}

// GetIdentityFromContext retrieves the verified identity set by the auth middleware.
// Returns nil if the request was not authenticated.
func GetIdentityFromContext(c *gin.Context) *identity.Identity {
	val, exists := c.Get(IdentityKey)
	if !exists {
		return nil
	}
	id, ok := val.(*identity.Identity)
	if !ok {
		return nil
	}
	return id
}

// GetUserIDFromContext retrieves the authenticated user id, or "" when absent.
func GetUserIDFromContext(c *gin.Context) string {
	if id := GetIdentityFromContext(c); id != nil {
		return id.UserID
	}
	return ""
}
