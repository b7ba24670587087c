// File: internal/common/context_keys.go
package common

const (
	// AuthorizationHeader is the header name for authorization token
	AuthorizationHeader = "Authorization"
	// AuthorizationTypeBearer is the prefix for Bearer tokens, including the separating space
	AuthorizationTypeBearer = "Bearer "
	// IdentityKey is the context key for storing the verified identity of the caller
	IdentityKey = "identity"
	// LoggerKey is the context key for the request-scoped logger
	LoggerKey = "logger"
	// RequestIDKey is the context key for the request id
	RequestIDKey = "requestID"
)
