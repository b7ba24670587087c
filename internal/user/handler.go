// File: internal/user/handler.go
package user

import (
	"errors"
	"io"

	"property_listing_backend/internal/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for user handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new user handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger.Named("UserHandler"),
	}
}

// RegisterRoutes sets up the routes for user operations. Every route requires authentication.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	userGroup := router.Group("/users", authMW)
	{
		userGroup.GET("/profile", h.getProfile)
		userGroup.PUT("/profile", h.updateProfile)
	}
}

func (h *Handler) getProfile(c *gin.Context) {
	caller := common.GetIdentityFromContext(c)
	if caller == nil {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), caller)
	if err != nil {
		h.logger.Error("Error fetching user profile", zap.Error(err), zap.String("userID", caller.UserID))
		common.RespondWithError(c, common.ErrInternalServer.WithMessage("Failed to fetch user profile").WithCause(err))
		return
	}
	common.RespondOK(c, profile)
}

func (h *Handler) updateProfile(c *gin.Context) {
	caller := common.GetIdentityFromContext(c)
	if caller == nil {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}

	var req UpdateProfileRequest
	// An empty body is an update that only refreshes email and updatedAt.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("Update profile: Invalid request body", zap.Error(err))
		common.RespondWithError(c, common.NewBindingAPIError(err))
		return
	}

	payload, err := h.service.UpdateProfile(c.Request.Context(), caller, req)
	if err != nil {
		h.logger.Error("Error updating profile", zap.Error(err), zap.String("userID", caller.UserID))
		common.RespondWithError(c, common.ErrInternalServer.WithMessage("Failed to update profile").WithCause(err))
		return
	}
	common.RespondOK(c, UpdateProfileResponse{Message: "Profile updated successfully", Profile: payload})
}
