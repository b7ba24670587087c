// File: internal/property/handler.go
package property

import (
	"errors"
	"io"

	"property_listing_backend/internal/common"
	"property_listing_backend/internal/identity"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for property handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new property handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger.Named("PropertyHandler"),
	}
}

// RegisterRoutes sets up the routes for property operations. Every route requires authentication.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	propertyGroup := router.Group("/properties", authMW)
	{
		propertyGroup.GET("", h.listProperties)
		propertyGroup.POST("", h.createProperty)
		propertyGroup.GET("/user/:userId", h.listUserProperties)
		propertyGroup.GET("/:id", h.getProperty)
		propertyGroup.PUT("/:id", h.updateProperty)
		propertyGroup.DELETE("/:id", h.deleteProperty)
	}
}

func (h *Handler) listProperties(c *gin.Context) {
	caller := h.caller(c)
	if caller == nil {
		return
	}
	onlyMine := c.Query("myProperties") == "true"

	props, err := h.service.List(c.Request.Context(), caller, onlyMine)
	if err != nil {
		h.fail(c, err, "Failed to fetch properties")
		return
	}
	common.RespondOK(c, props)
}

func (h *Handler) createProperty(c *gin.Context) {
	caller := h.caller(c)
	if caller == nil {
		return
	}
	body, ok := h.bindBody(c)
	if !ok {
		return
	}

	created, err := h.service.Create(c.Request.Context(), caller, body)
	if err != nil {
		h.fail(c, err, "Failed to create property")
		return
	}
	common.RespondCreated(c, created)
}

func (h *Handler) getProperty(c *gin.Context) {
	caller := h.caller(c)
	if caller == nil {
		return
	}

	prop, err := h.service.Get(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to fetch property")
		return
	}
	common.RespondOK(c, prop)
}

func (h *Handler) updateProperty(c *gin.Context) {
	caller := h.caller(c)
	if caller == nil {
		return
	}
	body, ok := h.bindBody(c)
	if !ok {
		return
	}

	updated, err := h.service.Update(c.Request.Context(), caller, c.Param("id"), body)
	if err != nil {
		h.fail(c, err, "Failed to update property")
		return
	}
	common.RespondOK(c, updated)
}

func (h *Handler) deleteProperty(c *gin.Context) {
	caller := h.caller(c)
	if caller == nil {
		return
	}

	if err := h.service.Delete(c.Request.Context(), caller, c.Param("id")); err != nil {
		h.fail(c, err, "Failed to delete property")
		return
	}
	common.RespondMessage(c, "Property deleted successfully")
}

func (h *Handler) listUserProperties(c *gin.Context) {
	caller := h.caller(c)
	if caller == nil {
		return
	}

	props, err := h.service.ListByUser(c.Request.Context(), caller, c.Param("userId"))
	if err != nil {
		h.fail(c, err, "Failed to fetch user properties")
		return
	}
	common.RespondOK(c, props)
}

func (h *Handler) caller(c *gin.Context) *identity.Identity {
	caller := common.GetIdentityFromContext(c)
	if caller == nil {
		common.RespondWithError(c, common.ErrUnauthorized)
	}
	return caller
}

// bindBody decodes a JSON object body. An empty body decodes to an empty object.
func (h *Handler) bindBody(c *gin.Context) (map[string]interface{}, bool) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("Invalid property request body", zap.Error(err), zap.String("path", c.FullPath()))
		common.RespondWithError(c, common.NewBindingAPIError(err))
		return nil, false
	}
	if body == nil {
		body = map[string]interface{}{}
	}
	return body, true
}

// fail responds with err when it is an APIError, otherwise with a 500 carrying message.
func (h *Handler) fail(c *gin.Context, err error, message string) {
	if apiErr, ok := common.IsAPIError(err); ok {
		common.RespondWithError(c, apiErr)
		return
	}
	h.logger.Error(message, zap.Error(err), zap.String("path", c.FullPath()))
	common.RespondWithError(c, common.ErrInternalServer.WithMessage(message).WithCause(err))
}
