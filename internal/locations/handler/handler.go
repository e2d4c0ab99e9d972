// Package handler provides HTTP handlers for the locations module.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/je4550/repair-app/internal/locations/service"
	"github.com/je4550/repair-app/internal/locations/transport"
	"github.com/je4550/repair-app/platform/httpkit"
	"github.com/je4550/repair-app/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for regions and locations.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new locations handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// ListRegions handles GET /api/v1/regions
func (h *Handler) ListRegions(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.ListRegions(c.Request.Context(), identity.ShopID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// CreateRegion handles POST /api/v1/regions
func (h *Handler) CreateRegion(c *gin.Context) {
	var req transport.CreateRegionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.CreateRegion(c.Request.Context(), identity.ShopID(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, result)
}

// ListLocations handles GET /api/v1/locations
func (h *Handler) ListLocations(c *gin.Context) {
	var req transport.ListLocationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.ListLocations(c.Request.Context(), identity.ShopID(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// GetLocation handles GET /api/v1/locations/:id
func (h *Handler) GetLocation(c *gin.Context) {
	id, identity := h.idAndIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.GetLocation(c.Request.Context(), id, identity.ShopID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// CreateLocation handles POST /api/v1/locations
func (h *Handler) CreateLocation(c *gin.Context) {
	var req transport.CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.CreateLocation(c.Request.Context(), identity.ShopID(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, result)
}

// UpdateLocation handles PUT /api/v1/locations/:id
func (h *Handler) UpdateLocation(c *gin.Context) {
	id, identity := h.idAndIdentity(c)
	if identity == nil {
		return
	}

	var req transport.UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.UpdateLocation(c.Request.Context(), id, identity.ShopID(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// Activate handles PUT /api/v1/locations/:id/activate
func (h *Handler) Activate(c *gin.Context) {
	id, identity := h.idAndIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.Activate(c.Request.Context(), id, identity.ShopID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// Deactivate handles PUT /api/v1/locations/:id/deactivate
func (h *Handler) Deactivate(c *gin.Context) {
	id, identity := h.idAndIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.Deactivate(c.Request.Context(), id, identity.ShopID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) idAndIdentity(c *gin.Context) (uuid.UUID, httpkit.Identity) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return uuid.UUID{}, nil
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return uuid.UUID{}, nil
	}

	return id, identity
}
