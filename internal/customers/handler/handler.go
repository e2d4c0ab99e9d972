// Package handler provides HTTP handlers for the customers module.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/je4550/repair-app/internal/customers/service"
	"github.com/je4550/repair-app/internal/customers/transport"
	"github.com/je4550/repair-app/platform/httpkit"
	"github.com/je4550/repair-app/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for customers and vehicles.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new customers handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers customer and nested vehicle routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)

	rg.POST("/:id/vehicles", h.AddVehicle)
}

// RegisterVehicleRoutes registers the flat vehicle routes.
func (h *Handler) RegisterVehicleRoutes(rg *gin.RouterGroup) {
	rg.GET("/:id", h.GetVehicle)
	rg.PUT("/:id", h.UpdateVehicle)
	rg.DELETE("/:id", h.DeleteVehicle)
}

// List handles GET /api/v1/customers
func (h *Handler) List(c *gin.Context) {
	var req transport.ListCustomersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
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

	result, err := h.svc.List(c.Request.Context(), identity.ShopID(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// Create handles POST /api/v1/customers
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateCustomerRequest
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

	result, err := h.svc.Create(c.Request.Context(), identity.ShopID(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, result)
}

// GetByID handles GET /api/v1/customers/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, identity := h.idAndIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.GetByID(c.Request.Context(), id, identity.ShopID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// Update handles PUT /api/v1/customers/:id
func (h *Handler) Update(c *gin.Context) {
	id, identity := h.idAndIdentity(c)
	if identity == nil {
		return
	}

	var req transport.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Update(c.Request.Context(), id, identity.ShopID(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// Delete handles DELETE /api/v1/customers/:id
func (h *Handler) Delete(c *gin.Context) {
	id, identity := h.idAndIdentity(c)
	if identity == nil {
		return
	}

	if httpkit.HandleError(c, h.svc.Delete(c.Request.Context(), id, identity.ShopID())) {
		return
	}

	httpkit.NoContent(c)
}

// AddVehicle handles POST /api/v1/customers/:id/vehicles
func (h *Handler) AddVehicle(c *gin.Context) {
	customerID, identity := h.idAndIdentity(c)
	if identity == nil {
		return
	}

	var req transport.CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.AddVehicle(c.Request.Context(), customerID, identity.ShopID(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, result)
}

// GetVehicle handles GET /api/v1/vehicles/:id
func (h *Handler) GetVehicle(c *gin.Context) {
	id, identity := h.idAndIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.GetVehicle(c.Request.Context(), id, identity.ShopID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// UpdateVehicle handles PUT /api/v1/vehicles/:id
func (h *Handler) UpdateVehicle(c *gin.Context) {
	id, identity := h.idAndIdentity(c)
	if identity == nil {
		return
	}

	var req transport.UpdateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.UpdateVehicle(c.Request.Context(), id, identity.ShopID(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// DeleteVehicle handles DELETE /api/v1/vehicles/:id
func (h *Handler) DeleteVehicle(c *gin.Context) {
	id, identity := h.idAndIdentity(c)
	if identity == nil {
		return
	}

	if httpkit.HandleError(c, h.svc.DeleteVehicle(c.Request.Context(), id, identity.ShopID())) {
		return
	}

	httpkit.NoContent(c)
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
