package handler

import (
	"context"
	"net/http"

	"github.com/je4550/repair-app/internal/appointments/service"
	"github.com/je4550/repair-app/internal/appointments/transport"
	"github.com/je4550/repair-app/platform/httpkit"
	"github.com/je4550/repair-app/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for appointments
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new appointments handler
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the appointment routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/availability", h.CheckAvailability)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)

	rg.POST("/:id/confirm", h.Confirm)
	rg.POST("/:id/start", h.Start)
	rg.POST("/:id/complete", h.Complete)
	rg.POST("/:id/cancel", h.Cancel)
	rg.POST("/:id/no-show", h.MarkNoShow)
}

// List handles GET /api/v1/appointments
func (h *Handler) List(c *gin.Context) {
	var req transport.ListAppointmentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 50
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

// Create handles POST /api/v1/appointments
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateAppointmentRequest
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

// GetByID handles GET /api/v1/appointments/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, identity := h.idAndIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.Get(c.Request.Context(), id, identity.ShopID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// Update handles PUT /api/v1/appointments/:id
func (h *Handler) Update(c *gin.Context) {
	id, identity := h.idAndIdentity(c)
	if identity == nil {
		return
	}

	var req transport.UpdateAppointmentRequest
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

// Delete handles DELETE /api/v1/appointments/:id
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

// CheckAvailability handles GET /api/v1/appointments/availability
func (h *Handler) CheckAvailability(c *gin.Context) {
	var req transport.AvailabilityRequest
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

	result, err := h.svc.CheckAvailability(c.Request.Context(), identity.ShopID(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// Confirm handles POST /api/v1/appointments/:id/confirm
func (h *Handler) Confirm(c *gin.Context) {
	h.transition(c, h.svc.Confirm)
}

// Start handles POST /api/v1/appointments/:id/start
func (h *Handler) Start(c *gin.Context) {
	h.transition(c, h.svc.Start)
}

// Complete handles POST /api/v1/appointments/:id/complete
func (h *Handler) Complete(c *gin.Context) {
	h.transition(c, h.svc.Complete)
}

// Cancel handles POST /api/v1/appointments/:id/cancel
func (h *Handler) Cancel(c *gin.Context) {
	h.transition(c, h.svc.Cancel)
}

// MarkNoShow handles POST /api/v1/appointments/:id/no-show
func (h *Handler) MarkNoShow(c *gin.Context) {
	h.transition(c, h.svc.MarkNoShow)
}

func (h *Handler) transition(c *gin.Context, fn func(ctx context.Context, id, shopID uuid.UUID) (*transport.AppointmentResponse, error)) {
	id, identity := h.idAndIdentity(c)
	if identity == nil {
		return
	}

	result, err := fn(c.Request.Context(), id, identity.ShopID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// idAndIdentity parses the :id path param and extracts the identity.
// On failure it writes the error response and returns a nil identity.
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
