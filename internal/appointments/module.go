// Package appointments provides the appointment scheduling domain module.
package appointments

import (
	"github.com/je4550/repair-app/internal/appointments/handler"
	"github.com/je4550/repair-app/internal/appointments/repository"
	"github.com/je4550/repair-app/internal/appointments/service"
	"github.com/je4550/repair-app/internal/events"
	apphttp "github.com/je4550/repair-app/internal/http"
	"github.com/je4550/repair-app/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the appointments domain module
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new appointments module with all dependencies wired.
// Vehicle ownership and catalog rates come from other modules through the
// narrow interfaces defined in the service package.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, vehicles service.VehicleDirectory, rates service.RateProvider, bus events.Bus) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, vehicles, rates, bus)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Service exposes the appointments service for cross-module adapters.
func (m *Module) Service() *service.Service {
	return m.service
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "appointments"
}

// RegisterRoutes registers the module's routes under /api/v1/appointments
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	appointments := ctx.Protected.Group("/appointments")
	m.handler.RegisterRoutes(appointments)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
