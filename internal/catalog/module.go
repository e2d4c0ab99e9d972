// Package catalog provides the service catalog bounded context module.
// Each shop maintains its own priced, durationed list of offered services.
package catalog

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/je4550/repair-app/internal/catalog/handler"
	"github.com/je4550/repair-app/internal/catalog/repository"
	"github.com/je4550/repair-app/internal/catalog/service"
	"github.com/je4550/repair-app/internal/events"
	apphttp "github.com/je4550/repair-app/internal/http"
	"github.com/je4550/repair-app/platform/logger"
	"github.com/je4550/repair-app/platform/validator"
)

// Module is the catalog bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the catalog module with all its dependencies.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, locations service.LocationDirectory, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, locations, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "catalog"
}

// Service returns the service layer for cross-module adapters.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts catalog routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Tenant-scoped read endpoints for all authenticated staff
	ctx.Protected.GET("/services", m.handler.List)
	ctx.Protected.GET("/services/:id", m.handler.GetByID)

	// Admin-only mutation endpoints
	adminGroup := ctx.Admin.Group("/services")
	adminGroup.POST("", m.handler.Create)
	adminGroup.PUT("/:id", m.handler.Update)
	adminGroup.DELETE("/:id", m.handler.Delete)
}

// RegisterHandlers subscribes to domain events for seeding tenant defaults.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.ShopCreated{}.EventName(), m)
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.ShopCreated:
		return m.service.SeedDefaults(ctx, e.ShopID, e.DefaultLocationID)
	default:
		return nil
	}
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
