// Package locations provides the region and location bounded context module.
// Shops organize their physical sites as regions containing locations; other
// records that are site-specific hang off a location.
package locations

import (
	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "github.com/je4550/repair-app/internal/http"
	"github.com/je4550/repair-app/internal/locations/handler"
	"github.com/je4550/repair-app/internal/locations/repository"
	"github.com/je4550/repair-app/internal/locations/service"
	"github.com/je4550/repair-app/platform/logger"
	"github.com/je4550/repair-app/platform/validator"
)

// Module is the locations bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the locations module with all its dependencies.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "locations"
}

// Service returns the service layer for cross-module adapters.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts region and location routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Tenant-scoped read endpoints for all authenticated staff
	ctx.Protected.GET("/regions", m.handler.ListRegions)
	ctx.Protected.GET("/locations", m.handler.ListLocations)
	ctx.Protected.GET("/locations/:id", m.handler.GetLocation)

	// Admin-only mutation endpoints
	ctx.Admin.POST("/regions", m.handler.CreateRegion)
	locationsGroup := ctx.Admin.Group("/locations")
	locationsGroup.POST("", m.handler.CreateLocation)
	locationsGroup.PUT("/:id", m.handler.UpdateLocation)
	locationsGroup.PUT("/:id/activate", m.handler.Activate)
	locationsGroup.PUT("/:id/deactivate", m.handler.Deactivate)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
