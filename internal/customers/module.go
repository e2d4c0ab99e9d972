// Package customers provides the customers bounded context module.
// It owns customer records and the vehicles registered under them.
package customers

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/je4550/repair-app/internal/customers/handler"
	"github.com/je4550/repair-app/internal/customers/repository"
	"github.com/je4550/repair-app/internal/customers/service"
	apphttp "github.com/je4550/repair-app/internal/http"
	"github.com/je4550/repair-app/platform/logger"
	"github.com/je4550/repair-app/platform/validator"
)

// Module is the customers bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the customers module with all its dependencies.
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
	return "customers"
}

// Service returns the service layer for cross-module adapters.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts customer and vehicle routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	customers := ctx.Protected.Group("/customers")
	m.handler.RegisterRoutes(customers)

	vehicles := ctx.Protected.Group("/vehicles")
	m.handler.RegisterVehicleRoutes(vehicles)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
