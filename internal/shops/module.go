// Package shops provides the tenant bounded context module.
// A shop is the unit of tenancy; every other record hangs off one.
package shops

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/je4550/repair-app/internal/events"
	apphttp "github.com/je4550/repair-app/internal/http"
	"github.com/je4550/repair-app/internal/shops/handler"
	"github.com/je4550/repair-app/internal/shops/repository"
	"github.com/je4550/repair-app/internal/shops/service"
	"github.com/je4550/repair-app/platform/logger"
	"github.com/je4550/repair-app/platform/validator"
)

// Module is the shops bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the shops module with all its dependencies.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, eventBus events.Bus, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, eventBus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "shops"
}

// RegisterRoutes mounts shop routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public registration with stricter rate limiting
	shopsGroup := ctx.V1.Group("/shops")
	shopsGroup.POST("/register", ctx.AuthRateLimiter.RateLimit(), m.handler.Register)

	ctx.Protected.GET("/shops/me", m.handler.GetProfile)
	ctx.Admin.PUT("/shops/me", m.handler.UpdateProfile)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
