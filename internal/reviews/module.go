// Package reviews provides the customer reviews bounded context module.
// Reviews bind a 1-5 rating to a completed appointment.
package reviews

import (
	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "github.com/je4550/repair-app/internal/http"
	"github.com/je4550/repair-app/internal/reviews/handler"
	"github.com/je4550/repair-app/internal/reviews/repository"
	"github.com/je4550/repair-app/internal/reviews/service"
	"github.com/je4550/repair-app/platform/logger"
	"github.com/je4550/repair-app/platform/validator"
)

// Module is the reviews bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the reviews module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "reviews"
}

// RegisterRoutes mounts review routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/reviews")
	group.GET("", m.handler.List)
	group.GET("/:id", m.handler.GetByID)
	group.POST("", m.handler.Create)

	// Removing a review is an admin action
	ctx.Admin.DELETE("/reviews/:id", m.handler.Delete)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
