// Package communications provides the outbound customer communications
// bounded context module: sending email and keeping a per-shop log of
// every outbound message.
package communications

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/je4550/repair-app/internal/communications/handler"
	"github.com/je4550/repair-app/internal/communications/repository"
	"github.com/je4550/repair-app/internal/communications/service"
	"github.com/je4550/repair-app/internal/email"
	apphttp "github.com/je4550/repair-app/internal/http"
	"github.com/je4550/repair-app/platform/logger"
	"github.com/je4550/repair-app/platform/validator"
)

// Module is the communications bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the communications module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, sender email.Sender, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, sender, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "communications"
}

// RegisterRoutes mounts communication routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/communications")
	group.GET("", m.handler.List)
	group.POST("/email", m.handler.SendEmail)
	group.POST("/sms", m.handler.RecordSMS)
	group.PUT("/:id/status", m.handler.UpdateStatus)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
