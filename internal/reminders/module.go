// Package reminders provides the service reminders bounded context
// module. Completed appointments produce a next-service follow-up three
// months out, delivered by the queue worker.
package reminders

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/je4550/repair-app/internal/email"
	"github.com/je4550/repair-app/internal/events"
	apphttp "github.com/je4550/repair-app/internal/http"
	"github.com/je4550/repair-app/internal/reminders/handler"
	"github.com/je4550/repair-app/internal/reminders/repository"
	"github.com/je4550/repair-app/internal/reminders/service"
	"github.com/je4550/repair-app/internal/scheduler"
	"github.com/je4550/repair-app/platform/logger"
	"github.com/je4550/repair-app/platform/validator"
)

// Module is the reminders bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the reminders module. The scheduler
// may be nil when no Redis queue is configured.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, sched scheduler.ReminderScheduler, sender email.Sender, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, sched, sender, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "reminders"
}

// Service returns the service layer, which also backs the queue worker
// as its reminder processor.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts reminder routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/reminders", m.handler.List)
}

// RegisterHandlers subscribes to domain events for reminder scheduling.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.AppointmentCompleted{}.EventName(), m)
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.AppointmentCompleted:
		return m.service.HandleAppointmentCompleted(ctx, e)
	default:
		return nil
	}
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
