// Package service implements the reminders business logic: scheduling a
// next-service follow-up after each completed appointment and delivering
// it when due.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/je4550/repair-app/internal/email"
	"github.com/je4550/repair-app/internal/events"
	"github.com/je4550/repair-app/internal/reminders/repository"
	"github.com/je4550/repair-app/internal/reminders/transport"
	"github.com/je4550/repair-app/internal/scheduler"
	"github.com/je4550/repair-app/platform/logger"
)

// followUpMonths is how long after a completed appointment the
// next-service reminder falls due.
const followUpMonths = 3

// Service implements reminder scheduling and delivery.
type Service struct {
	repo      repository.Repository
	scheduler scheduler.ReminderScheduler
	sender    email.Sender
	log       *logger.Logger
}

// New creates a new reminders service. The scheduler may be nil when no
// Redis queue is configured; reminders are still recorded and can be
// delivered later by a sweep.
func New(repo repository.Repository, sched scheduler.ReminderScheduler, sender email.Sender, log *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		scheduler: sched,
		sender:    sender,
		log:       log,
	}
}

// HandleAppointmentCompleted records a follow-up reminder three months
// out and enqueues its delivery task.
func (s *Service) HandleAppointmentCompleted(ctx context.Context, e events.AppointmentCompleted) error {
	scheduledDate := e.CompletedAt.AddDate(0, followUpMonths, 0)

	rem, err := s.repo.Create(ctx, repository.CreateParams{
		ShopID:        e.ShopID,
		CustomerID:    e.CustomerID,
		VehicleID:     e.VehicleID,
		AppointmentID: e.AppointmentID,
		ScheduledDate: scheduledDate,
	})
	if err != nil {
		return err
	}

	s.log.Info("service reminder created",
		"reminder_id", rem.ID,
		"shop_id", rem.ShopID,
		"scheduled_date", rem.ScheduledDate,
	)

	if s.scheduler == nil {
		return nil
	}

	payload := scheduler.ServiceReminderPayload{
		ReminderID: rem.ID.String(),
		ShopID:     rem.ShopID.String(),
	}
	if err := s.scheduler.ScheduleServiceReminder(ctx, payload, scheduledDate); err != nil {
		// The reminder row survives; delivery can be re-enqueued.
		s.log.Error("schedule service reminder failed", "reminder_id", rem.ID, "error", err)
	}
	return nil
}

// ProcessDue delivers one due reminder. Reminders already sent, and
// customers without an email address, are skipped without error so
// redelivered tasks stay harmless.
func (s *Service) ProcessDue(ctx context.Context, reminderID, shopID uuid.UUID) error {
	info, err := s.repo.GetDeliveryInfo(ctx, reminderID, shopID)
	if err != nil {
		return err
	}

	if info.Status != repository.StatusPending {
		return nil
	}

	if info.CustomerEmail == nil || *info.CustomerEmail == "" {
		s.log.Info("service reminder skipped, customer has no email", "reminder_id", reminderID)
		_, err := s.repo.MarkSent(ctx, reminderID, shopID)
		return err
	}

	if err := s.sender.SendServiceReminder(ctx, *info.CustomerEmail, info.CustomerName, info.VehicleName, info.ShopName); err != nil {
		return err
	}

	sent, err := s.repo.MarkSent(ctx, reminderID, shopID)
	if err != nil {
		return err
	}
	if sent {
		s.log.Info("service reminder delivered", "reminder_id", reminderID, "shop_id", shopID)
	}
	return nil
}

// List retrieves reminders for a shop with optional status filter.
func (s *Service) List(ctx context.Context, shopID uuid.UUID, req transport.ListRemindersRequest) (transport.ReminderListResponse, error) {
	page := req.Page
	pageSize := req.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}

	items, total, err := s.repo.List(ctx, repository.ListParams{
		ShopID: shopID,
		Status: req.Status,
		Offset: (page - 1) * pageSize,
		Limit:  pageSize,
	})
	if err != nil {
		return transport.ReminderListResponse{}, err
	}

	responses := make([]transport.ReminderResponse, len(items))
	for i, item := range items {
		responses[i] = toResponse(item)
	}

	totalPages := (total + pageSize - 1) / pageSize
	return transport.ReminderListResponse{
		Items:      responses,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

func toResponse(rem repository.Reminder) transport.ReminderResponse {
	resp := transport.ReminderResponse{
		ID:            rem.ID,
		CustomerID:    rem.CustomerID,
		VehicleID:     rem.VehicleID,
		AppointmentID: rem.AppointmentID,
		ScheduledDate: rem.ScheduledDate.Format(time.RFC3339),
		Status:        rem.Status,
		CreatedAt:     rem.CreatedAt.Format(time.RFC3339),
	}
	if rem.SentAt != nil {
		sentAt := rem.SentAt.Format(time.RFC3339)
		resp.SentAt = &sentAt
	}
	return resp
}

// Compile-time check that the service can back the queue worker
var _ scheduler.ReminderProcessor = (*Service)(nil)
