// Package service implements the communications business logic: sending
// customer email through SMTP and keeping a per-shop log of every
// outbound message.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/je4550/repair-app/internal/communications/repository"
	"github.com/je4550/repair-app/internal/communications/transport"
	"github.com/je4550/repair-app/internal/email"
	"github.com/je4550/repair-app/platform/apperr"
	"github.com/je4550/repair-app/platform/logger"
)

const errCustomerHasNoEmail = "customer has no email address"

// Service implements communication log operations.
type Service struct {
	repo   repository.Repository
	sender email.Sender
	log    *logger.Logger
}

// New creates a new communications service.
func New(repo repository.Repository, sender email.Sender, log *logger.Logger) *Service {
	return &Service{repo: repo, sender: sender, log: log}
}

// SendEmail delivers an email to a customer and logs the outcome. The
// log row survives delivery failure with status failed and the error
// recorded.
func (s *Service) SendEmail(ctx context.Context, shopID uuid.UUID, req transport.SendEmailRequest) (transport.CommunicationResponse, error) {
	contact, err := s.repo.GetCustomerContact(ctx, req.CustomerID, shopID)
	if err != nil {
		return transport.CommunicationResponse{}, err
	}
	if contact.Email == nil || *contact.Email == "" {
		return transport.CommunicationResponse{}, apperr.Validation(errCustomerHasNoEmail)
	}

	comm, err := s.repo.Create(ctx, repository.CreateParams{
		ShopID:     shopID,
		CustomerID: req.CustomerID,
		Type:       repository.TypeEmail,
		Subject:    &req.Subject,
		Body:       req.Body,
		Status:     repository.StatusPending,
	})
	if err != nil {
		return transport.CommunicationResponse{}, err
	}

	if sendErr := s.sender.SendMessage(ctx, *contact.Email, req.Subject, req.Body); sendErr != nil {
		s.log.Error("customer email delivery failed",
			"communication_id", comm.ID,
			"shop_id", shopID,
			"error", sendErr,
		)
		detail := sendErr.Error()
		comm, err = s.repo.UpdateStatus(ctx, comm.ID, shopID, repository.StatusFailed, &detail)
	} else {
		comm, err = s.repo.UpdateStatus(ctx, comm.ID, shopID, repository.StatusSent, nil)
	}
	if err != nil {
		return transport.CommunicationResponse{}, err
	}

	return toResponse(comm), nil
}

// RecordSMS logs an SMS that was sent through an external channel.
// Delivery itself happens outside this system, so the row starts as sent.
func (s *Service) RecordSMS(ctx context.Context, shopID uuid.UUID, req transport.RecordSMSRequest) (transport.CommunicationResponse, error) {
	if _, err := s.repo.GetCustomerContact(ctx, req.CustomerID, shopID); err != nil {
		return transport.CommunicationResponse{}, err
	}

	comm, err := s.repo.Create(ctx, repository.CreateParams{
		ShopID:     shopID,
		CustomerID: req.CustomerID,
		Type:       repository.TypeSMS,
		Body:       req.Body,
		Status:     repository.StatusSent,
	})
	if err != nil {
		return transport.CommunicationResponse{}, err
	}
	return toResponse(comm), nil
}

// UpdateStatus moves a logged communication to a new delivery status,
// for example when a provider callback reports delivered or failed.
func (s *Service) UpdateStatus(ctx context.Context, id, shopID uuid.UUID, req transport.UpdateStatusRequest) (transport.CommunicationResponse, error) {
	comm, err := s.repo.UpdateStatus(ctx, id, shopID, req.Status, nil)
	if err != nil {
		return transport.CommunicationResponse{}, err
	}
	return toResponse(comm), nil
}

// List retrieves the communications log with filters and pagination.
func (s *Service) List(ctx context.Context, shopID uuid.UUID, req transport.ListCommunicationsRequest) (transport.CommunicationListResponse, error) {
	page := req.Page
	pageSize := req.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}

	items, total, err := s.repo.List(ctx, repository.ListParams{
		ShopID:     shopID,
		CustomerID: req.CustomerID,
		Type:       req.Type,
		Status:     req.Status,
		Offset:     (page - 1) * pageSize,
		Limit:      pageSize,
	})
	if err != nil {
		return transport.CommunicationListResponse{}, err
	}

	responses := make([]transport.CommunicationResponse, len(items))
	for i, item := range items {
		responses[i] = toResponse(item)
	}

	totalPages := (total + pageSize - 1) / pageSize
	return transport.CommunicationListResponse{
		Items:      responses,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

func toResponse(comm repository.Communication) transport.CommunicationResponse {
	resp := transport.CommunicationResponse{
		ID:         comm.ID,
		CustomerID: comm.CustomerID,
		Type:       comm.Type,
		Subject:    comm.Subject,
		Body:       comm.Body,
		Status:     comm.Status,
		Error:      comm.Error,
		CreatedAt:  comm.CreatedAt.Format(time.RFC3339),
	}
	if comm.SentAt != nil {
		sentAt := comm.SentAt.Format(time.RFC3339)
		resp.SentAt = &sentAt
	}
	return resp
}
