// Package service implements the reviews business logic. A review binds
// a rating to a completed appointment and the customer who owned it.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/je4550/repair-app/internal/appointments/domain"
	"github.com/je4550/repair-app/internal/reviews/repository"
	"github.com/je4550/repair-app/internal/reviews/transport"
	"github.com/je4550/repair-app/platform/apperr"
	"github.com/je4550/repair-app/platform/logger"
)

const (
	errAppointmentNotCompleted = "appointment is not completed"
	errAlreadyReviewed         = "appointment already has a review"
)

// Service implements review operations.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new reviews service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Create attaches a review to a completed appointment. The customer is
// taken from the appointment, never from the request.
func (s *Service) Create(ctx context.Context, shopID uuid.UUID, req transport.CreateReviewRequest) (transport.ReviewResponse, error) {
	target, err := s.repo.GetReviewTarget(ctx, req.AppointmentID, shopID)
	if err != nil {
		return transport.ReviewResponse{}, err
	}
	if target.Status != string(domain.StatusCompleted) {
		return transport.ReviewResponse{}, apperr.Validation(errAppointmentNotCompleted)
	}

	exists, err := s.repo.ExistsForAppointment(ctx, req.AppointmentID, shopID)
	if err != nil {
		return transport.ReviewResponse{}, err
	}
	if exists {
		return transport.ReviewResponse{}, apperr.Conflict(errAlreadyReviewed)
	}

	review, err := s.repo.Create(ctx, repository.CreateParams{
		ShopID:        shopID,
		CustomerID:    target.CustomerID,
		AppointmentID: req.AppointmentID,
		Rating:        req.Rating,
		Comment:       req.Comment,
	})
	if err != nil {
		return transport.ReviewResponse{}, err
	}

	s.log.Info("review created",
		"review_id", review.ID,
		"shop_id", shopID,
		"appointment_id", req.AppointmentID,
		"rating", req.Rating,
	)

	return toResponse(review), nil
}

// GetByID retrieves a single review.
func (s *Service) GetByID(ctx context.Context, id, shopID uuid.UUID) (transport.ReviewResponse, error) {
	review, err := s.repo.GetByID(ctx, id, shopID)
	if err != nil {
		return transport.ReviewResponse{}, err
	}
	return toResponse(review), nil
}

// List retrieves reviews with the shop average rating.
func (s *Service) List(ctx context.Context, shopID uuid.UUID, req transport.ListReviewsRequest) (transport.ReviewListResponse, error) {
	page := req.Page
	pageSize := req.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}

	items, total, average, err := s.repo.List(ctx, repository.ListParams{
		ShopID: shopID,
		Rating: req.Rating,
		Offset: (page - 1) * pageSize,
		Limit:  pageSize,
	})
	if err != nil {
		return transport.ReviewListResponse{}, err
	}

	responses := make([]transport.ReviewResponse, len(items))
	for i, item := range items {
		responses[i] = toResponse(item)
	}

	totalPages := (total + pageSize - 1) / pageSize
	return transport.ReviewListResponse{
		Items:         responses,
		Total:         total,
		AverageRating: average,
		Page:          page,
		PageSize:      pageSize,
		TotalPages:    totalPages,
	}, nil
}

// Delete removes a review.
func (s *Service) Delete(ctx context.Context, id, shopID uuid.UUID) error {
	return s.repo.Delete(ctx, id, shopID)
}

func toResponse(review repository.Review) transport.ReviewResponse {
	return transport.ReviewResponse{
		ID:            review.ID,
		CustomerID:    review.CustomerID,
		CustomerName:  review.CustomerName,
		AppointmentID: review.AppointmentID,
		Rating:        review.Rating,
		Comment:       review.Comment,
		CreatedAt:     review.CreatedAt.Format(time.RFC3339),
	}
}
