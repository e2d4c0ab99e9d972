package repository

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence operations for reviews.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (Review, error)
	GetByID(ctx context.Context, id, shopID uuid.UUID) (Review, error)
	GetReviewTarget(ctx context.Context, appointmentID, shopID uuid.UUID) (ReviewTarget, error)
	ExistsForAppointment(ctx context.Context, appointmentID, shopID uuid.UUID) (bool, error)
	List(ctx context.Context, params ListParams) ([]Review, int, float64, error)
	Delete(ctx context.Context, id, shopID uuid.UUID) error
}

// Compile-time check that Repo satisfies Repository
var _ Repository = (*Repo)(nil)
