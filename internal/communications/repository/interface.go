package repository

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence operations for the communications log.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (Communication, error)
	GetByID(ctx context.Context, id, shopID uuid.UUID) (Communication, error)
	UpdateStatus(ctx context.Context, id, shopID uuid.UUID, status string, errDetail *string) (Communication, error)
	List(ctx context.Context, params ListParams) ([]Communication, int, error)
	GetCustomerContact(ctx context.Context, customerID, shopID uuid.UUID) (CustomerContact, error)
}

// Compile-time check that Repo satisfies Repository
var _ Repository = (*Repo)(nil)
