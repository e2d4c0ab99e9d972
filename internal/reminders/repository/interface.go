package repository

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence operations for service reminders.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (Reminder, error)
	List(ctx context.Context, params ListParams) ([]Reminder, int, error)
	GetDeliveryInfo(ctx context.Context, id, shopID uuid.UUID) (DeliveryInfo, error)
	MarkSent(ctx context.Context, id, shopID uuid.UUID) (bool, error)
}

// Compile-time check that Repo satisfies Repository
var _ Repository = (*Repo)(nil)
