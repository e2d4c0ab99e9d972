package repository

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence operations for the service catalog.
type Repository interface {
	GetByID(ctx context.Context, id, shopID uuid.UUID) (CatalogService, error)
	List(ctx context.Context, params ListParams) ([]CatalogService, int, error)
	NameTaken(ctx context.Context, locationID uuid.UUID, name string, excludeID uuid.UUID) (bool, error)
	Create(ctx context.Context, params CreateParams) (CatalogService, error)
	Update(ctx context.Context, params UpdateParams) (CatalogService, error)
	HasLineItems(ctx context.Context, id, shopID uuid.UUID) (bool, error)
	SoftDelete(ctx context.Context, id, shopID uuid.UUID) error
	HardDelete(ctx context.Context, id, shopID uuid.UUID) error
	GetRates(ctx context.Context, shopID uuid.UUID, serviceIDs []uuid.UUID) (map[uuid.UUID]Rate, error)
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)
