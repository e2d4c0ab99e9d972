package repository

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence operations for customers and vehicles.
type Repository interface {
	GetByID(ctx context.Context, id, shopID uuid.UUID) (Customer, error)
	List(ctx context.Context, params ListCustomersParams) ([]Customer, int, error)
	Create(ctx context.Context, params CreateCustomerParams) (Customer, error)
	Update(ctx context.Context, params UpdateCustomerParams) (Customer, error)
	SoftDelete(ctx context.Context, id, shopID uuid.UUID) error

	ListVehicles(ctx context.Context, customerID, shopID uuid.UUID) ([]Vehicle, error)
	GetVehicle(ctx context.Context, id, shopID uuid.UUID) (Vehicle, error)
	GetVehicleOwner(ctx context.Context, id, shopID uuid.UUID) (uuid.UUID, error)
	CreateVehicle(ctx context.Context, params CreateVehicleParams) (Vehicle, error)
	UpdateVehicle(ctx context.Context, params UpdateVehicleParams) (Vehicle, error)
	SoftDeleteVehicle(ctx context.Context, id, shopID uuid.UUID) error
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)
