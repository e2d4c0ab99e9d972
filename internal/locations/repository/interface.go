package repository

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence operations for regions and locations.
type Repository interface {
	ListRegions(ctx context.Context, shopID uuid.UUID) ([]Region, error)
	RegionNameTaken(ctx context.Context, shopID uuid.UUID, name string) (bool, error)
	CreateRegion(ctx context.Context, shopID uuid.UUID, name string) (Region, error)
	RegionExists(ctx context.Context, id, shopID uuid.UUID) (bool, error)
	GetLocation(ctx context.Context, id, shopID uuid.UUID) (Location, error)
	ListLocations(ctx context.Context, params ListLocationsParams) ([]Location, error)
	LocationNameTaken(ctx context.Context, regionID uuid.UUID, name string, excludeID uuid.UUID) (bool, error)
	CreateLocation(ctx context.Context, params CreateLocationParams) (Location, error)
	UpdateLocation(ctx context.Context, params UpdateLocationParams) (Location, error)
	SetActive(ctx context.Context, id, shopID uuid.UUID, active bool) error
	LocationExists(ctx context.Context, id, shopID uuid.UUID) (bool, error)
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)
