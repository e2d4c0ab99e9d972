package adapters

import (
	"context"

	"github.com/google/uuid"

	catalogservice "github.com/je4550/repair-app/internal/catalog/service"
	locservice "github.com/je4550/repair-app/internal/locations/service"
)

// LocationsDirectory adapts the locations service for modules that only
// need to validate a location reference.
type LocationsDirectory struct {
	svc *locservice.Service
}

// NewLocationsDirectory creates the adapter.
func NewLocationsDirectory(svc *locservice.Service) *LocationsDirectory {
	return &LocationsDirectory{svc: svc}
}

// LocationExists reports whether the location belongs to the shop.
func (a *LocationsDirectory) LocationExists(ctx context.Context, id, shopID uuid.UUID) (bool, error) {
	return a.svc.LocationExists(ctx, id, shopID)
}

// Compile-time check against the catalog port.
var _ catalogservice.LocationDirectory = (*LocationsDirectory)(nil)
