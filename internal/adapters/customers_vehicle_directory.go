// Package adapters bridges module boundaries: each adapter wraps one
// module's service behind the narrow interface another module consumes.
package adapters

import (
	"context"

	"github.com/google/uuid"

	apptservice "github.com/je4550/repair-app/internal/appointments/service"
	custservice "github.com/je4550/repair-app/internal/customers/service"
)

// CustomersVehicleDirectory adapts the customers service for the
// appointments module's vehicle ownership checks.
type CustomersVehicleDirectory struct {
	svc *custservice.Service
}

// NewCustomersVehicleDirectory creates the adapter.
func NewCustomersVehicleDirectory(svc *custservice.Service) *CustomersVehicleDirectory {
	return &CustomersVehicleDirectory{svc: svc}
}

// GetVehicleOwner returns the customer owning the vehicle within the shop.
func (a *CustomersVehicleDirectory) GetVehicleOwner(ctx context.Context, vehicleID, shopID uuid.UUID) (uuid.UUID, error) {
	return a.svc.GetVehicleOwner(ctx, vehicleID, shopID)
}

// Compile-time check against the appointments port.
var _ apptservice.VehicleDirectory = (*CustomersVehicleDirectory)(nil)
