package adapters

import (
	"context"

	"github.com/google/uuid"

	apptservice "github.com/je4550/repair-app/internal/appointments/service"
	catalogservice "github.com/je4550/repair-app/internal/catalog/service"
)

// CatalogRateProvider adapts the catalog service for the appointments
// module's line-item price and duration snapshots.
type CatalogRateProvider struct {
	svc *catalogservice.Service
}

// NewCatalogRateProvider creates the adapter.
func NewCatalogRateProvider(svc *catalogservice.Service) *CatalogRateProvider {
	return &CatalogRateProvider{svc: svc}
}

// GetRates returns current rates for the requested active catalog services.
func (a *CatalogRateProvider) GetRates(ctx context.Context, shopID uuid.UUID, serviceIDs []uuid.UUID) (map[uuid.UUID]apptservice.Rate, error) {
	rates, err := a.svc.GetRates(ctx, shopID, serviceIDs)
	if err != nil {
		return nil, err
	}

	out := make(map[uuid.UUID]apptservice.Rate, len(rates))
	for id, rate := range rates {
		out[id] = apptservice.Rate{
			Name:            rate.Name,
			PriceCents:      rate.PriceCents,
			DurationMinutes: rate.DurationMinutes,
		}
	}
	return out, nil
}

// Compile-time check against the appointments port.
var _ apptservice.RateProvider = (*CatalogRateProvider)(nil)
