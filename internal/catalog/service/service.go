// Package service provides business logic for the shop's service catalog.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/je4550/repair-app/internal/catalog/repository"
	"github.com/je4550/repair-app/internal/catalog/transport"
	"github.com/je4550/repair-app/platform/apperr"
	"github.com/je4550/repair-app/platform/logger"
)

const (
	errNameTaken        = "a service with this name already exists at this location"
	errLocationNotFound = "location not found"
)

// LocationDirectory validates location references against the locations
// module. The catalog never reads location records directly.
type LocationDirectory interface {
	LocationExists(ctx context.Context, id, shopID uuid.UUID) (bool, error)
}

// defaultService is one entry of the starter catalog seeded for new shops.
type defaultService struct {
	name            string
	priceCents      int64
	durationMinutes int
}

var defaultCatalog = []defaultService{
	{"Oil Change", 3999, 30},
	{"Tire Rotation", 2500, 20},
	{"Brake Inspection", 0, 15},
	{"Battery Test", 0, 10},
	{"Multi-Point Inspection", 0, 30},
}

// Service provides business logic for catalog services.
type Service struct {
	repo      repository.Repository
	locations LocationDirectory
	log       *logger.Logger
}

// New creates a new catalog service.
func New(repo repository.Repository, locations LocationDirectory, log *logger.Logger) *Service {
	return &Service{repo: repo, locations: locations, log: log}
}

// GetByID retrieves a catalog service by ID.
func (s *Service) GetByID(ctx context.Context, id, shopID uuid.UUID) (transport.ServiceResponse, error) {
	cs, err := s.repo.GetByID(ctx, id, shopID)
	if err != nil {
		return transport.ServiceResponse{}, err
	}
	return toResponse(cs), nil
}

// List retrieves catalog services with filters and pagination.
func (s *Service) List(ctx context.Context, shopID uuid.UUID, req transport.ListServicesRequest) (transport.ServiceListResponse, error) {
	page := req.Page
	pageSize := req.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}

	params := repository.ListParams{
		ShopID:     shopID,
		LocationID: req.LocationID,
		Search:     req.Search,
		IsActive:   req.IsActive,
		Offset:     (page - 1) * pageSize,
		Limit:      pageSize,
	}

	items, total, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.ServiceListResponse{}, err
	}

	responses := make([]transport.ServiceResponse, len(items))
	for i, item := range items {
		responses[i] = toResponse(item)
	}

	totalPages := (total + pageSize - 1) / pageSize
	return transport.ServiceListResponse{
		Items:      responses,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// Create creates a new catalog service at one of the shop's locations.
// Names must be unique among live services within the location, compared
// case-insensitively.
func (s *Service) Create(ctx context.Context, shopID uuid.UUID, req transport.CreateServiceRequest) (transport.ServiceResponse, error) {
	ok, err := s.locations.LocationExists(ctx, req.LocationID, shopID)
	if err != nil {
		return transport.ServiceResponse{}, err
	}
	if !ok {
		return transport.ServiceResponse{}, apperr.NotFound(errLocationNotFound)
	}

	taken, err := s.repo.NameTaken(ctx, req.LocationID, req.Name, uuid.Nil)
	if err != nil {
		return transport.ServiceResponse{}, err
	}
	if taken {
		return transport.ServiceResponse{}, apperr.Validation(errNameTaken)
	}

	cs, err := s.repo.Create(ctx, repository.CreateParams{
		ShopID:          shopID,
		LocationID:      req.LocationID,
		Name:            req.Name,
		Description:     req.Description,
		PriceCents:      req.PriceCents,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		return transport.ServiceResponse{}, err
	}

	s.log.Info("catalog service created", "id", cs.ID, "shopId", shopID, "locationId", cs.LocationID, "name", cs.Name)
	return toResponse(cs), nil
}

// Update applies a partial update to a catalog service. A renamed service
// must stay unique within its location.
func (s *Service) Update(ctx context.Context, id, shopID uuid.UUID, req transport.UpdateServiceRequest) (transport.ServiceResponse, error) {
	if req.Name != nil {
		existing, err := s.repo.GetByID(ctx, id, shopID)
		if err != nil {
			return transport.ServiceResponse{}, err
		}
		taken, err := s.repo.NameTaken(ctx, existing.LocationID, *req.Name, id)
		if err != nil {
			return transport.ServiceResponse{}, err
		}
		if taken {
			return transport.ServiceResponse{}, apperr.Validation(errNameTaken)
		}
	}

	cs, err := s.repo.Update(ctx, repository.UpdateParams{
		ID:              id,
		ShopID:          shopID,
		Name:            req.Name,
		Description:     req.Description,
		PriceCents:      req.PriceCents,
		DurationMinutes: req.DurationMinutes,
		IsActive:        req.IsActive,
	})
	if err != nil {
		return transport.ServiceResponse{}, err
	}

	s.log.Info("catalog service updated", "id", id, "shopId", shopID)
	return toResponse(cs), nil
}

// Delete removes a catalog service. Services referenced by appointment
// line items are deactivated and soft-deleted so historical appointments
// keep resolving; unreferenced services are removed outright.
func (s *Service) Delete(ctx context.Context, id, shopID uuid.UUID) (transport.DeleteServiceResponse, error) {
	referenced, err := s.repo.HasLineItems(ctx, id, shopID)
	if err != nil {
		return transport.DeleteServiceResponse{}, err
	}

	if referenced {
		if err := s.repo.SoftDelete(ctx, id, shopID); err != nil {
			return transport.DeleteServiceResponse{}, err
		}
		s.log.Info("catalog service deactivated", "id", id, "shopId", shopID)
		return transport.DeleteServiceResponse{Status: "deactivated"}, nil
	}

	if err := s.repo.HardDelete(ctx, id, shopID); err != nil {
		return transport.DeleteServiceResponse{}, err
	}
	s.log.Info("catalog service deleted", "id", id, "shopId", shopID)
	return transport.DeleteServiceResponse{Status: "deleted"}, nil
}

// SeedDefaults inserts the starter catalog at a freshly created shop's
// default location. Already-present names are skipped so the operation
// stays idempotent.
func (s *Service) SeedDefaults(ctx context.Context, shopID, locationID uuid.UUID) error {
	for _, d := range defaultCatalog {
		taken, err := s.repo.NameTaken(ctx, locationID, d.name, uuid.Nil)
		if err != nil {
			return err
		}
		if taken {
			continue
		}
		if _, err := s.repo.Create(ctx, repository.CreateParams{
			ShopID:          shopID,
			LocationID:      locationID,
			Name:            d.name,
			PriceCents:      d.priceCents,
			DurationMinutes: d.durationMinutes,
		}); err != nil {
			return err
		}
	}

	s.log.Info("default catalog seeded", "shopId", shopID, "locationId", locationID, "count", len(defaultCatalog))
	return nil
}

// GetRates returns current rates for the requested active services.
func (s *Service) GetRates(ctx context.Context, shopID uuid.UUID, serviceIDs []uuid.UUID) (map[uuid.UUID]repository.Rate, error) {
	if len(serviceIDs) == 0 {
		return map[uuid.UUID]repository.Rate{}, nil
	}
	return s.repo.GetRates(ctx, shopID, serviceIDs)
}

func toResponse(cs repository.CatalogService) transport.ServiceResponse {
	return transport.ServiceResponse{
		ID:              cs.ID,
		LocationID:      cs.LocationID,
		Name:            cs.Name,
		Description:     cs.Description,
		PriceCents:      cs.PriceCents,
		DurationMinutes: cs.DurationMinutes,
		IsActive:        cs.IsActive,
		CreatedAt:       cs.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       cs.UpdatedAt.Format(time.RFC3339),
	}
}
