// Package service provides business logic for regions and locations.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/je4550/repair-app/internal/locations/repository"
	"github.com/je4550/repair-app/internal/locations/transport"
	"github.com/je4550/repair-app/platform/apperr"
	"github.com/je4550/repair-app/platform/logger"
	"github.com/je4550/repair-app/platform/phone"
)

const (
	errRegionNameTaken   = "a region with this name already exists"
	errLocationNameTaken = "a location with this name already exists in this region"
	errRegionNotFound    = "region not found"
)

// Service provides business logic for regions and locations.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new locations service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// ListRegions retrieves the shop's regions.
func (s *Service) ListRegions(ctx context.Context, shopID uuid.UUID) ([]transport.RegionResponse, error) {
	regions, err := s.repo.ListRegions(ctx, shopID)
	if err != nil {
		return nil, err
	}

	responses := make([]transport.RegionResponse, len(regions))
	for i, reg := range regions {
		responses[i] = toRegionResponse(reg)
	}
	return responses, nil
}

// CreateRegion creates a region. Names must be unique among live regions
// within the shop, compared case-insensitively.
func (s *Service) CreateRegion(ctx context.Context, shopID uuid.UUID, req transport.CreateRegionRequest) (transport.RegionResponse, error) {
	taken, err := s.repo.RegionNameTaken(ctx, shopID, req.Name)
	if err != nil {
		return transport.RegionResponse{}, err
	}
	if taken {
		return transport.RegionResponse{}, apperr.Validation(errRegionNameTaken)
	}

	reg, err := s.repo.CreateRegion(ctx, shopID, req.Name)
	if err != nil {
		return transport.RegionResponse{}, err
	}

	s.log.Info("region created", "id", reg.ID, "shopId", shopID, "name", reg.Name)
	return toRegionResponse(reg), nil
}

// GetLocation retrieves one location.
func (s *Service) GetLocation(ctx context.Context, id, shopID uuid.UUID) (transport.LocationResponse, error) {
	loc, err := s.repo.GetLocation(ctx, id, shopID)
	if err != nil {
		return transport.LocationResponse{}, err
	}
	return toLocationResponse(loc), nil
}

// ListLocations retrieves the shop's locations with optional filters.
func (s *Service) ListLocations(ctx context.Context, shopID uuid.UUID, req transport.ListLocationsRequest) ([]transport.LocationResponse, error) {
	locations, err := s.repo.ListLocations(ctx, repository.ListLocationsParams{
		ShopID:   shopID,
		RegionID: req.RegionID,
		Active:   req.Active,
	})
	if err != nil {
		return nil, err
	}

	responses := make([]transport.LocationResponse, len(locations))
	for i, loc := range locations {
		responses[i] = toLocationResponse(loc)
	}
	return responses, nil
}

// CreateLocation creates a location within one of the shop's regions. Names
// must be unique among live locations within the region, compared
// case-insensitively.
func (s *Service) CreateLocation(ctx context.Context, shopID uuid.UUID, req transport.CreateLocationRequest) (transport.LocationResponse, error) {
	ok, err := s.repo.RegionExists(ctx, req.RegionID, shopID)
	if err != nil {
		return transport.LocationResponse{}, err
	}
	if !ok {
		return transport.LocationResponse{}, apperr.NotFound(errRegionNotFound)
	}

	taken, err := s.repo.LocationNameTaken(ctx, req.RegionID, req.Name, uuid.Nil)
	if err != nil {
		return transport.LocationResponse{}, err
	}
	if taken {
		return transport.LocationResponse{}, apperr.Validation(errLocationNameTaken)
	}

	loc, err := s.repo.CreateLocation(ctx, repository.CreateLocationParams{
		ShopID:       shopID,
		RegionID:     req.RegionID,
		Name:         req.Name,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		Zip:          req.Zip,
		Phone:        normalizePhone(req.Phone),
		Email:        req.Email,
	})
	if err != nil {
		return transport.LocationResponse{}, err
	}

	s.log.Info("location created", "id", loc.ID, "shopId", shopID, "regionId", loc.RegionID, "name", loc.Name)
	return toLocationResponse(loc), nil
}

// UpdateLocation applies a partial update to a location. A renamed location
// must stay unique within its region.
func (s *Service) UpdateLocation(ctx context.Context, id, shopID uuid.UUID, req transport.UpdateLocationRequest) (transport.LocationResponse, error) {
	if req.Name != nil {
		loc, err := s.repo.GetLocation(ctx, id, shopID)
		if err != nil {
			return transport.LocationResponse{}, err
		}
		taken, err := s.repo.LocationNameTaken(ctx, loc.RegionID, *req.Name, id)
		if err != nil {
			return transport.LocationResponse{}, err
		}
		if taken {
			return transport.LocationResponse{}, apperr.Validation(errLocationNameTaken)
		}
	}

	loc, err := s.repo.UpdateLocation(ctx, repository.UpdateLocationParams{
		ID:           id,
		ShopID:       shopID,
		Name:         req.Name,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		Zip:          req.Zip,
		Phone:        normalizePhone(req.Phone),
		Email:        req.Email,
	})
	if err != nil {
		return transport.LocationResponse{}, err
	}

	s.log.Info("location updated", "id", id, "shopId", shopID)
	return toLocationResponse(loc), nil
}

// Activate re-enables a location.
func (s *Service) Activate(ctx context.Context, id, shopID uuid.UUID) (transport.LocationResponse, error) {
	return s.setActive(ctx, id, shopID, true)
}

// Deactivate disables a location without deleting it.
func (s *Service) Deactivate(ctx context.Context, id, shopID uuid.UUID) (transport.LocationResponse, error) {
	return s.setActive(ctx, id, shopID, false)
}

func (s *Service) setActive(ctx context.Context, id, shopID uuid.UUID, active bool) (transport.LocationResponse, error) {
	if err := s.repo.SetActive(ctx, id, shopID, active); err != nil {
		return transport.LocationResponse{}, err
	}

	loc, err := s.repo.GetLocation(ctx, id, shopID)
	if err != nil {
		return transport.LocationResponse{}, err
	}

	s.log.Info("location active flag changed", "id", id, "shopId", shopID, "active", active)
	return toLocationResponse(loc), nil
}

// LocationExists reports whether the location belongs to the shop. Other
// modules use it through an adapter to validate location references.
func (s *Service) LocationExists(ctx context.Context, id, shopID uuid.UUID) (bool, error) {
	return s.repo.LocationExists(ctx, id, shopID)
}

func normalizePhone(input *string) *string {
	if input == nil {
		return nil
	}
	normalized := phone.NormalizeE164(*input)
	return &normalized
}

func toRegionResponse(reg repository.Region) transport.RegionResponse {
	return transport.RegionResponse{
		ID:        reg.ID,
		Name:      reg.Name,
		CreatedAt: reg.CreatedAt.Format(time.RFC3339),
		UpdatedAt: reg.UpdatedAt.Format(time.RFC3339),
	}
}

func toLocationResponse(loc repository.Location) transport.LocationResponse {
	return transport.LocationResponse{
		ID:           loc.ID,
		RegionID:     loc.RegionID,
		Name:         loc.Name,
		AddressLine1: loc.AddressLine1,
		AddressLine2: loc.AddressLine2,
		City:         loc.City,
		State:        loc.State,
		Zip:          loc.Zip,
		Phone:        loc.Phone,
		Email:        loc.Email,
		Active:       loc.Active,
		CreatedAt:    loc.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    loc.UpdatedAt.Format(time.RFC3339),
	}
}
