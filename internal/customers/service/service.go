// Package service provides business logic for customers and their vehicles.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/je4550/repair-app/internal/customers/repository"
	"github.com/je4550/repair-app/internal/customers/transport"
	"github.com/je4550/repair-app/platform/logger"
	"github.com/je4550/repair-app/platform/phone"
)

// Service provides business logic for customers.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new customers service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// GetByID retrieves a customer with their vehicles.
func (s *Service) GetByID(ctx context.Context, id, shopID uuid.UUID) (transport.CustomerResponse, error) {
	var c repository.Customer
	var vehicles []repository.Vehicle

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		c, err = s.repo.GetByID(gctx, id, shopID)
		return err
	})
	g.Go(func() error {
		var err error
		vehicles, err = s.repo.ListVehicles(gctx, id, shopID)
		return err
	})
	if err := g.Wait(); err != nil {
		return transport.CustomerResponse{}, err
	}

	resp := toCustomerResponse(c)
	resp.Vehicles = toVehicleResponses(vehicles)
	return resp, nil
}

// List retrieves customers matching the search with pagination.
func (s *Service) List(ctx context.Context, shopID uuid.UUID, req transport.ListCustomersRequest) (transport.CustomerListResponse, error) {
	page := req.Page
	pageSize := req.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}

	items, total, err := s.repo.List(ctx, repository.ListCustomersParams{
		ShopID: shopID,
		Search: req.Search,
		Offset: (page - 1) * pageSize,
		Limit:  pageSize,
	})
	if err != nil {
		return transport.CustomerListResponse{}, err
	}

	responses := make([]transport.CustomerResponse, len(items))
	for i, item := range items {
		responses[i] = toCustomerResponse(item)
	}

	return transport.CustomerListResponse{
		Items:      responses,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	}, nil
}

// Create creates a new customer. Phone numbers are normalized to E.164.
func (s *Service) Create(ctx context.Context, shopID uuid.UUID, req transport.CreateCustomerRequest) (transport.CustomerResponse, error) {
	c, err := s.repo.Create(ctx, repository.CreateCustomerParams{
		ShopID:    shopID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     normalizePhone(req.Phone),
		Address:   req.Address,
		City:      req.City,
		State:     req.State,
		Zip:       req.Zip,
		Notes:     req.Notes,
	})
	if err != nil {
		return transport.CustomerResponse{}, err
	}

	s.log.Info("customer created", "id", c.ID, "shopId", shopID)
	return toCustomerResponse(c), nil
}

// Update applies a partial update to a customer.
func (s *Service) Update(ctx context.Context, id, shopID uuid.UUID, req transport.UpdateCustomerRequest) (transport.CustomerResponse, error) {
	c, err := s.repo.Update(ctx, repository.UpdateCustomerParams{
		ID:        id,
		ShopID:    shopID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     normalizePhone(req.Phone),
		Address:   req.Address,
		City:      req.City,
		State:     req.State,
		Zip:       req.Zip,
		Notes:     req.Notes,
	})
	if err != nil {
		return transport.CustomerResponse{}, err
	}

	s.log.Info("customer updated", "id", id, "shopId", shopID)
	return toCustomerResponse(c), nil
}

// Delete soft-deletes a customer and their vehicles.
func (s *Service) Delete(ctx context.Context, id, shopID uuid.UUID) error {
	if err := s.repo.SoftDelete(ctx, id, shopID); err != nil {
		return err
	}
	s.log.Info("customer deleted", "id", id, "shopId", shopID)
	return nil
}

// AddVehicle adds a vehicle to a customer. The customer must exist in the shop.
func (s *Service) AddVehicle(ctx context.Context, customerID, shopID uuid.UUID, req transport.CreateVehicleRequest) (transport.VehicleResponse, error) {
	if _, err := s.repo.GetByID(ctx, customerID, shopID); err != nil {
		return transport.VehicleResponse{}, err
	}

	v, err := s.repo.CreateVehicle(ctx, repository.CreateVehicleParams{
		ShopID:       shopID,
		CustomerID:   customerID,
		Make:         req.Make,
		Model:        req.Model,
		Year:         req.Year,
		VIN:          req.VIN,
		LicensePlate: req.LicensePlate,
		Mileage:      req.Mileage,
	})
	if err != nil {
		return transport.VehicleResponse{}, err
	}

	s.log.Info("vehicle added", "id", v.ID, "customerId", customerID, "shopId", shopID)
	return toVehicleResponse(v), nil
}

// GetVehicle retrieves one vehicle.
func (s *Service) GetVehicle(ctx context.Context, id, shopID uuid.UUID) (transport.VehicleResponse, error) {
	v, err := s.repo.GetVehicle(ctx, id, shopID)
	if err != nil {
		return transport.VehicleResponse{}, err
	}
	return toVehicleResponse(v), nil
}

// GetVehicleOwner returns the customer owning the vehicle. Used by the
// appointments module to enforce the booking ownership invariant.
func (s *Service) GetVehicleOwner(ctx context.Context, vehicleID, shopID uuid.UUID) (uuid.UUID, error) {
	return s.repo.GetVehicleOwner(ctx, vehicleID, shopID)
}

// UpdateVehicle applies a partial update to a vehicle.
func (s *Service) UpdateVehicle(ctx context.Context, id, shopID uuid.UUID, req transport.UpdateVehicleRequest) (transport.VehicleResponse, error) {
	v, err := s.repo.UpdateVehicle(ctx, repository.UpdateVehicleParams{
		ID:           id,
		ShopID:       shopID,
		Make:         req.Make,
		Model:        req.Model,
		Year:         req.Year,
		VIN:          req.VIN,
		LicensePlate: req.LicensePlate,
		Mileage:      req.Mileage,
	})
	if err != nil {
		return transport.VehicleResponse{}, err
	}

	s.log.Info("vehicle updated", "id", id, "shopId", shopID)
	return toVehicleResponse(v), nil
}

// DeleteVehicle soft-deletes a vehicle.
func (s *Service) DeleteVehicle(ctx context.Context, id, shopID uuid.UUID) error {
	if err := s.repo.SoftDeleteVehicle(ctx, id, shopID); err != nil {
		return err
	}
	s.log.Info("vehicle deleted", "id", id, "shopId", shopID)
	return nil
}

func normalizePhone(input *string) *string {
	if input == nil {
		return nil
	}
	normalized := phone.NormalizeE164(*input)
	return &normalized
}

// DisplayName renders a vehicle as "2020 Toyota Camry (ABC123)".
func DisplayName(year int, make, model string, licensePlate *string) string {
	name := fmt.Sprintf("%d %s %s", year, make, model)
	if licensePlate != nil && *licensePlate != "" {
		name += " (" + *licensePlate + ")"
	}
	return name
}

func toCustomerResponse(c repository.Customer) transport.CustomerResponse {
	return transport.CustomerResponse{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		City:      c.City,
		State:     c.State,
		Zip:       c.Zip,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.Format(time.RFC3339),
	}
}

func toVehicleResponse(v repository.Vehicle) transport.VehicleResponse {
	return transport.VehicleResponse{
		ID:           v.ID,
		CustomerID:   v.CustomerID,
		Make:         v.Make,
		Model:        v.Model,
		Year:         v.Year,
		VIN:          v.VIN,
		LicensePlate: v.LicensePlate,
		Mileage:      v.Mileage,
		DisplayName:  DisplayName(v.Year, v.Make, v.Model, v.LicensePlate),
		CreatedAt:    v.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    v.UpdatedAt.Format(time.RFC3339),
	}
}

func toVehicleResponses(vehicles []repository.Vehicle) []transport.VehicleResponse {
	responses := make([]transport.VehicleResponse, len(vehicles))
	for i, v := range vehicles {
		responses[i] = toVehicleResponse(v)
	}
	return responses
}
