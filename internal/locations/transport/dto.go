// Package transport defines request and response DTOs for the locations module.
package transport

import "github.com/google/uuid"

// CreateRegionRequest is the payload for creating a region.
type CreateRegionRequest struct {
	Name string `json:"name" validate:"required,min=2,max=120"`
}

// RegionResponse is the API representation of a region.
type RegionResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt string    `json:"createdAt"`
	UpdatedAt string    `json:"updatedAt"`
}

// CreateLocationRequest is the payload for creating a location within a region.
type CreateLocationRequest struct {
	RegionID     uuid.UUID `json:"regionId" validate:"required"`
	Name         string    `json:"name" validate:"required,min=2,max=120"`
	AddressLine1 *string   `json:"addressLine1,omitempty" validate:"omitempty,max=255"`
	AddressLine2 *string   `json:"addressLine2,omitempty" validate:"omitempty,max=255"`
	City         *string   `json:"city,omitempty" validate:"omitempty,max=120"`
	State        *string   `json:"state,omitempty" validate:"omitempty,max=60"`
	Zip          *string   `json:"zip,omitempty" validate:"omitempty,max=20"`
	Phone        *string   `json:"phone,omitempty" validate:"omitempty,max=30"`
	Email        *string   `json:"email,omitempty" validate:"omitempty,email"`
}

// UpdateLocationRequest is the payload for a partial location update.
// Nil pointers leave the stored value untouched.
type UpdateLocationRequest struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,min=2,max=120"`
	AddressLine1 *string `json:"addressLine1,omitempty" validate:"omitempty,max=255"`
	AddressLine2 *string `json:"addressLine2,omitempty" validate:"omitempty,max=255"`
	City         *string `json:"city,omitempty" validate:"omitempty,max=120"`
	State        *string `json:"state,omitempty" validate:"omitempty,max=60"`
	Zip          *string `json:"zip,omitempty" validate:"omitempty,max=20"`
	Phone        *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Email        *string `json:"email,omitempty" validate:"omitempty,email"`
}

// ListLocationsRequest carries query parameters for listing locations.
type ListLocationsRequest struct {
	RegionID *uuid.UUID `form:"regionId"`
	Active   *bool      `form:"active"`
}

// LocationResponse is the API representation of a location.
type LocationResponse struct {
	ID           uuid.UUID `json:"id"`
	RegionID     uuid.UUID `json:"regionId"`
	Name         string    `json:"name"`
	AddressLine1 *string   `json:"addressLine1,omitempty"`
	AddressLine2 *string   `json:"addressLine2,omitempty"`
	City         *string   `json:"city,omitempty"`
	State        *string   `json:"state,omitempty"`
	Zip          *string   `json:"zip,omitempty"`
	Phone        *string   `json:"phone,omitempty"`
	Email        *string   `json:"email,omitempty"`
	Active       bool      `json:"active"`
	CreatedAt    string    `json:"createdAt"`
	UpdatedAt    string    `json:"updatedAt"`
}
