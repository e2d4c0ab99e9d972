// Package transport defines request and response DTOs for the catalog module.
package transport

import "github.com/google/uuid"

// CreateServiceRequest is the payload for creating a catalog service.
type CreateServiceRequest struct {
	LocationID      uuid.UUID `json:"locationId" validate:"required"`
	Name            string    `json:"name" validate:"required,min=2,max=120"`
	Description     *string   `json:"description,omitempty" validate:"omitempty,max=2000"`
	PriceCents      int64     `json:"priceCents" validate:"min=0"`
	DurationMinutes int       `json:"durationMinutes" validate:"required,min=1,max=1440"`
}

// UpdateServiceRequest is the payload for a partial catalog service update.
type UpdateServiceRequest struct {
	Name            *string `json:"name,omitempty" validate:"omitempty,min=2,max=120"`
	Description     *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	PriceCents      *int64  `json:"priceCents,omitempty" validate:"omitempty,min=0"`
	DurationMinutes *int    `json:"durationMinutes,omitempty" validate:"omitempty,min=1,max=1440"`
	IsActive        *bool   `json:"isActive,omitempty"`
}

// ListServicesRequest carries query parameters for listing catalog services.
type ListServicesRequest struct {
	LocationID *uuid.UUID `form:"locationId"`
	Search     string     `form:"search" validate:"omitempty,max=120"`
	IsActive   *bool      `form:"isActive"`
	Page       int        `form:"page" validate:"omitempty,min=1"`
	PageSize   int        `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// ServiceResponse is the API representation of a catalog service.
type ServiceResponse struct {
	ID              uuid.UUID `json:"id"`
	LocationID      uuid.UUID `json:"locationId"`
	Name            string    `json:"name"`
	Description     *string   `json:"description,omitempty"`
	PriceCents      int64     `json:"priceCents"`
	DurationMinutes int       `json:"durationMinutes"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       string    `json:"createdAt"`
	UpdatedAt       string    `json:"updatedAt"`
}

// ServiceListResponse is a paginated list of catalog services.
type ServiceListResponse struct {
	Items      []ServiceResponse `json:"items"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	TotalPages int               `json:"totalPages"`
}

// DeleteServiceResponse reports whether the service was removed outright
// or only deactivated because appointments still reference it.
type DeleteServiceResponse struct {
	Status string `json:"status"`
}
