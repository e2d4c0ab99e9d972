// Package transport defines request and response DTOs for the customers module.
package transport

import "github.com/google/uuid"

// CreateCustomerRequest is the payload for creating a customer.
type CreateCustomerRequest struct {
	FirstName string  `json:"firstName" validate:"required,min=1,max=80"`
	LastName  string  `json:"lastName" validate:"required,min=1,max=80"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Address   *string `json:"address,omitempty" validate:"omitempty,max=255"`
	City      *string `json:"city,omitempty" validate:"omitempty,max=120"`
	State     *string `json:"state,omitempty" validate:"omitempty,max=60"`
	Zip       *string `json:"zip,omitempty" validate:"omitempty,max=16"`
	Notes     *string `json:"notes,omitempty" validate:"omitempty,max=5000"`
}

// UpdateCustomerRequest is the payload for a partial customer update.
type UpdateCustomerRequest struct {
	FirstName *string `json:"firstName,omitempty" validate:"omitempty,min=1,max=80"`
	LastName  *string `json:"lastName,omitempty" validate:"omitempty,min=1,max=80"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Address   *string `json:"address,omitempty" validate:"omitempty,max=255"`
	City      *string `json:"city,omitempty" validate:"omitempty,max=120"`
	State     *string `json:"state,omitempty" validate:"omitempty,max=60"`
	Zip       *string `json:"zip,omitempty" validate:"omitempty,max=16"`
	Notes     *string `json:"notes,omitempty" validate:"omitempty,max=5000"`
}

// ListCustomersRequest carries query parameters for listing customers.
type ListCustomersRequest struct {
	Search   string `form:"search" validate:"omitempty,max=120"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// CustomerResponse is the API representation of a customer.
type CustomerResponse struct {
	ID        uuid.UUID         `json:"id"`
	FirstName string            `json:"firstName"`
	LastName  string            `json:"lastName"`
	Email     *string           `json:"email,omitempty"`
	Phone     *string           `json:"phone,omitempty"`
	Address   *string           `json:"address,omitempty"`
	City      *string           `json:"city,omitempty"`
	State     *string           `json:"state,omitempty"`
	Zip       *string           `json:"zip,omitempty"`
	Notes     *string           `json:"notes,omitempty"`
	Vehicles  []VehicleResponse `json:"vehicles,omitempty"`
	CreatedAt string            `json:"createdAt"`
	UpdatedAt string            `json:"updatedAt"`
}

// CustomerListResponse is a paginated list of customers.
type CustomerListResponse struct {
	Items      []CustomerResponse `json:"items"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"pageSize"`
	TotalPages int                `json:"totalPages"`
}

// CreateVehicleRequest is the payload for adding a vehicle to a customer.
type CreateVehicleRequest struct {
	Make         string  `json:"make" validate:"required,min=1,max=80"`
	Model        string  `json:"model" validate:"required,min=1,max=80"`
	Year         int     `json:"year" validate:"required,min=1900,max=2100"`
	VIN          *string `json:"vin,omitempty" validate:"omitempty,len=17"`
	LicensePlate *string `json:"licensePlate,omitempty" validate:"omitempty,max=16"`
	Mileage      *int    `json:"mileage,omitempty" validate:"omitempty,min=0"`
}

// UpdateVehicleRequest is the payload for a partial vehicle update.
type UpdateVehicleRequest struct {
	Make         *string `json:"make,omitempty" validate:"omitempty,min=1,max=80"`
	Model        *string `json:"model,omitempty" validate:"omitempty,min=1,max=80"`
	Year         *int    `json:"year,omitempty" validate:"omitempty,min=1900,max=2100"`
	VIN          *string `json:"vin,omitempty" validate:"omitempty,len=17"`
	LicensePlate *string `json:"licensePlate,omitempty" validate:"omitempty,max=16"`
	Mileage      *int    `json:"mileage,omitempty" validate:"omitempty,min=0"`
}

// VehicleResponse is the API representation of a vehicle.
type VehicleResponse struct {
	ID           uuid.UUID `json:"id"`
	CustomerID   uuid.UUID `json:"customerId"`
	Make         string    `json:"make"`
	Model        string    `json:"model"`
	Year         int       `json:"year"`
	VIN          *string   `json:"vin,omitempty"`
	LicensePlate *string   `json:"licensePlate,omitempty"`
	Mileage      *int      `json:"mileage,omitempty"`
	DisplayName  string    `json:"displayName"`
	CreatedAt    string    `json:"createdAt"`
	UpdatedAt    string    `json:"updatedAt"`
}
