package transport

import (
	"time"

	"github.com/google/uuid"
)

// LineItemInput binds one catalog service to an appointment request.
// PriceCents overrides the catalog price when set; otherwise the current
// catalog price is snapshotted at attach time. An omitted Quantity
// defaults to 1.
type LineItemInput struct {
	ServiceID  uuid.UUID `json:"serviceId" validate:"required"`
	Quantity   int       `json:"quantity" validate:"omitempty,min=1"`
	PriceCents *int64    `json:"priceCents,omitempty" validate:"omitempty,gte=0"`
}

// CreateAppointmentRequest is the request body for booking an appointment.
type CreateAppointmentRequest struct {
	CustomerID  uuid.UUID       `json:"customerId" validate:"required"`
	VehicleID   uuid.UUID       `json:"vehicleId" validate:"required"`
	ScheduledAt time.Time       `json:"scheduledAt" validate:"required"`
	Notes       string          `json:"notes,omitempty" validate:"max=2000"`
	Services    []LineItemInput `json:"services" validate:"required,min=1,dive"`
}

// UpdateAppointmentRequest is the request body for updating an appointment.
// All fields are optional; a nil Services leaves the line items untouched,
// a non-nil Services replaces the full set.
type UpdateAppointmentRequest struct {
	CustomerID  *uuid.UUID       `json:"customerId,omitempty"`
	VehicleID   *uuid.UUID       `json:"vehicleId,omitempty"`
	ScheduledAt *time.Time       `json:"scheduledAt,omitempty"`
	Notes       *string          `json:"notes,omitempty" validate:"omitempty,max=2000"`
	Services    *[]LineItemInput `json:"services,omitempty" validate:"omitempty,min=1,dive"`
}

// ListAppointmentsRequest is the query parameters for listing appointments.
type ListAppointmentsRequest struct {
	CustomerID *uuid.UUID `form:"customerId"`
	VehicleID  *uuid.UUID `form:"vehicleId"`
	Status     *string    `form:"status" validate:"omitempty,oneof=scheduled confirmed in_progress completed cancelled no_show"`
	From       string     `form:"from"` // ISO date
	To         string     `form:"to"`   // ISO date
	Page       int        `form:"page" validate:"min=1"`
	PageSize   int        `form:"pageSize" validate:"min=1,max=100"`
}

// AvailabilityRequest is the query parameters for the availability endpoint.
// With only Date set it returns the day's schedule; with Time and
// DurationMinutes it answers whether the specific slot is free.
type AvailabilityRequest struct {
	Date            string `form:"date" validate:"required"`
	Time            string `form:"time" validate:"omitempty"`
	DurationMinutes int    `form:"durationMinutes" validate:"omitempty,min=1,max=1440"`
}

// LineItemResponse is one line item in an appointment response.
type LineItemResponse struct {
	ServiceID       uuid.UUID `json:"serviceId"`
	ServiceName     string    `json:"serviceName"`
	Quantity        int       `json:"quantity"`
	PriceCents      int64     `json:"priceCents"`
	DurationMinutes int       `json:"durationMinutes"`
	LineTotalCents  int64     `json:"lineTotalCents"`
}

// AppointmentResponse is the response body for an appointment.
type AppointmentResponse struct {
	ID              uuid.UUID          `json:"id"`
	CustomerID      uuid.UUID          `json:"customerId"`
	VehicleID       uuid.UUID          `json:"vehicleId"`
	ScheduledAt     time.Time          `json:"scheduledAt"`
	EstimatedEnd    time.Time          `json:"estimatedEnd"`
	DurationMinutes int                `json:"durationMinutes"`
	Status          string             `json:"status"`
	Notes           *string            `json:"notes,omitempty"`
	TotalCents      int64              `json:"totalCents"`
	Overdue         bool               `json:"overdue"`
	Services        []LineItemResponse `json:"services"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

// AppointmentListResponse is the paginated response for listing appointments.
type AppointmentListResponse struct {
	Items      []AppointmentResponse `json:"items"`
	Total      int                   `json:"total"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"pageSize"`
	TotalPages int                   `json:"totalPages"`
}

// ConflictInfo describes one appointment blocking a candidate slot.
type ConflictInfo struct {
	ID           uuid.UUID `json:"id"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime"`
	CustomerName string    `json:"customerName"`
	VehicleName  string    `json:"vehicleName"`
}

// AvailabilityResponse answers a specific-slot availability check.
type AvailabilityResponse struct {
	Available bool           `json:"available"`
	Conflicts []ConflictInfo `json:"conflicts"`
}

// DayAppointment is a calendar entry in the day-schedule response.
type DayAppointment struct {
	ID        uuid.UUID `json:"id"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
}

// DayScheduleResponse lists all active appointments of a calendar day.
type DayScheduleResponse struct {
	Date         string           `json:"date"`
	Appointments []DayAppointment `json:"appointments"`
}
