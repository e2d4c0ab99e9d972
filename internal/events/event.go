// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"github.com/je4550/repair-app/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Shops Domain Events
// =============================================================================

// ShopCreated is published when a new shop registers. DefaultLocationID is
// the "Main Location" created alongside the shop; subscribers seeding
// location-scoped defaults hang them off it.
type ShopCreated struct {
	BaseEvent
	ShopID            uuid.UUID `json:"shopId"`
	CreatedBy         uuid.UUID `json:"createdBy"`
	DefaultLocationID uuid.UUID `json:"defaultLocationId"`
}

func (e ShopCreated) EventName() string { return "shops.shop.created" }

// =============================================================================
// Appointments Domain Events
// =============================================================================

// AppointmentCreated is published when a new appointment is booked.
type AppointmentCreated struct {
	BaseEvent
	AppointmentID uuid.UUID `json:"appointmentId"`
	ShopID        uuid.UUID `json:"shopId"`
	CustomerID    uuid.UUID `json:"customerId"`
	VehicleID     uuid.UUID `json:"vehicleId"`
	ScheduledAt   time.Time `json:"scheduledAt"`
	EstimatedEnd  time.Time `json:"estimatedEnd"`
}

func (e AppointmentCreated) EventName() string { return "appointments.created" }

// AppointmentStatusChanged is published on every lifecycle transition
// (confirm, start, complete, cancel, no-show).
type AppointmentStatusChanged struct {
	BaseEvent
	AppointmentID uuid.UUID `json:"appointmentId"`
	ShopID        uuid.UUID `json:"shopId"`
	CustomerID    uuid.UUID `json:"customerId"`
	OldStatus     string    `json:"oldStatus"`
	NewStatus     string    `json:"newStatus"`
}

func (e AppointmentStatusChanged) EventName() string { return "appointments.status.changed" }

// AppointmentCompleted is published when work on an appointment finishes.
// The reminders module uses it to schedule the next-service follow-up.
type AppointmentCompleted struct {
	BaseEvent
	AppointmentID uuid.UUID `json:"appointmentId"`
	ShopID        uuid.UUID `json:"shopId"`
	CustomerID    uuid.UUID `json:"customerId"`
	VehicleID     uuid.UUID `json:"vehicleId"`
	CompletedAt   time.Time `json:"completedAt"`
	TotalCents    int64     `json:"totalCents"`
}

func (e AppointmentCompleted) EventName() string { return "appointments.completed" }
