// Package transport defines request and response DTOs for the reminders module.
package transport

import "github.com/google/uuid"

// ListRemindersRequest carries query parameters for listing reminders.
type ListRemindersRequest struct {
	Status   *string `form:"status" validate:"omitempty,oneof=pending sent"`
	Page     int     `form:"page" validate:"omitempty,min=1"`
	PageSize int     `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// ReminderResponse is the API representation of a service reminder.
type ReminderResponse struct {
	ID            uuid.UUID `json:"id"`
	CustomerID    uuid.UUID `json:"customerId"`
	VehicleID     uuid.UUID `json:"vehicleId"`
	AppointmentID uuid.UUID `json:"appointmentId"`
	ScheduledDate string    `json:"scheduledDate"`
	Status        string    `json:"status"`
	SentAt        *string   `json:"sentAt,omitempty"`
	CreatedAt     string    `json:"createdAt"`
}

// ReminderListResponse is a paginated list of reminders.
type ReminderListResponse struct {
	Items      []ReminderResponse `json:"items"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"pageSize"`
	TotalPages int                `json:"totalPages"`
}
