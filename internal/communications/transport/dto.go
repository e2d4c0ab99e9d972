// Package transport defines request and response DTOs for the
// communications module.
package transport

import "github.com/google/uuid"

// SendEmailRequest sends an email to a customer and logs it.
type SendEmailRequest struct {
	CustomerID uuid.UUID `json:"customerId" validate:"required"`
	Subject    string    `json:"subject" validate:"required,min=1,max=200"`
	Body       string    `json:"body" validate:"required,min=1,max=10000"`
}

// RecordSMSRequest logs an SMS that was sent through an external channel.
type RecordSMSRequest struct {
	CustomerID uuid.UUID `json:"customerId" validate:"required"`
	Body       string    `json:"body" validate:"required,min=1,max=1600"`
}

// UpdateStatusRequest moves a logged communication to a new delivery status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending sent delivered failed"`
}

// ListCommunicationsRequest carries query parameters for listing the log.
type ListCommunicationsRequest struct {
	CustomerID *uuid.UUID `form:"customerId" validate:"omitempty"`
	Type       *string    `form:"type" validate:"omitempty,oneof=email sms"`
	Status     *string    `form:"status" validate:"omitempty,oneof=pending sent delivered failed"`
	Page       int        `form:"page" validate:"omitempty,min=1"`
	PageSize   int        `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// CommunicationResponse is the API representation of a logged communication.
type CommunicationResponse struct {
	ID         uuid.UUID `json:"id"`
	CustomerID uuid.UUID `json:"customerId"`
	Type       string    `json:"type"`
	Subject    *string   `json:"subject,omitempty"`
	Body       string    `json:"body"`
	Status     string    `json:"status"`
	Error      *string   `json:"error,omitempty"`
	SentAt     *string   `json:"sentAt,omitempty"`
	CreatedAt  string    `json:"createdAt"`
}

// CommunicationListResponse is a paginated slice of the communications log.
type CommunicationListResponse struct {
	Items      []CommunicationResponse `json:"items"`
	Total      int                     `json:"total"`
	Page       int                     `json:"page"`
	PageSize   int                     `json:"pageSize"`
	TotalPages int                     `json:"totalPages"`
}
