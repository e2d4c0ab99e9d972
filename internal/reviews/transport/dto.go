// Package transport defines request and response DTOs for the reviews module.
package transport

import "github.com/google/uuid"

// CreateReviewRequest attaches a customer review to a completed appointment.
type CreateReviewRequest struct {
	AppointmentID uuid.UUID `json:"appointmentId" validate:"required"`
	Rating        int       `json:"rating" validate:"required,min=1,max=5"`
	Comment       *string   `json:"comment" validate:"omitempty,max=2000"`
}

// ListReviewsRequest carries query parameters for listing reviews.
type ListReviewsRequest struct {
	Rating   *int `form:"rating" validate:"omitempty,min=1,max=5"`
	Page     int  `form:"page" validate:"omitempty,min=1"`
	PageSize int  `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// ReviewResponse is the API representation of a review.
type ReviewResponse struct {
	ID            uuid.UUID `json:"id"`
	CustomerID    uuid.UUID `json:"customerId"`
	CustomerName  string    `json:"customerName"`
	AppointmentID uuid.UUID `json:"appointmentId"`
	Rating        int       `json:"rating"`
	Comment       *string   `json:"comment,omitempty"`
	CreatedAt     string    `json:"createdAt"`
}

// ReviewListResponse is a paginated list of reviews with the shop's
// average rating.
type ReviewListResponse struct {
	Items         []ReviewResponse `json:"items"`
	Total         int              `json:"total"`
	AverageRating float64          `json:"averageRating"`
	Page          int              `json:"page"`
	PageSize      int              `json:"pageSize"`
	TotalPages    int              `json:"totalPages"`
}
