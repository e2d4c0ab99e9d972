// Package repository provides PostgreSQL persistence for customer reviews.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/je4550/repair-app/platform/apperr"
)

const (
	reviewNotFoundMessage      = "review not found"
	appointmentNotFoundMessage = "appointment not found"
)

// Review is the persistence model for a customer review. CustomerName
// is populated on reads via a join.
type Review struct {
	ID            uuid.UUID
	ShopID        uuid.UUID
	CustomerID    uuid.UUID
	AppointmentID uuid.UUID
	Rating        int
	Comment       *string
	CustomerName  string
	CreatedAt     time.Time
}

// CreateParams carries fields for inserting a review.
type CreateParams struct {
	ShopID        uuid.UUID
	CustomerID    uuid.UUID
	AppointmentID uuid.UUID
	Rating        int
	Comment       *string
}

// ListParams carries filters and pagination for listing reviews.
type ListParams struct {
	ShopID uuid.UUID
	Rating *int
	Offset int
	Limit  int
}

// ReviewTarget is the appointment data a review must be checked against.
type ReviewTarget struct {
	CustomerID uuid.UUID
	Status     string
}

const reviewSelect = `
	SELECT r.id, r.shop_id, r.customer_id, r.appointment_id, r.rating, r.comment,
		c.first_name || ' ' || c.last_name,
		r.created_at
	FROM reviews r
	JOIN customers c ON c.id = r.customer_id`

const insertReviewQuery = `
	INSERT INTO reviews (shop_id, customer_id, appointment_id, rating, comment)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id, created_at`

const getReviewQuery = reviewSelect + `
	WHERE r.id = $1 AND r.shop_id = $2`

// reviewTargetQuery loads the appointment a review wants to attach to,
// scoped to the shop.
const reviewTargetQuery = `
	SELECT customer_id, status
	FROM appointments
	WHERE id = $1 AND shop_id = $2 AND deleted_at IS NULL`

const reviewExistsQuery = `
	SELECT EXISTS (
		SELECT 1 FROM reviews
		WHERE appointment_id = $1 AND shop_id = $2
	)`

const deleteReviewQuery = `
	DELETE FROM reviews
	WHERE id = $1 AND shop_id = $2`

// Repo implements review persistence with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new reviews repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Create inserts a review bound to an appointment and its customer.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Review, error) {
	review := Review{
		ShopID:        params.ShopID,
		CustomerID:    params.CustomerID,
		AppointmentID: params.AppointmentID,
		Rating:        params.Rating,
		Comment:       params.Comment,
	}
	err := r.pool.QueryRow(ctx, insertReviewQuery,
		params.ShopID, params.CustomerID, params.AppointmentID, params.Rating, params.Comment,
	).Scan(&review.ID, &review.CreatedAt)
	if err != nil {
		return Review{}, fmt.Errorf("create review: %w", err)
	}
	return review, nil
}

// GetByID retrieves a single review scoped to the shop.
func (r *Repo) GetByID(ctx context.Context, id, shopID uuid.UUID) (Review, error) {
	var review Review
	err := r.pool.QueryRow(ctx, getReviewQuery, id, shopID).Scan(
		&review.ID, &review.ShopID, &review.CustomerID, &review.AppointmentID,
		&review.Rating, &review.Comment, &review.CustomerName, &review.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Review{}, apperr.NotFound(reviewNotFoundMessage)
		}
		return Review{}, fmt.Errorf("get review: %w", err)
	}
	return review, nil
}

// GetReviewTarget loads the appointment a review wants to attach to.
func (r *Repo) GetReviewTarget(ctx context.Context, appointmentID, shopID uuid.UUID) (ReviewTarget, error) {
	var target ReviewTarget
	err := r.pool.QueryRow(ctx, reviewTargetQuery, appointmentID, shopID).Scan(&target.CustomerID, &target.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ReviewTarget{}, apperr.NotFound(appointmentNotFoundMessage)
		}
		return ReviewTarget{}, fmt.Errorf("get review target: %w", err)
	}
	return target, nil
}

// ExistsForAppointment reports whether the appointment already has a review.
func (r *Repo) ExistsForAppointment(ctx context.Context, appointmentID, shopID uuid.UUID) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, reviewExistsQuery, appointmentID, shopID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check review exists: %w", err)
	}
	return exists, nil
}

// List retrieves reviews with the shop average rating.
func (r *Repo) List(ctx context.Context, params ListParams) ([]Review, int, float64, error) {
	var ratingParam interface{}
	if params.Rating != nil {
		ratingParam = *params.Rating
	}

	var total int
	var average *float64
	summaryQuery := `
		SELECT COUNT(*), AVG(rating)
		FROM reviews
		WHERE shop_id = $1 AND ($2::int IS NULL OR rating = $2)`
	if err := r.pool.QueryRow(ctx, summaryQuery, params.ShopID, ratingParam).Scan(&total, &average); err != nil {
		return nil, 0, 0, fmt.Errorf("summarize reviews: %w", err)
	}

	query := reviewSelect + `
		WHERE r.shop_id = $1 AND ($2::int IS NULL OR r.rating = $2)
		ORDER BY r.created_at DESC
		LIMIT $3 OFFSET $4`

	rows, err := r.pool.Query(ctx, query, params.ShopID, ratingParam, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var results []Review
	for rows.Next() {
		var review Review
		err := rows.Scan(
			&review.ID, &review.ShopID, &review.CustomerID, &review.AppointmentID,
			&review.Rating, &review.Comment, &review.CustomerName, &review.CreatedAt,
		)
		if err != nil {
			return nil, 0, 0, fmt.Errorf("scan review: %w", err)
		}
		results = append(results, review)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, fmt.Errorf("iterate reviews: %w", err)
	}

	avg := 0.0
	if average != nil {
		avg = *average
	}
	return results, total, avg, nil
}

// Delete removes a review.
func (r *Repo) Delete(ctx context.Context, id, shopID uuid.UUID) error {
	result, err := r.pool.Exec(ctx, deleteReviewQuery, id, shopID)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(reviewNotFoundMessage)
	}
	return nil
}
