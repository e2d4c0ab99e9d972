// Package repository provides PostgreSQL persistence for the service catalog.
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

const serviceNotFoundMessage = "service not found"

// CatalogService is the persistence model for one catalog entry. A service
// is offered at one location; its name is unique within that location.
type CatalogService struct {
	ID              uuid.UUID
	ShopID          uuid.UUID
	LocationID      uuid.UUID
	Name            string
	Description     *string
	PriceCents      int64
	DurationMinutes int
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CreateParams carries the fields for inserting a catalog service.
type CreateParams struct {
	ShopID          uuid.UUID
	LocationID      uuid.UUID
	Name            string
	Description     *string
	PriceCents      int64
	DurationMinutes int
}

// UpdateParams carries the fields for a partial catalog update.
// Nil pointers leave the stored value untouched.
type UpdateParams struct {
	ID              uuid.UUID
	ShopID          uuid.UUID
	Name            *string
	Description     *string
	PriceCents      *int64
	DurationMinutes *int
	IsActive        *bool
}

// ListParams carries filters and pagination for listing catalog services.
type ListParams struct {
	ShopID     uuid.UUID
	LocationID *uuid.UUID
	Search     string
	IsActive   *bool
	Offset     int
	Limit      int
}

const serviceColumns = `id, shop_id, location_id, name, description, price_cents, duration_minutes, is_active, created_at, updated_at`

const getServiceQuery = `
	SELECT ` + serviceColumns + `
	FROM services
	WHERE id = $1 AND shop_id = $2 AND deleted_at IS NULL`

const nameTakenQuery = `
	SELECT EXISTS(
		SELECT 1 FROM services
		WHERE location_id = $1 AND lower(name) = lower($2) AND deleted_at IS NULL
			AND ($3::uuid IS NULL OR id <> $3)
	)`

const hasLineItemsQuery = `
	SELECT EXISTS(
		SELECT 1 FROM appointment_services li
		JOIN appointments a ON a.id = li.appointment_id
		WHERE li.service_id = $1 AND a.shop_id = $2
	)`

const softDeleteServiceQuery = `
	UPDATE services
	SET is_active = false, deleted_at = now(), updated_at = now()
	WHERE id = $1 AND shop_id = $2 AND deleted_at IS NULL`

const ratesQuery = `
	SELECT id, name, price_cents, duration_minutes
	FROM services
	WHERE shop_id = $1 AND id = ANY($2) AND is_active = true AND deleted_at IS NULL`

// Repo implements catalog persistence with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new catalog repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// GetByID retrieves a catalog service scoped to the shop.
func (r *Repo) GetByID(ctx context.Context, id, shopID uuid.UUID) (CatalogService, error) {
	var cs CatalogService
	err := r.pool.QueryRow(ctx, getServiceQuery, id, shopID).Scan(
		&cs.ID, &cs.ShopID, &cs.LocationID, &cs.Name, &cs.Description, &cs.PriceCents,
		&cs.DurationMinutes, &cs.IsActive, &cs.CreatedAt, &cs.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CatalogService{}, apperr.NotFound(serviceNotFoundMessage)
		}
		return CatalogService{}, fmt.Errorf("get service by id: %w", err)
	}
	return cs, nil
}

// List retrieves catalog services with search, active filter, and pagination.
func (r *Repo) List(ctx context.Context, params ListParams) ([]CatalogService, int, error) {
	var searchParam interface{}
	if params.Search != "" {
		searchParam = "%" + params.Search + "%"
	}
	var isActiveParam interface{}
	if params.IsActive != nil {
		isActiveParam = *params.IsActive
	}
	var locationParam interface{}
	if params.LocationID != nil {
		locationParam = *params.LocationID
	}

	countQuery := `
		SELECT COUNT(*)
		FROM services
		WHERE shop_id = $1 AND deleted_at IS NULL
			AND ($2::text IS NULL OR name ILIKE $2)
			AND ($3::boolean IS NULL OR is_active = $3)
			AND ($4::uuid IS NULL OR location_id = $4)`

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, params.ShopID, searchParam, isActiveParam, locationParam).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count services: %w", err)
	}

	query := `
		SELECT ` + serviceColumns + `
		FROM services
		WHERE shop_id = $1 AND deleted_at IS NULL
			AND ($2::text IS NULL OR name ILIKE $2)
			AND ($3::boolean IS NULL OR is_active = $3)
			AND ($4::uuid IS NULL OR location_id = $4)
		ORDER BY name ASC
		LIMIT $5 OFFSET $6`

	rows, err := r.pool.Query(ctx, query, params.ShopID, searchParam, isActiveParam, locationParam, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	items, err := scanServices(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// NameTaken reports whether a live catalog service already uses the name
// (case-insensitive) within the location. excludeID skips the row being updated.
func (r *Repo) NameTaken(ctx context.Context, locationID uuid.UUID, name string, excludeID uuid.UUID) (bool, error) {
	var exclude *uuid.UUID
	if excludeID != uuid.Nil {
		exclude = &excludeID
	}

	var taken bool
	if err := r.pool.QueryRow(ctx, nameTakenQuery, locationID, name, exclude).Scan(&taken); err != nil {
		return false, fmt.Errorf("check service name: %w", err)
	}
	return taken, nil
}

// Create inserts a new catalog service.
func (r *Repo) Create(ctx context.Context, params CreateParams) (CatalogService, error) {
	query := `
		INSERT INTO services (shop_id, location_id, name, description, price_cents, duration_minutes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + serviceColumns

	var cs CatalogService
	err := r.pool.QueryRow(ctx, query,
		params.ShopID, params.LocationID, params.Name, params.Description, params.PriceCents, params.DurationMinutes,
	).Scan(
		&cs.ID, &cs.ShopID, &cs.LocationID, &cs.Name, &cs.Description, &cs.PriceCents,
		&cs.DurationMinutes, &cs.IsActive, &cs.CreatedAt, &cs.UpdatedAt,
	)
	if err != nil {
		return CatalogService{}, fmt.Errorf("create service: %w", err)
	}
	return cs, nil
}

// Update applies a partial update to a catalog service.
func (r *Repo) Update(ctx context.Context, params UpdateParams) (CatalogService, error) {
	query := `
		UPDATE services SET
			name = COALESCE($3, name),
			description = COALESCE($4, description),
			price_cents = COALESCE($5, price_cents),
			duration_minutes = COALESCE($6, duration_minutes),
			is_active = COALESCE($7, is_active),
			updated_at = now()
		WHERE id = $1 AND shop_id = $2 AND deleted_at IS NULL
		RETURNING ` + serviceColumns

	var cs CatalogService
	err := r.pool.QueryRow(ctx, query,
		params.ID, params.ShopID, params.Name, params.Description,
		params.PriceCents, params.DurationMinutes, params.IsActive,
	).Scan(
		&cs.ID, &cs.ShopID, &cs.LocationID, &cs.Name, &cs.Description, &cs.PriceCents,
		&cs.DurationMinutes, &cs.IsActive, &cs.CreatedAt, &cs.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CatalogService{}, apperr.NotFound(serviceNotFoundMessage)
		}
		return CatalogService{}, fmt.Errorf("update service: %w", err)
	}
	return cs, nil
}

// HasLineItems reports whether any appointment line item references the service.
func (r *Repo) HasLineItems(ctx context.Context, id, shopID uuid.UUID) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, hasLineItemsQuery, id, shopID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check service line items: %w", err)
	}
	return exists, nil
}

// SoftDelete deactivates the service and marks it deleted, keeping the row
// so historical line-item snapshots stay resolvable.
func (r *Repo) SoftDelete(ctx context.Context, id, shopID uuid.UUID) error {
	result, err := r.pool.Exec(ctx, softDeleteServiceQuery, id, shopID)
	if err != nil {
		return fmt.Errorf("soft delete service: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(serviceNotFoundMessage)
	}
	return nil
}

// HardDelete removes an unreferenced service outright.
func (r *Repo) HardDelete(ctx context.Context, id, shopID uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM services WHERE id = $1 AND shop_id = $2 AND deleted_at IS NULL`, id, shopID)
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(serviceNotFoundMessage)
	}
	return nil
}

// Rate is a catalog price and duration snapshot source for one service.
type Rate struct {
	ID              uuid.UUID
	Name            string
	PriceCents      int64
	DurationMinutes int
}

// GetRates returns current rates for the requested active services.
// IDs absent from the result do not exist in the shop's live catalog.
func (r *Repo) GetRates(ctx context.Context, shopID uuid.UUID, serviceIDs []uuid.UUID) (map[uuid.UUID]Rate, error) {
	rows, err := r.pool.Query(ctx, ratesQuery, shopID, serviceIDs)
	if err != nil {
		return nil, fmt.Errorf("get service rates: %w", err)
	}
	defer rows.Close()

	rates := make(map[uuid.UUID]Rate, len(serviceIDs))
	for rows.Next() {
		var rate Rate
		if err := rows.Scan(&rate.ID, &rate.Name, &rate.PriceCents, &rate.DurationMinutes); err != nil {
			return nil, fmt.Errorf("scan service rate: %w", err)
		}
		rates[rate.ID] = rate
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate service rates: %w", err)
	}
	return rates, nil
}

func scanServices(rows pgx.Rows) ([]CatalogService, error) {
	var results []CatalogService
	for rows.Next() {
		var cs CatalogService
		err := rows.Scan(
			&cs.ID, &cs.ShopID, &cs.LocationID, &cs.Name, &cs.Description, &cs.PriceCents,
			&cs.DurationMinutes, &cs.IsActive, &cs.CreatedAt, &cs.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		results = append(results, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate services: %w", err)
	}
	return results, nil
}
