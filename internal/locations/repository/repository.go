// Package repository provides PostgreSQL persistence for regions and locations.
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
	regionNotFoundMessage   = "region not found"
	locationNotFoundMessage = "location not found"
)

// Region groups a shop's locations.
type Region struct {
	ID        uuid.UUID
	ShopID    uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Location is one physical site of a shop.
type Location struct {
	ID           uuid.UUID
	ShopID       uuid.UUID
	RegionID     uuid.UUID
	Name         string
	AddressLine1 *string
	AddressLine2 *string
	City         *string
	State        *string
	Zip          *string
	Phone        *string
	Email        *string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateLocationParams carries the fields for inserting a location.
type CreateLocationParams struct {
	ShopID       uuid.UUID
	RegionID     uuid.UUID
	Name         string
	AddressLine1 *string
	AddressLine2 *string
	City         *string
	State        *string
	Zip          *string
	Phone        *string
	Email        *string
}

// UpdateLocationParams carries the fields for a partial location update.
// Nil pointers leave the stored value untouched.
type UpdateLocationParams struct {
	ID           uuid.UUID
	ShopID       uuid.UUID
	Name         *string
	AddressLine1 *string
	AddressLine2 *string
	City         *string
	State        *string
	Zip          *string
	Phone        *string
	Email        *string
}

// ListLocationsParams carries filters for listing a shop's locations.
type ListLocationsParams struct {
	ShopID   uuid.UUID
	RegionID *uuid.UUID
	Active   *bool
}

const regionColumns = `id, shop_id, name, created_at, updated_at`

const locationColumns = `id, shop_id, region_id, name, address_line1, address_line2,
	city, state, zip, phone, email, active, created_at, updated_at`

const listRegionsQuery = `
	SELECT ` + regionColumns + `
	FROM regions
	WHERE shop_id = $1 AND deleted_at IS NULL
	ORDER BY name ASC`

const regionNameTakenQuery = `
	SELECT EXISTS(
		SELECT 1 FROM regions
		WHERE shop_id = $1 AND lower(name) = lower($2) AND deleted_at IS NULL
	)`

const insertRegionQuery = `
	INSERT INTO regions (shop_id, name)
	VALUES ($1, $2)
	RETURNING ` + regionColumns

const regionExistsQuery = `
	SELECT EXISTS(SELECT 1 FROM regions WHERE id = $1 AND shop_id = $2 AND deleted_at IS NULL)`

const getLocationQuery = `
	SELECT ` + locationColumns + `
	FROM locations
	WHERE id = $1 AND shop_id = $2 AND deleted_at IS NULL`

const locationNameTakenQuery = `
	SELECT EXISTS(
		SELECT 1 FROM locations
		WHERE region_id = $1 AND lower(name) = lower($2) AND deleted_at IS NULL
			AND ($3::uuid IS NULL OR id <> $3)
	)`

const insertLocationQuery = `
	INSERT INTO locations (shop_id, region_id, name, address_line1, address_line2, city, state, zip, phone, email)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	RETURNING ` + locationColumns

const setLocationActiveQuery = `
	UPDATE locations SET active = $3, updated_at = now()
	WHERE id = $1 AND shop_id = $2 AND deleted_at IS NULL`

const locationExistsQuery = `
	SELECT EXISTS(SELECT 1 FROM locations WHERE id = $1 AND shop_id = $2 AND deleted_at IS NULL)`

// Repo implements region and location persistence with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new locations repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ListRegions retrieves a shop's live regions.
func (r *Repo) ListRegions(ctx context.Context, shopID uuid.UUID) ([]Region, error) {
	rows, err := r.pool.Query(ctx, listRegionsQuery, shopID)
	if err != nil {
		return nil, fmt.Errorf("list regions: %w", err)
	}
	defer rows.Close()

	var regions []Region
	for rows.Next() {
		var reg Region
		if err := rows.Scan(&reg.ID, &reg.ShopID, &reg.Name, &reg.CreatedAt, &reg.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan region: %w", err)
		}
		regions = append(regions, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate regions: %w", err)
	}
	return regions, nil
}

// RegionNameTaken reports whether a live region already uses the name
// (case-insensitive) within the shop.
func (r *Repo) RegionNameTaken(ctx context.Context, shopID uuid.UUID, name string) (bool, error) {
	var taken bool
	if err := r.pool.QueryRow(ctx, regionNameTakenQuery, shopID, name).Scan(&taken); err != nil {
		return false, fmt.Errorf("check region name: %w", err)
	}
	return taken, nil
}

// CreateRegion inserts a new region.
func (r *Repo) CreateRegion(ctx context.Context, shopID uuid.UUID, name string) (Region, error) {
	var reg Region
	err := r.pool.QueryRow(ctx, insertRegionQuery, shopID, name).Scan(
		&reg.ID, &reg.ShopID, &reg.Name, &reg.CreatedAt, &reg.UpdatedAt,
	)
	if err != nil {
		return Region{}, fmt.Errorf("create region: %w", err)
	}
	return reg, nil
}

// RegionExists reports whether the region belongs to the shop.
func (r *Repo) RegionExists(ctx context.Context, id, shopID uuid.UUID) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, regionExistsQuery, id, shopID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check region: %w", err)
	}
	return exists, nil
}

// GetLocation retrieves a location scoped to the shop.
func (r *Repo) GetLocation(ctx context.Context, id, shopID uuid.UUID) (Location, error) {
	var loc Location
	err := r.pool.QueryRow(ctx, getLocationQuery, id, shopID).Scan(
		&loc.ID, &loc.ShopID, &loc.RegionID, &loc.Name,
		&loc.AddressLine1, &loc.AddressLine2, &loc.City, &loc.State, &loc.Zip,
		&loc.Phone, &loc.Email, &loc.Active, &loc.CreatedAt, &loc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Location{}, apperr.NotFound(locationNotFoundMessage)
		}
		return Location{}, fmt.Errorf("get location: %w", err)
	}
	return loc, nil
}

// ListLocations retrieves a shop's live locations with optional filters.
func (r *Repo) ListLocations(ctx context.Context, params ListLocationsParams) ([]Location, error) {
	var regionParam interface{}
	if params.RegionID != nil {
		regionParam = *params.RegionID
	}
	var activeParam interface{}
	if params.Active != nil {
		activeParam = *params.Active
	}

	query := `
		SELECT ` + locationColumns + `
		FROM locations
		WHERE shop_id = $1 AND deleted_at IS NULL
			AND ($2::uuid IS NULL OR region_id = $2)
			AND ($3::boolean IS NULL OR active = $3)
		ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query, params.ShopID, regionParam, activeParam)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	var locations []Location
	for rows.Next() {
		var loc Location
		if err := rows.Scan(
			&loc.ID, &loc.ShopID, &loc.RegionID, &loc.Name,
			&loc.AddressLine1, &loc.AddressLine2, &loc.City, &loc.State, &loc.Zip,
			&loc.Phone, &loc.Email, &loc.Active, &loc.CreatedAt, &loc.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		locations = append(locations, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate locations: %w", err)
	}
	return locations, nil
}

// LocationNameTaken reports whether a live location already uses the name
// (case-insensitive) within the region. excludeID skips the row being updated.
func (r *Repo) LocationNameTaken(ctx context.Context, regionID uuid.UUID, name string, excludeID uuid.UUID) (bool, error) {
	var exclude *uuid.UUID
	if excludeID != uuid.Nil {
		exclude = &excludeID
	}

	var taken bool
	if err := r.pool.QueryRow(ctx, locationNameTakenQuery, regionID, name, exclude).Scan(&taken); err != nil {
		return false, fmt.Errorf("check location name: %w", err)
	}
	return taken, nil
}

// CreateLocation inserts a new location.
func (r *Repo) CreateLocation(ctx context.Context, params CreateLocationParams) (Location, error) {
	var loc Location
	err := r.pool.QueryRow(ctx, insertLocationQuery,
		params.ShopID, params.RegionID, params.Name,
		params.AddressLine1, params.AddressLine2, params.City, params.State, params.Zip,
		params.Phone, params.Email,
	).Scan(
		&loc.ID, &loc.ShopID, &loc.RegionID, &loc.Name,
		&loc.AddressLine1, &loc.AddressLine2, &loc.City, &loc.State, &loc.Zip,
		&loc.Phone, &loc.Email, &loc.Active, &loc.CreatedAt, &loc.UpdatedAt,
	)
	if err != nil {
		return Location{}, fmt.Errorf("create location: %w", err)
	}
	return loc, nil
}

// UpdateLocation applies a partial update to a location.
func (r *Repo) UpdateLocation(ctx context.Context, params UpdateLocationParams) (Location, error) {
	query := `
		UPDATE locations SET
			name = COALESCE($3, name),
			address_line1 = COALESCE($4, address_line1),
			address_line2 = COALESCE($5, address_line2),
			city = COALESCE($6, city),
			state = COALESCE($7, state),
			zip = COALESCE($8, zip),
			phone = COALESCE($9, phone),
			email = COALESCE($10, email),
			updated_at = now()
		WHERE id = $1 AND shop_id = $2 AND deleted_at IS NULL
		RETURNING ` + locationColumns

	var loc Location
	err := r.pool.QueryRow(ctx, query,
		params.ID, params.ShopID, params.Name,
		params.AddressLine1, params.AddressLine2, params.City, params.State, params.Zip,
		params.Phone, params.Email,
	).Scan(
		&loc.ID, &loc.ShopID, &loc.RegionID, &loc.Name,
		&loc.AddressLine1, &loc.AddressLine2, &loc.City, &loc.State, &loc.Zip,
		&loc.Phone, &loc.Email, &loc.Active, &loc.CreatedAt, &loc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Location{}, apperr.NotFound(locationNotFoundMessage)
		}
		return Location{}, fmt.Errorf("update location: %w", err)
	}
	return loc, nil
}

// SetActive flips a location's active flag.
func (r *Repo) SetActive(ctx context.Context, id, shopID uuid.UUID, active bool) error {
	result, err := r.pool.Exec(ctx, setLocationActiveQuery, id, shopID, active)
	if err != nil {
		return fmt.Errorf("set location active: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(locationNotFoundMessage)
	}
	return nil
}

// LocationExists reports whether the location belongs to the shop.
func (r *Repo) LocationExists(ctx context.Context, id, shopID uuid.UUID) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, locationExistsQuery, id, shopID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check location: %w", err)
	}
	return exists, nil
}
