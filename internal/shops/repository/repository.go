// Package repository provides PostgreSQL persistence for shop tenants.
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

const shopNotFoundMessage = "shop not found"

// Shop is the persistence model for a tenant.
type Shop struct {
	ID        uuid.UUID
	Name      string
	Subdomain string
	Email     *string
	Phone     *string
	Address   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateShopParams carries fields for registering a shop and its admin.
type CreateShopParams struct {
	Name      string
	Subdomain string
	Email     *string
	Phone     *string
	Address   *string

	AdminFirstName    string
	AdminLastName     string
	AdminEmail        string
	AdminPasswordHash string
}

// UpdateShopParams carries fields for a partial shop profile update.
type UpdateShopParams struct {
	ID      uuid.UUID
	Name    *string
	Email   *string
	Phone   *string
	Address *string
}

const shopColumns = `id, name, subdomain, email, phone, address, created_at, updated_at`

const getShopQuery = `
	SELECT ` + shopColumns + `
	FROM shops
	WHERE id = $1 AND deleted_at IS NULL`

const subdomainTakenQuery = `
	SELECT EXISTS(SELECT 1 FROM shops WHERE subdomain = $1 AND deleted_at IS NULL)`

const insertShopQuery = `
	INSERT INTO shops (name, subdomain, email, phone, address)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING ` + shopColumns

const insertAdminQuery = `
	INSERT INTO users (shop_id, email, password_hash, first_name, last_name, roles)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id`

const insertDefaultRegionQuery = `
	INSERT INTO regions (shop_id, name)
	VALUES ($1, 'Main Region')
	RETURNING id`

const insertDefaultLocationQuery = `
	INSERT INTO locations (shop_id, region_id, name, address_line1, phone, email)
	VALUES ($1, $2, 'Main Location', $3, $4, $5)
	RETURNING id`

// Repo implements shop persistence with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new shops repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// GetByID retrieves a shop by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Shop, error) {
	var s Shop
	err := r.pool.QueryRow(ctx, getShopQuery, id).Scan(
		&s.ID, &s.Name, &s.Subdomain, &s.Email, &s.Phone, &s.Address, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Shop{}, apperr.NotFound(shopNotFoundMessage)
		}
		return Shop{}, fmt.Errorf("get shop by id: %w", err)
	}
	return s, nil
}

// SubdomainTaken reports whether a live shop already uses the subdomain.
func (r *Repo) SubdomainTaken(ctx context.Context, subdomain string) (bool, error) {
	var taken bool
	if err := r.pool.QueryRow(ctx, subdomainTakenQuery, subdomain).Scan(&taken); err != nil {
		return false, fmt.Errorf("check subdomain: %w", err)
	}
	return taken, nil
}

// RegistrationResult carries the IDs minted during shop registration.
type RegistrationResult struct {
	Shop              Shop
	AdminID           uuid.UUID
	DefaultLocationID uuid.UUID
}

// CreateWithAdmin registers a shop, its first admin user, and a default
// "Main Region" / "Main Location" pair in one transaction. The location
// inherits the shop's contact details so it is immediately usable.
func (r *Repo) CreateWithAdmin(ctx context.Context, params CreateShopParams) (RegistrationResult, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return RegistrationResult{}, fmt.Errorf("begin shop registration: %w", err)
	}
	defer tx.Rollback(ctx)

	var result RegistrationResult
	s := &result.Shop
	err = tx.QueryRow(ctx, insertShopQuery,
		params.Name, params.Subdomain, params.Email, params.Phone, params.Address,
	).Scan(&s.ID, &s.Name, &s.Subdomain, &s.Email, &s.Phone, &s.Address, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return RegistrationResult{}, fmt.Errorf("create shop: %w", err)
	}

	err = tx.QueryRow(ctx, insertAdminQuery,
		s.ID, params.AdminEmail, params.AdminPasswordHash,
		params.AdminFirstName, params.AdminLastName, []string{"admin"},
	).Scan(&result.AdminID)
	if err != nil {
		return RegistrationResult{}, fmt.Errorf("create shop admin: %w", err)
	}

	var regionID uuid.UUID
	if err := tx.QueryRow(ctx, insertDefaultRegionQuery, s.ID).Scan(&regionID); err != nil {
		return RegistrationResult{}, fmt.Errorf("create default region: %w", err)
	}

	err = tx.QueryRow(ctx, insertDefaultLocationQuery,
		s.ID, regionID, s.Address, s.Phone, s.Email,
	).Scan(&result.DefaultLocationID)
	if err != nil {
		return RegistrationResult{}, fmt.Errorf("create default location: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return RegistrationResult{}, fmt.Errorf("commit shop registration: %w", err)
	}
	return result, nil
}

// Update applies a partial update to a shop profile.
func (r *Repo) Update(ctx context.Context, params UpdateShopParams) (Shop, error) {
	query := `
		UPDATE shops SET
			name = COALESCE($2, name),
			email = COALESCE($3, email),
			phone = COALESCE($4, phone),
			address = COALESCE($5, address),
			updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING ` + shopColumns

	var s Shop
	err := r.pool.QueryRow(ctx, query,
		params.ID, params.Name, params.Email, params.Phone, params.Address,
	).Scan(&s.ID, &s.Name, &s.Subdomain, &s.Email, &s.Phone, &s.Address, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Shop{}, apperr.NotFound(shopNotFoundMessage)
		}
		return Shop{}, fmt.Errorf("update shop: %w", err)
	}
	return s, nil
}
