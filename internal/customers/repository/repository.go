// Package repository provides PostgreSQL persistence for customers and
// their vehicles.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/je4550/repair-app/platform/apperr"
)

const (
	customerNotFoundMessage = "customer not found"
	vehicleNotFoundMessage  = "vehicle not found"
)

// Customer is the persistence model for one customer row.
type Customer struct {
	ID        uuid.UUID
	ShopID    uuid.UUID
	FirstName string
	LastName  string
	Email     *string
	Phone     *string
	Address   *string
	City      *string
	State     *string
	Zip       *string
	Notes     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Vehicle is the persistence model for one vehicle row.
type Vehicle struct {
	ID           uuid.UUID
	ShopID       uuid.UUID
	CustomerID   uuid.UUID
	Make         string
	Model        string
	Year         int
	VIN          *string
	LicensePlate *string
	Mileage      *int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateCustomerParams carries fields for inserting a customer.
type CreateCustomerParams struct {
	ShopID    uuid.UUID
	FirstName string
	LastName  string
	Email     *string
	Phone     *string
	Address   *string
	City      *string
	State     *string
	Zip       *string
	Notes     *string
}

// UpdateCustomerParams carries fields for a partial customer update.
// Nil pointers leave the stored value untouched.
type UpdateCustomerParams struct {
	ID        uuid.UUID
	ShopID    uuid.UUID
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
	Address   *string
	City      *string
	State     *string
	Zip       *string
	Notes     *string
}

// ListCustomersParams carries filters and pagination for listing customers.
type ListCustomersParams struct {
	ShopID uuid.UUID
	Search string
	Offset int
	Limit  int
}

// CreateVehicleParams carries fields for inserting a vehicle.
type CreateVehicleParams struct {
	ShopID       uuid.UUID
	CustomerID   uuid.UUID
	Make         string
	Model        string
	Year         int
	VIN          *string
	LicensePlate *string
	Mileage      *int
}

// UpdateVehicleParams carries fields for a partial vehicle update.
type UpdateVehicleParams struct {
	ID           uuid.UUID
	ShopID       uuid.UUID
	Make         *string
	Model        *string
	Year         *int
	VIN          *string
	LicensePlate *string
	Mileage      *int
}

const customerColumns = `id, shop_id, first_name, last_name, email, phone, address, city, state, zip, notes, created_at, updated_at`

const getCustomerQuery = `
	SELECT ` + customerColumns + `
	FROM customers
	WHERE id = $1 AND shop_id = $2 AND deleted_at IS NULL`

const vehicleColumns = `id, shop_id, customer_id, make, model, year, vin, license_plate, mileage, created_at, updated_at`

const getVehicleQuery = `
	SELECT ` + vehicleColumns + `
	FROM vehicles
	WHERE id = $1 AND shop_id = $2 AND deleted_at IS NULL`

const vehicleOwnerQuery = `
	SELECT customer_id
	FROM vehicles
	WHERE id = $1 AND shop_id = $2 AND deleted_at IS NULL`

// searchColumns are the customer columns matched by every search word.
var searchColumns = []string{"first_name", "last_name", "email", "phone", "city"}

// Repo implements customer persistence with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new customers repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// GetByID retrieves a customer scoped to the shop.
func (r *Repo) GetByID(ctx context.Context, id, shopID uuid.UUID) (Customer, error) {
	var c Customer
	err := r.pool.QueryRow(ctx, getCustomerQuery, id, shopID).Scan(
		&c.ID, &c.ShopID, &c.FirstName, &c.LastName, &c.Email, &c.Phone,
		&c.Address, &c.City, &c.State, &c.Zip, &c.Notes, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Customer{}, apperr.NotFound(customerNotFoundMessage)
		}
		return Customer{}, fmt.Errorf("get customer by id: %w", err)
	}
	return c, nil
}

// List retrieves customers with multi-word search and pagination.
// Every search word must match at least one of first name, last name,
// email, phone, or city.
func (r *Repo) List(ctx context.Context, params ListCustomersParams) ([]Customer, int, error) {
	whereClauses := []string{"shop_id = $1", "deleted_at IS NULL"}
	args := []interface{}{params.ShopID}
	argIdx := 2

	for _, word := range strings.Fields(params.Search) {
		orParts := make([]string, len(searchColumns))
		for i, col := range searchColumns {
			orParts[i] = fmt.Sprintf("%s ILIKE $%d", col, argIdx)
		}
		whereClauses = append(whereClauses, "("+strings.Join(orParts, " OR ")+")")
		args = append(args, "%"+word+"%")
		argIdx++
	}

	where := strings.Join(whereClauses, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM customers WHERE " + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count customers: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM customers
		WHERE %s
		ORDER BY last_name ASC, first_name ASC
		LIMIT $%d OFFSET $%d`, customerColumns, where, argIdx, argIdx+1)
	args = append(args, params.Limit, params.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var results []Customer
	for rows.Next() {
		var c Customer
		err := rows.Scan(
			&c.ID, &c.ShopID, &c.FirstName, &c.LastName, &c.Email, &c.Phone,
			&c.Address, &c.City, &c.State, &c.Zip, &c.Notes, &c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan customer: %w", err)
		}
		results = append(results, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate customers: %w", err)
	}

	return results, total, nil
}

// Create inserts a new customer.
func (r *Repo) Create(ctx context.Context, params CreateCustomerParams) (Customer, error) {
	query := `
		INSERT INTO customers (shop_id, first_name, last_name, email, phone, address, city, state, zip, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + customerColumns

	var c Customer
	err := r.pool.QueryRow(ctx, query,
		params.ShopID, params.FirstName, params.LastName, params.Email, params.Phone,
		params.Address, params.City, params.State, params.Zip, params.Notes,
	).Scan(
		&c.ID, &c.ShopID, &c.FirstName, &c.LastName, &c.Email, &c.Phone,
		&c.Address, &c.City, &c.State, &c.Zip, &c.Notes, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return Customer{}, fmt.Errorf("create customer: %w", err)
	}
	return c, nil
}

// Update applies a partial update to a customer.
func (r *Repo) Update(ctx context.Context, params UpdateCustomerParams) (Customer, error) {
	query := `
		UPDATE customers SET
			first_name = COALESCE($3, first_name),
			last_name = COALESCE($4, last_name),
			email = COALESCE($5, email),
			phone = COALESCE($6, phone),
			address = COALESCE($7, address),
			city = COALESCE($8, city),
			state = COALESCE($9, state),
			zip = COALESCE($10, zip),
			notes = COALESCE($11, notes),
			updated_at = now()
		WHERE id = $1 AND shop_id = $2 AND deleted_at IS NULL
		RETURNING ` + customerColumns

	var c Customer
	err := r.pool.QueryRow(ctx, query,
		params.ID, params.ShopID, params.FirstName, params.LastName, params.Email,
		params.Phone, params.Address, params.City, params.State, params.Zip, params.Notes,
	).Scan(
		&c.ID, &c.ShopID, &c.FirstName, &c.LastName, &c.Email, &c.Phone,
		&c.Address, &c.City, &c.State, &c.Zip, &c.Notes, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Customer{}, apperr.NotFound(customerNotFoundMessage)
		}
		return Customer{}, fmt.Errorf("update customer: %w", err)
	}
	return c, nil
}

// SoftDelete marks a customer and their vehicles deleted.
func (r *Repo) SoftDelete(ctx context.Context, id, shopID uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete customer: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx,
		`UPDATE customers SET deleted_at = now(), updated_at = now() WHERE id = $1 AND shop_id = $2 AND deleted_at IS NULL`,
		id, shopID,
	)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(customerNotFoundMessage)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE vehicles SET deleted_at = now(), updated_at = now() WHERE customer_id = $1 AND shop_id = $2 AND deleted_at IS NULL`,
		id, shopID,
	); err != nil {
		return fmt.Errorf("delete customer vehicles: %w", err)
	}

	return tx.Commit(ctx)
}

// ListVehicles retrieves a customer's vehicles.
func (r *Repo) ListVehicles(ctx context.Context, customerID, shopID uuid.UUID) ([]Vehicle, error) {
	query := `
		SELECT ` + vehicleColumns + `
		FROM vehicles
		WHERE customer_id = $1 AND shop_id = $2 AND deleted_at IS NULL
		ORDER BY year DESC, make ASC`

	rows, err := r.pool.Query(ctx, query, customerID, shopID)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	defer rows.Close()

	var results []Vehicle
	for rows.Next() {
		var v Vehicle
		err := rows.Scan(
			&v.ID, &v.ShopID, &v.CustomerID, &v.Make, &v.Model, &v.Year,
			&v.VIN, &v.LicensePlate, &v.Mileage, &v.CreatedAt, &v.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan vehicle: %w", err)
		}
		results = append(results, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vehicles: %w", err)
	}
	return results, nil
}

// GetVehicle retrieves one vehicle scoped to the shop.
func (r *Repo) GetVehicle(ctx context.Context, id, shopID uuid.UUID) (Vehicle, error) {
	var v Vehicle
	err := r.pool.QueryRow(ctx, getVehicleQuery, id, shopID).Scan(
		&v.ID, &v.ShopID, &v.CustomerID, &v.Make, &v.Model, &v.Year,
		&v.VIN, &v.LicensePlate, &v.Mileage, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Vehicle{}, apperr.NotFound(vehicleNotFoundMessage)
		}
		return Vehicle{}, fmt.Errorf("get vehicle by id: %w", err)
	}
	return v, nil
}

// GetVehicleOwner returns the owning customer of a vehicle within the shop.
func (r *Repo) GetVehicleOwner(ctx context.Context, id, shopID uuid.UUID) (uuid.UUID, error) {
	var customerID uuid.UUID
	err := r.pool.QueryRow(ctx, vehicleOwnerQuery, id, shopID).Scan(&customerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, apperr.NotFound(vehicleNotFoundMessage)
		}
		return uuid.Nil, fmt.Errorf("get vehicle owner: %w", err)
	}
	return customerID, nil
}

// CreateVehicle inserts a new vehicle for a customer.
func (r *Repo) CreateVehicle(ctx context.Context, params CreateVehicleParams) (Vehicle, error) {
	query := `
		INSERT INTO vehicles (shop_id, customer_id, make, model, year, vin, license_plate, mileage)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + vehicleColumns

	var v Vehicle
	err := r.pool.QueryRow(ctx, query,
		params.ShopID, params.CustomerID, params.Make, params.Model, params.Year,
		params.VIN, params.LicensePlate, params.Mileage,
	).Scan(
		&v.ID, &v.ShopID, &v.CustomerID, &v.Make, &v.Model, &v.Year,
		&v.VIN, &v.LicensePlate, &v.Mileage, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return Vehicle{}, fmt.Errorf("create vehicle: %w", err)
	}
	return v, nil
}

// UpdateVehicle applies a partial update to a vehicle.
func (r *Repo) UpdateVehicle(ctx context.Context, params UpdateVehicleParams) (Vehicle, error) {
	query := `
		UPDATE vehicles SET
			make = COALESCE($3, make),
			model = COALESCE($4, model),
			year = COALESCE($5, year),
			vin = COALESCE($6, vin),
			license_plate = COALESCE($7, license_plate),
			mileage = COALESCE($8, mileage),
			updated_at = now()
		WHERE id = $1 AND shop_id = $2 AND deleted_at IS NULL
		RETURNING ` + vehicleColumns

	var v Vehicle
	err := r.pool.QueryRow(ctx, query,
		params.ID, params.ShopID, params.Make, params.Model, params.Year,
		params.VIN, params.LicensePlate, params.Mileage,
	).Scan(
		&v.ID, &v.ShopID, &v.CustomerID, &v.Make, &v.Model, &v.Year,
		&v.VIN, &v.LicensePlate, &v.Mileage, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Vehicle{}, apperr.NotFound(vehicleNotFoundMessage)
		}
		return Vehicle{}, fmt.Errorf("update vehicle: %w", err)
	}
	return v, nil
}

// SoftDeleteVehicle marks a vehicle deleted.
func (r *Repo) SoftDeleteVehicle(ctx context.Context, id, shopID uuid.UUID) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE vehicles SET deleted_at = now(), updated_at = now() WHERE id = $1 AND shop_id = $2 AND deleted_at IS NULL`,
		id, shopID,
	)
	if err != nil {
		return fmt.Errorf("delete vehicle: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(vehicleNotFoundMessage)
	}
	return nil
}
