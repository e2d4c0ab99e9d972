package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/je4550/repair-app/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Appointment represents the appointment database model
type Appointment struct {
	ID              uuid.UUID  `db:"id"`
	ShopID          uuid.UUID  `db:"shop_id"`
	CustomerID      uuid.UUID  `db:"customer_id"`
	VehicleID       uuid.UUID  `db:"vehicle_id"`
	ScheduledAt     time.Time  `db:"scheduled_at"`
	Status          string     `db:"status"`
	Notes           *string    `db:"notes"`
	TotalPriceCents int64      `db:"total_price_cents"`
	DeletedAt       *time.Time `db:"deleted_at"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

// LineItem represents one appointment_services row, joined with the catalog
// service for name and duration. PriceCents is the snapshot taken at attach
// time, not the live catalog price.
type LineItem struct {
	ID              uuid.UUID `db:"id"`
	AppointmentID   uuid.UUID `db:"appointment_id"`
	ServiceID       uuid.UUID `db:"service_id"`
	ServiceName     string    `db:"service_name"`
	Quantity        int       `db:"quantity"`
	PriceCents      int64     `db:"price_cents"`
	DurationMinutes int       `db:"duration_minutes"`
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx so the same query
// helpers run inside and outside transactions.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository provides database operations for appointments
type Repository struct {
	pool *pgxpool.Pool
}

const appointmentNotFoundMsg = "appointment not found"

// New creates a new appointments repository
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const getAppointmentQuery = `SELECT id, shop_id, customer_id, vehicle_id, scheduled_at, status, notes,
	total_price_cents, deleted_at, created_at, updated_at
	FROM appointments WHERE id = $1 AND shop_id = $2 AND deleted_at IS NULL`

// GetByID retrieves an appointment by its ID, scoped to the shop.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID, shopID uuid.UUID) (*Appointment, error) {
	var appt Appointment
	err := r.pool.QueryRow(ctx, getAppointmentQuery, id, shopID).Scan(
		&appt.ID, &appt.ShopID, &appt.CustomerID, &appt.VehicleID, &appt.ScheduledAt,
		&appt.Status, &appt.Notes, &appt.TotalPriceCents, &appt.DeletedAt,
		&appt.CreatedAt, &appt.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(appointmentNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	return &appt, nil
}

const listItemsQuery = `SELECT li.id, li.appointment_id, li.service_id, s.name, li.quantity,
	li.price_cents, s.duration_minutes
	FROM appointment_services li
	JOIN services s ON s.id = li.service_id
	WHERE li.appointment_id = $1
	ORDER BY s.name ASC`

// ListItems retrieves the line items of an appointment with catalog names
// and durations joined in.
func (r *Repository) ListItems(ctx context.Context, appointmentID uuid.UUID) ([]LineItem, error) {
	rows, err := r.pool.Query(ctx, listItemsQuery, appointmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list line items: %w", err)
	}
	defer rows.Close()

	return scanLineItems(rows)
}

func scanLineItems(rows pgx.Rows) ([]LineItem, error) {
	var items []LineItem
	for rows.Next() {
		var item LineItem
		if err := rows.Scan(
			&item.ID, &item.AppointmentID, &item.ServiceID, &item.ServiceName,
			&item.Quantity, &item.PriceCents, &item.DurationMinutes,
		); err != nil {
			return nil, fmt.Errorf("failed to scan line item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate line items: %w", err)
	}

	return items, nil
}

const appointmentStatusRacedMsg = "appointment status changed concurrently"

const updateStatusQuery = `UPDATE appointments SET status = $4, updated_at = $5
	WHERE id = $1 AND shop_id = $2 AND status = $3 AND deleted_at IS NULL`

// UpdateStatus moves an appointment from one status to another. The source
// status is asserted in SQL so two racing transitions cannot both land; the
// loser sees a conflict.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, shopID uuid.UUID, fromStatus, toStatus string) error {
	result, err := r.pool.Exec(ctx, updateStatusQuery, id, shopID, fromStatus, toStatus, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update appointment status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.Conflict(appointmentStatusRacedMsg)
	}

	return nil
}

const completeQuery = `UPDATE appointments SET
		status = 'completed',
		total_price_cents = COALESCE((
			SELECT SUM(li.price_cents * li.quantity)
			FROM appointment_services li
			WHERE li.appointment_id = appointments.id
		), 0),
		updated_at = $4
	WHERE id = $1 AND shop_id = $2 AND status = $3 AND deleted_at IS NULL
	RETURNING total_price_cents`

// CompleteAndRecalculate marks the appointment completed and recomputes the
// total from its line items in the same statement, returning the new total.
// The source status is asserted like UpdateStatus so a racing cancel cannot
// be overwritten.
func (r *Repository) CompleteAndRecalculate(ctx context.Context, id uuid.UUID, shopID uuid.UUID, fromStatus string) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, completeQuery, id, shopID, fromStatus, time.Now()).Scan(&total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperr.Conflict(appointmentStatusRacedMsg)
		}
		return 0, fmt.Errorf("failed to complete appointment: %w", err)
	}

	return total, nil
}

// SoftDelete marks an appointment deleted without removing the row. Line
// items are kept so historical pricing stays intact.
func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID, shopID uuid.UUID) error {
	query := `UPDATE appointments SET deleted_at = $3, updated_at = $3
		WHERE id = $1 AND shop_id = $2 AND deleted_at IS NULL`

	result, err := r.pool.Exec(ctx, query, id, shopID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound(appointmentNotFoundMsg)
	}

	return nil
}

// ListParams contains parameters for listing appointments
type ListParams struct {
	ShopID     uuid.UUID
	CustomerID *uuid.UUID
	VehicleID  *uuid.UUID
	Status     *string
	From       *time.Time
	To         *time.Time
	Page       int
	PageSize   int
}

// ListResult contains the result of listing appointments
type ListResult struct {
	Items      []Appointment
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// List retrieves appointments with optional filtering
func (r *Repository) List(ctx context.Context, params ListParams) (*ListResult, error) {
	baseQuery := `FROM appointments WHERE shop_id = $1 AND deleted_at IS NULL`
	args := []interface{}{params.ShopID}
	argIndex := 2

	addFilter(&baseQuery, &args, &argIndex, params.CustomerID != nil, " AND customer_id = $%d", derefUUID(params.CustomerID))
	addFilter(&baseQuery, &args, &argIndex, params.VehicleID != nil, " AND vehicle_id = $%d", derefUUID(params.VehicleID))
	addFilter(&baseQuery, &args, &argIndex, params.Status != nil, " AND status = $%d", derefString(params.Status))
	addFilter(&baseQuery, &args, &argIndex, params.From != nil, " AND scheduled_at >= $%d", derefTime(params.From))
	addFilter(&baseQuery, &args, &argIndex, params.To != nil, " AND scheduled_at < $%d", derefTime(params.To))

	var total int
	countQuery := "SELECT COUNT(*) " + baseQuery
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count appointments: %w", err)
	}

	totalPages := (total + params.PageSize - 1) / params.PageSize
	offset := (params.Page - 1) * params.PageSize

	selectQuery := fmt.Sprintf(`SELECT id, shop_id, customer_id, vehicle_id, scheduled_at, status, notes,
		total_price_cents, deleted_at, created_at, updated_at %s ORDER BY scheduled_at ASC LIMIT $%d OFFSET $%d`,
		baseQuery, argIndex, argIndex+1)
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer rows.Close()

	var items []Appointment
	for rows.Next() {
		var appt Appointment
		if err := rows.Scan(
			&appt.ID, &appt.ShopID, &appt.CustomerID, &appt.VehicleID, &appt.ScheduledAt,
			&appt.Status, &appt.Notes, &appt.TotalPriceCents, &appt.DeletedAt,
			&appt.CreatedAt, &appt.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		items = append(items, appt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate appointments: %w", err)
	}

	return &ListResult{
		Items:      items,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	}, nil
}

func addFilter(baseQuery *string, args *[]interface{}, argIndex *int, apply bool, clause string, value interface{}) {
	if !apply {
		return
	}
	*baseQuery += fmt.Sprintf(clause, *argIndex)
	*args = append(*args, value)
	*argIndex++
}

func derefUUID(value *uuid.UUID) uuid.UUID {
	if value == nil {
		return uuid.UUID{}
	}
	return *value
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func derefTime(value *time.Time) time.Time {
	if value == nil {
		return time.Time{}
	}
	return *value
}
