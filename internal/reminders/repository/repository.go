// Package repository provides PostgreSQL persistence for service reminders.
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

const reminderNotFoundMessage = "reminder not found"

const (
	StatusPending = "pending"
	StatusSent    = "sent"
)

// Reminder is the persistence model for a service reminder.
type Reminder struct {
	ID            uuid.UUID
	ShopID        uuid.UUID
	CustomerID    uuid.UUID
	VehicleID     uuid.UUID
	AppointmentID uuid.UUID
	ScheduledDate time.Time
	Status        string
	SentAt        *time.Time
	CreatedAt     time.Time
}

// CreateParams carries fields for inserting a reminder.
type CreateParams struct {
	ShopID        uuid.UUID
	CustomerID    uuid.UUID
	VehicleID     uuid.UUID
	AppointmentID uuid.UUID
	ScheduledDate time.Time
}

// ListParams carries filters and pagination for listing reminders.
type ListParams struct {
	ShopID uuid.UUID
	Status *string
	Offset int
	Limit  int
}

// DeliveryInfo is everything needed to deliver one reminder email.
type DeliveryInfo struct {
	Status        string
	CustomerName  string
	CustomerEmail *string
	VehicleName   string
	ShopName      string
}

const reminderColumns = `id, shop_id, customer_id, vehicle_id, appointment_id, scheduled_date, status, sent_at, created_at`

const insertReminderQuery = `
	INSERT INTO service_reminders (shop_id, customer_id, vehicle_id, appointment_id, scheduled_date)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING ` + reminderColumns

// deliveryInfoQuery pulls the reminder together with the customer,
// vehicle, and shop rows needed to render the email.
const deliveryInfoQuery = `
	SELECT r.status,
		c.first_name || ' ' || c.last_name,
		c.email,
		v.year, v.make, v.model,
		s.name
	FROM service_reminders r
	JOIN customers c ON c.id = r.customer_id
	JOIN vehicles v ON v.id = r.vehicle_id
	JOIN shops s ON s.id = r.shop_id
	WHERE r.id = $1 AND r.shop_id = $2`

// markSentQuery flips a pending reminder to sent exactly once.
const markSentQuery = `
	UPDATE service_reminders
	SET status = 'sent', sent_at = now()
	WHERE id = $1 AND shop_id = $2 AND status = 'pending'`

// Repo implements reminder persistence with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new reminders repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Create inserts a pending reminder.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Reminder, error) {
	var rem Reminder
	err := r.pool.QueryRow(ctx, insertReminderQuery,
		params.ShopID, params.CustomerID, params.VehicleID, params.AppointmentID, params.ScheduledDate,
	).Scan(
		&rem.ID, &rem.ShopID, &rem.CustomerID, &rem.VehicleID, &rem.AppointmentID,
		&rem.ScheduledDate, &rem.Status, &rem.SentAt, &rem.CreatedAt,
	)
	if err != nil {
		return Reminder{}, fmt.Errorf("create reminder: %w", err)
	}
	return rem, nil
}

// List retrieves reminders with optional status filter and pagination.
func (r *Repo) List(ctx context.Context, params ListParams) ([]Reminder, int, error) {
	var statusParam interface{}
	if params.Status != nil {
		statusParam = *params.Status
	}

	var total int
	countQuery := `
		SELECT COUNT(*) FROM service_reminders
		WHERE shop_id = $1 AND ($2::text IS NULL OR status = $2)`
	if err := r.pool.QueryRow(ctx, countQuery, params.ShopID, statusParam).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count reminders: %w", err)
	}

	query := `
		SELECT ` + reminderColumns + `
		FROM service_reminders
		WHERE shop_id = $1 AND ($2::text IS NULL OR status = $2)
		ORDER BY scheduled_date ASC
		LIMIT $3 OFFSET $4`

	rows, err := r.pool.Query(ctx, query, params.ShopID, statusParam, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list reminders: %w", err)
	}
	defer rows.Close()

	var results []Reminder
	for rows.Next() {
		var rem Reminder
		err := rows.Scan(
			&rem.ID, &rem.ShopID, &rem.CustomerID, &rem.VehicleID, &rem.AppointmentID,
			&rem.ScheduledDate, &rem.Status, &rem.SentAt, &rem.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan reminder: %w", err)
		}
		results = append(results, rem)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate reminders: %w", err)
	}
	return results, total, nil
}

// GetDeliveryInfo loads the data needed to deliver one reminder.
func (r *Repo) GetDeliveryInfo(ctx context.Context, id, shopID uuid.UUID) (DeliveryInfo, error) {
	var info DeliveryInfo
	var year int
	var mk, model string
	err := r.pool.QueryRow(ctx, deliveryInfoQuery, id, shopID).Scan(
		&info.Status, &info.CustomerName, &info.CustomerEmail, &year, &mk, &model, &info.ShopName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return DeliveryInfo{}, apperr.NotFound(reminderNotFoundMessage)
		}
		return DeliveryInfo{}, fmt.Errorf("get reminder delivery info: %w", err)
	}
	info.VehicleName = fmt.Sprintf("%d %s %s", year, mk, model)
	return info, nil
}

// MarkSent flips a pending reminder to sent. Already-sent reminders are
// left untouched and reported via the bool.
func (r *Repo) MarkSent(ctx context.Context, id, shopID uuid.UUID) (bool, error) {
	result, err := r.pool.Exec(ctx, markSentQuery, id, shopID)
	if err != nil {
		return false, fmt.Errorf("mark reminder sent: %w", err)
	}
	return result.RowsAffected() > 0, nil
}
