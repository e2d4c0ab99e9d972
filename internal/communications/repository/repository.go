// Package repository provides PostgreSQL persistence for the outbound
// communications log.
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
	communicationNotFoundMessage = "communication not found"
	customerNotFoundMessage      = "customer not found"
)

const (
	TypeEmail = "email"
	TypeSMS   = "sms"

	StatusPending   = "pending"
	StatusSent      = "sent"
	StatusDelivered = "delivered"
	StatusFailed    = "failed"
)

// Communication is the persistence model for one logged outbound message.
type Communication struct {
	ID         uuid.UUID
	ShopID     uuid.UUID
	CustomerID uuid.UUID
	Type       string
	Subject    *string
	Body       string
	Status     string
	Error      *string
	SentAt     *time.Time
	CreatedAt  time.Time
}

// CreateParams carries fields for inserting a communication.
type CreateParams struct {
	ShopID     uuid.UUID
	CustomerID uuid.UUID
	Type       string
	Subject    *string
	Body       string
	Status     string
}

// ListParams carries filters and pagination for listing the log.
type ListParams struct {
	ShopID     uuid.UUID
	CustomerID *uuid.UUID
	Type       *string
	Status     *string
	Offset     int
	Limit      int
}

// CustomerContact is the recipient info pulled from the customers table.
type CustomerContact struct {
	Name  string
	Email *string
}

const communicationColumns = `id, shop_id, customer_id, type, subject, body, status, error, sent_at, created_at`

const insertCommunicationQuery = `
	INSERT INTO communications (shop_id, customer_id, type, subject, body, status)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING ` + communicationColumns

const getCommunicationQuery = `
	SELECT ` + communicationColumns + `
	FROM communications
	WHERE id = $1 AND shop_id = $2`

// updateStatusQuery stamps sent_at on the first transition out of pending.
const updateStatusQuery = `
	UPDATE communications
	SET status = $3, error = $4, sent_at = COALESCE(sent_at, CASE WHEN $3 IN ('sent', 'delivered') THEN now() END)
	WHERE id = $1 AND shop_id = $2
	RETURNING ` + communicationColumns

const customerContactQuery = `
	SELECT first_name || ' ' || last_name, email
	FROM customers
	WHERE id = $1 AND shop_id = $2 AND deleted_at IS NULL`

// Repo implements communications persistence with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new communications repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func scanCommunication(row pgx.Row) (Communication, error) {
	var comm Communication
	err := row.Scan(
		&comm.ID, &comm.ShopID, &comm.CustomerID, &comm.Type, &comm.Subject,
		&comm.Body, &comm.Status, &comm.Error, &comm.SentAt, &comm.CreatedAt,
	)
	return comm, err
}

// Create inserts a communication log row.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Communication, error) {
	comm, err := scanCommunication(r.pool.QueryRow(ctx, insertCommunicationQuery,
		params.ShopID, params.CustomerID, params.Type, params.Subject, params.Body, params.Status,
	))
	if err != nil {
		return Communication{}, fmt.Errorf("create communication: %w", err)
	}
	return comm, nil
}

// GetByID retrieves a single communication scoped to the shop.
func (r *Repo) GetByID(ctx context.Context, id, shopID uuid.UUID) (Communication, error) {
	comm, err := scanCommunication(r.pool.QueryRow(ctx, getCommunicationQuery, id, shopID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Communication{}, apperr.NotFound(communicationNotFoundMessage)
		}
		return Communication{}, fmt.Errorf("get communication: %w", err)
	}
	return comm, nil
}

// UpdateStatus transitions a communication to a new delivery status.
func (r *Repo) UpdateStatus(ctx context.Context, id, shopID uuid.UUID, status string, errDetail *string) (Communication, error) {
	comm, err := scanCommunication(r.pool.QueryRow(ctx, updateStatusQuery, id, shopID, status, errDetail))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Communication{}, apperr.NotFound(communicationNotFoundMessage)
		}
		return Communication{}, fmt.Errorf("update communication status: %w", err)
	}
	return comm, nil
}

// List retrieves the communications log with filters and pagination.
func (r *Repo) List(ctx context.Context, params ListParams) ([]Communication, int, error) {
	var customerParam, typeParam, statusParam interface{}
	if params.CustomerID != nil {
		customerParam = *params.CustomerID
	}
	if params.Type != nil {
		typeParam = *params.Type
	}
	if params.Status != nil {
		statusParam = *params.Status
	}

	filter := `
		WHERE shop_id = $1
		AND ($2::uuid IS NULL OR customer_id = $2)
		AND ($3::text IS NULL OR type = $3)
		AND ($4::text IS NULL OR status = $4)`

	var total int
	countQuery := `SELECT COUNT(*) FROM communications` + filter
	if err := r.pool.QueryRow(ctx, countQuery, params.ShopID, customerParam, typeParam, statusParam).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count communications: %w", err)
	}

	query := `SELECT ` + communicationColumns + ` FROM communications` + filter + `
		ORDER BY created_at DESC
		LIMIT $5 OFFSET $6`

	rows, err := r.pool.Query(ctx, query, params.ShopID, customerParam, typeParam, statusParam, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list communications: %w", err)
	}
	defer rows.Close()

	var results []Communication
	for rows.Next() {
		comm, err := scanCommunication(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan communication: %w", err)
		}
		results = append(results, comm)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate communications: %w", err)
	}
	return results, total, nil
}

// GetCustomerContact looks up the recipient for a customer in the shop.
func (r *Repo) GetCustomerContact(ctx context.Context, customerID, shopID uuid.UUID) (CustomerContact, error) {
	var contact CustomerContact
	err := r.pool.QueryRow(ctx, customerContactQuery, customerID, shopID).Scan(&contact.Name, &contact.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CustomerContact{}, apperr.NotFound(customerNotFoundMessage)
		}
		return CustomerContact{}, fmt.Errorf("get customer contact: %w", err)
	}
	return contact, nil
}
