package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/je4550/repair-app/internal/appointments/domain"
	"github.com/je4550/repair-app/platform/apperr"

	"github.com/google/uuid"
)

// Conflict is an existing appointment that blocks a candidate time slot,
// carrying display fields for caller presentation.
type Conflict struct {
	ID           uuid.UUID
	StartTime    time.Time
	EndTime      time.Time
	CustomerName string
	VehicleName  string
}

// DaySlot is a calendar entry for the day-schedule view.
type DaySlot struct {
	ID           uuid.UUID
	StartTime    time.Time
	EndTime      time.Time
	CustomerName string
	VehicleName  string
	Status       string
}

// conflictCandidatesQuery finds active appointments whose computed interval
// can overlap the candidate. The start-time range keeps this a bounded scan:
// the floor reaches back one maximum appointment window so long bookings that
// began earlier (including before midnight) are still candidates. End times
// are derived from line-item durations; the HAVING clause prunes candidates
// that finish before the candidate starts.
// Args: $1 shop, $2 candidate end, $3 window floor, $4 exclude id (nullable),
// $5 candidate start.
const conflictCandidatesQuery = `
	SELECT a.id, a.scheduled_at,
		a.scheduled_at + make_interval(mins => COALESCE(SUM(s.duration_minutes * li.quantity), 0)::int) AS end_time,
		c.first_name || ' ' || c.last_name AS customer_name,
		v.year, v.make, v.model, v.license_plate
	FROM appointments a
	JOIN customers c ON c.id = a.customer_id
	JOIN vehicles v ON v.id = a.vehicle_id
	LEFT JOIN appointment_services li ON li.appointment_id = a.id
	LEFT JOIN services s ON s.id = li.service_id
	WHERE a.shop_id = $1
		AND a.deleted_at IS NULL
		AND a.status NOT IN ('cancelled', 'no_show')
		AND a.scheduled_at < $2
		AND a.scheduled_at >= $3
		AND ($4::uuid IS NULL OR a.id <> $4)
	GROUP BY a.id, a.scheduled_at, c.first_name, c.last_name, v.year, v.make, v.model, v.license_plate
	HAVING a.scheduled_at + make_interval(mins => COALESCE(SUM(s.duration_minutes * li.quantity), 0)::int) > $5
	ORDER BY a.scheduled_at ASC`

// FindConflicts returns the active appointments overlapping the half-open
// candidate interval [start, end), ordered by start time. Pass uuid.Nil as
// excludeID unless rechecking an existing appointment's own slot.
func (r *Repository) FindConflicts(ctx context.Context, shopID uuid.UUID, start, end time.Time, excludeID uuid.UUID) ([]Conflict, error) {
	return findConflicts(ctx, r.pool, shopID, start, end, excludeID)
}

func findConflicts(ctx context.Context, q querier, shopID uuid.UUID, start, end time.Time, excludeID uuid.UUID) ([]Conflict, error) {
	floor, ceil := domain.SearchWindow(start, end)

	var exclude *uuid.UUID
	if excludeID != uuid.Nil {
		exclude = &excludeID
	}

	rows, err := q.Query(ctx, conflictCandidatesQuery, shopID, ceil, floor, exclude, start)
	if err != nil {
		return nil, fmt.Errorf("failed to query conflicts: %w", err)
	}
	defer rows.Close()

	conflicts := make([]Conflict, 0)
	for rows.Next() {
		var (
			c            Conflict
			year         int
			mk, model    string
			licensePlate *string
		)
		if err := rows.Scan(&c.ID, &c.StartTime, &c.EndTime, &c.CustomerName, &year, &mk, &model, &licensePlate); err != nil {
			return nil, fmt.Errorf("failed to scan conflict: %w", err)
		}
		c.VehicleName = vehicleDisplayName(year, mk, model, licensePlate)

		// The SQL window test is a superset; re-apply the exact open-interval
		// overlap so touching endpoints never count as conflicts.
		if domain.Overlaps(start, end, c.StartTime, c.EndTime) {
			conflicts = append(conflicts, c)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate conflicts: %w", err)
	}

	return conflicts, nil
}

func vehicleDisplayName(year int, mk, model string, licensePlate *string) string {
	name := fmt.Sprintf("%d %s %s", year, mk, model)
	if licensePlate != nil && *licensePlate != "" {
		name += " (" + *licensePlate + ")"
	}
	return name
}

const lockShopQuery = `SELECT id FROM shops WHERE id = $1 FOR UPDATE`

const insertAppointmentQuery = `
	INSERT INTO appointments (
		id, shop_id, customer_id, vehicle_id, scheduled_at, status, notes,
		total_price_cents, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

const insertLineItemQuery = `
	INSERT INTO appointment_services (id, appointment_id, service_id, quantity, price_cents)
	VALUES ($1, $2, $3, $4, $5)`

// CreateScheduled books a new appointment atomically. It locks the shop row,
// rechecks for conflicts inside the transaction, and only then inserts the
// appointment and its line items. Two concurrent bookings for the same slot
// therefore serialize; the loser sees the winner's row and gets it back as a
// conflict. A non-empty return means nothing was written.
func (r *Repository) CreateScheduled(ctx context.Context, appt *Appointment, items []LineItem, end time.Time) ([]Conflict, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var lockedID uuid.UUID
	if err := tx.QueryRow(ctx, lockShopQuery, appt.ShopID).Scan(&lockedID); err != nil {
		return nil, fmt.Errorf("failed to lock shop: %w", err)
	}

	conflicts, err := findConflicts(ctx, tx, appt.ShopID, appt.ScheduledAt, end, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return conflicts, nil
	}

	if _, err := tx.Exec(ctx, insertAppointmentQuery,
		appt.ID, appt.ShopID, appt.CustomerID, appt.VehicleID, appt.ScheduledAt,
		appt.Status, appt.Notes, appt.TotalPriceCents, appt.CreatedAt, appt.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	for _, item := range items {
		if _, err := tx.Exec(ctx, insertLineItemQuery,
			item.ID, appt.ID, item.ServiceID, item.Quantity, item.PriceCents,
		); err != nil {
			return nil, fmt.Errorf("failed to create line item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit appointment: %w", err)
	}

	return nil, nil
}

const updateAppointmentQuery = `
	UPDATE appointments SET
		customer_id = $3,
		vehicle_id = $4,
		scheduled_at = $5,
		notes = $6,
		total_price_cents = $7,
		updated_at = $8
	WHERE id = $1 AND shop_id = $2 AND deleted_at IS NULL`

const deleteLineItemsQuery = `DELETE FROM appointment_services WHERE appointment_id = $1`

// UpdateScheduled persists edits to an appointment atomically. When the
// schedule moved, the caller sets checkConflict and the shop row is locked
// and conflicts rechecked (excluding the appointment's own slot) before
// writing. When replaceItems is set, the full line-item set is destroyed and
// re-added from items; the caller must pass the recomputed total.
func (r *Repository) UpdateScheduled(ctx context.Context, appt *Appointment, items []LineItem, replaceItems bool, end time.Time, checkConflict bool) ([]Conflict, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if checkConflict {
		var lockedID uuid.UUID
		if err := tx.QueryRow(ctx, lockShopQuery, appt.ShopID).Scan(&lockedID); err != nil {
			return nil, fmt.Errorf("failed to lock shop: %w", err)
		}

		conflicts, err := findConflicts(ctx, tx, appt.ShopID, appt.ScheduledAt, end, appt.ID)
		if err != nil {
			return nil, err
		}
		if len(conflicts) > 0 {
			return conflicts, nil
		}
	}

	result, err := tx.Exec(ctx, updateAppointmentQuery,
		appt.ID, appt.ShopID, appt.CustomerID, appt.VehicleID, appt.ScheduledAt,
		appt.Notes, appt.TotalPriceCents, appt.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, apperr.NotFound(appointmentNotFoundMsg)
	}

	if replaceItems {
		if _, err := tx.Exec(ctx, deleteLineItemsQuery, appt.ID); err != nil {
			return nil, fmt.Errorf("failed to clear line items: %w", err)
		}
		for _, item := range items {
			if _, err := tx.Exec(ctx, insertLineItemQuery,
				item.ID, appt.ID, item.ServiceID, item.Quantity, item.PriceCents,
			); err != nil {
				return nil, fmt.Errorf("failed to create line item: %w", err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit appointment update: %w", err)
	}

	return nil, nil
}

const daySlotsQuery = `
	SELECT a.id, a.scheduled_at,
		a.scheduled_at + make_interval(mins => COALESCE(SUM(s.duration_minutes * li.quantity), 0)::int) AS end_time,
		c.first_name || ' ' || c.last_name AS customer_name,
		v.year, v.make, v.model, v.license_plate,
		a.status
	FROM appointments a
	JOIN customers c ON c.id = a.customer_id
	JOIN vehicles v ON v.id = a.vehicle_id
	LEFT JOIN appointment_services li ON li.appointment_id = a.id
	LEFT JOIN services s ON s.id = li.service_id
	WHERE a.shop_id = $1
		AND a.deleted_at IS NULL
		AND a.status NOT IN ('cancelled', 'no_show')
		AND a.scheduled_at >= $2
		AND a.scheduled_at < $3
	GROUP BY a.id, a.scheduled_at, c.first_name, c.last_name, v.year, v.make, v.model, v.license_plate, a.status
	ORDER BY a.scheduled_at ASC`

// ListDay returns all active appointments starting within [dayStart, dayEnd)
// with computed end times, for calendar rendering.
func (r *Repository) ListDay(ctx context.Context, shopID uuid.UUID, dayStart, dayEnd time.Time) ([]DaySlot, error) {
	rows, err := r.pool.Query(ctx, daySlotsQuery, shopID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to list day schedule: %w", err)
	}
	defer rows.Close()

	slots := make([]DaySlot, 0)
	for rows.Next() {
		var (
			slot         DaySlot
			year         int
			mk, model    string
			licensePlate *string
		)
		if err := rows.Scan(&slot.ID, &slot.StartTime, &slot.EndTime, &slot.CustomerName,
			&year, &mk, &model, &licensePlate, &slot.Status); err != nil {
			return nil, fmt.Errorf("failed to scan day slot: %w", err)
		}
		slot.VehicleName = vehicleDisplayName(year, mk, model, licensePlate)
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate day schedule: %w", err)
	}

	return slots, nil
}
