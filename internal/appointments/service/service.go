package service

import (
	"context"
	"time"

	"github.com/je4550/repair-app/internal/appointments/domain"
	"github.com/je4550/repair-app/internal/appointments/repository"
	"github.com/je4550/repair-app/internal/appointments/transport"
	"github.com/je4550/repair-app/internal/events"
	"github.com/je4550/repair-app/platform/apperr"
	"github.com/je4550/repair-app/platform/sanitize"

	"github.com/google/uuid"
)

// Date/time format and error message constants.
const (
	dateFormat = "2006-01-02"
	timeFormat = "15:04"

	errVehicleOwnership = "vehicle does not belong to the specified customer"
	errScheduleConflict = "scheduled time conflicts with an existing appointment"
	errServiceNotInShop = "service not found"
	errDuplicateService = "duplicate service in request"
)

// Store provides the persistence operations the service needs. Implemented
// by *repository.Repository; the indirection keeps the business rules
// testable without a database.
type Store interface {
	CreateScheduled(ctx context.Context, appt *repository.Appointment, items []repository.LineItem, end time.Time) ([]repository.Conflict, error)
	UpdateScheduled(ctx context.Context, appt *repository.Appointment, items []repository.LineItem, replaceItems bool, end time.Time, checkConflict bool) ([]repository.Conflict, error)
	GetByID(ctx context.Context, id, shopID uuid.UUID) (*repository.Appointment, error)
	ListItems(ctx context.Context, appointmentID uuid.UUID) ([]repository.LineItem, error)
	List(ctx context.Context, params repository.ListParams) (*repository.ListResult, error)
	UpdateStatus(ctx context.Context, id, shopID uuid.UUID, fromStatus, toStatus string) error
	CompleteAndRecalculate(ctx context.Context, id, shopID uuid.UUID, fromStatus string) (int64, error)
	SoftDelete(ctx context.Context, id, shopID uuid.UUID) error
	FindConflicts(ctx context.Context, shopID uuid.UUID, start, end time.Time, excludeID uuid.UUID) ([]repository.Conflict, error)
	ListDay(ctx context.Context, shopID uuid.UUID, dayStart, dayEnd time.Time) ([]repository.DaySlot, error)
}

// VehicleDirectory resolves vehicle ownership for the booking invariant.
type VehicleDirectory interface {
	// GetVehicleOwner returns the customer owning the vehicle, or a
	// not-found error when the vehicle does not exist in the shop.
	GetVehicleOwner(ctx context.Context, vehicleID, shopID uuid.UUID) (uuid.UUID, error)
}

// Rate is the current catalog price and duration for one service.
type Rate struct {
	Name            string
	PriceCents      int64
	DurationMinutes int
}

// RateProvider supplies current catalog rates for defaulting line-item
// snapshots. The appointments module never mutates the catalog.
type RateProvider interface {
	// GetRates returns rates for the requested active services; ids absent
	// from the result do not exist in the shop's catalog.
	GetRates(ctx context.Context, shopID uuid.UUID, serviceIDs []uuid.UUID) (map[uuid.UUID]Rate, error)
}

// Service provides business logic for appointments
type Service struct {
	repo     Store
	vehicles VehicleDirectory
	rates    RateProvider
	eventBus events.Bus
}

// New creates a new appointments service
func New(repo Store, vehicles VehicleDirectory, rates RateProvider, eventBus events.Bus) *Service {
	return &Service{
		repo:     repo,
		vehicles: vehicles,
		rates:    rates,
		eventBus: eventBus,
	}
}

// Create books a new appointment: ownership invariant, line-item snapshot
// pricing, conflict detection and insert all run before anything is visible
// to other requests.
func (s *Service) Create(ctx context.Context, shopID uuid.UUID, req transport.CreateAppointmentRequest) (*transport.AppointmentResponse, error) {
	if err := s.checkVehicleOwnership(ctx, req.VehicleID, req.CustomerID, shopID); err != nil {
		return nil, err
	}

	items, err := s.buildLineItems(ctx, shopID, req.Services)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	domainItems := toDomainItems(items)
	appt := &repository.Appointment{
		ID:              uuid.New(),
		ShopID:          shopID,
		CustomerID:      req.CustomerID,
		VehicleID:       req.VehicleID,
		ScheduledAt:     req.ScheduledAt,
		Status:          string(domain.StatusScheduled),
		Notes:           sanitize.TextPtr(nilIfEmpty(req.Notes)),
		TotalPriceCents: domain.Total(domainItems),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	end := domain.EstimatedEnd(appt.ScheduledAt, domainItems)
	conflicts, err := s.repo.CreateScheduled(ctx, appt, items, end)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, conflictError(conflicts)
	}

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.AppointmentCreated{
			BaseEvent:     events.NewBaseEvent(),
			AppointmentID: appt.ID,
			ShopID:        shopID,
			CustomerID:    appt.CustomerID,
			VehicleID:     appt.VehicleID,
			ScheduledAt:   appt.ScheduledAt,
			EstimatedEnd:  end,
		})
	}

	resp := toResponse(appt, items)
	return &resp, nil
}

// Get retrieves one appointment with its line items.
func (s *Service) Get(ctx context.Context, id, shopID uuid.UUID) (*transport.AppointmentResponse, error) {
	appt, err := s.repo.GetByID(ctx, id, shopID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListItems(ctx, appt.ID)
	if err != nil {
		return nil, err
	}

	resp := toResponse(appt, items)
	return &resp, nil
}

// List retrieves appointments with optional filters and pagination.
func (s *Service) List(ctx context.Context, shopID uuid.UUID, req transport.ListAppointmentsRequest) (*transport.AppointmentListResponse, error) {
	params := repository.ListParams{
		ShopID:     shopID,
		CustomerID: req.CustomerID,
		VehicleID:  req.VehicleID,
		Status:     req.Status,
		Page:       req.Page,
		PageSize:   req.PageSize,
	}

	if req.From != "" {
		from, err := time.Parse(dateFormat, req.From)
		if err != nil {
			return nil, apperr.BadRequest("invalid from date")
		}
		params.From = &from
	}
	if req.To != "" {
		to, err := time.Parse(dateFormat, req.To)
		if err != nil {
			return nil, apperr.BadRequest("invalid to date")
		}
		params.To = &to
	}

	result, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	responses := make([]transport.AppointmentResponse, 0, len(result.Items))
	for i := range result.Items {
		appt := &result.Items[i]
		items, err := s.repo.ListItems(ctx, appt.ID)
		if err != nil {
			return nil, err
		}
		responses = append(responses, toResponse(appt, items))
	}

	return &transport.AppointmentListResponse{
		Items:      responses,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}, nil
}

// Update applies a partial edit. The conflict detector only runs when the
// scheduled time actually changes, so a notes-only edit can never be
// rejected against the appointment's own slot. A non-nil Services set is a
// full replacement: existing line items are destroyed and re-added, losing
// any previous price overrides.
func (s *Service) Update(ctx context.Context, id, shopID uuid.UUID, req transport.UpdateAppointmentRequest) (*transport.AppointmentResponse, error) {
	appt, err := s.repo.GetByID(ctx, id, shopID)
	if err != nil {
		return nil, err
	}

	if req.CustomerID != nil {
		appt.CustomerID = *req.CustomerID
	}
	if req.VehicleID != nil {
		appt.VehicleID = *req.VehicleID
	}
	if req.CustomerID != nil || req.VehicleID != nil {
		if err := s.checkVehicleOwnership(ctx, appt.VehicleID, appt.CustomerID, shopID); err != nil {
			return nil, err
		}
	}

	scheduleChanged := req.ScheduledAt != nil && !req.ScheduledAt.Equal(appt.ScheduledAt)
	if req.ScheduledAt != nil {
		appt.ScheduledAt = *req.ScheduledAt
	}
	if req.Notes != nil {
		appt.Notes = sanitize.TextPtr(nilIfEmpty(*req.Notes))
	}

	var items []repository.LineItem
	replaceItems := req.Services != nil
	if replaceItems {
		items, err = s.buildLineItems(ctx, shopID, *req.Services)
		if err != nil {
			return nil, err
		}
		appt.TotalPriceCents = domain.Total(toDomainItems(items))
	} else {
		items, err = s.repo.ListItems(ctx, appt.ID)
		if err != nil {
			return nil, err
		}
	}

	appt.UpdatedAt = time.Now()
	end := domain.EstimatedEnd(appt.ScheduledAt, toDomainItems(items))

	conflicts, err := s.repo.UpdateScheduled(ctx, appt, items, replaceItems, end, scheduleChanged)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, conflictError(conflicts)
	}

	resp := toResponse(appt, items)
	return &resp, nil
}

// Delete soft-deletes an appointment.
func (s *Service) Delete(ctx context.Context, id, shopID uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id, shopID)
}

// Confirm transitions scheduled → confirmed.
func (s *Service) Confirm(ctx context.Context, id, shopID uuid.UUID) (*transport.AppointmentResponse, error) {
	return s.applyEvent(ctx, id, shopID, domain.EventConfirm, "unable to confirm appointment")
}

// Start transitions scheduled/confirmed → in_progress.
func (s *Service) Start(ctx context.Context, id, shopID uuid.UUID) (*transport.AppointmentResponse, error) {
	return s.applyEvent(ctx, id, shopID, domain.EventStart, "unable to start appointment")
}

// Complete transitions in_progress → completed and recomputes the total
// from the line items in the same statement.
func (s *Service) Complete(ctx context.Context, id, shopID uuid.UUID) (*transport.AppointmentResponse, error) {
	return s.applyEvent(ctx, id, shopID, domain.EventComplete, "unable to complete appointment")
}

// Cancel transitions scheduled/confirmed → cancelled, freeing the slot.
func (s *Service) Cancel(ctx context.Context, id, shopID uuid.UUID) (*transport.AppointmentResponse, error) {
	return s.applyEvent(ctx, id, shopID, domain.EventCancel, "unable to cancel appointment")
}

// MarkNoShow transitions scheduled/confirmed → no_show, freeing the slot.
func (s *Service) MarkNoShow(ctx context.Context, id, shopID uuid.UUID) (*transport.AppointmentResponse, error) {
	return s.applyEvent(ctx, id, shopID, domain.EventMarkNoShow, "unable to mark appointment as no-show")
}

// applyEvent fires a lifecycle event through the transition table. An
// illegal pair leaves the appointment untouched and surfaces as a conflict.
func (s *Service) applyEvent(ctx context.Context, id, shopID uuid.UUID, ev domain.Event, failMsg string) (*transport.AppointmentResponse, error) {
	appt, err := s.repo.GetByID(ctx, id, shopID)
	if err != nil {
		return nil, err
	}

	oldStatus := appt.Status
	next, ok := domain.Transition(domain.Status(appt.Status), ev)
	if !ok {
		return nil, apperr.Conflict(failMsg)
	}

	if ev == domain.EventComplete {
		total, err := s.repo.CompleteAndRecalculate(ctx, id, shopID, oldStatus)
		if err != nil {
			return nil, err
		}
		appt.TotalPriceCents = total
	} else {
		if err := s.repo.UpdateStatus(ctx, id, shopID, oldStatus, string(next)); err != nil {
			return nil, err
		}
	}
	appt.Status = string(next)
	appt.UpdatedAt = time.Now()

	s.publishTransition(ctx, appt, oldStatus)

	items, err := s.repo.ListItems(ctx, appt.ID)
	if err != nil {
		return nil, err
	}

	resp := toResponse(appt, items)
	return &resp, nil
}

func (s *Service) publishTransition(ctx context.Context, appt *repository.Appointment, oldStatus string) {
	if s.eventBus == nil {
		return
	}

	s.eventBus.Publish(ctx, events.AppointmentStatusChanged{
		BaseEvent:     events.NewBaseEvent(),
		AppointmentID: appt.ID,
		ShopID:        appt.ShopID,
		CustomerID:    appt.CustomerID,
		OldStatus:     oldStatus,
		NewStatus:     appt.Status,
	})

	if appt.Status == string(domain.StatusCompleted) {
		s.eventBus.Publish(ctx, events.AppointmentCompleted{
			BaseEvent:     events.NewBaseEvent(),
			AppointmentID: appt.ID,
			ShopID:        appt.ShopID,
			CustomerID:    appt.CustomerID,
			VehicleID:     appt.VehicleID,
			CompletedAt:   time.Now(),
			TotalCents:    appt.TotalPriceCents,
		})
	}
}

// checkVehicleOwnership enforces the invariant that an appointment's vehicle
// belongs to its customer.
func (s *Service) checkVehicleOwnership(ctx context.Context, vehicleID, customerID, shopID uuid.UUID) error {
	owner, err := s.vehicles.GetVehicleOwner(ctx, vehicleID, shopID)
	if err != nil {
		return err
	}
	if owner != customerID {
		return apperr.Validation(errVehicleOwnership)
	}
	return nil
}

// buildLineItems resolves catalog rates for the requested services and
// snapshots prices. A requested price override wins; otherwise the current
// catalog price is copied so later catalog changes never alter this booking.
func (s *Service) buildLineItems(ctx context.Context, shopID uuid.UUID, inputs []transport.LineItemInput) ([]repository.LineItem, error) {
	serviceIDs := make([]uuid.UUID, 0, len(inputs))
	seen := make(map[uuid.UUID]bool, len(inputs))
	for _, input := range inputs {
		if seen[input.ServiceID] {
			return nil, apperr.Validation(errDuplicateService)
		}
		seen[input.ServiceID] = true
		serviceIDs = append(serviceIDs, input.ServiceID)
	}

	rates, err := s.rates.GetRates(ctx, shopID, serviceIDs)
	if err != nil {
		return nil, err
	}

	items := make([]repository.LineItem, 0, len(inputs))
	for _, input := range inputs {
		rate, ok := rates[input.ServiceID]
		if !ok {
			return nil, apperr.NotFound(errServiceNotInShop)
		}

		price := rate.PriceCents
		if input.PriceCents != nil {
			price = *input.PriceCents
		}

		quantity := input.Quantity
		if quantity < 1 {
			quantity = 1
		}

		items = append(items, repository.LineItem{
			ID:              uuid.New(),
			ServiceID:       input.ServiceID,
			ServiceName:     rate.Name,
			Quantity:        quantity,
			PriceCents:      price,
			DurationMinutes: rate.DurationMinutes,
		})
	}

	return items, nil
}

func conflictError(conflicts []repository.Conflict) error {
	return apperr.Validation(errScheduleConflict).WithDetails(toConflictInfos(conflicts))
}

func toConflictInfos(conflicts []repository.Conflict) []transport.ConflictInfo {
	infos := make([]transport.ConflictInfo, 0, len(conflicts))
	for _, c := range conflicts {
		infos = append(infos, transport.ConflictInfo{
			ID:           c.ID,
			StartTime:    c.StartTime,
			EndTime:      c.EndTime,
			CustomerName: c.CustomerName,
			VehicleName:  c.VehicleName,
		})
	}
	return infos
}

func toDomainItems(items []repository.LineItem) []domain.LineItem {
	domainItems := make([]domain.LineItem, 0, len(items))
	for _, item := range items {
		domainItems = append(domainItems, domain.LineItem{
			ServiceID:       item.ServiceID.String(),
			Quantity:        item.Quantity,
			PriceCents:      item.PriceCents,
			DurationMinutes: item.DurationMinutes,
		})
	}
	return domainItems
}

func toResponse(appt *repository.Appointment, items []repository.LineItem) transport.AppointmentResponse {
	domainItems := toDomainItems(items)
	duration := domain.Duration(domainItems)

	lineItems := make([]transport.LineItemResponse, 0, len(items))
	for _, item := range items {
		lineItems = append(lineItems, transport.LineItemResponse{
			ServiceID:       item.ServiceID,
			ServiceName:     item.ServiceName,
			Quantity:        item.Quantity,
			PriceCents:      item.PriceCents,
			DurationMinutes: item.DurationMinutes,
			LineTotalCents:  item.PriceCents * int64(item.Quantity),
		})
	}

	return transport.AppointmentResponse{
		ID:              appt.ID,
		CustomerID:      appt.CustomerID,
		VehicleID:       appt.VehicleID,
		ScheduledAt:     appt.ScheduledAt,
		EstimatedEnd:    appt.ScheduledAt.Add(duration),
		DurationMinutes: int(duration / time.Minute),
		Status:          appt.Status,
		Notes:           appt.Notes,
		TotalCents:      appt.TotalPriceCents,
		Overdue:         domain.Overdue(domain.Status(appt.Status), appt.ScheduledAt, time.Now()),
		Services:        lineItems,
		CreatedAt:       appt.CreatedAt,
		UpdatedAt:       appt.UpdatedAt,
	}
}

func nilIfEmpty(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
