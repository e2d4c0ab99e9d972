package service

import (
	"context"
	"testing"
	"time"

	"github.com/je4550/repair-app/internal/appointments/domain"
	"github.com/je4550/repair-app/internal/appointments/repository"
	"github.com/je4550/repair-app/internal/appointments/transport"
	"github.com/je4550/repair-app/platform/apperr"

	"github.com/google/uuid"
)

// fakeStore records calls and serves canned data, standing in for the
// pgx-backed repository.
type fakeStore struct {
	appointments map[uuid.UUID]*repository.Appointment
	items        map[uuid.UUID][]repository.LineItem
	conflicts    []repository.Conflict

	createCalled     bool
	createdItems     []repository.LineItem
	createdEnd       time.Time
	updateCalled     bool
	updatedItems     []repository.LineItem
	updatedReplace   bool
	updatedCheck     bool
	statusUpdates    []string
	completeCalled   bool
	recalculatedTo   int64
	softDeleteCalled bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		appointments: make(map[uuid.UUID]*repository.Appointment),
		items:        make(map[uuid.UUID][]repository.LineItem),
	}
}

func (f *fakeStore) CreateScheduled(ctx context.Context, appt *repository.Appointment, items []repository.LineItem, end time.Time) ([]repository.Conflict, error) {
	f.createCalled = true
	f.createdItems = items
	f.createdEnd = end
	if len(f.conflicts) > 0 {
		return f.conflicts, nil
	}
	f.appointments[appt.ID] = appt
	f.items[appt.ID] = items
	return nil, nil
}

func (f *fakeStore) UpdateScheduled(ctx context.Context, appt *repository.Appointment, items []repository.LineItem, replaceItems bool, end time.Time, checkConflict bool) ([]repository.Conflict, error) {
	f.updateCalled = true
	f.updatedItems = items
	f.updatedReplace = replaceItems
	f.updatedCheck = checkConflict
	if checkConflict && len(f.conflicts) > 0 {
		return f.conflicts, nil
	}
	f.appointments[appt.ID] = appt
	if replaceItems {
		f.items[appt.ID] = items
	}
	return nil, nil
}

func (f *fakeStore) GetByID(ctx context.Context, id, shopID uuid.UUID) (*repository.Appointment, error) {
	appt, ok := f.appointments[id]
	if !ok || appt.ShopID != shopID {
		return nil, apperr.NotFound("appointment not found")
	}
	copied := *appt
	return &copied, nil
}

func (f *fakeStore) ListItems(ctx context.Context, appointmentID uuid.UUID) ([]repository.LineItem, error) {
	return f.items[appointmentID], nil
}

func (f *fakeStore) List(ctx context.Context, params repository.ListParams) (*repository.ListResult, error) {
	return &repository.ListResult{Page: params.Page, PageSize: params.PageSize}, nil
}

func (f *fakeStore) UpdateStatus(ctx context.Context, id, shopID uuid.UUID, fromStatus, toStatus string) error {
	if f.appointments[id].Status != fromStatus {
		return apperr.Conflict("appointment status changed concurrently")
	}
	f.statusUpdates = append(f.statusUpdates, toStatus)
	f.appointments[id].Status = toStatus
	return nil
}

func (f *fakeStore) CompleteAndRecalculate(ctx context.Context, id, shopID uuid.UUID, fromStatus string) (int64, error) {
	if f.appointments[id].Status != fromStatus {
		return 0, apperr.Conflict("appointment status changed concurrently")
	}
	f.completeCalled = true
	var total int64
	for _, item := range f.items[id] {
		total += item.PriceCents * int64(item.Quantity)
	}
	f.appointments[id].Status = string(domain.StatusCompleted)
	f.appointments[id].TotalPriceCents = total
	f.recalculatedTo = total
	return total, nil
}

func (f *fakeStore) SoftDelete(ctx context.Context, id, shopID uuid.UUID) error {
	f.softDeleteCalled = true
	delete(f.appointments, id)
	return nil
}

func (f *fakeStore) FindConflicts(ctx context.Context, shopID uuid.UUID, start, end time.Time, excludeID uuid.UUID) ([]repository.Conflict, error) {
	return f.conflicts, nil
}

func (f *fakeStore) ListDay(ctx context.Context, shopID uuid.UUID, dayStart, dayEnd time.Time) ([]repository.DaySlot, error) {
	return nil, nil
}

type fakeVehicles struct {
	owners map[uuid.UUID]uuid.UUID
}

func (f *fakeVehicles) GetVehicleOwner(ctx context.Context, vehicleID, shopID uuid.UUID) (uuid.UUID, error) {
	owner, ok := f.owners[vehicleID]
	if !ok {
		return uuid.Nil, apperr.NotFound("vehicle not found")
	}
	return owner, nil
}

type fakeRates struct {
	rates map[uuid.UUID]Rate
}

func (f *fakeRates) GetRates(ctx context.Context, shopID uuid.UUID, serviceIDs []uuid.UUID) (map[uuid.UUID]Rate, error) {
	out := make(map[uuid.UUID]Rate)
	for _, id := range serviceIDs {
		if rate, ok := f.rates[id]; ok {
			out[id] = rate
		}
	}
	return out, nil
}

type fixture struct {
	svc        *Service
	store      *fakeStore
	shopID     uuid.UUID
	customerID uuid.UUID
	vehicleID  uuid.UUID
	oilChange  uuid.UUID
	tireRotate uuid.UUID
}

func newFixture() *fixture {
	f := &fixture{
		store:      newFakeStore(),
		shopID:     uuid.New(),
		customerID: uuid.New(),
		vehicleID:  uuid.New(),
		oilChange:  uuid.New(),
		tireRotate: uuid.New(),
	}

	vehicles := &fakeVehicles{owners: map[uuid.UUID]uuid.UUID{f.vehicleID: f.customerID}}
	rates := &fakeRates{rates: map[uuid.UUID]Rate{
		f.oilChange:  {Name: "Oil Change", PriceCents: 3999, DurationMinutes: 30},
		f.tireRotate: {Name: "Tire Rotation", PriceCents: 2500, DurationMinutes: 20},
	}}

	f.svc = New(f.store, vehicles, rates, nil)
	return f
}

func (f *fixture) createRequest(start time.Time) transport.CreateAppointmentRequest {
	return transport.CreateAppointmentRequest{
		CustomerID:  f.customerID,
		VehicleID:   f.vehicleID,
		ScheduledAt: start,
		Services: []transport.LineItemInput{
			{ServiceID: f.oilChange, Quantity: 1},
			{ServiceID: f.tireRotate, Quantity: 1},
		},
	}
}

func TestCreateComputesTotalAndEndFromLineItems(t *testing.T) {
	f := newFixture()
	start := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

	resp, err := f.svc.Create(context.Background(), f.shopID, f.createRequest(start))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if resp.TotalCents != 6499 {
		t.Errorf("total = %d, want 6499", resp.TotalCents)
	}
	if resp.DurationMinutes != 50 {
		t.Errorf("duration = %d minutes, want 50", resp.DurationMinutes)
	}
	wantEnd := start.Add(50 * time.Minute)
	if !resp.EstimatedEnd.Equal(wantEnd) {
		t.Errorf("estimated end = %v, want %v", resp.EstimatedEnd, wantEnd)
	}
	if resp.Status != string(domain.StatusScheduled) {
		t.Errorf("status = %q, want scheduled", resp.Status)
	}
	if !f.store.createdEnd.Equal(wantEnd) {
		t.Errorf("store received end %v, want %v", f.store.createdEnd, wantEnd)
	}
}

func TestCreateSnapshotsCatalogPriceWithOverride(t *testing.T) {
	f := newFixture()
	override := int64(1000)

	req := f.createRequest(time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC))
	req.Services = []transport.LineItemInput{
		{ServiceID: f.oilChange, Quantity: 2},
		{ServiceID: f.tireRotate, Quantity: 1, PriceCents: &override},
	}

	resp, err := f.svc.Create(context.Background(), f.shopID, req)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	// Catalog price copied for the first item, override kept for the second.
	byService := make(map[uuid.UUID]repository.LineItem)
	for _, item := range f.store.createdItems {
		byService[item.ServiceID] = item
	}
	if got := byService[f.oilChange].PriceCents; got != 3999 {
		t.Errorf("oil change snapshot price = %d, want 3999", got)
	}
	if got := byService[f.tireRotate].PriceCents; got != 1000 {
		t.Errorf("tire rotation override price = %d, want 1000", got)
	}
	if resp.TotalCents != 2*3999+1000 {
		t.Errorf("total = %d, want %d", resp.TotalCents, 2*3999+1000)
	}
}

func TestCreateRejectsVehicleOfOtherCustomer(t *testing.T) {
	f := newFixture()

	req := f.createRequest(time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC))
	req.CustomerID = uuid.New() // not the vehicle's owner

	_, err := f.svc.Create(context.Background(), f.shopID, req)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if f.store.createCalled {
		t.Error("store must not be touched when the ownership invariant fails")
	}
}

func TestCreateRejectsUnknownService(t *testing.T) {
	f := newFixture()

	req := f.createRequest(time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC))
	req.Services = []transport.LineItemInput{{ServiceID: uuid.New(), Quantity: 1}}

	_, err := f.svc.Create(context.Background(), f.shopID, req)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
	if f.store.createCalled {
		t.Error("store must not be touched for an unknown service")
	}
}

func TestCreateSurfacesConflictsAsValidation(t *testing.T) {
	f := newFixture()
	f.store.conflicts = []repository.Conflict{{
		ID:           uuid.New(),
		StartTime:    time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
		EndTime:      time.Date(2025, 6, 2, 11, 0, 0, 0, time.UTC),
		CustomerName: "Jane Doe",
		VehicleName:  "2020 Toyota Camry (ABC123)",
	}}

	_, err := f.svc.Create(context.Background(), f.shopID, f.createRequest(time.Date(2025, 6, 2, 10, 30, 0, 0, time.UTC)))
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	details := err.(*apperr.Error).Details.([]transport.ConflictInfo)
	if len(details) != 1 || details[0].CustomerName != "Jane Doe" {
		t.Errorf("conflict details missing: %+v", details)
	}
}

func TestNotesOnlyUpdateSkipsConflictCheck(t *testing.T) {
	f := newFixture()
	start := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	resp, err := f.svc.Create(context.Background(), f.shopID, f.createRequest(start))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	// A conflicting appointment now exists, but a notes-only edit keeps the
	// original slot and must not be rejected against it.
	f.store.conflicts = []repository.Conflict{{ID: uuid.New(), StartTime: start, EndTime: start.Add(time.Hour)}}

	notes := "customer asked for synthetic oil"
	_, err = f.svc.Update(context.Background(), resp.ID, f.shopID, transport.UpdateAppointmentRequest{Notes: &notes})
	if err != nil {
		t.Fatalf("notes-only update returned error: %v", err)
	}
	if f.store.updatedCheck {
		t.Error("notes-only update must not run the conflict detector")
	}
}

func TestRescheduleRunsConflictCheck(t *testing.T) {
	f := newFixture()
	start := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	resp, err := f.svc.Create(context.Background(), f.shopID, f.createRequest(start))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	newStart := start.Add(2 * time.Hour)
	_, err = f.svc.Update(context.Background(), resp.ID, f.shopID, transport.UpdateAppointmentRequest{ScheduledAt: &newStart})
	if err != nil {
		t.Fatalf("reschedule returned error: %v", err)
	}
	if !f.store.updatedCheck {
		t.Error("moving the schedule must run the conflict detector")
	}

	// Same timestamp again: no schedule change, no conflict check.
	f.store.updatedCheck = false
	_, err = f.svc.Update(context.Background(), resp.ID, f.shopID, transport.UpdateAppointmentRequest{ScheduledAt: &newStart})
	if err != nil {
		t.Fatalf("no-op reschedule returned error: %v", err)
	}
	if f.store.updatedCheck {
		t.Error("an unchanged scheduled time must not re-run the conflict detector")
	}
}

func TestServiceSetReplacementRecomputesTotal(t *testing.T) {
	f := newFixture()
	start := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	resp, err := f.svc.Create(context.Background(), f.shopID, f.createRequest(start))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	newSet := []transport.LineItemInput{{ServiceID: f.oilChange, Quantity: 1}}
	updated, err := f.svc.Update(context.Background(), resp.ID, f.shopID, transport.UpdateAppointmentRequest{Services: &newSet})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if !f.store.updatedReplace {
		t.Error("a new service set must replace the existing line items")
	}
	if updated.TotalCents != 3999 {
		t.Errorf("total after replacement = %d, want 3999", updated.TotalCents)
	}
	if updated.DurationMinutes != 30 {
		t.Errorf("duration after replacement = %d, want 30", updated.DurationMinutes)
	}
}

func TestLifecycleHappyPath(t *testing.T) {
	f := newFixture()
	resp, err := f.svc.Create(context.Background(), f.shopID, f.createRequest(time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	ctx := context.Background()

	if _, err := f.svc.Confirm(ctx, resp.ID, f.shopID); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if _, err := f.svc.Start(ctx, resp.ID, f.shopID); err != nil {
		t.Fatalf("Start: %v", err)
	}
	completed, err := f.svc.Complete(ctx, resp.ID, f.shopID)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if completed.Status != string(domain.StatusCompleted) {
		t.Errorf("status = %q, want completed", completed.Status)
	}
	if !f.store.completeCalled {
		t.Error("complete must recompute the total in the store")
	}
	if completed.TotalCents != 6499 {
		t.Errorf("recomputed total = %d, want 6499", completed.TotalCents)
	}
}

func TestCompleteRequiresInProgress(t *testing.T) {
	f := newFixture()
	resp, err := f.svc.Create(context.Background(), f.shopID, f.createRequest(time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	_, err = f.svc.Complete(context.Background(), resp.ID, f.shopID)
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if f.store.completeCalled {
		t.Error("a rejected transition must not touch the store")
	}

	got, _ := f.store.GetByID(context.Background(), resp.ID, f.shopID)
	if got.Status != string(domain.StatusScheduled) {
		t.Errorf("status = %q, want scheduled (unchanged)", got.Status)
	}
}

func TestCancelledAppointmentRejectsFurtherEvents(t *testing.T) {
	f := newFixture()
	resp, err := f.svc.Create(context.Background(), f.shopID, f.createRequest(time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	ctx := context.Background()

	cancelled, err := f.svc.Cancel(ctx, resp.ID, f.shopID)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if cancelled.Status != string(domain.StatusCancelled) {
		t.Errorf("status = %q, want cancelled", cancelled.Status)
	}

	if _, err := f.svc.Confirm(ctx, resp.ID, f.shopID); !apperr.Is(err, apperr.KindConflict) {
		t.Errorf("confirm after cancel should be a conflict, got %v", err)
	}
}

func TestSlotAvailability(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	result, err := f.svc.CheckAvailability(ctx, f.shopID, transport.AvailabilityRequest{
		Date: "2025-06-02", Time: "10:00", DurationMinutes: 60,
	})
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	avail := result.(*transport.AvailabilityResponse)
	if !avail.Available || len(avail.Conflicts) != 0 {
		t.Errorf("empty calendar should be available, got %+v", avail)
	}

	f.store.conflicts = []repository.Conflict{{ID: uuid.New()}}
	result, err = f.svc.CheckAvailability(ctx, f.shopID, transport.AvailabilityRequest{
		Date: "2025-06-02", Time: "10:00", DurationMinutes: 60,
	})
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	avail = result.(*transport.AvailabilityResponse)
	if avail.Available || len(avail.Conflicts) != 1 {
		t.Errorf("blocked slot should report conflicts, got %+v", avail)
	}
}

func TestAvailabilityRequiresDurationWithTime(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CheckAvailability(context.Background(), f.shopID, transport.AvailabilityRequest{
		Date: "2025-06-02", Time: "10:00",
	})
	if !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("expected bad request, got %v", err)
	}
}

// staleReadStore serves an out-of-date status from GetByID, simulating a
// second transition landing between the read and the write.
type staleReadStore struct {
	*fakeStore
	staleStatus string
}

func (s *staleReadStore) GetByID(ctx context.Context, id, shopID uuid.UUID) (*repository.Appointment, error) {
	appt, err := s.fakeStore.GetByID(ctx, id, shopID)
	if err != nil {
		return nil, err
	}
	appt.Status = s.staleStatus
	return appt, nil
}

func TestRacingCancelCannotOverwriteTerminalStatus(t *testing.T) {
	f := newFixture()
	resp, err := f.svc.Create(context.Background(), f.shopID, f.createRequest(time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	f.store.appointments[resp.ID].Status = string(domain.StatusCompleted)

	// This request read the appointment while it was still scheduled.
	stale := &staleReadStore{fakeStore: f.store, staleStatus: string(domain.StatusScheduled)}
	vehicles := &fakeVehicles{owners: map[uuid.UUID]uuid.UUID{f.vehicleID: f.customerID}}
	svc := New(stale, vehicles, &fakeRates{}, nil)

	_, err = svc.Cancel(context.Background(), resp.ID, f.shopID)
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict for stale transition, got %v", err)
	}

	got, _ := f.store.GetByID(context.Background(), resp.ID, f.shopID)
	if got.Status != string(domain.StatusCompleted) {
		t.Errorf("status = %q, terminal state must survive the race", got.Status)
	}
}

func TestRacingCompleteCannotOverwriteCancellation(t *testing.T) {
	f := newFixture()
	resp, err := f.svc.Create(context.Background(), f.shopID, f.createRequest(time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	f.store.appointments[resp.ID].Status = string(domain.StatusCancelled)

	stale := &staleReadStore{fakeStore: f.store, staleStatus: string(domain.StatusInProgress)}
	vehicles := &fakeVehicles{owners: map[uuid.UUID]uuid.UUID{f.vehicleID: f.customerID}}
	svc := New(stale, vehicles, &fakeRates{}, nil)

	_, err = svc.Complete(context.Background(), resp.ID, f.shopID)
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict for stale completion, got %v", err)
	}
	if f.store.completeCalled {
		t.Error("a lost race must not recompute the total")
	}

	got, _ := f.store.GetByID(context.Background(), resp.ID, f.shopID)
	if got.Status != string(domain.StatusCancelled) {
		t.Errorf("status = %q, cancellation must survive the race", got.Status)
	}
}

func TestOmittedQuantityDefaultsToOne(t *testing.T) {
	f := newFixture()

	req := f.createRequest(time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC))
	req.Services = []transport.LineItemInput{
		{ServiceID: f.oilChange},
		{ServiceID: f.tireRotate, Quantity: 2},
	}

	resp, err := f.svc.Create(context.Background(), f.shopID, req)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	for _, item := range f.store.createdItems {
		if item.ServiceID == f.oilChange && item.Quantity != 1 {
			t.Errorf("omitted quantity = %d, want 1", item.Quantity)
		}
	}
	if resp.TotalCents != 3999+2*2500 {
		t.Errorf("total = %d, want %d", resp.TotalCents, 3999+2*2500)
	}
	if resp.DurationMinutes != 30+2*20 {
		t.Errorf("duration = %d, want %d", resp.DurationMinutes, 30+2*20)
	}
}
