package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/je4550/repair-app/internal/events"
	"github.com/je4550/repair-app/internal/reminders/repository"
	"github.com/je4550/repair-app/internal/scheduler"
	"github.com/je4550/repair-app/platform/apperr"
	"github.com/je4550/repair-app/platform/logger"
)

type fakeRepo struct {
	reminders map[uuid.UUID]*repository.Reminder
	delivery  map[uuid.UUID]repository.DeliveryInfo
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		reminders: make(map[uuid.UUID]*repository.Reminder),
		delivery:  make(map[uuid.UUID]repository.DeliveryInfo),
	}
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateParams) (repository.Reminder, error) {
	rem := repository.Reminder{
		ID:            uuid.New(),
		ShopID:        params.ShopID,
		CustomerID:    params.CustomerID,
		VehicleID:     params.VehicleID,
		AppointmentID: params.AppointmentID,
		ScheduledDate: params.ScheduledDate,
		Status:        repository.StatusPending,
		CreatedAt:     time.Now(),
	}
	f.reminders[rem.ID] = &rem
	return rem, nil
}

func (f *fakeRepo) List(_ context.Context, params repository.ListParams) ([]repository.Reminder, int, error) {
	var out []repository.Reminder
	for _, rem := range f.reminders {
		if rem.ShopID != params.ShopID {
			continue
		}
		if params.Status != nil && rem.Status != *params.Status {
			continue
		}
		out = append(out, *rem)
	}
	return out, len(out), nil
}

func (f *fakeRepo) GetDeliveryInfo(_ context.Context, id, shopID uuid.UUID) (repository.DeliveryInfo, error) {
	rem, ok := f.reminders[id]
	if !ok || rem.ShopID != shopID {
		return repository.DeliveryInfo{}, apperr.NotFound("reminder not found")
	}
	info := f.delivery[id]
	info.Status = rem.Status
	return info, nil
}

func (f *fakeRepo) MarkSent(_ context.Context, id, shopID uuid.UUID) (bool, error) {
	rem, ok := f.reminders[id]
	if !ok || rem.ShopID != shopID || rem.Status != repository.StatusPending {
		return false, nil
	}
	now := time.Now()
	rem.Status = repository.StatusSent
	rem.SentAt = &now
	return true, nil
}

type fakeScheduler struct {
	payloads []scheduler.ServiceReminderPayload
	runAts   []time.Time
}

func (f *fakeScheduler) ScheduleServiceReminder(_ context.Context, payload scheduler.ServiceReminderPayload, runAt time.Time) error {
	f.payloads = append(f.payloads, payload)
	f.runAts = append(f.runAts, runAt)
	return nil
}

type fakeSender struct {
	reminderEmails []string
}

func (f *fakeSender) SendMessage(context.Context, string, string, string) error { return nil }

func (f *fakeSender) SendServiceReminder(_ context.Context, toEmail, _, _, _ string) error {
	f.reminderEmails = append(f.reminderEmails, toEmail)
	return nil
}

func completedEvent() events.AppointmentCompleted {
	return events.AppointmentCompleted{
		BaseEvent:     events.NewBaseEvent(),
		AppointmentID: uuid.New(),
		ShopID:        uuid.New(),
		CustomerID:    uuid.New(),
		VehicleID:     uuid.New(),
		CompletedAt:   time.Date(2026, 3, 15, 16, 30, 0, 0, time.UTC),
		TotalCents:    12500,
	}
}

func TestHandleAppointmentCompletedSchedulesThreeMonthsOut(t *testing.T) {
	repo := newFakeRepo()
	sched := &fakeScheduler{}
	svc := New(repo, sched, &fakeSender{}, logger.New("test"))

	e := completedEvent()
	if err := svc.HandleAppointmentCompleted(context.Background(), e); err != nil {
		t.Fatalf("handle completed event failed: %v", err)
	}

	if len(repo.reminders) != 1 {
		t.Fatalf("expected 1 reminder, got %d", len(repo.reminders))
	}
	for _, rem := range repo.reminders {
		want := time.Date(2026, 6, 15, 16, 30, 0, 0, time.UTC)
		if !rem.ScheduledDate.Equal(want) {
			t.Fatalf("expected scheduled date %v, got %v", want, rem.ScheduledDate)
		}
		if rem.Status != repository.StatusPending {
			t.Fatalf("expected pending status, got %s", rem.Status)
		}
		if rem.AppointmentID != e.AppointmentID {
			t.Fatal("reminder not linked to completed appointment")
		}
	}

	if len(sched.payloads) != 1 {
		t.Fatalf("expected 1 scheduled task, got %d", len(sched.payloads))
	}
	if !sched.runAts[0].Equal(time.Date(2026, 6, 15, 16, 30, 0, 0, time.UTC)) {
		t.Fatalf("task scheduled at wrong time: %v", sched.runAts[0])
	}
	if sched.payloads[0].ShopID != e.ShopID.String() {
		t.Fatal("task payload carries wrong shop")
	}
}

func TestHandleAppointmentCompletedWithoutScheduler(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, nil, &fakeSender{}, logger.New("test"))

	if err := svc.HandleAppointmentCompleted(context.Background(), completedEvent()); err != nil {
		t.Fatalf("handle completed event failed: %v", err)
	}
	if len(repo.reminders) != 1 {
		t.Fatal("reminder must be recorded even without a queue")
	}
}

func TestProcessDueSendsAndMarksSent(t *testing.T) {
	repo := newFakeRepo()
	sender := &fakeSender{}
	svc := New(repo, nil, sender, logger.New("test"))

	shopID := uuid.New()
	rem, _ := repo.Create(context.Background(), repository.CreateParams{
		ShopID:        shopID,
		CustomerID:    uuid.New(),
		VehicleID:     uuid.New(),
		AppointmentID: uuid.New(),
		ScheduledDate: time.Now(),
	})
	email := "jane@example.com"
	repo.delivery[rem.ID] = repository.DeliveryInfo{
		CustomerName:  "Jane Doe",
		CustomerEmail: &email,
		VehicleName:   "2020 Toyota Camry",
		ShopName:      "Midtown Auto",
	}

	if err := svc.ProcessDue(context.Background(), rem.ID, shopID); err != nil {
		t.Fatalf("process due failed: %v", err)
	}

	if len(sender.reminderEmails) != 1 || sender.reminderEmails[0] != email {
		t.Fatalf("expected reminder email to %s, got %v", email, sender.reminderEmails)
	}
	if repo.reminders[rem.ID].Status != repository.StatusSent {
		t.Fatal("reminder not marked sent")
	}

	// Redelivery of the same task must not send a second email.
	if err := svc.ProcessDue(context.Background(), rem.ID, shopID); err != nil {
		t.Fatalf("second process due failed: %v", err)
	}
	if len(sender.reminderEmails) != 1 {
		t.Fatalf("expected 1 email after redelivery, got %d", len(sender.reminderEmails))
	}
}

func TestProcessDueSkipsCustomerWithoutEmail(t *testing.T) {
	repo := newFakeRepo()
	sender := &fakeSender{}
	svc := New(repo, nil, sender, logger.New("test"))

	shopID := uuid.New()
	rem, _ := repo.Create(context.Background(), repository.CreateParams{
		ShopID:        shopID,
		CustomerID:    uuid.New(),
		VehicleID:     uuid.New(),
		AppointmentID: uuid.New(),
		ScheduledDate: time.Now(),
	})
	repo.delivery[rem.ID] = repository.DeliveryInfo{
		CustomerName: "Jane Doe",
		VehicleName:  "2020 Toyota Camry",
		ShopName:     "Midtown Auto",
	}

	if err := svc.ProcessDue(context.Background(), rem.ID, shopID); err != nil {
		t.Fatalf("process due failed: %v", err)
	}
	if len(sender.reminderEmails) != 0 {
		t.Fatal("no email expected for customer without address")
	}
	if repo.reminders[rem.ID].Status != repository.StatusSent {
		t.Fatal("reminder without recipient must still be closed out")
	}
}

func TestProcessDueWrongShopRejected(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, nil, &fakeSender{}, logger.New("test"))

	rem, _ := repo.Create(context.Background(), repository.CreateParams{
		ShopID:        uuid.New(),
		CustomerID:    uuid.New(),
		VehicleID:     uuid.New(),
		AppointmentID: uuid.New(),
		ScheduledDate: time.Now(),
	})

	err := svc.ProcessDue(context.Background(), rem.ID, uuid.New())
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found for wrong shop, got %v", err)
	}
}
