package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/je4550/repair-app/internal/events"
	"github.com/je4550/repair-app/internal/shops/repository"
	"github.com/je4550/repair-app/internal/shops/transport"
	"github.com/je4550/repair-app/platform/apperr"
	"github.com/je4550/repair-app/platform/logger"
)

type fakeRepo struct {
	shops map[uuid.UUID]repository.Shop
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{shops: make(map[uuid.UUID]repository.Shop)}
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Shop, error) {
	s, ok := f.shops[id]
	if !ok {
		return repository.Shop{}, apperr.NotFound("shop not found")
	}
	return s, nil
}

func (f *fakeRepo) SubdomainTaken(_ context.Context, subdomain string) (bool, error) {
	for _, s := range f.shops {
		if s.Subdomain == subdomain {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) CreateWithAdmin(_ context.Context, params repository.CreateShopParams) (repository.RegistrationResult, error) {
	s := repository.Shop{
		ID:        uuid.New(),
		Name:      params.Name,
		Subdomain: params.Subdomain,
		Email:     params.Email,
		Phone:     params.Phone,
		Address:   params.Address,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	f.shops[s.ID] = s
	return repository.RegistrationResult{
		Shop:              s,
		AdminID:           uuid.New(),
		DefaultLocationID: uuid.New(),
	}, nil
}

func (f *fakeRepo) Update(_ context.Context, params repository.UpdateShopParams) (repository.Shop, error) {
	s, ok := f.shops[params.ID]
	if !ok {
		return repository.Shop{}, apperr.NotFound("shop not found")
	}
	if params.Name != nil {
		s.Name = *params.Name
	}
	f.shops[params.ID] = s
	return s, nil
}

type capturingHandler struct {
	events []events.Event
}

func (h *capturingHandler) Handle(_ context.Context, event events.Event) error {
	h.events = append(h.events, event)
	return nil
}

func registerRequest(subdomain string) transport.RegisterShopRequest {
	return transport.RegisterShopRequest{
		Name:           "Midtown Auto",
		Subdomain:      subdomain,
		AdminFirstName: "Pat",
		AdminLastName:  "Ortiz",
		AdminEmail:     "owner@example.com",
		AdminPassword:  "super-secret-pw",
	}
}

func TestRegisterPublishesShopCreated(t *testing.T) {
	repo := newFakeRepo()
	bus := events.NewInMemoryBus(logger.New("test"))
	captured := &capturingHandler{}
	bus.Subscribe(events.ShopCreated{}.EventName(), captured)
	svc := New(repo, bus, logger.New("test"))

	created, err := svc.Register(context.Background(), registerRequest("midtown"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// The bus delivers asynchronously; poll briefly for the event.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && len(captured.events) == 0 {
		time.Sleep(10 * time.Millisecond)
	}
	if len(captured.events) != 1 {
		t.Fatalf("expected 1 ShopCreated event, got %d", len(captured.events))
	}
	evt, ok := captured.events[0].(events.ShopCreated)
	if !ok {
		t.Fatalf("unexpected event type %T", captured.events[0])
	}
	if evt.ShopID != created.ID {
		t.Fatalf("event shop %s does not match created shop %s", evt.ShopID, created.ID)
	}
	if evt.DefaultLocationID == uuid.Nil {
		t.Fatal("event must carry the default location for seeding")
	}
}

func TestRegisterRejectsDuplicateSubdomain(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, events.NewInMemoryBus(logger.New("test")), logger.New("test"))

	if _, err := svc.Register(context.Background(), registerRequest("midtown")); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), registerRequest("midtown")); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for duplicate subdomain, got %v", err)
	}
}

func TestRegisterValidatesSubdomainFormat(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, events.NewInMemoryBus(logger.New("test")), logger.New("test"))

	for _, bad := range []string{"Mid_town", "has space", "-leading", "trailing-"} {
		if _, err := svc.Register(context.Background(), registerRequest(bad)); !apperr.Is(err, apperr.KindValidation) {
			t.Fatalf("expected validation error for subdomain %q, got %v", bad, err)
		}
	}
}

func TestRegisterLowercasesSubdomain(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, events.NewInMemoryBus(logger.New("test")), logger.New("test"))

	created, err := svc.Register(context.Background(), registerRequest("MIDTOWN"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if created.Subdomain != "midtown" {
		t.Fatalf("expected lowercased subdomain, got %q", created.Subdomain)
	}
}
