package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/je4550/repair-app/internal/catalog/repository"
	"github.com/je4550/repair-app/internal/catalog/transport"
	"github.com/je4550/repair-app/platform/apperr"
	"github.com/je4550/repair-app/platform/logger"
)

type fakeRepo struct {
	services map[uuid.UUID]repository.CatalogService
	refs     map[uuid.UUID]bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		services: make(map[uuid.UUID]repository.CatalogService),
		refs:     make(map[uuid.UUID]bool),
	}
}

func (f *fakeRepo) GetByID(_ context.Context, id, shopID uuid.UUID) (repository.CatalogService, error) {
	cs, ok := f.services[id]
	if !ok || cs.ShopID != shopID {
		return repository.CatalogService{}, apperr.NotFound("service not found")
	}
	return cs, nil
}

func (f *fakeRepo) List(_ context.Context, params repository.ListParams) ([]repository.CatalogService, int, error) {
	var items []repository.CatalogService
	for _, cs := range f.services {
		if cs.ShopID != params.ShopID {
			continue
		}
		if params.LocationID != nil && cs.LocationID != *params.LocationID {
			continue
		}
		if params.IsActive != nil && cs.IsActive != *params.IsActive {
			continue
		}
		if params.Search != "" && !strings.Contains(strings.ToLower(cs.Name), strings.ToLower(params.Search)) {
			continue
		}
		items = append(items, cs)
	}
	return items, len(items), nil
}

func (f *fakeRepo) NameTaken(_ context.Context, locationID uuid.UUID, name string, excludeID uuid.UUID) (bool, error) {
	for _, cs := range f.services {
		if cs.LocationID == locationID && strings.EqualFold(cs.Name, name) && cs.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateParams) (repository.CatalogService, error) {
	cs := repository.CatalogService{
		ID:              uuid.New(),
		ShopID:          params.ShopID,
		LocationID:      params.LocationID,
		Name:            params.Name,
		Description:     params.Description,
		PriceCents:      params.PriceCents,
		DurationMinutes: params.DurationMinutes,
		IsActive:        true,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	f.services[cs.ID] = cs
	return cs, nil
}

func (f *fakeRepo) Update(_ context.Context, params repository.UpdateParams) (repository.CatalogService, error) {
	cs, ok := f.services[params.ID]
	if !ok || cs.ShopID != params.ShopID {
		return repository.CatalogService{}, apperr.NotFound("service not found")
	}
	if params.Name != nil {
		cs.Name = *params.Name
	}
	if params.Description != nil {
		cs.Description = params.Description
	}
	if params.PriceCents != nil {
		cs.PriceCents = *params.PriceCents
	}
	if params.DurationMinutes != nil {
		cs.DurationMinutes = *params.DurationMinutes
	}
	if params.IsActive != nil {
		cs.IsActive = *params.IsActive
	}
	f.services[params.ID] = cs
	return cs, nil
}

func (f *fakeRepo) HasLineItems(_ context.Context, id, _ uuid.UUID) (bool, error) {
	return f.refs[id], nil
}

func (f *fakeRepo) SoftDelete(_ context.Context, id, shopID uuid.UUID) error {
	cs, ok := f.services[id]
	if !ok || cs.ShopID != shopID {
		return apperr.NotFound("service not found")
	}
	cs.IsActive = false
	f.services[id] = cs
	return nil
}

func (f *fakeRepo) HardDelete(_ context.Context, id, shopID uuid.UUID) error {
	cs, ok := f.services[id]
	if !ok || cs.ShopID != shopID {
		return apperr.NotFound("service not found")
	}
	delete(f.services, id)
	return nil
}

func (f *fakeRepo) GetRates(_ context.Context, shopID uuid.UUID, serviceIDs []uuid.UUID) (map[uuid.UUID]repository.Rate, error) {
	rates := make(map[uuid.UUID]repository.Rate)
	for _, id := range serviceIDs {
		cs, ok := f.services[id]
		if !ok || cs.ShopID != shopID || !cs.IsActive {
			continue
		}
		rates[id] = repository.Rate{
			ID:              cs.ID,
			Name:            cs.Name,
			PriceCents:      cs.PriceCents,
			DurationMinutes: cs.DurationMinutes,
		}
	}
	return rates, nil
}

// fakeLocations maps location IDs to their owning shop.
type fakeLocations struct {
	owners map[uuid.UUID]uuid.UUID
}

func (f *fakeLocations) LocationExists(_ context.Context, id, shopID uuid.UUID) (bool, error) {
	owner, ok := f.owners[id]
	return ok && owner == shopID, nil
}

type fixture struct {
	svc        *Service
	repo       *fakeRepo
	locations  *fakeLocations
	shopID     uuid.UUID
	locationID uuid.UUID
}

func newFixture() *fixture {
	f := &fixture{
		repo:       newFakeRepo(),
		shopID:     uuid.New(),
		locationID: uuid.New(),
	}
	f.locations = &fakeLocations{owners: map[uuid.UUID]uuid.UUID{f.locationID: f.shopID}}
	f.svc = New(f.repo, f.locations, logger.New("test"))
	return f
}

// addLocation registers another location for the given shop.
func (f *fixture) addLocation(shopID uuid.UUID) uuid.UUID {
	id := uuid.New()
	f.locations.owners[id] = shopID
	return id
}

func createRequest(locationID uuid.UUID, name string, price int64, minutes int) transport.CreateServiceRequest {
	return transport.CreateServiceRequest{
		LocationID: locationID, Name: name, PriceCents: price, DurationMinutes: minutes,
	}
}

func TestCreateRejectsDuplicateNameCaseInsensitive(t *testing.T) {
	f := newFixture()

	if _, err := f.svc.Create(context.Background(), f.shopID, createRequest(f.locationID, "Oil Change", 3999, 30)); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	_, err := f.svc.Create(context.Background(), f.shopID, createRequest(f.locationID, "oil change", 2999, 30))
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for duplicate name, got %v", err)
	}
}

func TestCreateAllowsSameNameAtDifferentLocations(t *testing.T) {
	f := newFixture()
	second := f.addLocation(f.shopID)

	if _, err := f.svc.Create(context.Background(), f.shopID, createRequest(f.locationID, "Oil Change", 3999, 30)); err != nil {
		t.Fatalf("create at first location failed: %v", err)
	}
	if _, err := f.svc.Create(context.Background(), f.shopID, createRequest(second, "Oil Change", 4999, 45)); err != nil {
		t.Fatalf("same name at a different location should be allowed, got %v", err)
	}
}

func TestCreateRejectsForeignLocation(t *testing.T) {
	f := newFixture()
	otherShops := f.addLocation(uuid.New())

	_, err := f.svc.Create(context.Background(), f.shopID, createRequest(otherShops, "Oil Change", 3999, 30))
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found for another shop's location, got %v", err)
	}
}

func TestUpdateAllowsKeepingOwnName(t *testing.T) {
	f := newFixture()

	created, err := f.svc.Create(context.Background(), f.shopID, createRequest(f.locationID, "Brake Inspection", 0, 15))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	name := "Brake Inspection"
	price := int64(1500)
	updated, err := f.svc.Update(context.Background(), created.ID, f.shopID, transport.UpdateServiceRequest{
		Name: &name, PriceCents: &price,
	})
	if err != nil {
		t.Fatalf("update with unchanged name should succeed, got %v", err)
	}
	if updated.PriceCents != 1500 {
		t.Fatalf("expected updated price 1500, got %d", updated.PriceCents)
	}
}

func TestUpdateRejectsNameTakenAtOwnLocation(t *testing.T) {
	f := newFixture()

	if _, err := f.svc.Create(context.Background(), f.shopID, createRequest(f.locationID, "Oil Change", 3999, 30)); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	created, err := f.svc.Create(context.Background(), f.shopID, createRequest(f.locationID, "Tire Rotation", 2500, 20))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	name := "Oil Change"
	_, err = f.svc.Update(context.Background(), created.ID, f.shopID, transport.UpdateServiceRequest{Name: &name})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for rename onto a taken name, got %v", err)
	}
}

func TestDeleteSoftDeletesWhenReferenced(t *testing.T) {
	f := newFixture()

	created, err := f.svc.Create(context.Background(), f.shopID, createRequest(f.locationID, "Tire Rotation", 2500, 20))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	f.repo.refs[created.ID] = true

	result, err := f.svc.Delete(context.Background(), created.ID, f.shopID)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if result.Status != "deactivated" {
		t.Fatalf("expected deactivated status, got %q", result.Status)
	}
	if _, ok := f.repo.services[created.ID]; !ok {
		t.Fatal("referenced service must not be hard-deleted")
	}
	if f.repo.services[created.ID].IsActive {
		t.Fatal("referenced service must be deactivated on delete")
	}
}

func TestDeleteHardDeletesWhenUnreferenced(t *testing.T) {
	f := newFixture()

	created, err := f.svc.Create(context.Background(), f.shopID, createRequest(f.locationID, "Battery Test", 0, 10))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	result, err := f.svc.Delete(context.Background(), created.ID, f.shopID)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if result.Status != "deleted" {
		t.Fatalf("expected deleted status, got %q", result.Status)
	}
	if _, ok := f.repo.services[created.ID]; ok {
		t.Fatal("unreferenced service must be removed")
	}
}

func TestSeedDefaultsCreatesStarterCatalog(t *testing.T) {
	f := newFixture()

	if err := f.svc.SeedDefaults(context.Background(), f.shopID, f.locationID); err != nil {
		t.Fatalf("seed defaults failed: %v", err)
	}

	expected := map[string]struct {
		price    int64
		duration int
	}{
		"Oil Change":             {3999, 30},
		"Tire Rotation":          {2500, 20},
		"Brake Inspection":       {0, 15},
		"Battery Test":           {0, 10},
		"Multi-Point Inspection": {0, 30},
	}

	if len(f.repo.services) != len(expected) {
		t.Fatalf("expected %d seeded services, got %d", len(expected), len(f.repo.services))
	}
	for _, cs := range f.repo.services {
		want, ok := expected[cs.Name]
		if !ok {
			t.Fatalf("unexpected seeded service %q", cs.Name)
		}
		if cs.PriceCents != want.price || cs.DurationMinutes != want.duration {
			t.Fatalf("seeded %q with %d/%dm, want %d/%dm", cs.Name, cs.PriceCents, cs.DurationMinutes, want.price, want.duration)
		}
		if cs.LocationID != f.locationID {
			t.Fatalf("seeded service %q at location %s, want %s", cs.Name, cs.LocationID, f.locationID)
		}
		if !cs.IsActive {
			t.Fatalf("seeded service %q should be active", cs.Name)
		}
	}
}

func TestSeedDefaultsIsIdempotent(t *testing.T) {
	f := newFixture()

	if err := f.svc.SeedDefaults(context.Background(), f.shopID, f.locationID); err != nil {
		t.Fatalf("first seed failed: %v", err)
	}
	if err := f.svc.SeedDefaults(context.Background(), f.shopID, f.locationID); err != nil {
		t.Fatalf("second seed failed: %v", err)
	}
	if len(f.repo.services) != len(defaultCatalog) {
		t.Fatalf("expected %d services after double seed, got %d", len(defaultCatalog), len(f.repo.services))
	}
}

func TestGetRatesSkipsInactiveServices(t *testing.T) {
	f := newFixture()

	active, _ := f.svc.Create(context.Background(), f.shopID, createRequest(f.locationID, "Oil Change", 3999, 30))
	inactive, _ := f.svc.Create(context.Background(), f.shopID, createRequest(f.locationID, "Tire Rotation", 2500, 20))
	off := false
	if _, err := f.svc.Update(context.Background(), inactive.ID, f.shopID, transport.UpdateServiceRequest{IsActive: &off}); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}

	rates, err := f.svc.GetRates(context.Background(), f.shopID, []uuid.UUID{active.ID, inactive.ID})
	if err != nil {
		t.Fatalf("get rates failed: %v", err)
	}
	if _, ok := rates[active.ID]; !ok {
		t.Fatal("active service missing from rates")
	}
	if _, ok := rates[inactive.ID]; ok {
		t.Fatal("inactive service must not be rateable")
	}
}
