package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/je4550/repair-app/internal/appointments/domain"
	"github.com/je4550/repair-app/internal/reviews/repository"
	"github.com/je4550/repair-app/internal/reviews/transport"
	"github.com/je4550/repair-app/platform/apperr"
	"github.com/je4550/repair-app/platform/logger"
)

type fakeRepo struct {
	reviews map[uuid.UUID]*repository.Review
	targets map[uuid.UUID]repository.ReviewTarget
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		reviews: make(map[uuid.UUID]*repository.Review),
		targets: make(map[uuid.UUID]repository.ReviewTarget),
	}
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateParams) (repository.Review, error) {
	review := repository.Review{
		ID:            uuid.New(),
		ShopID:        params.ShopID,
		CustomerID:    params.CustomerID,
		AppointmentID: params.AppointmentID,
		Rating:        params.Rating,
		Comment:       params.Comment,
		CreatedAt:     time.Now(),
	}
	f.reviews[review.ID] = &review
	return review, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id, shopID uuid.UUID) (repository.Review, error) {
	review, ok := f.reviews[id]
	if !ok || review.ShopID != shopID {
		return repository.Review{}, apperr.NotFound("review not found")
	}
	return *review, nil
}

func (f *fakeRepo) GetReviewTarget(_ context.Context, appointmentID, shopID uuid.UUID) (repository.ReviewTarget, error) {
	_ = shopID
	target, ok := f.targets[appointmentID]
	if !ok {
		return repository.ReviewTarget{}, apperr.NotFound("appointment not found")
	}
	return target, nil
}

func (f *fakeRepo) ExistsForAppointment(_ context.Context, appointmentID, shopID uuid.UUID) (bool, error) {
	for _, review := range f.reviews {
		if review.AppointmentID == appointmentID && review.ShopID == shopID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) List(_ context.Context, params repository.ListParams) ([]repository.Review, int, float64, error) {
	var out []repository.Review
	sum := 0
	for _, review := range f.reviews {
		if review.ShopID != params.ShopID {
			continue
		}
		if params.Rating != nil && review.Rating != *params.Rating {
			continue
		}
		out = append(out, *review)
		sum += review.Rating
	}
	avg := 0.0
	if len(out) > 0 {
		avg = float64(sum) / float64(len(out))
	}
	return out, len(out), avg, nil
}

func (f *fakeRepo) Delete(_ context.Context, id, shopID uuid.UUID) error {
	review, ok := f.reviews[id]
	if !ok || review.ShopID != shopID {
		return apperr.NotFound("review not found")
	}
	delete(f.reviews, id)
	return nil
}

func TestCreateReviewOnCompletedAppointment(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, logger.New("test"))

	shopID := uuid.New()
	customerID := uuid.New()
	appointmentID := uuid.New()
	repo.targets[appointmentID] = repository.ReviewTarget{
		CustomerID: customerID,
		Status:     string(domain.StatusCompleted),
	}

	comment := "Quick and friendly"
	resp, err := svc.Create(context.Background(), shopID, transport.CreateReviewRequest{
		AppointmentID: appointmentID,
		Rating:        5,
		Comment:       &comment,
	})
	if err != nil {
		t.Fatalf("create review failed: %v", err)
	}

	if resp.Rating != 5 {
		t.Fatalf("expected rating 5, got %d", resp.Rating)
	}
	if resp.CustomerID != customerID {
		t.Fatal("review must be bound to the appointment's customer")
	}
}

func TestCreateReviewRejectsUncompletedAppointment(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, logger.New("test"))

	appointmentID := uuid.New()
	repo.targets[appointmentID] = repository.ReviewTarget{
		CustomerID: uuid.New(),
		Status:     string(domain.StatusScheduled),
	}

	_, err := svc.Create(context.Background(), uuid.New(), transport.CreateReviewRequest{
		AppointmentID: appointmentID,
		Rating:        4,
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateReviewRejectsUnknownAppointment(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, logger.New("test"))

	_, err := svc.Create(context.Background(), uuid.New(), transport.CreateReviewRequest{
		AppointmentID: uuid.New(),
		Rating:        4,
	})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateReviewRejectsSecondReview(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, logger.New("test"))

	shopID := uuid.New()
	appointmentID := uuid.New()
	repo.targets[appointmentID] = repository.ReviewTarget{
		CustomerID: uuid.New(),
		Status:     string(domain.StatusCompleted),
	}

	if _, err := svc.Create(context.Background(), shopID, transport.CreateReviewRequest{
		AppointmentID: appointmentID,
		Rating:        5,
	}); err != nil {
		t.Fatalf("first review failed: %v", err)
	}

	_, err := svc.Create(context.Background(), shopID, transport.CreateReviewRequest{
		AppointmentID: appointmentID,
		Rating:        1,
	})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict for duplicate review, got %v", err)
	}
}

func TestListComputesAverage(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, logger.New("test"))

	shopID := uuid.New()
	for _, rating := range []int{5, 4, 3} {
		appointmentID := uuid.New()
		repo.targets[appointmentID] = repository.ReviewTarget{
			CustomerID: uuid.New(),
			Status:     string(domain.StatusCompleted),
		}
		if _, err := svc.Create(context.Background(), shopID, transport.CreateReviewRequest{
			AppointmentID: appointmentID,
			Rating:        rating,
		}); err != nil {
			t.Fatalf("create review failed: %v", err)
		}
	}

	resp, err := svc.List(context.Background(), shopID, transport.ListReviewsRequest{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if resp.Total != 3 {
		t.Fatalf("expected 3 reviews, got %d", resp.Total)
	}
	if resp.AverageRating != 4.0 {
		t.Fatalf("expected average 4.0, got %f", resp.AverageRating)
	}
}
