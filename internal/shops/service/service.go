// Package service provides business logic for shop tenants.
package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/je4550/repair-app/internal/auth/password"
	"github.com/je4550/repair-app/internal/events"
	"github.com/je4550/repair-app/internal/shops/repository"
	"github.com/je4550/repair-app/internal/shops/transport"
	"github.com/je4550/repair-app/platform/apperr"
	"github.com/je4550/repair-app/platform/logger"
	"github.com/je4550/repair-app/platform/phone"
)

var subdomainPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

// Service provides business logic for shops.
type Service struct {
	repo     repository.Repository
	eventBus events.Bus
	log      *logger.Logger
}

// New creates a new shops service.
func New(repo repository.Repository, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, eventBus: eventBus, log: log}
}

// Register creates a shop and its first admin user, then publishes
// ShopCreated so other modules can seed tenant defaults.
func (s *Service) Register(ctx context.Context, req transport.RegisterShopRequest) (transport.ShopResponse, error) {
	subdomain := strings.ToLower(strings.TrimSpace(req.Subdomain))
	if !subdomainPattern.MatchString(subdomain) {
		return transport.ShopResponse{}, apperr.Validation("subdomain may contain only lowercase letters, digits, and hyphens")
	}

	taken, err := s.repo.SubdomainTaken(ctx, subdomain)
	if err != nil {
		return transport.ShopResponse{}, err
	}
	if taken {
		return transport.ShopResponse{}, apperr.Validation("subdomain is already in use")
	}

	passwordHash, err := password.Hash(req.AdminPassword)
	if err != nil {
		return transport.ShopResponse{}, apperr.Wrap(apperr.KindInternal, "failed to hash password", err)
	}

	result, err := s.repo.CreateWithAdmin(ctx, repository.CreateShopParams{
		Name:              req.Name,
		Subdomain:         subdomain,
		Email:             req.Email,
		Phone:             normalizePhone(req.Phone),
		Address:           req.Address,
		AdminFirstName:    req.AdminFirstName,
		AdminLastName:     req.AdminLastName,
		AdminEmail:        req.AdminEmail,
		AdminPasswordHash: passwordHash,
	})
	if err != nil {
		return transport.ShopResponse{}, err
	}

	shop := result.Shop
	s.log.Info("shop registered", "id", shop.ID, "subdomain", shop.Subdomain)

	s.eventBus.Publish(ctx, events.ShopCreated{
		BaseEvent:         events.NewBaseEvent(),
		ShopID:            shop.ID,
		CreatedBy:         result.AdminID,
		DefaultLocationID: result.DefaultLocationID,
	})

	return toResponse(shop), nil
}

// GetProfile returns the authenticated user's shop profile.
func (s *Service) GetProfile(ctx context.Context, shopID uuid.UUID) (transport.ShopResponse, error) {
	shop, err := s.repo.GetByID(ctx, shopID)
	if err != nil {
		return transport.ShopResponse{}, err
	}
	return toResponse(shop), nil
}

// UpdateProfile applies a partial update to the shop profile.
func (s *Service) UpdateProfile(ctx context.Context, shopID uuid.UUID, req transport.UpdateShopRequest) (transport.ShopResponse, error) {
	shop, err := s.repo.Update(ctx, repository.UpdateShopParams{
		ID:      shopID,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   normalizePhone(req.Phone),
		Address: req.Address,
	})
	if err != nil {
		return transport.ShopResponse{}, err
	}

	s.log.Info("shop profile updated", "id", shopID)
	return toResponse(shop), nil
}

func normalizePhone(input *string) *string {
	if input == nil {
		return nil
	}
	normalized := phone.NormalizeE164(*input)
	return &normalized
}

func toResponse(shop repository.Shop) transport.ShopResponse {
	return transport.ShopResponse{
		ID:        shop.ID,
		Name:      shop.Name,
		Subdomain: shop.Subdomain,
		Email:     shop.Email,
		Phone:     shop.Phone,
		Address:   shop.Address,
		CreatedAt: shop.CreatedAt.Format(time.RFC3339),
		UpdatedAt: shop.UpdatedAt.Format(time.RFC3339),
	}
}
