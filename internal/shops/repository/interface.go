package repository

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence operations for shop tenants.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Shop, error)
	SubdomainTaken(ctx context.Context, subdomain string) (bool, error)
	CreateWithAdmin(ctx context.Context, params CreateShopParams) (RegistrationResult, error)
	Update(ctx context.Context, params UpdateShopParams) (Shop, error)
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)
