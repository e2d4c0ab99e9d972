// Package repository provides PostgreSQL persistence for users and
// refresh tokens.
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

const userNotFoundMessage = "user not found"

// User is the persistence model for a staff user.
type User struct {
	ID           uuid.UUID
	ShopID       uuid.UUID
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Roles        []string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

const userColumns = `u.id, u.shop_id, u.email, u.password_hash, u.first_name, u.last_name, u.roles, u.is_active, u.created_at, u.updated_at`

// getUserBySubdomainEmailQuery resolves a user through the shop subdomain,
// keeping credential checks tenant-scoped.
const getUserBySubdomainEmailQuery = `
	SELECT ` + userColumns + `
	FROM users u
	JOIN shops s ON s.id = u.shop_id
	WHERE s.subdomain = $1 AND lower(u.email) = lower($2) AND u.is_active = true AND s.deleted_at IS NULL`

const getUserByIDQuery = `
	SELECT ` + userColumns + `
	FROM users u
	WHERE u.id = $1 AND u.shop_id = $2 AND u.is_active = true`

const createRefreshTokenQuery = `
	INSERT INTO refresh_tokens (user_id, token_hash, expires_at)
	VALUES ($1, $2, $3)`

const getRefreshTokenQuery = `
	SELECT user_id, expires_at
	FROM refresh_tokens
	WHERE token_hash = $1 AND revoked_at IS NULL`

const revokeRefreshTokenQuery = `
	UPDATE refresh_tokens SET revoked_at = now()
	WHERE token_hash = $1 AND revoked_at IS NULL`

const revokeAllRefreshTokensQuery = `
	UPDATE refresh_tokens SET revoked_at = now()
	WHERE user_id = $1 AND revoked_at IS NULL`

// Repository implements auth persistence with PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new auth repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetUserBySubdomainEmail finds an active user by shop subdomain and email.
func (r *Repository) GetUserBySubdomainEmail(ctx context.Context, subdomain, email string) (User, error) {
	return r.scanUser(r.pool.QueryRow(ctx, getUserBySubdomainEmailQuery, subdomain, email))
}

// GetUserByID finds an active user by ID within the shop.
func (r *Repository) GetUserByID(ctx context.Context, id, shopID uuid.UUID) (User, error) {
	return r.scanUser(r.pool.QueryRow(ctx, getUserByIDQuery, id, shopID))
}

// CreateRefreshToken stores a hashed refresh token.
func (r *Repository) CreateRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	if _, err := r.pool.Exec(ctx, createRefreshTokenQuery, userID, tokenHash, expiresAt); err != nil {
		return fmt.Errorf("create refresh token: %w", err)
	}
	return nil
}

// GetRefreshToken looks up an unrevoked refresh token by hash.
func (r *Repository) GetRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, time.Time, error) {
	var userID uuid.UUID
	var expiresAt time.Time
	err := r.pool.QueryRow(ctx, getRefreshTokenQuery, tokenHash).Scan(&userID, &expiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, time.Time{}, apperr.Unauthorized("invalid refresh token")
		}
		return uuid.Nil, time.Time{}, fmt.Errorf("get refresh token: %w", err)
	}
	return userID, expiresAt, nil
}

// RevokeRefreshToken marks a refresh token revoked.
func (r *Repository) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	if _, err := r.pool.Exec(ctx, revokeRefreshTokenQuery, tokenHash); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// RevokeAllRefreshTokens revokes every live refresh token for a user.
func (r *Repository) RevokeAllRefreshTokens(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, revokeAllRefreshTokensQuery, userID); err != nil {
		return fmt.Errorf("revoke all refresh tokens: %w", err)
	}
	return nil
}

// GetUserShopAndRoles returns the tenant and roles for a user, used when
// reissuing tokens from a refresh grant.
func (r *Repository) GetUserShopAndRoles(ctx context.Context, userID uuid.UUID) (uuid.UUID, []string, error) {
	var shopID uuid.UUID
	var roles []string
	err := r.pool.QueryRow(ctx,
		`SELECT shop_id, roles FROM users WHERE id = $1 AND is_active = true`, userID,
	).Scan(&shopID, &roles)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, nil, apperr.NotFound(userNotFoundMessage)
		}
		return uuid.Nil, nil, fmt.Errorf("get user shop and roles: %w", err)
	}
	return shopID, roles, nil
}

func (r *Repository) scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.ShopID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.Roles, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, apperr.NotFound(userNotFoundMessage)
		}
		return User{}, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}
