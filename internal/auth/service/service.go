// Package service provides authentication business logic: credential
// checks, JWT issuance, and refresh token rotation.
package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/je4550/repair-app/internal/auth/password"
	"github.com/je4550/repair-app/internal/auth/repository"
	"github.com/je4550/repair-app/internal/auth/token"
	"github.com/je4550/repair-app/internal/auth/transport"
	"github.com/je4550/repair-app/platform/apperr"
	"github.com/je4550/repair-app/platform/config"
	"github.com/je4550/repair-app/platform/logger"
)

const (
	accessTokenType = "access"

	errInvalidCredentials = "invalid credentials"
)

// Store is the persistence surface the auth service depends on.
type Store interface {
	GetUserBySubdomainEmail(ctx context.Context, subdomain, email string) (repository.User, error)
	GetUserByID(ctx context.Context, id, shopID uuid.UUID) (repository.User, error)
	CreateRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, time.Time, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllRefreshTokens(ctx context.Context, userID uuid.UUID) error
	GetUserShopAndRoles(ctx context.Context, userID uuid.UUID) (uuid.UUID, []string, error)
}

// Service provides authentication business logic.
type Service struct {
	repo Store
	cfg  config.AuthServiceConfig
	log  *logger.Logger
}

// New creates a new auth service.
func New(repo Store, cfg config.AuthServiceConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, log: log}
}

// Login checks credentials within the shop named by subdomain and issues
// a token pair. Lookup failures and bad passwords are indistinguishable
// to the caller.
func (s *Service) Login(ctx context.Context, req transport.LoginRequest) (transport.TokenResponse, error) {
	user, err := s.repo.GetUserBySubdomainEmail(ctx, req.Subdomain, req.Email)
	if err != nil {
		s.log.AuthEvent("login", req.Email, false, "user lookup failed")
		return transport.TokenResponse{}, apperr.Unauthorized(errInvalidCredentials)
	}

	if err := password.Compare(user.PasswordHash, req.Password); err != nil {
		s.log.AuthEvent("login", req.Email, false, "password mismatch")
		return transport.TokenResponse{}, apperr.Unauthorized(errInvalidCredentials)
	}

	s.log.AuthEvent("login", req.Email, true, "")
	return s.issueTokens(ctx, user.ID, user.ShopID, user.Roles)
}

// Refresh rotates a refresh token: the presented token is revoked and a
// fresh pair is issued.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (transport.TokenResponse, error) {
	hash := token.HashSHA256(refreshToken)
	userID, expiresAt, err := s.repo.GetRefreshToken(ctx, hash)
	if err != nil {
		return transport.TokenResponse{}, apperr.Unauthorized("invalid refresh token")
	}

	if time.Now().After(expiresAt) {
		_ = s.repo.RevokeRefreshToken(ctx, hash)
		return transport.TokenResponse{}, apperr.Unauthorized("refresh token expired")
	}

	if err := s.repo.RevokeRefreshToken(ctx, hash); err != nil {
		return transport.TokenResponse{}, err
	}

	shopID, roles, err := s.repo.GetUserShopAndRoles(ctx, userID)
	if err != nil {
		return transport.TokenResponse{}, apperr.Unauthorized("invalid refresh token")
	}

	return s.issueTokens(ctx, userID, shopID, roles)
}

// Logout revokes the presented refresh token.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	return s.repo.RevokeRefreshToken(ctx, token.HashSHA256(refreshToken))
}

// GetMe returns the authenticated user's profile.
func (s *Service) GetMe(ctx context.Context, userID, shopID uuid.UUID) (transport.UserResponse, error) {
	user, err := s.repo.GetUserByID(ctx, userID, shopID)
	if err != nil {
		return transport.UserResponse{}, err
	}
	return transport.UserResponse{
		ID:        user.ID,
		ShopID:    user.ShopID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Roles:     user.Roles,
	}, nil
}

func (s *Service) issueTokens(ctx context.Context, userID, shopID uuid.UUID, roles []string) (transport.TokenResponse, error) {
	accessToken, err := s.signJWT(userID, shopID, roles)
	if err != nil {
		return transport.TokenResponse{}, err
	}

	refreshToken, err := token.GenerateRandomToken(48)
	if err != nil {
		return transport.TokenResponse{}, err
	}

	hash := token.HashSHA256(refreshToken)
	expiresAt := time.Now().Add(s.cfg.GetRefreshTokenTTL())
	if err := s.repo.CreateRefreshToken(ctx, userID, hash, expiresAt); err != nil {
		return transport.TokenResponse{}, err
	}

	return transport.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *Service) signJWT(userID, shopID uuid.UUID, roles []string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":     userID.String(),
		"shop_id": shopID.String(),
		"type":    accessTokenType,
		"roles":   roles,
		"exp":     now.Add(s.cfg.GetAccessTokenTTL()).Unix(),
		"iat":     now.Unix(),
	}

	tokenObj := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tokenObj.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}
