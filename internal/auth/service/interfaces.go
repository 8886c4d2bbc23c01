package service

import (
	"context"
	"time"

	"universitas/internal/auth/models"
	jwttoken "universitas/internal/jwt_token"
	id "universitas/pkg/domain"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks AccountStore,PasswordHasher,TokenIssuer,TokenRevocationList

// AccountStore defines the persistence interface for accounts.
// Error Contract: Find methods return sentinel.ErrNotFound when the account
// doesn't exist; Create returns sentinel.ErrAlreadyUsed on a duplicate email.
type AccountStore interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, account *models.Account) error
	FindByID(ctx context.Context, userID id.UserID) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
}

// PasswordHasher hashes and verifies passwords. Compare returns
// password.ErrMismatch when the password is wrong.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) error
}

// TokenIssuer mints and validates the session tokens.
type TokenIssuer interface {
	GenerateTokenPair(ctx context.Context, userID id.UserID, profile jwttoken.ProfileClaims) (access, refresh string, err error)
	GenerateAccessToken(ctx context.Context, userID id.UserID, profile jwttoken.ProfileClaims) (string, error)
	ValidateAccessToken(tokenString string) (*jwttoken.AccessTokenClaims, error)
	ValidateRefreshToken(tokenString string) (*jwttoken.RefreshTokenClaims, error)
}

// TokenRevocationList tracks revoked token JTIs.
type TokenRevocationList interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
