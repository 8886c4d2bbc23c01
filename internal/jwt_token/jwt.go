package jwttoken

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	id "universitas/pkg/domain"
	dErrors "universitas/pkg/domain-errors"
	"universitas/pkg/requestcontext"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// ProfileClaims are the application claims carried by access tokens.
// Grade is encoded as JSON null when the account has none.
type ProfileClaims struct {
	Role     string   `json:"role"`
	Username string   `json:"username"`
	FullName string   `json:"full_name"`
	Grade    *float64 `json:"grade"`
}

// AccessTokenClaims represents the JWT claims for our access tokens.
// Only exp, iat and jti are set on the registered claims.
type AccessTokenClaims struct {
	TokenType string `json:"token_type"`
	UserID    string `json:"user_id"`
	ProfileClaims
	jwt.RegisteredClaims
}

// RefreshTokenClaims identify the account only; profile claims are
// reloaded from the store when a refresh token is exchanged.
type RefreshTokenClaims struct {
	TokenType string `json:"token_type"`
	UserID    string `json:"user_id"`
	jwt.RegisteredClaims
}

// JWTService handles JWT creation and validation
type JWTService struct {
	signingKey []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewJWTService(signingKey string, accessTTL, refreshTTL time.Duration) *JWTService {
	return &JWTService{
		signingKey: []byte(signingKey),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (s *JWTService) registered(ctx context.Context, ttl time.Duration) jwt.RegisteredClaims {
	now := requestcontext.Now(ctx)
	return jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		ID:        uuid.NewString(),
	}
}

func (s *JWTService) GenerateAccessToken(ctx context.Context, userID id.UserID, profile ProfileClaims) (string, error) {
	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessTokenClaims{
		TokenType:        TokenTypeAccess,
		UserID:           userID.String(),
		ProfileClaims:    profile,
		RegisteredClaims: s.registered(ctx, s.accessTTL),
	})
	return newToken.SignedString(s.signingKey)
}

func (s *JWTService) GenerateRefreshToken(ctx context.Context, userID id.UserID) (string, error) {
	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, RefreshTokenClaims{
		TokenType:        TokenTypeRefresh,
		UserID:           userID.String(),
		RegisteredClaims: s.registered(ctx, s.refreshTTL),
	})
	return newToken.SignedString(s.signingKey)
}

// GenerateTokenPair mints the access and refresh tokens returned at login.
func (s *JWTService) GenerateTokenPair(ctx context.Context, userID id.UserID, profile ProfileClaims) (access, refresh string, err error) {
	access, err = s.GenerateAccessToken(ctx, userID, profile)
	if err != nil {
		return "", "", err
	}
	refresh, err = s.GenerateRefreshToken(ctx, userID)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (s *JWTService) keyFunc(token *jwt.Token) (any, error) {
	if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
		return nil, jwt.ErrTokenUnverifiable
	}
	return s.signingKey, nil
}

func (s *JWTService) parse(tokenString string, claims jwt.Claims) error {
	if tokenString == "" {
		return dErrors.New(dErrors.CodeUnauthorized, "empty token")
	}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, s.keyFunc)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return dErrors.New(dErrors.CodeUnauthorized, "token expired")
		}
		return dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	if !parsed.Valid {
		return dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	return nil
}

func (s *JWTService) ValidateAccessToken(tokenString string) (*AccessTokenClaims, error) {
	claims := new(AccessTokenClaims)
	if err := s.parse(tokenString, claims); err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeAccess {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token has wrong type")
	}
	return claims, nil
}

func (s *JWTService) ValidateRefreshToken(tokenString string) (*RefreshTokenClaims, error) {
	claims := new(RefreshTokenClaims)
	if err := s.parse(tokenString, claims); err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeRefresh {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token has wrong type")
	}
	if claims.ID == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token missing jti")
	}
	return claims, nil
}
