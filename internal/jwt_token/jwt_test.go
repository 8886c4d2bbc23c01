package jwttoken

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "universitas/pkg/domain"
	dErrors "universitas/pkg/domain-errors"
	"universitas/pkg/requestcontext"
)

var userID = id.NewUserID()

var jwtService = NewJWTService("test-signing-key", 5*time.Minute, 24*time.Hour)

func gradeOf(v float64) *float64 { return &v }

var studentProfile = ProfileClaims{
	Role:     "student",
	Username: "alice",
	FullName: "Alice Wijaya",
	Grade:    gradeOf(87.5),
}

// payloadKeys decodes the JWT payload segment without verifying it.
func payloadKeys(t *testing.T, token string) map[string]any {
	t.Helper()
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	raw, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(raw, &payload))
	return payload
}

func Test_GenerateAccessToken(t *testing.T) {
	ctx := context.Background()
	token, err := jwtService.GenerateAccessToken(ctx, userID, studentProfile)
	require.NoError(t, err)

	claims, err := jwtService.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, studentProfile, claims.ProfileClaims)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), claims.ExpiresAt.Time, time.Minute)
}

func Test_AccessTokenPayloadShape(t *testing.T) {
	t.Run("exactly nine keys", func(t *testing.T) {
		token, err := jwtService.GenerateAccessToken(context.Background(), userID, studentProfile)
		require.NoError(t, err)

		payload := payloadKeys(t, token)
		keys := make([]string, 0, len(payload))
		for k := range payload {
			keys = append(keys, k)
		}
		assert.ElementsMatch(t, []string{
			"token_type", "user_id", "exp", "iat", "jti",
			"role", "username", "full_name", "grade",
		}, keys)
	})

	t.Run("absent grade is null", func(t *testing.T) {
		profile := ProfileClaims{Role: "instructor", Username: "bob", FullName: "Bob"}
		token, err := jwtService.GenerateAccessToken(context.Background(), userID, profile)
		require.NoError(t, err)

		payload := payloadKeys(t, token)
		grade, present := payload["grade"]
		assert.True(t, present)
		assert.Nil(t, grade)
	})
}

func Test_GenerateTokenPair(t *testing.T) {
	access, refresh, err := jwtService.GenerateTokenPair(context.Background(), userID, studentProfile)
	require.NoError(t, err)

	accessClaims, err := jwtService.ValidateAccessToken(access)
	require.NoError(t, err)
	refreshClaims, err := jwtService.ValidateRefreshToken(refresh)
	require.NoError(t, err)

	assert.Equal(t, userID.String(), refreshClaims.UserID)
	assert.NotEqual(t, accessClaims.ID, refreshClaims.ID)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), refreshClaims.ExpiresAt.Time, time.Minute)
}

func Test_ValidateToken_WrongType(t *testing.T) {
	access, refresh, err := jwtService.GenerateTokenPair(context.Background(), userID, studentProfile)
	require.NoError(t, err)

	_, err = jwtService.ValidateAccessToken(refresh)
	require.ErrorContains(t, err, "wrong type")

	_, err = jwtService.ValidateRefreshToken(access)
	require.ErrorContains(t, err, "wrong type")
}

func Test_ValidateToken_InvalidToken(t *testing.T) {
	_, err := jwtService.ValidateAccessToken("invalid-token-string")
	require.ErrorContains(t, err, "invalid token")

	_, err = jwtService.ValidateRefreshToken("")
	require.ErrorContains(t, err, "empty token")
}

func Test_ValidateToken_ExpiredToken(t *testing.T) {
	past := requestcontext.WithTime(context.Background(), time.Now().Add(-time.Hour))
	token, err := jwtService.GenerateAccessToken(past, userID, studentProfile)
	require.NoError(t, err)

	_, err = jwtService.ValidateAccessToken(token)
	require.ErrorContains(t, err, "token expired")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_ValidateToken_WrongKey(t *testing.T) {
	other := NewJWTService("another-key", time.Minute, time.Hour)
	token, err := other.GenerateAccessToken(context.Background(), userID, studentProfile)
	require.NoError(t, err)

	_, err = jwtService.ValidateAccessToken(token)
	require.ErrorContains(t, err, "invalid token")
}

func Test_ValidateToken_RejectsAlgorithmConfusion(t *testing.T) {
	claims := AccessTokenClaims{
		TokenType:     TokenTypeAccess,
		UserID:        userID.String(),
		ProfileClaims: studentProfile,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ID:        "jti-1",
		},
	}

	cases := []struct {
		name       string
		signMethod jwt.SigningMethod
		signKey    any
	}{
		{
			name:       "hs512 header rejected",
			signMethod: jwt.SigningMethodHS512,
			signKey:    []byte("test-signing-key"),
		},
		{
			name:       "alg none rejected",
			signMethod: jwt.SigningMethodNone,
			signKey:    jwt.UnsafeAllowNoneSignatureType,
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			token := jwt.NewWithClaims(tt.signMethod, claims)
			tokenString, err := token.SignedString(tt.signKey)
			require.NoError(t, err)

			_, err = jwtService.ValidateAccessToken(tokenString)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
		})
	}
}

func Test_JWTServiceAdapter(t *testing.T) {
	token, err := jwtService.GenerateAccessToken(context.Background(), userID, studentProfile)
	require.NoError(t, err)

	claims, err := NewJWTServiceAdapter(jwtService).ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "student", claims.Role)
	assert.NotEmpty(t, claims.JTI)
}
