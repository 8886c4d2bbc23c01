package policy

import (
	"universitas/internal/auth/models"
	jwttoken "universitas/internal/jwt_token"
)

// BuildClaims projects an authenticated account onto the application claims
// embedded in its access token. The standard claims are added by the issuer.
func BuildClaims(account *models.Account) jwttoken.ProfileClaims {
	return jwttoken.ProfileClaims{
		Role:     account.Role.String(),
		Username: account.Username,
		FullName: account.FullName,
		Grade:    account.Grade,
	}
}
