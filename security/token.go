package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"guardpost.app/guardpost/core/models"
)

const (
	AccessTokenTTL  = time.Hour
	RefreshTokenTTL = 30 * 24 * time.Hour
)

type Identity struct {
	UserID     uint   `json:"uid"`
	EmployeeID string `json:"employeeId"`
	IsAdmin    bool   `json:"isAdmin"`
}

// IdentityClaims includes Identity and standard JWT claims
type IdentityClaims struct {
	Identity
	jwt.RegisteredClaims
}

func createToken(user *models.User, secret []byte, ttl time.Duration, subject string) (string, error) {
	claims := IdentityClaims{
		Identity: Identity{
			UserID:     user.ID,
			EmployeeID: user.EmployeeID,
			IsAdmin:    user.IsAdmin,
		},
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "guardpost",
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	// HS256 signing method (symmetric key)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func CreateAccessToken(user *models.User, secret []byte) (string, error) {
	return createToken(user, secret, AccessTokenTTL, "access")
}

func CreateRefreshToken(user *models.User, secret []byte) (string, error) {
	return createToken(user, secret, RefreshTokenTTL, "refresh")
}

// ParseToken validates signature and expiry and returns the embedded identity.
func ParseToken(tokenStr string, secret []byte) (*IdentityClaims, error) {
	claims := &IdentityClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// ParseAccessToken additionally requires the access subject, so a leaked
// long-lived refresh token cannot be used to call protected routes directly.
func ParseAccessToken(tokenStr string, secret []byte) (*IdentityClaims, error) {
	claims, err := ParseToken(tokenStr, secret)
	if err != nil {
		return nil, err
	}
	if claims.Subject != "access" {
		return nil, fmt.Errorf("not an access token")
	}
	return claims, nil
}

// ParseRefreshToken additionally requires the refresh subject, so an access
// token cannot be replayed against the refresh endpoint.
func ParseRefreshToken(tokenStr string, secret []byte) (*IdentityClaims, error) {
	claims, err := ParseToken(tokenStr, secret)
	if err != nil {
		return nil, err
	}
	if claims.Subject != "refresh" {
		return nil, fmt.Errorf("not a refresh token")
	}
	return claims, nil
}
