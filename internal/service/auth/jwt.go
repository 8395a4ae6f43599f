package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinKeyLength is the minimum HMAC key size accepted / Taille minimale de clé HMAC acceptée
const MinKeyLength = 32

var (
	ErrWeakKey       = errors.New("JWT key too weak")
	ErrInvalidIssuer = errors.New("invalid issuer")
	ErrMissingSub    = errors.New("token has no subject")
)

// CustomClaims extends JWT claims with role and email / Étend les claims JWT avec le rôle et l'email
// The identity provider owns these tokens: subject is the user id.
type CustomClaims struct {
	jwt.RegisteredClaims
	Role  string `json:"role"`
	Email string `json:"email,omitempty"`
}

// GenerateAccessToken signs an HS256 access token / Signe un token d'accès HS256
// Used by the CLI to mint development tokens.
func GenerateAccessToken(subject, email, role, jwtKey, issuer string, ttl time.Duration) (string, time.Time, error) {
	if len(jwtKey) < MinKeyLength {
		return "", time.Time{}, ErrWeakKey
	}
	if subject == "" {
		return "", time.Time{}, ErrMissingSub
	}

	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := &CustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
		Role:  role,
		Email: email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(jwtKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ValidateJWT validates JWT token / Valide le token JWT
func ValidateJWT(tokenStr, jwtKey, issuer string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing algorithm: %v", token.Header["alg"])
		}
		return []byte(jwtKey), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.Issuer != issuer {
		return nil, ErrInvalidIssuer
	}
	if claims.Subject == "" {
		return nil, ErrMissingSub
	}
	return claims, nil
}
