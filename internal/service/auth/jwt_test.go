package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	testSecret = "test-secret-key-min-32-chars-long-1234567890"
	testIssuer = "go-delegation"
)

// TestGenerateAccessToken tests JWT generation and round-trip validation.
func TestGenerateAccessToken(t *testing.T) {
	token, expiresAt, err := GenerateAccessToken("user-123", "a@example.com", "moderator", testSecret, testIssuer, 15*time.Minute)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	if token == "" {
		t.Fatal("Token is empty")
	}
	if expiresAt.IsZero() {
		t.Error("ExpiresAt is not set")
	}

	claims, err := ValidateJWT(token, testSecret, testIssuer)
	if err != nil {
		t.Fatalf("Failed to validate generated token: %v", err)
	}
	if claims.Subject != "user-123" {
		t.Errorf("Expected subject 'user-123', got '%s'", claims.Subject)
	}
	if claims.Role != "moderator" {
		t.Errorf("Expected role 'moderator', got '%s'", claims.Role)
	}
	if claims.Email != "a@example.com" {
		t.Errorf("Expected email 'a@example.com', got '%s'", claims.Email)
	}
}

// TestGenerateAccessTokenRejects tests weak keys and empty subjects.
func TestGenerateAccessTokenRejects(t *testing.T) {
	if _, _, err := GenerateAccessToken("u", "", "user", "short", testIssuer, time.Minute); !errors.Is(err, ErrWeakKey) {
		t.Errorf("Expected ErrWeakKey, got %v", err)
	}
	if _, _, err := GenerateAccessToken("", "", "user", testSecret, testIssuer, time.Minute); !errors.Is(err, ErrMissingSub) {
		t.Errorf("Expected ErrMissingSub, got %v", err)
	}
}

func TestValidateJWT(t *testing.T) {
	valid, _, err := GenerateAccessToken("u1", "", "user", testSecret, testIssuer, time.Hour)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	expired, _, err := GenerateAccessToken("u1", "", "user", testSecret, testIssuer, -time.Hour)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, &CustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u1", Issuer: testIssuer},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("Failed to build unsigned token: %v", err)
	}

	tests := []struct {
		name    string
		token   string
		secret  string
		issuer  string
		wantErr bool
	}{
		{name: "valid token", token: valid, secret: testSecret, issuer: testIssuer},
		{name: "wrong secret", token: valid, secret: "another-secret-key-min-32-chars-long-000", issuer: testIssuer, wantErr: true},
		{name: "wrong issuer", token: valid, secret: testSecret, issuer: "someone-else", wantErr: true},
		{name: "expired token", token: expired, secret: testSecret, issuer: testIssuer, wantErr: true},
		{name: "alg none", token: noneToken, secret: testSecret, issuer: testIssuer, wantErr: true},
		{name: "garbage", token: "not.a.jwt", secret: testSecret, issuer: testIssuer, wantErr: true},
		{name: "empty", token: "", secret: testSecret, issuer: testIssuer, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateJWT(tt.token, tt.secret, tt.issuer)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateJWT() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
