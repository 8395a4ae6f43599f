package web

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"io"
)

const csrfTokenBytes = 32

// generateCSRFToken returns a URL-safe random token / Retourne un token aléatoire encodé URL
// Double submit: the same value travels in the csrf_token cookie and the X-CSRF-Token header.
func generateCSRFToken() (string, error) {
	b := make([]byte, csrfTokenBytes)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// csrfTokensMatch compares cookie and header in constant time; empty never matches
func csrfTokensMatch(cookieToken, headerToken string) bool {
	if cookieToken == "" || headerToken == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(cookieToken), []byte(headerToken)) == 1
}
