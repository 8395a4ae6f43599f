package web

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"math"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"time"

	"github.com/Olprog59/go-delegation/internal/ratelimit"
)

// getIPWithTrustedProxies resolves the client IP / Résout l'IP du client
// Forwarding headers are honoured only when RemoteAddr is a trusted proxy.
// Entries of trustedProxies are plain addresses or CIDR prefixes.
func getIPWithTrustedProxies(r *http.Request, trustedProxies []string) string {
	remoteIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remoteIP = r.RemoteAddr // no port
	}

	if !isTrustedProxy(remoteIP, trustedProxies) {
		return remoteIP
	}

	// "client, proxy1, proxy2": the first hop is the client / Le premier saut est le client
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		clientIP, _, _ := strings.Cut(forwarded, ",")
		if addr, err := netip.ParseAddr(strings.TrimSpace(clientIP)); err == nil {
			return addr.String()
		}
	}

	// nginx style
	if addr, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get("X-Real-IP"))); err == nil {
		return addr.String()
	}

	return remoteIP
}

// isTrustedProxy matches ip against addresses and CIDR prefixes / Compare ip aux adresses et préfixes CIDR
func isTrustedProxy(ip string, trustedProxies []string) bool {
	if len(trustedProxies) == 0 {
		return false
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	for _, entry := range trustedProxies {
		if prefix, err := netip.ParsePrefix(entry); err == nil {
			if prefix.Contains(addr) {
				return true
			}
			continue
		}
		if trusted, err := netip.ParseAddr(entry); err == nil && trusted == addr {
			return true
		}
	}
	return false
}

// hashIP keys limiters by SHA-256 of the IP; raw addresses are never stored / Les IP brutes ne sont jamais stockées
func hashIP(ip string) string {
	h := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(h[:])
}

// allow asks limiter about key; a failing backend lets the request through / Interroge le limiteur ; un backend en panne laisse passer
func (mw *Middleware) allow(r *http.Request, limiter ratelimit.Limiter, key, endpoint string) bool {
	ok, err := limiter.Allow(r.Context(), key)
	if err != nil {
		slog.Warn("rate limiter unavailable, allowing request", "limiter", endpoint, "err", err)
		return true
	}
	if !ok {
		mw.metrics.RecordRateLimitHit(endpoint)
	}
	return ok
}

// retryAfter is the wait for one token, in whole seconds / Attente pour un jeton, en secondes
func (mw *Middleware) retryAfter() int {
	rps := mw.conf.RateLimiter.RPS
	if rps <= 0 {
		return 60
	}
	return max(1, int(math.Ceil(1/rps)))
}

// RateLimit is a middleware that applies a global rate limit to all incoming requests.
// It keys on the hashed client IP and does nothing when no global limiter is configured.
func (mw *Middleware) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if mw.globalLimiter == nil {
			next.ServeHTTP(w, r)
			return
		}

		ip := getIPWithTrustedProxies(r, mw.conf.Security.TrustedProxies)
		if !mw.allow(r, mw.globalLimiter, hashIP(ip), "global") {
			sendRateLimitErrorAdvanced(w, "Too many requests. Please try again later.", mw.retryAfter())
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RateLimitByUser applies rate limit per user / Applique une limite de taux par utilisateur
func (mw *Middleware) RateLimitByUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if mw.userLimiter == nil {
			next.ServeHTTP(w, r)
			return
		}

		key, endpoint := "", "user_authenticated"
		if caller := CallerFromContext(r.Context()); caller != nil {
			key = "user_" + caller.ID
		} else {
			// If the user is not authenticated, fall back to IP-based rate limiting.
			key = hashIP(getIPWithTrustedProxies(r, mw.conf.Security.TrustedProxies))
			endpoint = "user_ip"
		}

		if !mw.allow(r, mw.userLimiter, key, endpoint) {
			sendRateLimitErrorAdvanced(w, "Too many requests. Please try again later.", mw.retryAfter())
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RateLimitErrorResponse defines a structured response for rate limiting errors.
// It provides more context to the client than a simple error message.
type RateLimitErrorResponse struct {
	Error      string    `json:"error"`               // A machine-readable error code.
	Message    string    `json:"message"`             // A human-readable error message.
	Code       int       `json:"code"`                // The HTTP status code.
	RetryAfter int       `json:"retry_after_seconds"` // Suggested time to wait before retrying, in seconds.
	Timestamp  time.Time `json:"timestamp"`           // The timestamp of when the error occurred.
}

// sendRateLimitErrorAdvanced sends a detailed JSON response when a rate limit is exceeded.
// It sets the HTTP status to 429 Too Many Requests and includes a structured JSON body
// with details about the error and a suggested retry time.
func sendRateLimitErrorAdvanced(w http.ResponseWriter, message string, retryAfter int) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-RateLimit-Retry-After", strconv.Itoa(retryAfter))
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	w.WriteHeader(http.StatusTooManyRequests)

	response := RateLimitErrorResponse{
		Error:      "rate_limit_exceeded",
		Message:    message,
		Code:       http.StatusTooManyRequests,
		RetryAfter: retryAfter,
		Timestamp:  time.Now().UTC(),
	}

	json.NewEncoder(w).Encode(response)
}
