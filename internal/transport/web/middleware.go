package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Olprog59/go-delegation/internal/config"
	"github.com/Olprog59/go-delegation/internal/domain"
	"github.com/Olprog59/go-delegation/internal/metrics"
	"github.com/Olprog59/go-delegation/internal/ratelimit"
	"github.com/Olprog59/go-delegation/internal/service/auth"
	"github.com/google/uuid"
)

const (
	bearerPrefix    = "Bearer "
	RequestIDHeader = "X-Request-ID"
	CSRFHeader      = "X-CSRF-Token"

	accessTokenCookie = "access_token"
	csrfCookie        = "csrf_token"
)

// CallerSyncer mirrors an authenticated caller into the user store / Reflète l'appelant dans le store utilisateurs
type CallerSyncer interface {
	Sync(ctx context.Context, caller *domain.Caller) error
}

// Middleware holds middleware configuration and dependencies / Contient la configuration middleware
type Middleware struct {
	conf          *config.Config
	metrics       *metrics.Metrics
	users         CallerSyncer
	globalLimiter ratelimit.Limiter // nil disables the global limit
	userLimiter   ratelimit.Limiter // nil disables the per-user limit
}

// NewMiddleware creates middleware with its limiters / Crée le middleware avec ses limiteurs
func NewMiddleware(conf *config.Config, metrics *metrics.Metrics, users CallerSyncer, globalLimiter, userLimiter ratelimit.Limiter) *Middleware {
	return &Middleware{
		conf:          conf,
		metrics:       metrics,
		users:         users,
		globalLimiter: globalLimiter,
		userLimiter:   userLimiter,
	}
}

// responseWriter wraps ResponseWriter to capture status / Encapsule ResponseWriter pour capturer le statut
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

// WriteHeader captures status code / Capture le code de statut
func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// RequestID generates unique request ID / Génère un ID unique pour la requête
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		w.Header().Set(RequestIDHeader, requestID)

		ctx := context.WithValue(r.Context(), requestIDContextKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Logging logs HTTP requests and prevents token leaks / Enregistre les requêtes et prévient les fuites
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		w.Header().Set("Content-Type", "application/json")

		if strings.Contains(r.URL.RawQuery, "access_token=") ||
			strings.Contains(r.URL.RawQuery, bearerPrefix) {
			slog.Error("🚨 TOKEN LEAK DETECTED", "path", r.URL.Path, "ip", r.RemoteAddr)
			ErrorResponse(w, "forbidden", http.StatusForbidden)
			return
		}

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		slog.Info("request",
			"request_id", GetRequestID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"remote", r.RemoteAddr,
			"duration", time.Since(start),
		)
	})
}

// MetricsMiddleware tracks HTTP request metrics / Suit les métriques des requêtes HTTP
// Paths are recorded by route pattern to keep label cardinality bounded.
func (m *Middleware) MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		m.metrics.IncrementActiveConnections()
		defer m.metrics.DecrementActiveConnections()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		path := r.Pattern
		if path == "" {
			path = "unmatched"
		}
		m.metrics.RecordHTTPRequest(r.Method, path, rw.statusCode)
		m.metrics.RecordHTTPDuration(r.Method, path, time.Since(start))
	})
}

// timeoutWriter buffers headers and drops writes once the request timed out / Ignore les écritures après le timeout
// The handler goroutine only ever touches h; it is copied to the real writer on the first write.
type timeoutWriter struct {
	w           http.ResponseWriter
	h           http.Header
	mu          sync.Mutex
	timedOut    bool
	wroteHeader bool
}

func newTimeoutWriter(w http.ResponseWriter) *timeoutWriter {
	return &timeoutWriter{w: w, h: make(http.Header)}
}

func (tw *timeoutWriter) Header() http.Header { return tw.h }

func (tw *timeoutWriter) WriteHeader(code int) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.timedOut || tw.wroteHeader {
		return
	}
	tw.writeHeaderLocked(code)
}

func (tw *timeoutWriter) Write(b []byte) (int, error) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.timedOut {
		return 0, http.ErrHandlerTimeout
	}
	if !tw.wroteHeader {
		tw.writeHeaderLocked(http.StatusOK)
	}
	return tw.w.Write(b)
}

// writeHeaderLocked flushes buffered headers; caller holds mu
func (tw *timeoutWriter) writeHeaderLocked(code int) {
	dst := tw.w.Header()
	for k, vv := range tw.h {
		dst[k] = slices.Clone(vv)
	}
	tw.wroteHeader = true
	tw.w.WriteHeader(code)
}

// Timeout adds request timeout / Ajoute un timeout aux requêtes
func Timeout(duration time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), duration)
			defer cancel()

			r = r.WithContext(ctx)
			tw := newTimeoutWriter(w)

			done := make(chan struct{})
			go func() {
				next.ServeHTTP(tw, r)
				close(done)
			}()

			select {
			case <-done:
				// Handler finished without writing: still send its headers
				tw.mu.Lock()
				defer tw.mu.Unlock()
				if !tw.wroteHeader {
					tw.writeHeaderLocked(http.StatusOK)
				}
			case <-ctx.Done():
				tw.mu.Lock()
				defer tw.mu.Unlock()
				tw.timedOut = true
				if errors.Is(ctx.Err(), context.DeadlineExceeded) && !tw.wroteHeader {
					slog.Warn("request timeout", "path", r.URL.Path, "timeout", duration)
					ErrorResponse(w, "request timeout", http.StatusGatewayTimeout)
				}
			}
		})
	}
}

// Auth validates JWT tokens and attaches the caller / Valide les tokens JWT et attache l'appelant
func (m *Middleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var tokenStr, method string

		if cookie, err := r.Cookie(accessTokenCookie); err == nil && cookie.Value != "" {
			tokenStr, method = cookie.Value, authMethodCookie
		} else {
			authorization := r.Header.Get("Authorization")
			if !strings.HasPrefix(authorization, bearerPrefix) {
				ErrorResponse(w, "Authentication required", http.StatusUnauthorized)
				return
			}
			tokenStr, method = strings.TrimPrefix(authorization, bearerPrefix), authMethodBearer
		}

		claims, err := auth.ValidateJWT(tokenStr, m.conf.Auth.JWTSecret, m.conf.Auth.Issuer)
		if err != nil {
			m.metrics.RecordInvalidToken()
			slog.Debug("rejected token", "method", method, "err", err)
			ErrorResponse(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		caller := domain.NewCaller(claims.Subject, claims.Email, domain.ParseUserRole(claims.Role))

		if err := m.users.Sync(r.Context(), caller); err != nil {
			slog.Error("failed to sync caller", "user_id", caller.ID, "err", err)
			ErrorResponse(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		ctx := WithCaller(r.Context(), caller)
		ctx = context.WithValue(ctx, authMethodContextKey, method)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Cors handles CORS headers / Gère les en-têtes CORS
func (m *Middleware) Cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		for _, allowed := range m.conf.Cors.AllowedOrigins {
			if allowed == "*" || allowed == origin {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
				break
			}
		}

		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-CSRF-Token, X-Request-ID")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// SecurityHeaders adds security headers / Ajoute les en-têtes de sécurité
func (m *Middleware) SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The portal embeds form iframes, so frame-src must allow the form provider
		frameSrc := "'self'"
		if base := m.conf.Forms.EmbedBaseURL; base != "" {
			frameSrc += " " + originOf(base)
		}

		cspValue := "default-src 'self'; frame-ancestors 'none'; object-src 'none'; frame-src " + frameSrc
		if m.conf.IsProd() {
			cspValue += "; script-src 'self'; style-src 'self'"
		} else {
			cspValue += "; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'"
		}
		cspValue += "; img-src 'self' data:; font-src 'self'; connect-src 'self'"
		w.Header().Set("Content-Security-Policy", cspValue)

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=()")

		// Strict Transport Security - Enforce HTTPS (only in production)
		if m.conf.IsProd() {
			w.Header().Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains; preload")
		}

		next.ServeHTTP(w, r)
	})
}

// originOf trims an URL down to scheme://host / Réduit une URL à scheme://host
func originOf(rawURL string) string {
	scheme, rest, ok := strings.Cut(rawURL, "://")
	if !ok {
		return rawURL
	}
	host, _, _ := strings.Cut(rest, "/")
	return scheme + "://" + host
}

// CSRF protects cookie-authenticated unsafe requests (double submit) / Protège les requêtes authentifiées par cookie
// Bearer requests cannot be forged cross-site and skip the check.
func (m *Middleware) CSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if authMethod(r.Context()) != authMethodCookie || isSafeMethod(r.Method) {
			next.ServeHTTP(w, r)
			return
		}

		cookie, err := r.Cookie(csrfCookie)
		if err != nil {
			m.metrics.RecordCSRFFailure()
			slog.Warn("CSRF middleware: missing csrf_token cookie", "path", r.URL.Path)
			ErrorResponse(w, "Forbidden", http.StatusForbidden)
			return
		}

		headerToken := r.Header.Get(CSRFHeader)
		if !csrfTokensMatch(cookie.Value, headerToken) {
			m.metrics.RecordCSRFFailure()
			slog.Warn("CSRF token mismatch", "cookie_len", len(cookie.Value), "header_len", len(headerToken))
			ErrorResponse(w, "Forbidden", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func isSafeMethod(method string) bool {
	return method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions
}

// RequirePermission checks caller capability / Vérifie la capacité de l'appelant
func (m *Middleware) RequirePermission(permission domain.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller := CallerFromContext(r.Context())
			if caller == nil {
				slog.Error("RequirePermission: caller not found in context - Auth middleware not applied?")
				ErrorResponse(w, "Authentication required", http.StatusUnauthorized)
				return
			}

			if !caller.Can(permission) {
				m.metrics.RecordPermissionDenial(permission.String())

				slog.Warn("Permission denied",
					"user_id", caller.ID,
					"permission", permission,
					"path", r.URL.Path,
					"method", r.Method,
				)

				ErrorResponse(w, "Insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// DevOnly hides a route unless features.dev_endpoints is set / Masque une route hors mode développement
func (m *Middleware) DevOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.conf.Features.DevEndpoints {
			ErrorResponse(w, "Not found", http.StatusNotFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}
