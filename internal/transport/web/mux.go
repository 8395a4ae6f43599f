package web

import (
	"net/http"
	"time"

	"github.com/Olprog59/go-delegation/internal/app"
	"github.com/Olprog59/go-delegation/internal/config"
	"github.com/Olprog59/go-delegation/internal/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewMux creates and configures the HTTP router / Crée et configure le routeur HTTP
func NewMux(h *Handler, conf *config.Config, container *app.Container) http.Handler {
	mux := http.NewServeMux()
	mw := NewMiddleware(conf, container.Metrics, container.UserSvc, container.GlobalLimiter, container.UserLimiter)

	// Health check endpoints (no auth) for load balancers and probes
	mux.HandleFunc("GET /health", h.HealthCheck)
	mux.HandleFunc("GET /readiness", h.ReadinessCheck)

	// Prometheus metrics endpoint, restricted to callers holding stats:read
	metricsHandler := promhttp.HandlerFor(container.Gatherer, promhttp.HandlerOpts{})
	mux.Handle("GET /metrics", chain(metricsHandler.ServeHTTP,
		mw.Auth,
		mw.RequirePermission(domain.PermissionStatsRead),
	))

	// authed is the common stack of every /api route / Pile commune des routes /api
	authed := func(f http.HandlerFunc, extra ...func(http.Handler) http.Handler) http.Handler {
		middlewares := append([]func(http.Handler) http.Handler{mw.Auth, mw.CSRF, mw.RateLimitByUser}, extra...)
		return chain(f, middlewares...)
	}

	mux.Handle("GET /api/csrf", authed(h.CSRFToken))
	mux.Handle("GET /api/me", authed(h.Me))
	mux.Handle("GET /api/me/preferences", authed(h.GetPreferences))
	mux.Handle("PUT /api/me/preferences/onboarding", authed(h.UpdateOnboarding))

	mux.Handle("GET /api/operations", authed(h.ListOperations))
	mux.Handle("POST /api/operations", authed(h.CreateOperation))
	mux.Handle("POST /api/operations/seed", authed(h.SeedOperation, mw.DevOnly))
	mux.Handle("GET /api/operations/{id}", authed(h.GetOperation))
	mux.Handle("PATCH /api/operations/{id}/status", authed(h.UpdateOperationStatus))

	mux.Handle("GET /api/forms", authed(h.ListForms))
	mux.Handle("GET /api/forms/{slug}", authed(h.GetForm))
	mux.Handle("POST /api/forms/{slug}/submissions", authed(h.SubmitForm))
	mux.Handle("POST /api/forms/{slug}/direct", authed(h.DirectSubmit, mw.DevOnly))

	timeout := conf.Server.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	// Global middlewares - applied in reverse order / Middlewares globaux appliqués en ordre inverse
	var handler http.Handler = mux
	handler = mw.MetricsMiddleware(handler) // Metrics first to capture everything
	handler = mw.RateLimit(handler)
	handler = mw.SecurityHeaders(handler)
	handler = mw.Cors(handler)
	handler = Timeout(timeout)(handler)
	handler = Logging(handler)   // Logging includes request ID
	handler = RequestID(handler) // RequestID first - generates ID for all middleware

	return handler
}

// chain applies middleware to HTTP handler / Applique les middlewares au gestionnaire HTTP
func chain(f http.HandlerFunc, middlewares ...func(http.Handler) http.Handler) http.Handler {
	var handler http.Handler = f

	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}

	return handler
}
