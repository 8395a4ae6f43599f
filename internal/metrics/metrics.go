package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metric collectors / Contient tous les collecteurs de métriques Prometheus
type Metrics struct {
	// Delegation metrics
	OperationsCreated    *prometheus.CounterVec // Operations created by type
	StatusUpdates        *prometheus.CounterVec // Status updates by target status
	FormSubmissions      *prometheus.CounterVec // Form bridge messages by result
	AuthorizationDenials *prometheus.CounterVec // Ownership check failures by action

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec   // Total HTTP requests by method, path, status
	HTTPRequestDuration *prometheus.HistogramVec // HTTP request latency in seconds
	ActiveConnections   prometheus.Gauge         // Current number of active HTTP connections

	// Security metrics
	RateLimitHits     *prometheus.CounterVec // Rate limit violations by limiter
	CSRFFailures      prometheus.Counter     // CSRF validation failures
	InvalidTokens     prometheus.Counter     // Invalid/expired JWT token attempts
	PermissionDenials *prometheus.CounterVec // Permission check failures by permission type

	// System metrics
	DatabaseConnections prometheus.Gauge     // Current database connection pool size
	BackgroundTasks     *prometheus.GaugeVec // Status of background tasks (running/stopped)
}

// NewMetrics initializes Metrics instance / Initialise une instance Metrics
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	m := &Metrics{
		// Delegation metrics
		OperationsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "delegation_operations_created_total",
				Help: "Total number of delegation operations created by type",
			},
			[]string{"type"},
		),

		StatusUpdates: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "delegation_status_updates_total",
				Help: "Total number of operation status updates by target status",
			},
			[]string{"status"},
		),

		FormSubmissions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "delegation_form_submissions_total",
				Help: "Total number of form bridge messages by result (created, not_submission, malformed, unknown_form, error)",
			},
			[]string{"result"},
		),

		AuthorizationDenials: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "delegation_authorization_denials_total",
				Help: "Total number of ownership check failures by action",
			},
			[]string{"action"},
		),

		// HTTP metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status code",
			},
			[]string{"method", "path", "status_code"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP request latency in seconds",
				// Buckets optimized for API response times: 10ms to 10s
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),

		ActiveConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_active_connections",
				Help: "Current number of active HTTP connections",
			},
		),

		// Security metrics
		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "security_rate_limit_hits_total",
				Help: "Total number of rate limit violations by limiter",
			},
			[]string{"endpoint"},
		),

		CSRFFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "security_csrf_failures_total",
				Help: "Total number of CSRF validation failures",
			},
		),

		InvalidTokens: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "security_invalid_tokens_total",
				Help: "Total number of invalid or expired JWT token attempts",
			},
		),

		PermissionDenials: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "security_permission_denials_total",
				Help: "Total number of permission check failures by permission type",
			},
			[]string{"permission"},
		),

		// System metrics
		DatabaseConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "database_connections_active",
				Help: "Current number of active database connections",
			},
		),

		BackgroundTasks: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "background_tasks_status",
				Help: "Status of background tasks (1=running, 0=stopped)",
			},
			[]string{"task_name"},
		),
	}

	return m
}

// RecordOperationCreated increments the created counter for a type.
func (m *Metrics) RecordOperationCreated(opType string) {
	m.OperationsCreated.WithLabelValues(opType).Inc()
}

// RecordStatusUpdate increments the status update counter.
func (m *Metrics) RecordStatusUpdate(status string) {
	m.StatusUpdates.WithLabelValues(status).Inc()
}

// RecordFormSubmission records a form bridge result.
func (m *Metrics) RecordFormSubmission(result string) {
	m.FormSubmissions.WithLabelValues(result).Inc()
}

// RecordAuthorizationDenial records a failed ownership check / Enregistre un refus de propriété
func (m *Metrics) RecordAuthorizationDenial(action string) {
	m.AuthorizationDenials.WithLabelValues(action).Inc()
}

// RecordHTTPRequest records an HTTP request with method, path, and status code.
func (m *Metrics) RecordHTTPRequest(method, path string, statusCode int) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusCodeToString(statusCode)).Inc()
}

// RecordHTTPDuration records the duration of an HTTP request.
func (m *Metrics) RecordHTTPDuration(method, path string, duration time.Duration) {
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// IncrementActiveConnections increments the active connections gauge.
func (m *Metrics) IncrementActiveConnections() {
	m.ActiveConnections.Inc()
}

// DecrementActiveConnections decrements the active connections gauge.
func (m *Metrics) DecrementActiveConnections() {
	m.ActiveConnections.Dec()
}

// RecordRateLimitHit records a rate limit violation for a specific limiter.
func (m *Metrics) RecordRateLimitHit(endpoint string) {
	m.RateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordCSRFFailure increments the CSRF failure counter.
func (m *Metrics) RecordCSRFFailure() {
	m.CSRFFailures.Inc()
}

// RecordInvalidToken increments the invalid token counter.
func (m *Metrics) RecordInvalidToken() {
	m.InvalidTokens.Inc()
}

// RecordPermissionDenial increments permission denial counter / Incrémente le compteur de refus de permission
func (m *Metrics) RecordPermissionDenial(permission string) {
	m.PermissionDenials.WithLabelValues(permission).Inc()
}

// UpdateDatabaseConnections updates the database connections gauge.
func (m *Metrics) UpdateDatabaseConnections(count int) {
	m.DatabaseConnections.Set(float64(count))
}

// SetBackgroundTaskStatus sets the status of a background task.
func (m *Metrics) SetBackgroundTaskStatus(taskName string, running bool) {
	status := 0.0
	if running {
		status = 1.0
	}
	m.BackgroundTasks.WithLabelValues(taskName).Set(status)
}

// statusCodeToString keeps label cardinality bounded / Garde une cardinalité de labels bornée
func statusCodeToString(code int) string {
	switch code {
	case 200, 201, 202, 400, 401, 403, 404, 429, 500, 503:
		return strconv.Itoa(code)
	}
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500 && code < 600:
		return "5xx"
	}
	return "unknown"
}
