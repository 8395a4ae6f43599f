package web

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const dependencyCheckTimeout = 2 * time.Second

// HealthResponse is the body of /health and /readiness / Corps de /health et /readiness
type HealthResponse struct {
	Status    string            `json:"status"` // "ok" or "error"
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
	Uptime    string            `json:"uptime,omitempty"`
}

var startTime = time.Now()

// HealthCheck is the liveness probe; it never touches dependencies / Sonde de vivacité, sans dépendances
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Uptime:    formatUptime(time.Since(startTime)),
	})
}

// dependencyCheck pings one backing service / Teste un service dont on dépend
type dependencyCheck struct {
	name  string
	check func(ctx context.Context) error
}

func (h *Handler) dependencyChecks() []dependencyCheck {
	checks := []dependencyCheck{{name: "database", check: h.checkDatabase}}

	// Redis only matters when configured / Redis n'est vérifié que s'il est configuré
	if h.container.Redis != nil {
		checks = append(checks, dependencyCheck{name: "redis", check: h.checkRedis})
	}
	return checks
}

// ReadinessCheck reports 503 as soon as one dependency fails / Retourne 503 dès qu'une dépendance échoue
func (h *Handler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Checks:    make(map[string]string),
	}
	code := http.StatusOK

	for _, dep := range h.dependencyChecks() {
		ctx, cancel := context.WithTimeout(r.Context(), dependencyCheckTimeout)
		err := dep.check(ctx)
		cancel()

		if err != nil {
			resp.Checks[dep.name] = "error"
			resp.Status = "error"
			code = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[dep.name] = "ok"
	}

	jsonStatus(w, code, resp)
}

// checkDatabase pings then runs SELECT 1 / Ping puis SELECT 1
func (h *Handler) checkDatabase(ctx context.Context) error {
	if err := h.container.DB.PingContext(ctx); err != nil {
		return err
	}
	var one int
	return h.container.DB.QueryRowContext(ctx, "SELECT 1").Scan(&one)
}

func (h *Handler) checkRedis(ctx context.Context) error {
	return h.container.Redis.Ping(ctx).Err()
}

// formatUptime renders at most three units, largest first: "1d 5h 23m", "2h 15m 30s", "45s"
func formatUptime(d time.Duration) string {
	total := int(d.Seconds())
	if total <= 0 {
		return "0s"
	}

	units := []struct {
		suffix string
		value  int
	}{
		{"d", total / 86400},
		{"h", total / 3600 % 24},
		{"m", total / 60 % 60},
		{"s", total % 60},
	}

	// Start at the largest non-zero unit
	first := 0
	for units[first].value == 0 {
		first++
	}

	parts := make([]string, 0, 3)
	for _, u := range units[first:min(first+3, len(units))] {
		if u.value > 0 {
			parts = append(parts, strconv.Itoa(u.value)+u.suffix)
		}
	}
	return strings.Join(parts, " ")
}
