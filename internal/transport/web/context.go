package web

import (
	"context"

	"github.com/Olprog59/go-delegation/internal/domain"
)

// ContextKey is a custom type used for creating context keys.
// Using a custom type for context keys helps prevent collisions between keys
// defined in different packages.
type ContextKey string

const (
	// CallerContextKey stores the authenticated *domain.Caller set by the Auth middleware.
	CallerContextKey = ContextKey("caller")
	// authMethodContextKey records how the caller authenticated (cookie or bearer).
	authMethodContextKey = ContextKey("auth_method")
	requestIDContextKey  = ContextKey("request_id")
)

const (
	authMethodCookie = "cookie"
	authMethodBearer = "bearer"
)

// CallerFromContext returns the authenticated caller, nil when absent / Retourne l'appelant authentifié
func CallerFromContext(ctx context.Context) *domain.Caller {
	caller, _ := ctx.Value(CallerContextKey).(*domain.Caller)
	return caller
}

// WithCaller attaches a caller to ctx / Attache un appelant au contexte
func WithCaller(ctx context.Context, caller *domain.Caller) context.Context {
	return context.WithValue(ctx, CallerContextKey, caller)
}

func authMethod(ctx context.Context) string {
	m, _ := ctx.Value(authMethodContextKey).(string)
	return m
}

// GetRequestID extracts request ID from context / Extrait l'ID de la requête du contexte
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDContextKey).(string); ok {
		return requestID
	}
	return ""
}
