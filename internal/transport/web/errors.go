package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Olprog59/go-delegation/internal/formbridge"
	"github.com/Olprog59/go-delegation/internal/service"
)

// writeServiceError maps service errors to HTTP responses / Convertit les erreurs de service en réponses HTTP
// Anything outside the taxonomy is a store failure: logged, and answered with 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		ErrorResponse(w, "Authentication required", http.StatusUnauthorized)
	case errors.Is(err, service.ErrOperationNotFound):
		ErrorResponse(w, "Operation not found", http.StatusNotFound)
	case errors.Is(err, formbridge.ErrUnknownForm):
		ErrorResponse(w, "Form not found", http.StatusNotFound)
	case errors.Is(err, service.ErrForbidden):
		ErrorResponse(w, "Forbidden", http.StatusForbidden)
	case errors.Is(err, service.ErrInvalidStatus):
		ErrorResponse(w, err.Error(), http.StatusBadRequest)
	default:
		slog.Error("store failure",
			"request_id", GetRequestID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"err", err,
		)
		ErrorResponse(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
