package web

import (
	"log/slog"
	"net/http"

	"github.com/Olprog59/go-delegation/internal/dto"
	"github.com/Olprog59/go-delegation/internal/service"
)

// csrfCookieMaxAge keeps the CSRF cookie for a working day / Durée de vie du cookie CSRF
const csrfCookieMaxAge = 12 * 60 * 60

// Me returns the authenticated caller and its capabilities / Retourne l'appelant authentifié et ses capacités
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	caller := CallerFromContext(r.Context())
	if caller == nil {
		writeServiceError(w, r, service.ErrUnauthorized)
		return
	}
	jsonResponse(w, dto.CallerToDTO(caller))
}

// GetPreferences returns the caller's preferences / Retourne les préférences de l'appelant
func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.container.PreferenceSvc.GetPreferences(r.Context(), CallerFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	jsonResponse(w, dto.PreferencesToDTO(prefs))
}

// UpdateOnboarding records whether the onboarding popup was seen / Enregistre si la popup d'accueil a été vue
func (h *Handler) UpdateOnboarding(w http.ResponseWriter, r *http.Request) {
	var req dto.OnboardingReq
	if !decodeJSON(w, r, &req) {
		return
	}

	prefs, err := h.container.PreferenceSvc.MarkOnboardingSeen(r.Context(), CallerFromContext(r.Context()), req.Seen)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	jsonResponse(w, dto.PreferencesToDTO(prefs))
}

// CSRFToken issues a double-submit token for cookie-authenticated clients / Émet un token CSRF
// The cookie is readable by JavaScript, which echoes it in the X-CSRF-Token header.
func (h *Handler) CSRFToken(w http.ResponseWriter, r *http.Request) {
	token, err := generateCSRFToken()
	if err != nil {
		slog.Error("failed to generate CSRF token", "err", err)
		ErrorResponse(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookie,
		Value:    token,
		Path:     h.container.Config.Auth.CookiePath,
		MaxAge:   csrfCookieMaxAge,
		HttpOnly: false, // Must be false so JavaScript can read it
		Secure:   h.container.Config.Auth.CookieSecure,
		SameSite: http.SameSiteLaxMode,
		Domain:   h.container.Config.Auth.CookieDomain,
	})

	jsonResponse(w, map[string]string{"csrfToken": token})
}
