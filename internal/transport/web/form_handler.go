package web

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/Olprog59/go-delegation/internal/dto"
	"github.com/Olprog59/go-delegation/internal/formbridge"
)

func (h *Handler) formToDTO(f formbridge.Form) dto.FormDTO {
	return dto.FormDTO{
		Slug:          f.Slug,
		Title:         f.Title,
		Description:   f.Description,
		FormID:        f.FormID,
		Type:          string(f.Type),
		OperationType: f.OperationType,
		EmbedURL:      h.container.Bridge.Catalog().EmbedURL(f),
	}
}

// ListForms returns the form catalog / Retourne le catalogue de formulaires
func (h *Handler) ListForms(w http.ResponseWriter, r *http.Request) {
	forms := h.container.Bridge.Catalog().All()
	out := make([]dto.FormDTO, 0, len(forms))
	for _, f := range forms {
		out = append(out, h.formToDTO(f))
	}
	jsonResponse(w, out)
}

// GetForm returns one catalog entry / Retourne une entrée du catalogue
func (h *Handler) GetForm(w http.ResponseWriter, r *http.Request) {
	f, err := h.container.Bridge.Catalog().Get(r.PathValue("slug"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	jsonResponse(w, h.formToDTO(f))
}

// SubmitForm relays a raw message posted by the form iframe / Relaie un message brut de l'iframe
//
// The body is the message exactly as the browser received it. Messages that are
// not submissions are acknowledged with 202 so the client can forward blindly.
func (h *Handler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	limitRequestBody(w, r, maxBodyBytes)
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			ErrorResponse(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		ErrorResponse(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	outcome, err := h.container.Bridge.Handle(r.Context(), CallerFromContext(r.Context()), r.PathValue("slug"), raw)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if !outcome.Handled {
		slog.Debug("form message ignored",
			"request_id", GetRequestID(r.Context()),
			"slug", r.PathValue("slug"),
			"reason", outcome.Reason,
		)
		jsonStatus(w, http.StatusAccepted, dto.SubmissionResp{Handled: false, Reason: outcome.Reason})
		return
	}

	jsonStatus(w, http.StatusCreated, dto.SubmissionResp{
		Handled:   true,
		Reason:    outcome.Reason,
		Operation: dto.OperationToDTO(outcome.Operation),
	})
}

// DirectSubmit creates an operation without going through the form (dev only) / Crée une opération sans formulaire
func (h *Handler) DirectSubmit(w http.ResponseWriter, r *http.Request) {
	op, err := h.container.Bridge.DirectSubmit(r.Context(), CallerFromContext(r.Context()), r.PathValue("slug"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	jsonStatus(w, http.StatusCreated, dto.OperationToDTO(op))
}
