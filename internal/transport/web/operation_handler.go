package web

import (
	"net/http"

	"github.com/Olprog59/go-delegation/internal/domain"
	"github.com/Olprog59/go-delegation/internal/dto"
	"github.com/Olprog59/go-delegation/internal/service"
)

// ListOperations returns the caller's operations, newest first / Retourne les opérations de l'appelant
func (h *Handler) ListOperations(w http.ResponseWriter, r *http.Request) {
	ops, err := h.container.OperationSvc.List(r.Context(), CallerFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	jsonResponse(w, dto.OperationsToDTO(ops))
}

// CreateOperation handles POST /api/operations / Crée une opération
func (h *Handler) CreateOperation(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateOperationReq
	if !decodeJSON(w, r, &req) {
		return
	}

	op, err := h.container.OperationSvc.Create(r.Context(), CallerFromContext(r.Context()), service.CreateOperationInput{
		Name:          req.Name,
		ClientName:    req.ClientName,
		Type:          req.Type,
		OperationType: req.OperationType,
		FormData:      req.FormData,
		Notes:         req.Notes,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	jsonStatus(w, http.StatusCreated, dto.OperationToDTO(op))
}

// GetOperation returns one operation for the detail panel / Retourne une opération pour le panneau de détail
func (h *Handler) GetOperation(w http.ResponseWriter, r *http.Request) {
	op, err := h.container.OperationSvc.Get(r.Context(), CallerFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	jsonResponse(w, dto.OperationToDTO(op))
}

// UpdateOperationStatus handles PATCH /api/operations/{id}/status / Met à jour le statut
func (h *Handler) UpdateOperationStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateStatusReq
	if !decodeJSON(w, r, &req) {
		return
	}

	op, err := h.container.OperationSvc.UpdateStatus(
		r.Context(),
		CallerFromContext(r.Context()),
		r.PathValue("id"),
		domain.OperationStatus(req.Status),
	)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	jsonResponse(w, dto.OperationToDTO(op))
}

// SeedOperation creates a sample operation for an empty account (dev only) / Crée une opération de test
func (h *Handler) SeedOperation(w http.ResponseWriter, r *http.Request) {
	op, created, err := h.container.OperationSvc.Seed(r.Context(), CallerFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if !created {
		jsonResponse(w, dto.SeedResp{Created: false})
		return
	}
	jsonStatus(w, http.StatusCreated, dto.SeedResp{Created: true, Operation: dto.OperationToDTO(op)})
}
