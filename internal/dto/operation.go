package dto

import (
	"time"

	"github.com/Olprog59/go-delegation/internal/domain"
)

// OperationDTO is the JSON shape of a delegation operation / Forme JSON d'une opération de délégation
type OperationDTO struct {
	ID            string         `json:"id"`
	UserID        string         `json:"userId"`
	Name          string         `json:"name"`
	ClientName    string         `json:"clientName"`
	Type          string         `json:"type"`
	OperationType string         `json:"operationType"`
	Status        string         `json:"status"`
	FormData      map[string]any `json:"formData"`
	Notes         *string        `json:"notes"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// OperationToDTO converts domain.DelegationOperation to OperationDTO / Convertit une opération en DTO
func OperationToDTO(op *domain.DelegationOperation) *OperationDTO {
	return &OperationDTO{
		ID:            op.ID,
		UserID:        op.UserID,
		Name:          op.Name,
		ClientName:    op.ClientName,
		Type:          string(op.Type),
		OperationType: op.OperationType,
		Status:        string(op.Status),
		FormData:      op.FormData,
		Notes:         op.Notes,
		CreatedAt:     op.CreatedAt.UTC(),
		UpdatedAt:     op.UpdatedAt.UTC(),
	}
}

// OperationsToDTO converts a list, never returning nil / Convertit une liste, jamais nil
func OperationsToDTO(ops []*domain.DelegationOperation) []*OperationDTO {
	out := make([]*OperationDTO, 0, len(ops))
	for _, op := range ops {
		out = append(out, OperationToDTO(op))
	}
	return out
}

// CreateOperationReq is the body of POST /api/operations / Corps de création d'opération
type CreateOperationReq struct {
	Name          string         `json:"name"`
	ClientName    string         `json:"clientName"`
	Type          string         `json:"type"`
	OperationType string         `json:"operationType"`
	FormData      map[string]any `json:"formData"`
	Notes         *string        `json:"notes"`
}

// UpdateStatusReq is the body of PATCH /api/operations/{id}/status / Corps de mise à jour du statut
type UpdateStatusReq struct {
	Status string `json:"status"`
}

// SeedResp reports whether a seed operation was created / Indique si une opération de test a été créée
type SeedResp struct {
	Created   bool          `json:"created"`
	Operation *OperationDTO `json:"operation,omitempty"`
}

// FormDTO describes one embeddable form / Décrit un formulaire intégrable
type FormDTO struct {
	Slug          string `json:"slug"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	FormID        string `json:"formId"`
	Type          string `json:"type"`
	OperationType string `json:"operationType"`
	EmbedURL      string `json:"embedUrl"`
}

// SubmissionResp is the form bridge answer / Réponse du pont de formulaires
type SubmissionResp struct {
	Handled   bool          `json:"handled"`
	Reason    string        `json:"reason"`
	Operation *OperationDTO `json:"operation,omitempty"`
}

// MeResp is the caller identity / Identité de l'appelant
type MeResp struct {
	ID           string   `json:"id"`
	Email        string   `json:"email"`
	Role         string   `json:"role"`
	Capabilities []string `json:"capabilities"`
}

// CallerToDTO converts the request caller / Convertit l'appelant
func CallerToDTO(c *domain.Caller) *MeResp {
	caps := c.Capabilities()
	if caps == nil {
		caps = []string{}
	}
	return &MeResp{
		ID:           c.ID,
		Email:        c.Email,
		Role:         string(c.Role),
		Capabilities: caps,
	}
}

// PreferencesDTO is the per-user preference record / Préférences de l'utilisateur
type PreferencesDTO struct {
	OnboardingSeen bool       `json:"onboardingSeen"`
	UpdatedAt      *time.Time `json:"updatedAt,omitempty"`
}

// PreferencesToDTO converts preferences; zero time is omitted / Convertit les préférences
func PreferencesToDTO(p *domain.UserPreferences) *PreferencesDTO {
	out := &PreferencesDTO{OnboardingSeen: p.OnboardingSeen}
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt.UTC()
		out.UpdatedAt = &t
	}
	return out
}

// OnboardingReq is the body of PUT /api/me/preferences/onboarding / Corps de mise à jour de l'onboarding
type OnboardingReq struct {
	Seen bool `json:"seen"`
}
