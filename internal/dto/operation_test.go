package dto_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Olprog59/go-delegation/internal/domain"
	"github.com/Olprog59/go-delegation/internal/dto"
)

func TestOperationToDTO(t *testing.T) {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.FixedZone("CET", 3600))
	op := &domain.DelegationOperation{
		BaseModel:     domain.BaseModel{CreatedAt: created, UpdatedAt: created},
		ID:            "op-1",
		UserID:        "user-1",
		Name:          "Assurance Vie - Dupont",
		ClientName:    "Dupont",
		Type:          domain.TypeSouscription,
		OperationType: "Assurance Vie",
		Status:        domain.StatusEnAttente,
		FormData:      map[string]any{"k": "v"},
	}

	got := dto.OperationToDTO(op)

	if got.ID != op.ID || got.UserID != op.UserID {
		t.Errorf("Unexpected identity fields: %+v", got)
	}
	if got.Type != "Souscription" || got.Status != "En attente" {
		t.Errorf("Expected enum strings, got type=%q status=%q", got.Type, got.Status)
	}
	if got.CreatedAt.Location() != time.UTC {
		t.Errorf("Expected UTC timestamps, got %v", got.CreatedAt.Location())
	}

	// Absent notes are serialized as null, not omitted
	body, err := json.Marshal(got)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		t.Fatal(err)
	}
	if v, ok := raw["notes"]; !ok || v != nil {
		t.Errorf("Expected notes:null, got %v (present=%v)", v, ok)
	}
}

func TestOperationsToDTO_Empty(t *testing.T) {
	got := dto.OperationsToDTO(nil)
	if got == nil || len(got) != 0 {
		t.Errorf("Expected empty non-nil slice, got %#v", got)
	}
}

func TestCallerToDTO(t *testing.T) {
	got := dto.CallerToDTO(domain.NewCaller("u1", "u1@example.com", domain.RoleUser))
	if got.Capabilities == nil {
		t.Error("Capabilities should never be nil")
	}
	if got.Role != "user" {
		t.Errorf("Expected role user, got %s", got.Role)
	}

	admin := dto.CallerToDTO(domain.NewCaller("a1", "a1@example.com", domain.RoleAdmin))
	if len(admin.Capabilities) != 1 || admin.Capabilities[0] != "*" {
		t.Errorf("Expected admin wildcard capability, got %v", admin.Capabilities)
	}
}

func TestPreferencesToDTO(t *testing.T) {
	got := dto.PreferencesToDTO(domain.DefaultPreferences("u1"))
	if got.OnboardingSeen || got.UpdatedAt != nil {
		t.Errorf("Expected defaults without timestamp, got %+v", got)
	}

	now := time.Now()
	got = dto.PreferencesToDTO(&domain.UserPreferences{UserID: "u1", OnboardingSeen: true, UpdatedAt: now})
	if !got.OnboardingSeen || got.UpdatedAt == nil {
		t.Errorf("Expected stored preferences, got %+v", got)
	}
}
