package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Olprog59/go-delegation/internal/domain"
)

func TestSQLiteUserRepo_Upsert(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAdapter(db, "sqlite").UserRepository()
	ctx := context.Background()

	first := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	caller := domain.NewCaller("u1", "old@example.com", domain.RoleUser)
	if err := repo.Upsert(ctx, caller.AsUser(first)); err != nil {
		t.Fatalf("Failed to insert user: %v", err)
	}

	// Same id again refreshes email and role / Même id : email et rôle mis à jour
	second := first.Add(time.Hour)
	promoted := domain.NewCaller("u1", "new@example.com", domain.RoleModerator)
	if err := repo.Upsert(ctx, promoted.AsUser(second)); err != nil {
		t.Fatalf("Failed to update user: %v", err)
	}

	user, err := repo.GetByID(ctx, "u1")
	if err != nil {
		t.Fatalf("Failed to get user: %v", err)
	}

	if user.Email != "new@example.com" {
		t.Errorf("Expected email 'new@example.com', got '%s'", user.Email)
	}
	if user.Role != domain.RoleModerator {
		t.Errorf("Expected role 'moderator', got '%s'", user.Role)
	}
	if !user.CreatedAt.Equal(first) {
		t.Errorf("Expected created_at preserved as %v, got %v", first, user.CreatedAt)
	}
	if !user.UpdatedAt.Equal(second) {
		t.Errorf("Expected updated_at %v, got %v", second, user.UpdatedAt)
	}
}

func TestSQLiteUserRepo_GetByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAdapter(db, "sqlite").UserRepository()

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, ErrNoRecord) {
		t.Errorf("Expected ErrNoRecord, got %v", err)
	}
}

func TestNewAdapter_UnknownDriverFallsBackToSQLite(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAdapter(db, "oracle").UserRepository()

	// Works against the SQLite schema / Fonctionne sur le schéma SQLite
	if err := repo.Upsert(context.Background(), domain.NewCaller("u1", "a@b.c", domain.RoleUser).AsUser(time.Now())); err != nil {
		t.Fatalf("Expected SQLite fallback to work, got %v", err)
	}
}
