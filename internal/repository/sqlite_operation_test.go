package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/Olprog59/go-delegation/internal/domain"
	"github.com/Olprog59/go-delegation/internal/repository/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenMemorySQLite("../../migrations/sqlite")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestOperation(id, userID string, createdAt time.Time) *domain.DelegationOperation {
	notes := "premier versement"
	return &domain.DelegationOperation{
		BaseModel:     domain.BaseModel{CreatedAt: createdAt, UpdatedAt: createdAt},
		ID:            id,
		UserID:        userID,
		Name:          "Assurance Vie - Dupont",
		ClientName:    "Dupont",
		Type:          domain.TypeSouscription,
		OperationType: "Assurance Vie",
		Status:        domain.StatusEnAttente,
		FormData:      map[string]any{"montant": "10000", "tags": []any{"a", "b"}},
		Notes:         &notes,
	}
}

func TestSQLiteOperationRepo_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	if err := SeedUser(db, "u1", "user"); err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
	repo := NewAdapter(db, "sqlite").OperationRepository()
	ctx := context.Background()

	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	op := newTestOperation("op-1", "u1", created)
	if err := repo.Create(ctx, op); err != nil {
		t.Fatalf("Failed to create operation: %v", err)
	}

	got, err := repo.GetByID(ctx, "op-1")
	if err != nil {
		t.Fatalf("Failed to get operation: %v", err)
	}

	if got.UserID != "u1" || got.ClientName != "Dupont" {
		t.Errorf("Unexpected operation: %+v", got)
	}
	if got.Type != domain.TypeSouscription {
		t.Errorf("Expected type Souscription, got %q", got.Type)
	}
	if got.Status != domain.StatusEnAttente {
		t.Errorf("Expected status 'En attente', got %q", got.Status)
	}
	if got.FormData["montant"] != "10000" {
		t.Errorf("Expected form data to round-trip, got %v", got.FormData)
	}
	if got.Notes == nil || *got.Notes != "premier versement" {
		t.Errorf("Expected notes to round-trip, got %v", got.Notes)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("Expected created_at %v, got %v", created, got.CreatedAt)
	}
}

func TestSQLiteOperationRepo_NilNotes(t *testing.T) {
	db := setupTestDB(t)
	if err := SeedUser(db, "u1", "user"); err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
	repo := sqlite.NewOperationRepository(db)
	ctx := context.Background()

	op := newTestOperation("op-1", "u1", time.Now())
	op.Notes = nil
	op.FormData = nil
	if err := repo.Create(ctx, op); err != nil {
		t.Fatalf("Failed to create operation: %v", err)
	}

	got, err := repo.GetByID(ctx, "op-1")
	if err != nil {
		t.Fatalf("Failed to get operation: %v", err)
	}
	if got.Notes != nil {
		t.Errorf("Expected nil notes, got %q", *got.Notes)
	}
	if got.FormData == nil || len(got.FormData) != 0 {
		t.Errorf("Expected empty form data, got %v", got.FormData)
	}
}

func TestSQLiteOperationRepo_GetByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewOperationRepository(db)

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, ErrNoRecord) {
		t.Errorf("Expected ErrNoRecord, got %v", err)
	}
}

func TestSQLiteOperationRepo_CreateDuplicate(t *testing.T) {
	db := setupTestDB(t)
	if err := SeedUser(db, "u1", "user"); err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
	repo := sqlite.NewOperationRepository(db)
	ctx := context.Background()

	op := newTestOperation("op-1", "u1", time.Now())
	if err := repo.Create(ctx, op); err != nil {
		t.Fatalf("Failed to create operation: %v", err)
	}
	if err := repo.Create(ctx, op); !IsDuplicate(err) {
		t.Errorf("Expected duplicate error, got %v", err)
	}
}

func TestSQLiteOperationRepo_CreateUnknownUser(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewOperationRepository(db)

	err := repo.Create(context.Background(), newTestOperation("op-1", "ghost", time.Now()))
	if !errors.Is(err, ErrForeignKeyViolation) {
		t.Errorf("Expected ErrForeignKeyViolation, got %v", err)
	}
}

func TestSQLiteOperationRepo_ListByUser(t *testing.T) {
	db := setupTestDB(t)
	for _, id := range []string{"u1", "u2"} {
		if err := SeedUser(db, id, "user"); err != nil {
			t.Fatalf("Failed to seed user: %v", err)
		}
	}
	repo := sqlite.NewOperationRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	fixtures := []*domain.DelegationOperation{
		newTestOperation("op-old", "u1", base),
		newTestOperation("op-new", "u1", base.Add(2*time.Hour)),
		newTestOperation("op-mid", "u1", base.Add(time.Hour)),
		newTestOperation("op-other", "u2", base.Add(3*time.Hour)),
	}
	for _, op := range fixtures {
		if err := repo.Create(ctx, op); err != nil {
			t.Fatalf("Failed to create %s: %v", op.ID, err)
		}
	}

	ops, err := repo.ListByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("Failed to list operations: %v", err)
	}

	want := []string{"op-new", "op-mid", "op-old"}
	if len(ops) != len(want) {
		t.Fatalf("Expected %d operations, got %d", len(want), len(ops))
	}
	for i, id := range want {
		if ops[i].ID != id {
			t.Errorf("Position %d: expected %s, got %s", i, id, ops[i].ID)
		}
	}

	count, err := repo.CountByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("Failed to count operations: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected count 3, got %d", count)
	}
}

func TestSQLiteOperationRepo_ListByUser_Empty(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewOperationRepository(db)

	ops, err := repo.ListByUser(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Failed to list operations: %v", err)
	}
	if ops == nil || len(ops) != 0 {
		t.Errorf("Expected empty non-nil slice, got %v", ops)
	}
}

func TestSQLiteOperationRepo_UpdateStatus(t *testing.T) {
	db := setupTestDB(t)
	if err := SeedUser(db, "u1", "user"); err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
	repo := sqlite.NewOperationRepository(db)
	ctx := context.Background()

	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	if err := repo.Create(ctx, newTestOperation("op-1", "u1", created)); err != nil {
		t.Fatalf("Failed to create operation: %v", err)
	}

	later := created.Add(24 * time.Hour)
	if err := repo.UpdateStatus(ctx, "op-1", domain.StatusEnCours, later); err != nil {
		t.Fatalf("Failed to update status: %v", err)
	}

	got, err := repo.GetByID(ctx, "op-1")
	if err != nil {
		t.Fatalf("Failed to get operation: %v", err)
	}
	if got.Status != domain.StatusEnCours {
		t.Errorf("Expected status 'En cours', got %q", got.Status)
	}
	if !got.UpdatedAt.Equal(later) {
		t.Errorf("Expected updated_at %v, got %v", later, got.UpdatedAt)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("created_at must not change, got %v", got.CreatedAt)
	}

	if err := repo.UpdateStatus(ctx, "missing", domain.StatusTermine, later); !errors.Is(err, ErrNoRecord) {
		t.Errorf("Expected ErrNoRecord for unknown id, got %v", err)
	}
}
