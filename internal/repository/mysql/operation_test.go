package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Olprog59/go-delegation/internal/domain"
	"github.com/Olprog59/go-delegation/internal/repository/db"
	"github.com/go-sql-driver/mysql"

	_ "modernc.org/sqlite"
)

func TestHandleError(t *testing.T) {
	other := &mysql.MySQLError{Number: 1205, Message: "lock wait timeout"}

	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"no rows", sql.ErrNoRows, db.ErrNoRecord},
		{"wrapped no rows", fmt.Errorf("scan: %w", sql.ErrNoRows), db.ErrNoRecord},
		{"duplicate entry", &mysql.MySQLError{Number: 1062}, ErrDup},
		{"foreign key", &mysql.MySQLError{Number: 1452}, db.ErrForeignKeyViolation},
		{"other driver error", other, other},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := handleError(tt.in)
			if tt.want == nil {
				if got != nil {
					t.Fatalf("Expected nil, got %v", got)
				}
				return
			}
			if !errors.Is(got, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

// changedRowsDB reports zero affected rows for every UPDATE, like a MySQL
// connection without CLIENT_FOUND_ROWS when the new value equals the old one.
type changedRowsDB struct {
	*sql.DB
}

type zeroResult struct{ sql.Result }

func (zeroResult) RowsAffected() (int64, error) { return 0, nil }

func (c changedRowsDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	res, err := c.DB.ExecContext(ctx, query, args...)
	if err != nil || !strings.HasPrefix(strings.TrimSpace(query), "UPDATE") {
		return res, err
	}
	return zeroResult{res}, nil
}

// openStandIn runs the repository's MySQL-dialect statements on a migrated SQLite file
func openStandIn(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.NewDatabaseInitializer(db.SQLite).Initialize(db.DatabaseConfig{
		Type: db.SQLite,
		DSN:  filepath.Join(t.TempDir(), "standin.db"),
	})
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := db.NewMigrationDriverRegistry().RunMigrations(database, db.SQLite, "../../../migrations/sqlite"); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	if _, err := database.Exec(`INSERT INTO users (id, email, role, created_at, updated_at)
		VALUES ('u1', 'u1@example.com', 'user', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`); err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
	return database
}

func TestOperationRepository_UpdateStatus_ZeroChangedRows(t *testing.T) {
	database := openStandIn(t)
	repo := &operationRepository{db: changedRowsDB{database}}
	ctx := context.Background()

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	if err := repo.Create(ctx, &domain.DelegationOperation{
		BaseModel:     domain.BaseModel{CreatedAt: now, UpdatedAt: now},
		ID:            "op-1",
		UserID:        "u1",
		Name:          "PER - Martin",
		ClientName:    "Martin",
		Type:          domain.TypeSouscription,
		OperationType: "PER",
		Status:        domain.StatusEnAttente,
		FormData:      map[string]any{"seed": true},
	}); err != nil {
		t.Fatalf("Failed to create operation: %v", err)
	}

	// Same status again: zero changed rows, but the row exists
	if err := repo.UpdateStatus(ctx, "op-1", domain.StatusEnAttente, now.Add(time.Minute)); err != nil {
		t.Errorf("Expected repeated status update to succeed, got %v", err)
	}

	if err := repo.UpdateStatus(ctx, "missing", domain.StatusEnCours, now); !errors.Is(err, db.ErrNoRecord) {
		t.Errorf("Expected ErrNoRecord for unknown id, got %v", err)
	}

	count, err := repo.CountByUser(ctx, "u1")
	if err != nil || count != 1 {
		t.Errorf("Expected 1 operation, got %d (%v)", count, err)
	}
}
