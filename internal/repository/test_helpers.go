package repository

import (
	"database/sql"
	"fmt"

	"github.com/Olprog59/go-delegation/internal/repository/db"
)

// OpenMemorySQLite opens a migrated in-memory SQLite database for tests / Ouvre une BD SQLite en mémoire migrée pour les tests
// migrationsDir is relative to the calling test's package directory.
func OpenMemorySQLite(migrationsDir string) (*sql.DB, error) {
	database, err := db.NewDatabaseInitializer(db.SQLite).Initialize(db.DatabaseConfig{
		Type: db.SQLite,
		DSN:  ":memory:",
	})
	if err != nil {
		return nil, err
	}

	if err := db.NewMigrationDriverRegistry().RunMigrations(database, db.SQLite, migrationsDir); err != nil {
		database.Close()
		return nil, fmt.Errorf("migrate test database: %w", err)
	}
	return database, nil
}

// SeedUser inserts a mirrored user row for tests / Insère un utilisateur pour les tests
func SeedUser(database *sql.DB, id, role string) error {
	_, err := database.Exec(
		`INSERT INTO users (id, email, role, created_at, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
		id, id+"@example.com", role,
	)
	return err
}
