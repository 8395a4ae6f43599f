package repository

import (
	"database/sql"

	"github.com/Olprog59/go-delegation/internal/ports"
)

// DatabaseFactory must be implemented by each database package / Doit être implémenté par chaque package de BD
// Adding a repository here forces an implementation in sqlite, mysql and postgres.
// Ajouter un repository ici impose une implémentation dans sqlite, mysql et postgres.
type DatabaseFactory interface {
	// NewUserRepository creates user repository / Crée le repository utilisateur
	NewUserRepository(db *sql.DB) ports.UserRepository

	// NewOperationRepository creates operation repository / Crée le repository des opérations
	NewOperationRepository(db *sql.DB) ports.OperationRepository

	// NewPreferenceRepository creates preference repository / Crée le repository des préférences
	NewPreferenceRepository(db *sql.DB) ports.PreferenceRepository
}
