package sqlite

import (
	"database/sql"

	"github.com/Olprog59/go-delegation/internal/ports"
)

// Factory implements DatabaseFactory for SQLite / Implémente DatabaseFactory pour SQLite
// The compile-time check is in adapter.go to avoid import cycles
// La vérification à la compilation est dans adapter.go pour éviter les cycles d'imports
type Factory struct{}

// NewUserRepository creates user repository / Crée le repository utilisateur
func (f *Factory) NewUserRepository(db *sql.DB) ports.UserRepository {
	return NewUserRepository(db)
}

// NewOperationRepository creates operation repository / Crée le repository des opérations
func (f *Factory) NewOperationRepository(db *sql.DB) ports.OperationRepository {
	return NewOperationRepository(db)
}

// NewPreferenceRepository creates preference repository / Crée le repository des préférences
func (f *Factory) NewPreferenceRepository(db *sql.DB) ports.PreferenceRepository {
	return NewPreferenceRepository(db)
}
