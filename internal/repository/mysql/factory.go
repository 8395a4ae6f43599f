package mysql

import (
	"database/sql"

	"github.com/Olprog59/go-delegation/internal/ports"
)

// Factory implements DatabaseFactory for MySQL / Implémente DatabaseFactory pour MySQL
type Factory struct{}

// NewUserRepository creates user repository / Crée le repository utilisateur
func (f *Factory) NewUserRepository(db *sql.DB) ports.UserRepository {
	return &userRepository{db: db}
}

// NewOperationRepository creates operation repository / Crée le repository des opérations
func (f *Factory) NewOperationRepository(db *sql.DB) ports.OperationRepository {
	return &operationRepository{db: db}
}

// NewPreferenceRepository creates preference repository / Crée le repository des préférences
func (f *Factory) NewPreferenceRepository(db *sql.DB) ports.PreferenceRepository {
	return &preferenceRepository{db: db}
}
