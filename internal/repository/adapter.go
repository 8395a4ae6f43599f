package repository

import (
	"database/sql"

	"github.com/Olprog59/go-delegation/internal/ports"
	"github.com/Olprog59/go-delegation/internal/repository/db"
	"github.com/Olprog59/go-delegation/internal/repository/mysql"
	"github.com/Olprog59/go-delegation/internal/repository/postgres"
	"github.com/Olprog59/go-delegation/internal/repository/sqlite"
)

// Compile-time checks: every engine must satisfy DatabaseFactory
// Vérifications à la compilation : chaque moteur doit satisfaire DatabaseFactory
var (
	_ DatabaseFactory = (*sqlite.Factory)(nil)
	_ DatabaseFactory = (*mysql.Factory)(nil)
	_ DatabaseFactory = (*postgres.Factory)(nil)
)

// factoryRegistry holds all database factories / Registre de toutes les factories de BD
var factoryRegistry = map[db.DatabaseType]DatabaseFactory{
	db.SQLite:     &sqlite.Factory{},
	db.MySQL:      &mysql.Factory{},
	db.PostgreSQL: &postgres.Factory{},
}

// Adapter adapts database connection to repositories / Adapte la connexion BD vers les repositories
type Adapter struct {
	db      *sql.DB
	factory DatabaseFactory
}

// NewAdapter creates repository adapter / Crée l'adapteur de repositories
func NewAdapter(database *sql.DB, driver string) *Adapter {
	dbType, _ := db.ParseDatabaseType(driver)
	factory := factoryRegistry[dbType]
	if factory == nil {
		factory = &sqlite.Factory{} // default fallback
	}

	return &Adapter{
		db:      database,
		factory: factory,
	}
}

// UserRepository returns appropriate user repository / Retourne le repository utilisateur approprié
func (a *Adapter) UserRepository() ports.UserRepository {
	return a.factory.NewUserRepository(a.db)
}

// OperationRepository returns appropriate operation repository / Retourne le repository des opérations
func (a *Adapter) OperationRepository() ports.OperationRepository {
	return a.factory.NewOperationRepository(a.db)
}

// PreferenceRepository returns appropriate preference repository / Retourne le repository des préférences
func (a *Adapter) PreferenceRepository() ports.PreferenceRepository {
	return a.factory.NewPreferenceRepository(a.db)
}
