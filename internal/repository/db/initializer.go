package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// DatabaseConfig holds database connection config / Contient la config de connexion BD
type DatabaseConfig struct {
	Type         DatabaseType
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

// DatabaseInitializer initializes database connections / Initialise les connexions BD
type DatabaseInitializer interface {
	Initialize(config DatabaseConfig) (*sql.DB, error)
	ConfigureConnection(db *sql.DB, config DatabaseConfig) error
	Type() DatabaseType
}

// initializers maps each type to its initializer constructor / Associe chaque type à son initialiseur
var initializers = map[DatabaseType]func() DatabaseInitializer{
	MySQL:      func() DatabaseInitializer { return &mysqlInitializer{} },
	PostgreSQL: func() DatabaseInitializer { return &postgresInitializer{} },
	SQLite:     func() DatabaseInitializer { return &sqliteInitializer{} },
}

// NewDatabaseInitializer creates initializer for database type / Crée l'initialiseur pour le type de BD
// Unknown types fall back to SQLite.
func NewDatabaseInitializer(dbType DatabaseType) DatabaseInitializer {
	if factory, ok := initializers[dbType]; ok {
		return factory()
	}
	return &sqliteInitializer{}
}

// openAndPing opens, configures and pings a connection / Ouvre, configure et teste une connexion
func openAndPing(i DatabaseInitializer, driver string, config DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open(driver, config.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", i.Type(), err)
	}

	if err := i.ConfigureConnection(db, config); err != nil {
		db.Close()
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", i.Type(), err)
	}

	slog.Info("database connected", "type", i.Type())
	return db, nil
}

// baseInitializer provides common functionality / Fournit les fonctionnalités communes
type baseInitializer struct{}

func (b *baseInitializer) setConnectionPool(db *sql.DB, config DatabaseConfig) {
	maxOpen := config.MaxOpenConns
	if maxOpen == 0 {
		maxOpen = 25
	}
	maxIdle := config.MaxIdleConns
	if maxIdle == 0 {
		maxIdle = 5
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
}

// MySQL initializer / Initialiseur MySQL
// The DSN needs parseTime=true for DATETIME scanning and multiStatements=true for migrations.
type mysqlInitializer struct {
	baseInitializer
}

func (i *mysqlInitializer) Initialize(config DatabaseConfig) (*sql.DB, error) {
	return openAndPing(i, "mysql", config)
}

func (i *mysqlInitializer) ConfigureConnection(db *sql.DB, config DatabaseConfig) error {
	i.setConnectionPool(db, config)

	if _, err := db.Exec("SET SESSION sql_mode='TRADITIONAL,NO_AUTO_VALUE_ON_ZERO'"); err != nil {
		slog.Warn("failed to set MySQL sql_mode", "err", err)
	}
	if _, err := db.Exec("SET time_zone = '+00:00'"); err != nil {
		slog.Warn("failed to set MySQL time zone", "err", err)
	}

	return nil
}

func (i *mysqlInitializer) Type() DatabaseType {
	return MySQL
}

// PostgreSQL initializer / Initialiseur PostgreSQL
type postgresInitializer struct {
	baseInitializer
}

func (i *postgresInitializer) Initialize(config DatabaseConfig) (*sql.DB, error) {
	return openAndPing(i, "postgres", config)
}

func (i *postgresInitializer) ConfigureConnection(db *sql.DB, config DatabaseConfig) error {
	i.setConnectionPool(db, config)

	if _, err := db.Exec("SET TIME ZONE 'UTC'"); err != nil {
		slog.Warn("failed to set PostgreSQL timezone", "err", err)
	}

	return nil
}

func (i *postgresInitializer) Type() DatabaseType {
	return PostgreSQL
}

// SQLite initializer / Initialiseur SQLite
// Pragmas are connection-scoped, so they travel in the DSN and modernc applies
// them to every connection the pool opens.
type sqliteInitializer struct {
	baseInitializer
}

// sqlitePragmas are applied on connect; busy_timeout first so the others can wait on locks
var sqlitePragmas = []string{
	"busy_timeout(5000)",
	"foreign_keys(1)",
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
	"trusted_schema(0)",
	"cache_size(10000)",
}

func (i *sqliteInitializer) Initialize(config DatabaseConfig) (*sql.DB, error) {
	config.DSN = withSQLitePragmas(config.DSN)
	return openAndPing(i, "sqlite", config)
}

func (i *sqliteInitializer) ConfigureConnection(db *sql.DB, config DatabaseConfig) error {
	i.setConnectionPool(db, config)

	// Every connection to :memory: is a distinct database / Chaque connexion à :memory: est une BD distincte
	if isInMemorySQLite(config.DSN) {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}
	return nil
}

// withSQLitePragmas appends _pragma parameters the DSN does not already set / Ajoute les _pragma absents du DSN
func withSQLitePragmas(dsn string) string {
	var params []string
	for _, p := range sqlitePragmas {
		name, _, _ := strings.Cut(p, "(")
		if strings.Contains(dsn, "_pragma="+name) {
			continue
		}
		params = append(params, "_pragma="+p)
	}
	if len(params) == 0 {
		return dsn
	}

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(params, "&")
}

func (i *sqliteInitializer) Type() DatabaseType {
	return SQLite
}

func isInMemorySQLite(dsn string) bool {
	name, _, _ := strings.Cut(dsn, "?")
	return name == ":memory:" || name == "file::memory:" || strings.Contains(dsn, "mode=memory")
}
