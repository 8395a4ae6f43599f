package db

import "strings"

// DatabaseType represents supported database types / Types de BD supportés
type DatabaseType string

const (
	SQLite     DatabaseType = "sqlite"
	MySQL      DatabaseType = "mysql"
	PostgreSQL DatabaseType = "postgres"
)

// aliases maps accepted config spellings to a type / Orthographes acceptées dans la config
var aliases = map[string]DatabaseType{
	"":           SQLite,
	"sqlite":     SQLite,
	"sqlite3":    SQLite,
	"mysql":      MySQL,
	"postgres":   PostgreSQL,
	"postgresql": PostgreSQL,
}

// ParseDatabaseType normalizes a configured type, ok=false when unknown / Normalise le type configuré
func ParseDatabaseType(raw string) (DatabaseType, bool) {
	dt, ok := aliases[strings.ToLower(strings.TrimSpace(raw))]
	return dt, ok
}

// String returns string representation
func (dt DatabaseType) String() string {
	return string(dt)
}

// IsValid checks if database type is valid
func (dt DatabaseType) IsValid() bool {
	switch dt {
	case SQLite, MySQL, PostgreSQL:
		return true
	default:
		return false
	}
}
