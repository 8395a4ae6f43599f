package repository

import (
	"errors"

	"github.com/Olprog59/go-delegation/internal/repository/db"
	"github.com/Olprog59/go-delegation/internal/repository/mysql"
	"github.com/Olprog59/go-delegation/internal/repository/postgres"
	"github.com/Olprog59/go-delegation/internal/repository/sqlite"
)

// Re-export common errors for callers outside the engine packages
var (
	ErrNoRecord            = db.ErrNoRecord
	ErrForeignKeyViolation = db.ErrForeignKeyViolation

	// SQLite-specific errors from sqlite package
	ErrBusy   = sqlite.ErrBusy
	ErrLocked = sqlite.ErrLocked
)

// IsDuplicate reports a unique violation from any engine / Indique une violation d'unicité quel que soit le moteur
func IsDuplicate(err error) bool {
	return errors.Is(err, sqlite.ErrDup) || errors.Is(err, postgres.ErrDup) || errors.Is(err, mysql.ErrDup)
}
