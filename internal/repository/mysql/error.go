package mysql

import (
	"database/sql"
	"errors"

	"github.com/Olprog59/go-delegation/internal/repository/db"
	"github.com/go-sql-driver/mysql"
)

var (
	ErrDup      = errors.New("record already exists") // Duplicate unique key / Clé unique dupliquée
	ErrNoRecord = db.ErrNoRecord                      // Re-export from db package
)

// handleError translates MySQL errors to typed errors / Traduit les erreurs MySQL en erreurs typées
func handleError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNoRecord
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case 1062: // ER_DUP_ENTRY
			return ErrDup
		case 1452: // ER_NO_REFERENCED_ROW_2
			return db.ErrForeignKeyViolation
		}
	}
	return err
}
