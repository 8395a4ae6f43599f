package db

import (
	"database/sql"

	"github.com/Olprog59/go-delegation/internal/domain"
)

// RowScanner is implemented by *sql.Row and *sql.Rows / Implémenté par *sql.Row et *sql.Rows
type RowScanner interface {
	Scan(dest ...any) error
}

// OperationColumns lists columns in ScanOperation order / Colonnes dans l'ordre de ScanOperation
const OperationColumns = `id, user_id, name, client_name, type, operation_type, status, form_data, notes, created_at, updated_at`

// ScanOperation reads one operation row / Lit une ligne d'opération
// Scan errors are returned untranslated so each engine can map them.
func ScanOperation(row RowScanner) (*domain.DelegationOperation, error) {
	var (
		op       domain.DelegationOperation
		formData []byte
		notes    sql.NullString
	)
	err := row.Scan(
		&op.ID,
		&op.UserID,
		&op.Name,
		&op.ClientName,
		&op.Type,
		&op.OperationType,
		&op.Status,
		&formData,
		&notes,
		&op.CreatedAt,
		&op.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	op.FormData, err = DecodeFormData(formData)
	if err != nil {
		return nil, err
	}
	if notes.Valid {
		n := notes.String
		op.Notes = &n
	}
	op.CreatedAt = op.CreatedAt.UTC()
	op.UpdatedAt = op.UpdatedAt.UTC()
	return &op, nil
}

// NullableString converts an optional string to a driver value / Convertit une chaîne optionnelle
func NullableString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
