package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/Olprog59/go-delegation/internal/domain"
	"github.com/Olprog59/go-delegation/internal/ports"
	"github.com/Olprog59/go-delegation/internal/repository/db"
)

var _ ports.OperationRepository = (*operationRepository)(nil)

// operationRepository implements OperationRepository for SQLite / Implémente OperationRepository pour SQLite
type operationRepository struct {
	db ports.DBTX
}

// NewOperationRepository creates operation repository / Crée le repository des opérations
func NewOperationRepository(database *sql.DB) ports.OperationRepository {
	return &operationRepository{db: database}
}

// Create inserts new operation / Insère une nouvelle opération
func (r *operationRepository) Create(ctx context.Context, op *domain.DelegationOperation) error {
	formData, err := db.EncodeFormData(op.FormData)
	if err != nil {
		return err
	}

	query := `INSERT INTO delegation_operations (` + db.OperationColumns + `)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		op.ID,
		op.UserID,
		op.Name,
		op.ClientName,
		string(op.Type),
		op.OperationType,
		string(op.Status),
		formData,
		db.NullableString(op.Notes),
		op.CreatedAt.UTC(),
		op.UpdatedAt.UTC(),
	)
	return handleError(err)
}

// GetByID retrieves operation by ID / Récupère l'opération par ID
func (r *operationRepository) GetByID(ctx context.Context, id string) (*domain.DelegationOperation, error) {
	query := `SELECT ` + db.OperationColumns + ` FROM delegation_operations WHERE id = ?`
	op, err := db.ScanOperation(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, handleError(err)
	}
	return op, nil
}

// ListByUser retrieves user's operations newest first / Récupère les opérations, plus récentes d'abord
func (r *operationRepository) ListByUser(ctx context.Context, userID string) ([]*domain.DelegationOperation, error) {
	query := `SELECT ` + db.OperationColumns + `
	          FROM delegation_operations
	          WHERE user_id = ?
	          ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, handleError(err)
	}
	defer rows.Close()

	ops := []*domain.DelegationOperation{}
	for rows.Next() {
		op, err := db.ScanOperation(rows)
		if err != nil {
			return nil, handleError(err)
		}
		ops = append(ops, op)
	}
	if err := rows.Err(); err != nil {
		return nil, handleError(err)
	}
	return ops, nil
}

// CountByUser counts user's operations / Compte les opérations de l'utilisateur
func (r *operationRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM delegation_operations WHERE user_id = ?`
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, handleError(err)
	}
	return count, nil
}

// UpdateStatus overwrites status / Remplace le statut
func (r *operationRepository) UpdateStatus(ctx context.Context, id string, status domain.OperationStatus, updatedAt time.Time) error {
	query := `UPDATE delegation_operations SET status = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, string(status), updatedAt.UTC(), id)
	if err != nil {
		return handleError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return handleError(err)
	}
	if affected == 0 {
		return ErrNoRecord
	}
	return nil
}
