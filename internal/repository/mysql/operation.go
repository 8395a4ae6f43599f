package mysql

import (
	"context"
	"time"

	"github.com/Olprog59/go-delegation/internal/domain"
	"github.com/Olprog59/go-delegation/internal/ports"
	"github.com/Olprog59/go-delegation/internal/repository/db"
)

var _ ports.OperationRepository = (*operationRepository)(nil)

type operationRepository struct {
	db ports.DBTX
}

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

func (r *operationRepository) GetByID(ctx context.Context, id string) (*domain.DelegationOperation, error) {
	query := `SELECT ` + db.OperationColumns + ` FROM delegation_operations WHERE id = ?`
	op, err := db.ScanOperation(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, handleError(err)
	}
	return op, nil
}

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

func (r *operationRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM delegation_operations WHERE user_id = ?`, userID).Scan(&count)
	if err != nil {
		return 0, handleError(err)
	}
	return count, nil
}

// UpdateStatus overwrites status / Remplace le statut
// MySQL reports changed rows, not matched rows, so a zero count is confirmed with a lookup.
func (r *operationRepository) UpdateStatus(ctx context.Context, id string, status domain.OperationStatus, updatedAt time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE delegation_operations SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), updatedAt.UTC(), id)
	if err != nil {
		return handleError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return handleError(err)
	}
	if affected == 0 {
		var exists int
		err := r.db.QueryRowContext(ctx, `SELECT 1 FROM delegation_operations WHERE id = ?`, id).Scan(&exists)
		return handleError(err)
	}
	return nil
}
