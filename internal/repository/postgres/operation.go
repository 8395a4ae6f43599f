package postgres

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
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9, $10, $11)`
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
	query := `SELECT ` + db.OperationColumns + ` FROM delegation_operations WHERE id = $1`
	op, err := db.ScanOperation(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, handleError(err)
	}
	return op, nil
}

func (r *operationRepository) ListByUser(ctx context.Context, userID string) ([]*domain.DelegationOperation, error) {
	query := `SELECT ` + db.OperationColumns + `
	          FROM delegation_operations
	          WHERE user_id = $1
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
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM delegation_operations WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, handleError(err)
	}
	return count, nil
}

func (r *operationRepository) UpdateStatus(ctx context.Context, id string, status domain.OperationStatus, updatedAt time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE delegation_operations SET status = $1, updated_at = $2 WHERE id = $3`,
		string(status), updatedAt.UTC(), id)
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
