package postgres

import (
	"context"

	"github.com/Olprog59/go-delegation/internal/domain"
	"github.com/Olprog59/go-delegation/internal/ports"
)

var _ ports.UserRepository = (*userRepository)(nil)

type userRepository struct {
	db ports.DBTX
}

func (r *userRepository) Upsert(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (id, email, role, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5)
	          ON CONFLICT (id) DO UPDATE SET
	              email = EXCLUDED.email,
	              role = EXCLUDED.role,
	              updated_at = EXCLUDED.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, string(user.Role), user.CreatedAt.UTC(), user.UpdatedAt.UTC())
	return handleError(err)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user := &domain.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, role, created_at, updated_at FROM users WHERE id = $1`, id,
	).Scan(&user.ID, &user.Email, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, handleError(err)
	}
	return user, nil
}
