package sqlite

import (
	"context"
	"database/sql"

	"github.com/Olprog59/go-delegation/internal/domain"
	"github.com/Olprog59/go-delegation/internal/ports"
)

var _ ports.UserRepository = (*userRepository)(nil)

// userRepository implements UserRepository for SQLite / Implémente UserRepository pour SQLite
type userRepository struct {
	db ports.DBTX
}

// NewUserRepository creates user repository / Crée le repository utilisateur
func NewUserRepository(db *sql.DB) ports.UserRepository {
	return &userRepository{db: db}
}

// Upsert inserts user or refreshes email and role / Insère ou met à jour l'utilisateur
func (r *userRepository) Upsert(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (id, email, role, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?)
	          ON CONFLICT(id) DO UPDATE SET
	              email = excluded.email,
	              role = excluded.role,
	              updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, string(user.Role), user.CreatedAt.UTC(), user.UpdatedAt.UTC())
	return handleError(err)
}

// GetByID retrieves user by ID / Récupère l'utilisateur par ID
func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT id, email, role, created_at, updated_at FROM users WHERE id = ?`
	user := &domain.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, handleError(err)
	}
	return user, nil
}
