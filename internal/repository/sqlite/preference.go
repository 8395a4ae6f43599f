package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/Olprog59/go-delegation/internal/domain"
	"github.com/Olprog59/go-delegation/internal/ports"
)

var _ ports.PreferenceRepository = (*preferenceRepository)(nil)

// preferenceRepository implements PreferenceRepository for SQLite / Implémente PreferenceRepository pour SQLite
type preferenceRepository struct {
	db ports.DBTX
}

// NewPreferenceRepository creates preference repository / Crée le repository des préférences
func NewPreferenceRepository(db *sql.DB) ports.PreferenceRepository {
	return &preferenceRepository{db: db}
}

// Get retrieves preferences / Récupère les préférences
func (r *preferenceRepository) Get(ctx context.Context, userID string) (*domain.UserPreferences, error) {
	query := `SELECT user_id, onboarding_seen, updated_at FROM user_preferences WHERE user_id = ?`
	prefs := &domain.UserPreferences{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&prefs.UserID, &prefs.OnboardingSeen, &prefs.UpdatedAt)
	if err != nil {
		return nil, handleError(err)
	}
	return prefs, nil
}

// SetOnboardingSeen upserts onboarding flag / Insère ou met à jour le drapeau d'accueil
func (r *preferenceRepository) SetOnboardingSeen(ctx context.Context, userID string, seen bool, at time.Time) error {
	query := `INSERT INTO user_preferences (user_id, onboarding_seen, updated_at)
	          VALUES (?, ?, ?)
	          ON CONFLICT(user_id) DO UPDATE SET
	              onboarding_seen = excluded.onboarding_seen,
	              updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query, userID, seen, at.UTC())
	return handleError(err)
}
