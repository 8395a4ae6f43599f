package mysql

import (
	"context"
	"time"

	"github.com/Olprog59/go-delegation/internal/domain"
	"github.com/Olprog59/go-delegation/internal/ports"
)

var _ ports.PreferenceRepository = (*preferenceRepository)(nil)

type preferenceRepository struct {
	db ports.DBTX
}

func (r *preferenceRepository) Get(ctx context.Context, userID string) (*domain.UserPreferences, error) {
	prefs := &domain.UserPreferences{}
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, onboarding_seen, updated_at FROM user_preferences WHERE user_id = ?`, userID,
	).Scan(&prefs.UserID, &prefs.OnboardingSeen, &prefs.UpdatedAt)
	if err != nil {
		return nil, handleError(err)
	}
	return prefs, nil
}

func (r *preferenceRepository) SetOnboardingSeen(ctx context.Context, userID string, seen bool, at time.Time) error {
	query := `INSERT INTO user_preferences (user_id, onboarding_seen, updated_at)
	          VALUES (?, ?, ?)
	          ON DUPLICATE KEY UPDATE
	              onboarding_seen = VALUES(onboarding_seen),
	              updated_at = VALUES(updated_at)`
	_, err := r.db.ExecContext(ctx, query, userID, seen, at.UTC())
	return handleError(err)
}
