package ports

import (
	"context"
	"time"

	"github.com/Olprog59/go-delegation/internal/domain"
)

// PreferenceRepository stores per-user preferences / Stocke les préférences par utilisateur
type PreferenceRepository interface {
	// Get returns stored preferences, db.ErrNoRecord when none / Retourne les préférences stockées
	Get(ctx context.Context, userID string) (*domain.UserPreferences, error)

	// SetOnboardingSeen upserts the onboarding flag / Insère ou met à jour le drapeau d'accueil
	SetOnboardingSeen(ctx context.Context, userID string, seen bool, at time.Time) error
}
