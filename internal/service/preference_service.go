package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Olprog59/go-delegation/internal/domain"
	"github.com/Olprog59/go-delegation/internal/ports"
	"github.com/Olprog59/go-delegation/internal/repository/db"
)

// PreferenceService reads and writes per-user preferences / Lit et écrit les préférences utilisateur
type PreferenceService struct {
	repo ports.PreferenceRepository
	now  func() time.Time
}

// NewPreferenceService creates preference service / Crée le service des préférences
func NewPreferenceService(repo ports.PreferenceRepository) *PreferenceService {
	return &PreferenceService{repo: repo, now: time.Now}
}

// GetPreferences returns stored preferences or defaults / Retourne les préférences stockées ou par défaut
func (s *PreferenceService) GetPreferences(ctx context.Context, caller *domain.Caller) (*domain.UserPreferences, error) {
	if caller == nil {
		return nil, ErrUnauthorized
	}

	prefs, err := s.repo.Get(ctx, caller.ID)
	if err != nil {
		if errors.Is(err, db.ErrNoRecord) {
			return domain.DefaultPreferences(caller.ID), nil
		}
		slog.Error("failed to load preferences", "user_id", caller.ID, "err", err)
		return nil, err
	}
	return prefs, nil
}

// MarkOnboardingSeen records whether the onboarding popup was shown / Enregistre l'affichage de la popup d'accueil
func (s *PreferenceService) MarkOnboardingSeen(ctx context.Context, caller *domain.Caller, seen bool) (*domain.UserPreferences, error) {
	if caller == nil {
		return nil, ErrUnauthorized
	}

	now := s.now().UTC()
	if err := s.repo.SetOnboardingSeen(ctx, caller.ID, seen, now); err != nil {
		slog.Error("failed to store onboarding flag", "user_id", caller.ID, "err", err)
		return nil, err
	}

	return &domain.UserPreferences{UserID: caller.ID, OnboardingSeen: seen, UpdatedAt: now}, nil
}
