package domain

import "time"

// UserPreferences holds per-user UI preferences / Préférences d'interface par utilisateur
type UserPreferences struct {
	UserID         string    `json:"userId"`
	OnboardingSeen bool      `json:"onboardingSeen"` // Onboarding popup already shown / Popup d'accueil déjà affichée
	UpdatedAt      time.Time `json:"updatedAt"`
}

// DefaultPreferences returns preferences for a user without a stored record / Préférences par défaut
func DefaultPreferences(userID string) *UserPreferences {
	return &UserPreferences{UserID: userID}
}
