package mocks

import (
	"context"
	"time"

	"github.com/Olprog59/go-delegation/internal/domain"
	"github.com/Olprog59/go-delegation/internal/ports"
	"github.com/Olprog59/go-delegation/internal/repository/db"
)

var _ ports.PreferenceRepository = (*MockPreferenceRepository)(nil)

// MockPreferenceRepository is a mock implementation of ports.PreferenceRepository for testing
type MockPreferenceRepository struct {
	Preferences map[string]*domain.UserPreferences

	GetError error
	SetError error

	GetCalls int
	SetCalls int
}

// NewMockPreferenceRepository creates a new mock preference repository
func NewMockPreferenceRepository() *MockPreferenceRepository {
	return &MockPreferenceRepository{
		Preferences: make(map[string]*domain.UserPreferences),
	}
}

func (m *MockPreferenceRepository) Get(ctx context.Context, userID string) (*domain.UserPreferences, error) {
	m.GetCalls++
	if m.GetError != nil {
		return nil, m.GetError
	}
	prefs, ok := m.Preferences[userID]
	if !ok {
		return nil, db.ErrNoRecord
	}
	copied := *prefs
	return &copied, nil
}

func (m *MockPreferenceRepository) SetOnboardingSeen(ctx context.Context, userID string, seen bool, at time.Time) error {
	m.SetCalls++
	if m.SetError != nil {
		return m.SetError
	}
	m.Preferences[userID] = &domain.UserPreferences{UserID: userID, OnboardingSeen: seen, UpdatedAt: at}
	return nil
}
