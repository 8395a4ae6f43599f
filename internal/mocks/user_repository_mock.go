package mocks

import (
	"context"

	"github.com/Olprog59/go-delegation/internal/domain"
	"github.com/Olprog59/go-delegation/internal/ports"
	"github.com/Olprog59/go-delegation/internal/repository/db"
)

var _ ports.UserRepository = (*MockUserRepository)(nil)

// MockUserRepository is a mock implementation of ports.UserRepository for testing
type MockUserRepository struct {
	// Mock data storage
	Users map[string]*domain.User

	// Mock behavior flags
	UpsertError  error
	GetByIDError error

	// Call tracking
	UpsertCalls  int
	GetByIDCalls int
}

// NewMockUserRepository creates a new mock user repository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users: make(map[string]*domain.User),
	}
}

func (m *MockUserRepository) Upsert(ctx context.Context, user *domain.User) error {
	m.UpsertCalls++
	if m.UpsertError != nil {
		return m.UpsertError
	}

	if existing, ok := m.Users[user.ID]; ok {
		existing.Email = user.Email
		existing.Role = user.Role
		existing.UpdatedAt = user.UpdatedAt
		return nil
	}
	copied := *user
	m.Users[user.ID] = &copied
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.GetByIDCalls++
	if m.GetByIDError != nil {
		return nil, m.GetByIDError
	}

	user, exists := m.Users[id]
	if !exists {
		return nil, db.ErrNoRecord
	}
	copied := *user
	return &copied, nil
}
