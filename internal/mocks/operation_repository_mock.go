package mocks

import (
	"context"
	"sort"
	"time"

	"github.com/Olprog59/go-delegation/internal/domain"
	"github.com/Olprog59/go-delegation/internal/ports"
	"github.com/Olprog59/go-delegation/internal/repository/db"
)

var _ ports.OperationRepository = (*MockOperationRepository)(nil)

// MockOperationRepository is a mock implementation of ports.OperationRepository for testing
// Stored records are copies so tests can check that failed calls left them unchanged.
type MockOperationRepository struct {
	// Mock data storage
	Operations map[string]*domain.DelegationOperation

	// Mock behavior flags
	CreateError       error
	GetByIDError      error
	ListByUserError   error
	CountByUserError  error
	UpdateStatusError error

	// Call tracking
	CreateCalls       int
	GetByIDCalls      int
	ListByUserCalls   int
	CountByUserCalls  int
	UpdateStatusCalls int
}

// NewMockOperationRepository creates a new mock operation repository
func NewMockOperationRepository() *MockOperationRepository {
	return &MockOperationRepository{
		Operations: make(map[string]*domain.DelegationOperation),
	}
}

// Put stores a fixture directly
func (m *MockOperationRepository) Put(op *domain.DelegationOperation) {
	m.Operations[op.ID] = cloneOperation(op)
}

func (m *MockOperationRepository) Create(ctx context.Context, op *domain.DelegationOperation) error {
	m.CreateCalls++
	if m.CreateError != nil {
		return m.CreateError
	}
	if _, exists := m.Operations[op.ID]; exists {
		return ErrDuplicateOperation
	}
	m.Operations[op.ID] = cloneOperation(op)
	return nil
}

func (m *MockOperationRepository) GetByID(ctx context.Context, id string) (*domain.DelegationOperation, error) {
	m.GetByIDCalls++
	if m.GetByIDError != nil {
		return nil, m.GetByIDError
	}
	op, exists := m.Operations[id]
	if !exists {
		return nil, db.ErrNoRecord
	}
	return cloneOperation(op), nil
}

func (m *MockOperationRepository) ListByUser(ctx context.Context, userID string) ([]*domain.DelegationOperation, error) {
	m.ListByUserCalls++
	if m.ListByUserError != nil {
		return nil, m.ListByUserError
	}

	ops := []*domain.DelegationOperation{}
	for _, op := range m.Operations {
		if op.UserID == userID {
			ops = append(ops, cloneOperation(op))
		}
	}
	sort.Slice(ops, func(i, j int) bool {
		if !ops[i].CreatedAt.Equal(ops[j].CreatedAt) {
			return ops[i].CreatedAt.After(ops[j].CreatedAt)
		}
		return ops[i].ID > ops[j].ID
	})
	return ops, nil
}

func (m *MockOperationRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	m.CountByUserCalls++
	if m.CountByUserError != nil {
		return 0, m.CountByUserError
	}
	count := 0
	for _, op := range m.Operations {
		if op.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (m *MockOperationRepository) UpdateStatus(ctx context.Context, id string, status domain.OperationStatus, updatedAt time.Time) error {
	m.UpdateStatusCalls++
	if m.UpdateStatusError != nil {
		return m.UpdateStatusError
	}
	op, exists := m.Operations[id]
	if !exists {
		return db.ErrNoRecord
	}
	op.Status = status
	op.UpdatedAt = updatedAt
	return nil
}

func cloneOperation(op *domain.DelegationOperation) *domain.DelegationOperation {
	copied := *op
	if op.FormData != nil {
		copied.FormData = make(map[string]any, len(op.FormData))
		for k, v := range op.FormData {
			copied.FormData[k] = v
		}
	}
	if op.Notes != nil {
		notes := *op.Notes
		copied.Notes = &notes
	}
	return &copied
}
