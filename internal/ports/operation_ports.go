package ports

import (
	"context"
	"time"

	"github.com/Olprog59/go-delegation/internal/domain"
)

// OperationReader reads delegation operations / Lit les opérations de délégation
type OperationReader interface {
	// GetByID retrieves an operation, db.ErrNoRecord when missing / Récupère une opération
	GetByID(ctx context.Context, id string) (*domain.DelegationOperation, error)

	// ListByUser returns the user's operations newest first / Retourne les opérations, plus récentes d'abord
	ListByUser(ctx context.Context, userID string) ([]*domain.DelegationOperation, error)

	// CountByUser counts the user's operations / Compte les opérations de l'utilisateur
	CountByUser(ctx context.Context, userID string) (int, error)
}

// OperationWriter writes delegation operations / Écrit les opérations de délégation
type OperationWriter interface {
	// Create inserts a fully populated operation / Insère une opération complète
	Create(ctx context.Context, op *domain.DelegationOperation) error

	// UpdateStatus overwrites status and updated_at / Remplace le statut et updated_at
	UpdateStatus(ctx context.Context, id string, status domain.OperationStatus, updatedAt time.Time) error
}

// OperationRepository is composite interface for operations / Interface composite pour les opérations
type OperationRepository interface {
	OperationReader
	OperationWriter
}
