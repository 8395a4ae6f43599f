package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Olprog59/go-delegation/internal/domain"
	"github.com/Olprog59/go-delegation/internal/ports"
	"github.com/Olprog59/go-delegation/internal/repository/db"
	"github.com/google/uuid"
)

// Seed operation values / Valeurs de l'opération de test
const (
	seedName          = "Souscription Assurance Vie - Client Seed"
	seedClientName    = "Client Seed"
	seedOperationType = "Assurance Vie"
	seedNotes         = "Opération de test créée automatiquement"
)

// OperationMetricsRecorder records operation metrics / Enregistre les métriques des opérations
type OperationMetricsRecorder interface {
	RecordOperationCreated(opType string)
	RecordStatusUpdate(status string)
	RecordAuthorizationDenial(action string)
}

// CreateOperationInput is the create contract / Contrat de création
type CreateOperationInput struct {
	Name          string
	ClientName    string
	Type          string // Coerced to a known type / Ramené à un type connu
	OperationType string
	FormData      map[string]any
	Notes         *string
}

// OperationService owns the delegation operation lifecycle / Gère le cycle de vie des opérations
type OperationService struct {
	reader  ports.OperationReader
	writer  ports.OperationWriter
	metrics OperationMetricsRecorder

	now   func() time.Time
	newID func() string
}

// NewOperationService creates operation service / Crée le service des opérations
func NewOperationService(repo ports.OperationRepository, metrics OperationMetricsRecorder) *OperationService {
	return &OperationService{
		reader:  repo,
		writer:  repo,
		metrics: metrics,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Create persists a new operation owned by the caller / Persiste une nouvelle opération de l'appelant
func (s *OperationService) Create(ctx context.Context, caller *domain.Caller, in CreateOperationInput) (*domain.DelegationOperation, error) {
	if caller == nil {
		return nil, ErrUnauthorized
	}

	formData := in.FormData
	if formData == nil {
		formData = map[string]any{}
	}

	now := s.now().UTC()
	op := &domain.DelegationOperation{
		BaseModel:     domain.BaseModel{CreatedAt: now, UpdatedAt: now},
		ID:            s.newID(),
		UserID:        caller.ID,
		Name:          in.Name,
		ClientName:    in.ClientName,
		Type:          domain.NormalizeOperationType(in.Type),
		OperationType: in.OperationType,
		Status:        domain.StatusEnAttente,
		FormData:      formData,
		Notes:         in.Notes,
	}

	if err := s.writer.Create(ctx, op); err != nil {
		slog.Error("failed to create operation", "user_id", caller.ID, "err", err)
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordOperationCreated(string(op.Type))
	}
	slog.Info("operation created", "operation_id", op.ID, "user_id", op.UserID, "type", op.Type)
	return op, nil
}

// UpdateStatus overwrites the status of an operation / Remplace le statut d'une opération
// Any status may follow any other; there is no transition table.
func (s *OperationService) UpdateStatus(ctx context.Context, caller *domain.Caller, id string, status domain.OperationStatus) (*domain.DelegationOperation, error) {
	if caller == nil {
		return nil, ErrUnauthorized
	}
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	op, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	if !domain.CanModifyOperation(caller, op) {
		s.recordDenial("update_status")
		slog.Warn("status update denied", "operation_id", id, "user_id", caller.ID, "owner_id", op.UserID)
		return nil, ErrForbidden
	}

	now := s.now().UTC()
	if err := s.writer.UpdateStatus(ctx, id, status, now); err != nil {
		// Deleted between lookup and update / Supprimée entre la lecture et l'écriture
		if errors.Is(err, db.ErrNoRecord) {
			return nil, ErrOperationNotFound
		}
		slog.Error("failed to update operation status", "operation_id", id, "err", err)
		return nil, err
	}

	op.Status = status
	op.Touch(now)

	if s.metrics != nil {
		s.metrics.RecordStatusUpdate(string(status))
	}
	slog.Info("operation status updated", "operation_id", id, "user_id", caller.ID, "status", status)
	return op, nil
}

// List returns the caller's operations newest first / Retourne les opérations de l'appelant
func (s *OperationService) List(ctx context.Context, caller *domain.Caller) ([]*domain.DelegationOperation, error) {
	if caller == nil {
		return nil, ErrUnauthorized
	}

	ops, err := s.reader.ListByUser(ctx, caller.ID)
	if err != nil {
		slog.Error("failed to list operations", "user_id", caller.ID, "err", err)
		return nil, err
	}
	if ops == nil {
		ops = []*domain.DelegationOperation{}
	}
	return ops, nil
}

// Get returns one operation visible to the caller / Retourne une opération visible par l'appelant
func (s *OperationService) Get(ctx context.Context, caller *domain.Caller, id string) (*domain.DelegationOperation, error) {
	if caller == nil {
		return nil, ErrUnauthorized
	}

	op, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	if !domain.CanViewOperation(caller, op) {
		s.recordDenial("view")
		return nil, ErrForbidden
	}
	return op, nil
}

// Seed creates a sample operation when the caller has none / Crée une opération de test si l'appelant n'en a aucune
// Returns created=false without writing when the caller already owns operations.
func (s *OperationService) Seed(ctx context.Context, caller *domain.Caller) (*domain.DelegationOperation, bool, error) {
	if caller == nil {
		return nil, false, ErrUnauthorized
	}

	count, err := s.reader.CountByUser(ctx, caller.ID)
	if err != nil {
		slog.Error("failed to count operations", "user_id", caller.ID, "err", err)
		return nil, false, err
	}
	if count > 0 {
		slog.Debug("seed skipped, caller already has operations", "user_id", caller.ID, "count", count)
		return nil, false, nil
	}

	notes := seedNotes
	op, err := s.Create(ctx, caller, CreateOperationInput{
		Name:          seedName,
		ClientName:    seedClientName,
		Type:          string(domain.TypeSouscription),
		OperationType: seedOperationType,
		FormData:      map[string]any{"seed": true},
		Notes:         &notes,
	})
	if err != nil {
		return nil, false, err
	}

	slog.Info("seed operation created", "operation_id", op.ID, "user_id", caller.ID)
	return op, true, nil
}

// lookup maps a missing record to ErrOperationNotFound / Traduit un enregistrement absent en ErrOperationNotFound
func (s *OperationService) lookup(ctx context.Context, id string) (*domain.DelegationOperation, error) {
	op, err := s.reader.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNoRecord) {
			return nil, ErrOperationNotFound
		}
		slog.Error("failed to load operation", "operation_id", id, "err", err)
		return nil, err
	}
	return op, nil
}

func (s *OperationService) recordDenial(action string) {
	if s.metrics != nil {
		s.metrics.RecordAuthorizationDenial(action)
	}
}
