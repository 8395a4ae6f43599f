package formbridge

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/Olprog59/go-delegation/internal/domain"
	"github.com/Olprog59/go-delegation/internal/service"
)

// SubmissionMarker identifies a Tally submission message / Identifie un message de soumission Tally
const SubmissionMarker = "Tally.FormSubmitted"

// Direct submit values / Valeurs de la soumission directe
const (
	directClientName = "Client Test"
	directNotes      = "Soumission directe sans formulaire"
)

// Outcome reasons / Raisons du résultat
const (
	ReasonCreated       = "created"
	ReasonNotSubmission = "not_submission"
	ReasonMalformed     = "malformed"
)

// OperationCreator is the part of OperationService the bridge needs / Partie d'OperationService utilisée par le pont
type OperationCreator interface {
	Create(ctx context.Context, caller *domain.Caller, in service.CreateOperationInput) (*domain.DelegationOperation, error)
}

// FormMetricsRecorder records submission outcomes / Enregistre les résultats de soumission
type FormMetricsRecorder interface {
	RecordFormSubmission(result string)
}

// Outcome reports what the bridge did with a message / Indique ce que le pont a fait d'un message
type Outcome struct {
	Handled   bool
	Reason    string
	Operation *domain.DelegationOperation
}

// envelope is the typed view of a submission message / Vue typée d'un message de soumission
type envelope struct {
	Payload *struct {
		Fields json.RawMessage `json:"fields"`
	} `json:"payload"`
}

// fieldList decodes payload.fields; anything but a list counts as no fields / Tout sauf une liste vaut zéro champ
func fieldList(raw json.RawMessage) ([]Field, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, nil
	}
	var fields []Field
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// Bridge turns form submissions into operations / Transforme les soumissions en opérations
type Bridge struct {
	ops     OperationCreator
	catalog *Catalog
	metrics FormMetricsRecorder
}

// NewBridge creates form bridge / Crée le pont de formulaires
func NewBridge(ops OperationCreator, catalog *Catalog, metrics FormMetricsRecorder) *Bridge {
	return &Bridge{ops: ops, catalog: catalog, metrics: metrics}
}

// Catalog returns the bridge catalog / Retourne le catalogue du pont
func (b *Bridge) Catalog() *Catalog {
	return b.catalog
}

// Handle processes one raw message posted by the form iframe / Traite un message brut de l'iframe
//
// Unrelated or malformed messages are not errors: they yield Handled=false.
// Repeated deliveries of the same submission create repeated operations.
func (b *Bridge) Handle(ctx context.Context, caller *domain.Caller, slug string, raw []byte) (*Outcome, error) {
	form, err := b.catalog.Get(slug)
	if err != nil {
		b.record("unknown_form")
		return nil, err
	}

	if !strings.Contains(string(raw), SubmissionMarker) {
		slog.Debug("ignoring non-submission message", "form", slug)
		b.record(ReasonNotSubmission)
		return &Outcome{Reason: ReasonNotSubmission}, nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Payload == nil {
		slog.Debug("ignoring malformed submission", "form", slug, "err", err)
		b.record(ReasonMalformed)
		return &Outcome{Reason: ReasonMalformed}, nil
	}

	// A submission without a fields list still creates an operation with defaults
	fields, err := fieldList(env.Payload.Fields)
	if err != nil {
		slog.Debug("ignoring submission with unreadable fields", "form", slug, "err", err)
		b.record(ReasonMalformed)
		return &Outcome{Reason: ReasonMalformed}, nil
	}

	// Whole envelope is stored as-is / L'enveloppe entière est stockée telle quelle
	var formData map[string]any
	if err := json.Unmarshal(raw, &formData); err != nil {
		b.record(ReasonMalformed)
		return &Outcome{Reason: ReasonMalformed}, nil
	}

	clientName := extract(fields, form.Fields.ClientName, clientNameKeywords, defaultClientName)
	notes := extract(fields, form.Fields.Notes, notesKeywords, "")

	op, err := b.ops.Create(ctx, caller, service.CreateOperationInput{
		Name:          form.OperationType + " - " + clientName,
		ClientName:    clientName,
		Type:          string(form.Type),
		OperationType: form.OperationType,
		FormData:      formData,
		Notes:         &notes,
	})
	if err != nil {
		b.record("error")
		return nil, err
	}

	b.record(ReasonCreated)
	slog.Info("form submission converted", "form", slug, "operation_id", op.ID, "client_name", clientName)
	return &Outcome{Handled: true, Reason: ReasonCreated, Operation: op}, nil
}

// DirectSubmit creates an operation for a form without a submission / Crée une opération sans soumission
func (b *Bridge) DirectSubmit(ctx context.Context, caller *domain.Caller, slug string) (*domain.DelegationOperation, error) {
	form, err := b.catalog.Get(slug)
	if err != nil {
		return nil, err
	}

	notes := directNotes
	return b.ops.Create(ctx, caller, service.CreateOperationInput{
		Name:          form.OperationType + " - Direct Submit",
		ClientName:    directClientName,
		Type:          string(form.Type),
		OperationType: form.OperationType,
		FormData:      map[string]any{"directSubmit": true},
		Notes:         &notes,
	})
}

func (b *Bridge) record(result string) {
	if b.metrics != nil {
		b.metrics.RecordFormSubmission(result)
	}
}
