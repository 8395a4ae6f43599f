package formbridge

import (
	"context"
	"testing"

	"github.com/Olprog59/go-delegation/internal/domain"
	"github.com/Olprog59/go-delegation/internal/mocks"
	"github.com/Olprog59/go-delegation/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var caller = domain.NewCaller("alice", "alice@example.com", domain.RoleUser)

func newTestBridge(t *testing.T) (*Bridge, *mocks.MockOperationRepository, *mocks.MockMetrics) {
	t.Helper()
	cat, err := LoadCatalog("", "")
	require.NoError(t, err)

	repo := mocks.NewMockOperationRepository()
	m := mocks.NewMockMetrics()
	return NewBridge(service.NewOperationService(repo, m), cat, m), repo, m
}

const submission = `{
  "event": "Tally.FormSubmitted",
  "payload": {
    "id": "sub-1",
    "formId": "mKa4yX",
    "fields": [
      {"key": "question_a", "title": "Nom du client", "type": "INPUT_TEXT", "answer": {"value": "Dupont"}},
      {"key": "question_b", "title": "Commentaires", "type": "TEXTAREA", "answer": {"value": "urgent"}}
    ]
  }
}`

func TestBridge_Handle_Submission(t *testing.T) {
	b, repo, m := newTestBridge(t)

	out, err := b.Handle(context.Background(), caller, "assurance-vie", []byte(submission))
	require.NoError(t, err)
	require.True(t, out.Handled)
	assert.Equal(t, ReasonCreated, out.Reason)

	op := out.Operation
	require.NotNil(t, op)
	assert.Equal(t, "Dupont", op.ClientName)
	require.NotNil(t, op.Notes)
	assert.Equal(t, "urgent", *op.Notes)
	assert.Equal(t, "Assurance Vie - Dupont", op.Name)
	assert.Equal(t, "Assurance Vie", op.OperationType)
	assert.Equal(t, domain.TypeSouscription, op.Type)
	assert.Equal(t, domain.StatusEnAttente, op.Status)
	assert.Equal(t, "alice", op.UserID)

	// Whole envelope kept / Enveloppe entière conservée
	assert.Equal(t, "Tally.FormSubmitted", op.FormData["event"])
	payload, ok := op.FormData["payload"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "sub-1", payload["id"])

	assert.Equal(t, 1, repo.CreateCalls)
	assert.Equal(t, 1, m.FormSubmissions[ReasonCreated])
}

func TestBridge_Handle_Defaults(t *testing.T) {
	b, _, _ := newTestBridge(t)

	raw := `{"event":"Tally.FormSubmitted","payload":{"fields":[{"title":"Montant","answer":{"value":5000}}]}}`
	out, err := b.Handle(context.Background(), caller, "changement-rib", []byte(raw))
	require.NoError(t, err)
	require.True(t, out.Handled)
	assert.Equal(t, "Client", out.Operation.ClientName)
	assert.Equal(t, "Arbitrage - Client", out.Operation.Name)
	assert.Equal(t, domain.TypeActesDeGestion, out.Operation.Type)
	require.NotNil(t, out.Operation.Notes)
	assert.Equal(t, "", *out.Operation.Notes)
}

func TestBridge_Handle_NoFieldList(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "missing fields", raw: `{"event":"Tally.FormSubmitted","payload":{"id":"sub-9"}}`},
		{name: "null fields", raw: `{"event":"Tally.FormSubmitted","payload":{"id":"sub-9","fields":null}}`},
		{name: "fields not a list", raw: `{"event":"Tally.FormSubmitted","payload":{"id":"sub-9","fields":"x"}}`},
		{name: "empty list", raw: `{"event":"Tally.FormSubmitted","payload":{"id":"sub-9","fields":[]}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, repo, m := newTestBridge(t)

			out, err := b.Handle(context.Background(), caller, "per", []byte(tt.raw))
			require.NoError(t, err)
			require.True(t, out.Handled)
			assert.Equal(t, ReasonCreated, out.Reason)
			assert.Equal(t, "Client", out.Operation.ClientName)
			require.NotNil(t, out.Operation.Notes)
			assert.Equal(t, "", *out.Operation.Notes)
			assert.Equal(t, 1, repo.CreateCalls)
			assert.Equal(t, 1, m.FormSubmissions[ReasonCreated])
		})
	}
}

func TestBridge_Handle_Ignored(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		reason string
	}{
		{name: "no marker", raw: `{"event":"Tally.FormPageView","payload":{}}`, reason: ReasonNotSubmission},
		{name: "not json at all", raw: `hello`, reason: ReasonNotSubmission},
		{name: "invalid json with marker", raw: `Tally.FormSubmitted{`, reason: ReasonMalformed},
		{name: "missing payload", raw: `{"event":"Tally.FormSubmitted"}`, reason: ReasonMalformed},
		{name: "null payload", raw: `{"event":"Tally.FormSubmitted","payload":null}`, reason: ReasonMalformed},
		{name: "unreadable field entries", raw: `{"event":"Tally.FormSubmitted","payload":{"fields":[1,2]}}`, reason: ReasonMalformed},
		{name: "envelope not an object", raw: `["Tally.FormSubmitted"]`, reason: ReasonMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, repo, m := newTestBridge(t)

			out, err := b.Handle(context.Background(), caller, "per", []byte(tt.raw))
			require.NoError(t, err)
			assert.False(t, out.Handled)
			assert.Equal(t, tt.reason, out.Reason)
			assert.Nil(t, out.Operation)
			assert.Equal(t, 0, repo.CreateCalls)
			assert.Equal(t, 1, m.FormSubmissions[tt.reason])
		})
	}
}

func TestBridge_Handle_Errors(t *testing.T) {
	b, repo, _ := newTestBridge(t)
	ctx := context.Background()

	_, err := b.Handle(ctx, caller, "unknown", []byte(submission))
	assert.ErrorIs(t, err, ErrUnknownForm)

	_, err = b.Handle(ctx, nil, "per", []byte(submission))
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	repo.CreateError = mocks.ErrStoreDown
	_, err = b.Handle(ctx, caller, "per", []byte(submission))
	assert.ErrorIs(t, err, mocks.ErrStoreDown)
}

func TestBridge_Handle_DuplicateDeliveries(t *testing.T) {
	b, repo, _ := newTestBridge(t)

	for i := 0; i < 2; i++ {
		_, err := b.Handle(context.Background(), caller, "per", []byte(submission))
		require.NoError(t, err)
	}
	assert.Len(t, repo.Operations, 2)
}

func TestBridge_DirectSubmit(t *testing.T) {
	b, _, _ := newTestBridge(t)

	op, err := b.DirectSubmit(context.Background(), caller, "scpi-np")
	require.NoError(t, err)
	assert.Equal(t, "SCPI Nue Propriété - Direct Submit", op.Name)
	assert.Equal(t, "Client Test", op.ClientName)
	assert.Equal(t, map[string]any{"directSubmit": true}, op.FormData)
	require.NotNil(t, op.Notes)
	assert.Equal(t, "Soumission directe sans formulaire", *op.Notes)

	_, err = b.DirectSubmit(context.Background(), caller, "nope")
	assert.ErrorIs(t, err, ErrUnknownForm)
}
