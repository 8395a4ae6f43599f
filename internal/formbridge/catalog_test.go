package formbridge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Olprog59/go-delegation/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalog_Builtin(t *testing.T) {
	cat, err := LoadCatalog("", "")
	require.NoError(t, err)

	forms := cat.All()
	require.Len(t, forms, 5)
	assert.Equal(t, "assurance-vie", forms[0].Slug)

	tests := []struct {
		slug          string
		formID        string
		operationType string
		opType        domain.OperationType
	}{
		{"assurance-vie", "mKa4yX", "Assurance Vie", domain.TypeSouscription},
		{"per", "mB2Wg5", "PER", domain.TypeSouscription},
		{"scpi-pp", "nrkZ5R", "SCPI Pleine Propriété", domain.TypeSouscription},
		{"scpi-np", "wAjXpD", "SCPI Nue Propriété", domain.TypeSouscription},
		{"changement-rib", "mOoN7R", "Arbitrage", domain.TypeActesDeGestion},
	}
	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			f, err := cat.Get(tt.slug)
			require.NoError(t, err)
			assert.Equal(t, tt.formID, f.FormID)
			assert.Equal(t, tt.operationType, f.OperationType)
			assert.Equal(t, tt.opType, f.Type)
		})
	}

	_, err = cat.Get("nope")
	assert.ErrorIs(t, err, ErrUnknownForm)
}

func TestCatalog_EmbedURL(t *testing.T) {
	cat, err := LoadCatalog("", "")
	require.NoError(t, err)
	f, err := cat.Get("per")
	require.NoError(t, err)
	assert.Equal(t, "https://tally.so/embed/mB2Wg5?alignLeft=1&hideTitle=1&transparentBackground=1&dynamicHeight=1", cat.EmbedURL(f))

	custom, err := LoadCatalog("", "https://forms.example.com/embed/")
	require.NoError(t, err)
	assert.Equal(t, "https://forms.example.com/embed/mB2Wg5?alignLeft=1&hideTitle=1&transparentBackground=1&dynamicHeight=1", custom.EmbedURL(f))
}

func TestParseCatalog_Validation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{name: "empty", yaml: "forms: []", wantErr: "no forms"},
		{name: "missing slug", yaml: "forms:\n  - form_id: a\n    operation_type: PER", wantErr: "slug is required"},
		{name: "duplicate slug", yaml: "forms:\n  - {slug: a, form_id: x, operation_type: PER}\n  - {slug: a, form_id: y, operation_type: PER}", wantErr: "duplicate slug"},
		{name: "missing form id", yaml: "forms:\n  - {slug: a, operation_type: PER}", wantErr: "form_id is required"},
		{name: "missing operation type", yaml: "forms:\n  - {slug: a, form_id: x}", wantErr: "operation_type is required"},
		{name: "invalid yaml", yaml: "forms: [", wantErr: "yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.yaml), "")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseCatalog_CoercesType(t *testing.T) {
	cat, err := ParseCatalog([]byte("forms:\n  - {slug: a, form_id: x, operation_type: Rachat, type: Rachat}"), "")
	require.NoError(t, err)
	f, err := cat.Get("a")
	require.NoError(t, err)
	assert.Equal(t, domain.TypeActesDeGestion, f.Type)
}

func TestLoadCatalog_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forms.yaml")
	content := `forms:
  - slug: transfert
    title: Transfert
    form_id: abc123
    operation_type: Transfert PER
    type: Actes de Gestion
    fields:
      client_name: [question_client]
      notes: [question_notes]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cat, err := LoadCatalog(path, "")
	require.NoError(t, err)
	f, err := cat.Get("transfert")
	require.NoError(t, err)
	assert.Equal(t, []string{"question_client"}, f.Fields.ClientName)
	assert.Equal(t, []string{"question_notes"}, f.Fields.Notes)

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"), "")
	assert.Error(t, err)
}
