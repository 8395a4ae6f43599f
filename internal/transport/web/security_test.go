package web

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCSRFToken(t *testing.T) {
	a, err := generateCSRFToken()
	require.NoError(t, err)
	b, err := generateCSRFToken()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	raw, err := base64.URLEncoding.DecodeString(a)
	require.NoError(t, err)
	assert.Len(t, raw, csrfTokenBytes)
}

func TestCSRFTokensMatch(t *testing.T) {
	tests := []struct {
		name           string
		cookie, header string
		want           bool
	}{
		{"equal", "abc", "abc", true},
		{"different", "abc", "abd", false},
		{"different length", "abc", "abcd", false},
		{"empty cookie", "", "abc", false},
		{"empty header", "abc", "", false},
		{"both empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, csrfTokensMatch(tt.cookie, tt.header))
		})
	}
}
