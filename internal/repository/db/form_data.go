package db

import (
	"encoding/json"
	"fmt"
)

// EncodeFormData serializes an operation payload for storage / Sérialise la charge utile pour le stockage
// A nil map is stored as an empty object so the column is never NULL.
func EncodeFormData(data map[string]any) (string, error) {
	if data == nil {
		return "{}", nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("encode form_data: %w", err)
	}
	return string(b), nil
}

// DecodeFormData parses a stored payload / Analyse une charge utile stockée
func DecodeFormData(raw []byte) (map[string]any, error) {
	data := map[string]any{}
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode form_data: %w", err)
	}
	return data, nil
}
