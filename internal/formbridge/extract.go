package formbridge

import (
	"strconv"
	"strings"
)

// Title keywords, matched case-insensitively / Mots-clés de titre, insensibles à la casse
var (
	clientNameKeywords = []string{"nom", "name", "client"}
	notesKeywords      = []string{"notes", "commentaire"}
)

const defaultClientName = "Client"

// Field is one answered question of a submission / Une question répondue d'une soumission
type Field struct {
	Key    string `json:"key"`
	ID     string `json:"id"`
	Title  string `json:"title"`
	Type   string `json:"type"`
	Answer *struct {
		Value any `json:"value"`
	} `json:"answer"`
}

func (f Field) value() any {
	if f.Answer == nil {
		return nil
	}
	return f.Answer.Value
}

// extract picks a semantic value from fields / Extrait une valeur sémantique des champs
//
// Stable keys are tried first against Key then ID. When no field carries one of
// the keys, the first field whose title contains a keyword wins. Either way the
// first match is final: an empty answer keeps the default.
func extract(fields []Field, keys, keywords []string, def string) string {
	if f, ok := findByKey(fields, keys); ok {
		return textOrDefault(f.value(), def)
	}
	if f, ok := findByTitle(fields, keywords); ok {
		return textOrDefault(f.value(), def)
	}
	return def
}

func findByKey(fields []Field, keys []string) (Field, bool) {
	if len(keys) == 0 {
		return Field{}, false
	}
	for _, f := range fields {
		for _, k := range keys {
			if k != "" && (f.Key == k || f.ID == k) {
				return f, true
			}
		}
	}
	return Field{}, false
}

func findByTitle(fields []Field, keywords []string) (Field, bool) {
	for _, f := range fields {
		title := strings.ToLower(f.Title)
		for _, kw := range keywords {
			if strings.Contains(title, kw) {
				return f, true
			}
		}
	}
	return Field{}, false
}

func textOrDefault(v any, def string) string {
	if s := answerText(v); s != "" {
		return s
	}
	return def
}

// answerText renders a decoded JSON answer as text / Rend une réponse JSON décodée en texte
func answerText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		if val {
			return "true"
		}
		return ""
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := answerText(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}
