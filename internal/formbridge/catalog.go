package formbridge

import (
	_ "embed"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/Olprog59/go-delegation/internal/domain"
	"gopkg.in/yaml.v3"
)

// DefaultEmbedBaseURL is Tally's iframe endpoint / Point d'entrée iframe de Tally
const DefaultEmbedBaseURL = "https://tally.so/embed"

// embedParams are appended to every embed URL / Paramètres ajoutés à chaque URL d'intégration
const embedParams = "alignLeft=1&hideTitle=1&transparentBackground=1&dynamicHeight=1"

//go:embed catalog.yaml
var builtinCatalog []byte

// ErrUnknownForm is returned for a slug absent from the catalog / Retourné pour un slug absent du catalogue
var ErrUnknownForm = errors.New("unknown form")

// FieldKeys lists stable field keys per semantic field / Clés de champ stables par champ sémantique
type FieldKeys struct {
	ClientName []string `yaml:"client_name"`
	Notes      []string `yaml:"notes"`
}

// Form is one embeddable delegation form / Un formulaire de délégation intégrable
type Form struct {
	Slug          string               `yaml:"slug"`
	Title         string               `yaml:"title"`
	Description   string               `yaml:"description"`
	FormID        string               `yaml:"form_id"`
	OperationType string               `yaml:"operation_type"`
	Type          domain.OperationType `yaml:"type"`
	Fields        FieldKeys            `yaml:"fields"`
}

type catalogFile struct {
	Forms []Form `yaml:"forms"`
}

// Catalog indexes forms by slug, in file order / Indexe les formulaires par slug, dans l'ordre du fichier
type Catalog struct {
	forms        []Form
	bySlug       map[string]int
	embedBaseURL string
}

// LoadCatalog reads the catalog at path, or the built-in one when path is empty / Lit le catalogue
func LoadCatalog(path, embedBaseURL string) (*Catalog, error) {
	if path == "" {
		return ParseCatalog(builtinCatalog, embedBaseURL)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	cat, err := ParseCatalog(data, embedBaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cat, nil
}

// ParseCatalog decodes and validates catalog YAML / Décode et valide le YAML du catalogue
func ParseCatalog(data []byte, embedBaseURL string) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	if len(file.Forms) == 0 {
		return nil, errors.New("catalog has no forms")
	}

	if embedBaseURL == "" {
		embedBaseURL = DefaultEmbedBaseURL
	}

	cat := &Catalog{
		forms:        make([]Form, 0, len(file.Forms)),
		bySlug:       make(map[string]int, len(file.Forms)),
		embedBaseURL: strings.TrimRight(embedBaseURL, "/"),
	}

	for i, f := range file.Forms {
		if f.Slug == "" {
			return nil, fmt.Errorf("form #%d: slug is required", i)
		}
		if _, dup := cat.bySlug[f.Slug]; dup {
			return nil, fmt.Errorf("form %q: duplicate slug", f.Slug)
		}
		if f.FormID == "" {
			return nil, fmt.Errorf("form %q: form_id is required", f.Slug)
		}
		if f.OperationType == "" {
			return nil, fmt.Errorf("form %q: operation_type is required", f.Slug)
		}
		f.Type = domain.NormalizeOperationType(string(f.Type))

		cat.bySlug[f.Slug] = len(cat.forms)
		cat.forms = append(cat.forms, f)
	}

	return cat, nil
}

// Get returns the form for slug / Retourne le formulaire du slug
func (c *Catalog) Get(slug string) (Form, error) {
	i, ok := c.bySlug[slug]
	if !ok {
		return Form{}, ErrUnknownForm
	}
	return c.forms[i], nil
}

// All returns every form in catalog order / Retourne tous les formulaires
func (c *Catalog) All() []Form {
	out := make([]Form, len(c.forms))
	copy(out, c.forms)
	return out
}

// EmbedURL builds the iframe URL of a form / Construit l'URL iframe d'un formulaire
func (c *Catalog) EmbedURL(f Form) string {
	return c.embedBaseURL + "/" + url.PathEscape(f.FormID) + "?" + embedParams
}
