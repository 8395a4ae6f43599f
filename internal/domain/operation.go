package domain

// OperationType is the top-level category of a delegation / Catégorie principale d'une délégation
type OperationType string

const (
	TypeSouscription     OperationType = "Souscription"     // New subscription / Nouvelle souscription
	TypeActesDeGestion   OperationType = "Actes de Gestion" // Management act on an existing contract / Acte de gestion
	DefaultOperationType               = TypeActesDeGestion
)

// IsValid checks if type is one of the allowed literals / Vérifie si le type est une valeur autorisée
func (t OperationType) IsValid() bool {
	return t == TypeSouscription || t == TypeActesDeGestion
}

// NormalizeOperationType coerces unknown input to the default type / Remplace une valeur inconnue par le type par défaut
// Matching is exact: "souscription" is not Souscription.
func NormalizeOperationType(raw string) OperationType {
	t := OperationType(raw)
	if t.IsValid() {
		return t
	}
	return DefaultOperationType
}

// OperationStatus tracks the progress of a delegation / Suit l'avancement d'une délégation
type OperationStatus string

const (
	StatusEnAttente OperationStatus = "En attente" // Initial status / Statut initial
	StatusEnCours   OperationStatus = "En cours"
	StatusTermine   OperationStatus = "Terminé"
)

// IsValid checks if status is one of the three known values / Vérifie si le statut est connu
func (s OperationStatus) IsValid() bool {
	switch s {
	case StatusEnAttente, StatusEnCours, StatusTermine:
		return true
	default:
		return false
	}
}

// AllStatuses returns the known statuses in workflow order / Retourne les statuts connus
func AllStatuses() []OperationStatus {
	return []OperationStatus{StatusEnAttente, StatusEnCours, StatusTermine}
}

// DelegationOperation is one delegated request owned by a user / Une demande déléguée appartenant à un utilisateur
type DelegationOperation struct {
	BaseModel
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	Name          string          `json:"name"`
	ClientName    string          `json:"clientName"`
	Type          OperationType   `json:"type"`
	OperationType string          `json:"operationType"`
	Status        OperationStatus `json:"status"`
	FormData      map[string]any  `json:"formData"`
	Notes         *string         `json:"notes,omitempty"`
}

// IsOwnedBy checks record ownership / Vérifie la propriété de l'enregistrement
func (op *DelegationOperation) IsOwnedBy(userID string) bool {
	return userID != "" && op.UserID == userID
}
