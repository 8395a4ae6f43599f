package domain

import "time"

// BaseModel provides common timestamp fields / Fournit les champs d'horodatage communs
type BaseModel struct {
	CreatedAt time.Time `json:"createdAt"` // Record creation time / Heure de création de l'enregistrement
	UpdatedAt time.Time `json:"updatedAt"` // Refreshed on every mutation / Rafraîchi à chaque mutation
}

// Touch refreshes UpdatedAt / Rafraîchit UpdatedAt
func (bm *BaseModel) Touch(at time.Time) {
	bm.UpdatedAt = at
}
