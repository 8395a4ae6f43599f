package domain

import "time"

// UserRole represents user's role for authorization / Représente le rôle utilisateur pour l'autorisation
type UserRole string

const (
	RoleUser      UserRole = "user"      // Default role / Rôle par défaut
	RoleModerator UserRole = "moderator" // Back-office read access / Accès back-office en lecture
	RoleAdmin     UserRole = "admin"     // Full admin access / Accès administrateur complet
)

// IsValid checks if role is valid / Vérifie si le rôle est valide
func (r UserRole) IsValid() bool {
	return r == RoleUser || r == RoleModerator || r == RoleAdmin
}

// ParseUserRole maps unknown roles to RoleUser / Ramène les rôles inconnus à RoleUser
func ParseUserRole(raw string) UserRole {
	r := UserRole(raw)
	if r.IsValid() {
		return r
	}
	return RoleUser
}

// User mirrors an identity issued by the external provider / Reflet d'une identité du fournisseur externe
type User struct {
	BaseModel
	ID    string   `json:"id"`
	Email string   `json:"email"`
	Role  UserRole `json:"role"`
}

// Caller is the authenticated identity attached to a request / Identité authentifiée attachée à une requête
// A nil *Caller means the request is unauthenticated.
type Caller struct {
	ID    string
	Email string
	Role  UserRole
	caps  CapabilitySet
}

// NewCaller builds a caller with the default capabilities of its role / Construit un appelant avec les capacités de son rôle
func NewCaller(id, email string, role UserRole) *Caller {
	return &Caller{
		ID:    id,
		Email: email,
		Role:  role,
		caps:  NewCapabilitySet(DefaultPermissionsForRole(role)...),
	}
}

// Can checks a capability; safe on nil caller / Vérifie une capacité ; sûr sur un appelant nil
func (c *Caller) Can(p Permission) bool {
	if c == nil {
		return false
	}
	return c.caps.Has(p)
}

// IsAdmin checks admin privileges / Vérifie les privilèges admin
func (c *Caller) IsAdmin() bool {
	return c != nil && c.Role == RoleAdmin
}

// Capabilities returns granted capabilities / Retourne les capacités accordées
func (c *Caller) Capabilities() []string {
	if c == nil {
		return nil
	}
	return c.caps.List()
}

// AsUser converts the caller to its mirrored user record / Convertit l'appelant en utilisateur
func (c *Caller) AsUser(now time.Time) *User {
	return &User{
		BaseModel: BaseModel{CreatedAt: now, UpdatedAt: now},
		ID:        c.ID,
		Email:     c.Email,
		Role:      c.Role,
	}
}

// CanModifyOperation is the single ownership rule for writes / Règle unique de propriété pour les écritures
func CanModifyOperation(c *Caller, op *DelegationOperation) bool {
	if c == nil || op == nil {
		return false
	}
	return op.IsOwnedBy(c.ID) || c.Can(PermissionOperationsWriteAny)
}

// CanViewOperation is the single ownership rule for reads / Règle unique de propriété pour les lectures
func CanViewOperation(c *Caller, op *DelegationOperation) bool {
	if c == nil || op == nil {
		return false
	}
	return op.IsOwnedBy(c.ID) || c.Can(PermissionOperationsReadAny)
}
