package domain

import "strings"

// Permission represents granular permission (resource:action[:scope] pattern) / Permission granulaire
type Permission string

// Predefined permissions / Permissions prédéfinies
const (
	PermissionOperationsReadAny  Permission = "operations:read:any"  // View any user's operations / Voir les opérations de tous
	PermissionOperationsWriteAny Permission = "operations:write:any" // Update any user's operations / Modifier les opérations de tous
	PermissionStatsRead          Permission = "stats:read"
	PermissionAll                Permission = "*"
)

// String returns permission as string / Retourne la permission en string
func (p Permission) String() string {
	return string(p)
}

// DefaultPermissionsForRole returns default permissions for role / Retourne les permissions par défaut du rôle
func DefaultPermissionsForRole(role UserRole) []Permission {
	switch role {
	case RoleModerator:
		return []Permission{
			PermissionOperationsReadAny,
			PermissionStatsRead,
		}

	case RoleAdmin:
		return []Permission{PermissionAll} // Full system access / Accès complet au système

	default:
		return []Permission{} // No special permissions / Aucune permission spéciale
	}
}

// CapabilitySet is a set of granted permissions, possibly with wildcards / Ensemble de permissions accordées
type CapabilitySet map[Permission]bool

// NewCapabilitySet builds a set from permissions / Construit un ensemble depuis des permissions
func NewCapabilitySet(perms ...Permission) CapabilitySet {
	cs := make(CapabilitySet, len(perms))
	for _, p := range perms {
		cs[p] = true
	}
	return cs
}

// Has reports whether the set grants p, directly or through a wildcard / Indique si p est accordée
func (cs CapabilitySet) Has(p Permission) bool {
	if cs[p] {
		return true
	}
	for pattern := range cs {
		if matchWildcard(string(pattern), string(p)) {
			return true
		}
	}
	return false
}

// List returns granted permissions as strings / Retourne les permissions sous forme de chaînes
func (cs CapabilitySet) List() []string {
	out := make([]string, 0, len(cs))
	for p, ok := range cs {
		if ok {
			out = append(out, string(p))
		}
	}
	return out
}

// matchWildcard matches "*" and "resource:*" patterns.
//
//	"*"                matches anything
//	"operations:*"     matches "operations:read:any"
//	"operations:read"  does NOT match "operations:read:any"
func matchWildcard(pattern, p string) bool {
	if pattern == "*" {
		return true
	}
	if !strings.HasSuffix(pattern, ":*") {
		return false
	}
	prefix := strings.TrimSuffix(pattern, "*")
	return strings.HasPrefix(p, prefix)
}
