package ports

import (
	"context"

	"github.com/Olprog59/go-delegation/internal/domain"
)

// UserReader reads mirrored users / Lit les utilisateurs reflétés
type UserReader interface {
	// GetByID retrieves user by unique ID / Récupère l'utilisateur par ID unique
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// UserWriter writes mirrored users / Écrit les utilisateurs reflétés
type UserWriter interface {
	// Upsert inserts the user or refreshes its email and role / Insère ou met à jour email et rôle
	Upsert(ctx context.Context, user *domain.User) error
}

// UserRepository is composite interface for user operations / Interface composite pour les utilisateurs
type UserRepository interface {
	UserReader
	UserWriter
}
