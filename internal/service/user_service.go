package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/Olprog59/go-delegation/internal/domain"
	"github.com/Olprog59/go-delegation/internal/ports"
	lru "github.com/hashicorp/golang-lru/v2"
)

// syncCacheSize bounds the identities remembered per process / Borne les identités mémorisées par processus
// An evicted identity is simply upserted again on its next request.
const syncCacheSize = 4096

// UserService mirrors authenticated identities into the users table / Reflète les identités authentifiées dans la table users
type UserService struct {
	reader ports.UserReader
	writer ports.UserWriter
	now    func() time.Time

	// synced maps user id to the email|role last written / Associe l'id au dernier email|rôle écrit
	synced *lru.Cache[string, string]
}

// NewUserService creates user service instance / Crée une instance de service utilisateur
func NewUserService(repo ports.UserRepository) *UserService {
	return newUserService(repo, syncCacheSize)
}

func newUserService(repo ports.UserRepository, cacheSize int) *UserService {
	synced, err := lru.New[string, string](cacheSize)
	if err != nil {
		panic(err) // non-positive size
	}
	return &UserService{
		reader: repo,
		writer: repo,
		now:    time.Now,
		synced: synced,
	}
}

// Sync upserts the caller unless the same identity was already written / Insère l'appelant s'il n'est pas déjà à jour
func (s *UserService) Sync(ctx context.Context, caller *domain.Caller) error {
	if caller == nil {
		return ErrUnauthorized
	}

	snapshot := caller.Email + "|" + string(caller.Role)
	if last, ok := s.synced.Get(caller.ID); ok && last == snapshot {
		return nil
	}

	if err := s.writer.Upsert(ctx, caller.AsUser(s.now().UTC())); err != nil {
		slog.Error("failed to sync user", "user_id", caller.ID, "err", err)
		return err
	}

	s.synced.Add(caller.ID, snapshot)
	slog.Debug("user synced", "user_id", caller.ID, "role", caller.Role)
	return nil
}

// GetUser retrieves a mirrored user / Récupère un utilisateur reflété
func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.reader.GetByID(ctx, id)
}
