// Package memory implements the auth store in process memory. It exists
// for tests and local development; semantics match the mongo driver,
// including the unique email constraint.
package memory

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/tabkeep/authd/internal/auth/domain"
	"github.com/tabkeep/authd/internal/auth/store"
)

type Store struct {
	users *usersRepo
}

func NewStore() *Store {
	return &Store{users: &usersRepo{byID: make(map[string]domain.User)}}
}

func (s *Store) Users() store.Users { return s.users }

func (s *Store) EnsureIndexes(ctx context.Context) error { return nil }

func (s *Store) Ping(ctx context.Context) error { return nil }

func (s *Store) Close(ctx context.Context) error { return nil }

type usersRepo struct {
	mu   sync.RWMutex
	seq  int
	byID map[string]domain.User
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return "", store.ErrAlreadyExists
		}
	}

	r.seq++
	u.ID = "mem-" + strconv.Itoa(r.seq)
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	r.byID[u.ID] = u
	return u.ID, nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, store.ErrNotFound
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return domain.User{}, store.ErrNotFound
	}
	return u, nil
}

func (r *usersRepo) UpdateTwoFactorSecret(ctx context.Context, userID, secret string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok {
		return store.ErrNotFound
	}
	u.TwoFactorSecret = secret
	r.byID[userID] = u
	return nil
}

func (r *usersRepo) EnableTwoFactor(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok {
		return store.ErrNotFound
	}
	u.TwoFactorEnabled = true
	r.byID[userID] = u
	return nil
}
