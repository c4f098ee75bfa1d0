package store

import (
	"context"
	"errors"

	"github.com/tabkeep/authd/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (mongo,
// memory) implement this. Single-document reads and writes are atomic at
// the driver; no cross-document transactional discipline is imposed here.
type Store interface {
	Users() Users

	// EnsureIndexes creates any indexes the driver relies on, notably the
	// unique index on users.email that backs duplicate-signup detection.
	EnsureIndexes(ctx context.Context) error

	// Ping verifies the backing database is reachable.
	Ping(ctx context.Context) error

	// Close releases any underlying resources.
	Close(ctx context.Context) error
}

type Users interface {
	// CreateUser inserts a new user and returns the store-assigned id.
	// Returns ErrAlreadyExists if the email is already taken.
	CreateUser(ctx context.Context, u domain.User) (string, error)

	// GetUserByEmail looks a user up by the lowercased email key.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// GetUserByID returns a user by its store-assigned id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// UpdateTwoFactorSecret sets (or overwrites) the TOTP secret.
	UpdateTwoFactorSecret(ctx context.Context, userID, secret string) error

	// EnableTwoFactor marks 2FA as enabled. Idempotent.
	EnableTwoFactor(ctx context.Context, userID string) error
}
