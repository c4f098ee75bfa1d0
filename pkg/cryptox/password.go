package cryptox

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used for new password hashes.
const DefaultCost = 10

// ErrMismatch is returned by Verify when the password does not match.
var ErrMismatch = errors.New("cryptox: password does not match")

// Hasher is the password hashing capability. Implementations must produce
// salted one-way digests; Verify must be safe against timing attacks.
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) error
}

// Bcrypt implements Hasher using bcrypt. The zero value uses DefaultCost.
type Bcrypt struct {
	Cost int
}

func (b Bcrypt) Hash(plain string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = DefaultCost
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", fmt.Errorf("cryptox: hash password: %w", err)
	}
	return string(digest), nil
}

func (b Bcrypt) Verify(plain, digest string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)); err != nil {
		return ErrMismatch
	}
	return nil
}
