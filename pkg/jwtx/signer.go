package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrAlgMismatch = errors.New("jwtx: algorithm mismatch")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
	ErrIssuer      = errors.New("jwtx: issuer mismatch")
	ErrNoSecret    = errors.New("jwtx: empty signing secret")
)

// Verifier validates a token string and gives back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// Signer signs and verifies HS256 bearer tokens with a single server-held
// secret.
type Signer struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewSigner creates a Signer. The secret must be non-empty; ttl of zero
// falls back to DefaultTokenTTL.
func NewSigner(secret []byte, issuer string, ttl time.Duration) (*Signer, error) {
	if len(secret) == 0 {
		return nil, ErrNoSecret
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Signer{secret: secret, issuer: issuer, ttl: ttl}, nil
}

// Sign issues a token for the given user id, expiring after the
// configured TTL.
func (s *Signer) Sign(userID string) (string, error) {
	claims := NewClaims(userID, s.issuer, s.ttl, time.Now().UTC())
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Verify parses and validates a token string.
func (s *Signer) Verify(raw string) (Claims, error) {
	var claims Claims

	opts := []jwt.ParserOption{
		jwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, ErrAlgMismatch
		}
		return s.secret, nil
	}, opts...)
	if err != nil {
		return Claims{}, mapParseError(err)
	}

	return claims, nil
}

// mapParseError translates jwt library errors into the package's sentinel
// errors so callers never depend on the underlying library.
func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrAlgMismatch
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSig
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrNotYetValid
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return ErrIssuer
	default:
		return err
	}
}
