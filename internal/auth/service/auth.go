package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/tabkeep/authd/internal/auth/domain"
	"github.com/tabkeep/authd/internal/auth/store"
	"github.com/tabkeep/authd/pkg/cryptox"
	"github.com/tabkeep/authd/pkg/jwtx"
	"github.com/tabkeep/authd/pkg/slogx"
	"github.com/tabkeep/authd/pkg/totpx"
)

const minPasswordLength = 6

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\d{10}$`)
)

// AuthService orchestrates signup and login. It is stateless; all mutable
// state lives in the store.
type AuthService struct {
	Store  store.Store
	Hasher cryptox.Hasher
	TOTP   totpx.Engine
	Tokens *jwtx.Signer
}

// SignupParams are the raw signup inputs before validation.
type SignupParams struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// Signup validates the input, creates the user, and issues a bearer token.
//
// Validation short-circuits on the first failure, in this order: presence
// of all fields, email shape, phone shape, password length.
func (s *AuthService) Signup(ctx context.Context, p SignupParams) (domain.AuthResult, error) {
	if p.Name == "" || p.Email == "" || p.Phone == "" || p.Password == "" {
		return domain.AuthResult{}, validationErr("All fields are required")
	}
	if !emailPattern.MatchString(p.Email) {
		return domain.AuthResult{}, validationErr("Invalid email")
	}
	if !phonePattern.MatchString(p.Phone) {
		return domain.AuthResult{}, validationErr("Phone must be 10 digits")
	}
	if len(p.Password) < minPasswordLength {
		return domain.AuthResult{}, validationErr("Password must be at least 6 chars")
	}

	email := normalizeEmail(p.Email)

	// Friendly pre-check; the unique email index has the final say on races.
	_, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err == nil {
		return domain.AuthResult{}, ErrDuplicateEmail
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.AuthResult{}, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := s.Hasher.Hash(p.Password)
	if err != nil {
		return domain.AuthResult{}, fmt.Errorf("hash password: %w", err)
	}

	user := domain.User{
		Name:         p.Name,
		Email:        email,
		Phone:        p.Phone,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	id, err := s.Store.Users().CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.AuthResult{}, ErrDuplicateEmail
		}
		return domain.AuthResult{}, fmt.Errorf("create user: %w", err)
	}
	user.ID = id

	token, err := s.Tokens.Sign(id)
	if err != nil {
		return domain.AuthResult{}, fmt.Errorf("sign token: %w", err)
	}

	slogx.FromContext(ctx).Info("user created", "user_id", id)

	return domain.AuthResult{User: user.Summary(), Token: token}, nil
}

// Login checks the password and, when 2FA is enabled for the account, a
// TOTP code. A correct password with a missing code yields the partial
// TwoFactorRequired outcome rather than an error.
//
// Unknown email and wrong password share ErrInvalidCredentials so callers
// cannot probe which emails are registered.
func (s *AuthService) Login(ctx context.Context, email, password, twoFactorCode string) (domain.LoginResult, error) {
	if email == "" || password == "" {
		return domain.LoginResult{}, validationErr("Email and password required")
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.LoginResult{}, ErrInvalidCredentials
		}
		return domain.LoginResult{}, fmt.Errorf("lookup email: %w", err)
	}

	if err := s.Hasher.Verify(password, user.PasswordHash); err != nil {
		return domain.LoginResult{}, ErrInvalidCredentials
	}

	if user.TwoFactorEnabled {
		if twoFactorCode == "" {
			return domain.LoginResult{TwoFactorRequired: true}, nil
		}
		if !s.TOTP.Verify(user.TwoFactorSecret, twoFactorCode) {
			return domain.LoginResult{}, ErrInvalidTwoFactorCode
		}
	}

	token, err := s.Tokens.Sign(user.ID)
	if err != nil {
		return domain.LoginResult{}, fmt.Errorf("sign token: %w", err)
	}

	return domain.LoginResult{User: user.Summary(), Token: token}, nil
}

// normalizeEmail is applied before every store access so the unique email
// key is case-insensitive in effect.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
