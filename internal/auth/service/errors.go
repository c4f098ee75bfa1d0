package service

import "errors"

var (
	ErrDuplicateEmail       = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUserNotFound         = errors.New("user not found")
	ErrTwoFactorNotSetup    = errors.New("two-factor auth not set up")
	ErrInvalidTwoFactorCode = errors.New("invalid two-factor code")
	ErrRenderQR             = errors.New("qr code rendering failed")
)

// ValidationError carries the human-readable message for a rejected input.
// The message is part of the HTTP contract, so it travels with the error
// rather than being reconstructed at the handler.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationErr(msg string) error { return &ValidationError{Msg: msg} }
