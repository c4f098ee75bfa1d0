package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/tabkeep/authd/internal/auth/domain"
	"github.com/tabkeep/authd/internal/auth/store"
	"github.com/tabkeep/authd/pkg/slogx"
	"github.com/tabkeep/authd/pkg/totpx"
)

// qrImageSize is the pixel width/height of the rendered QR code.
const qrImageSize = 256

// TwoFactorService handles TOTP enrollment and verification.
type TwoFactorService struct {
	Store store.Store
	TOTP  totpx.Engine
}

// Setup generates a fresh TOTP secret for the user, persists it, and
// returns the provisioning URI rendered as a QR data URL.
//
// Any previously stored secret is overwritten, even if it was never
// confirmed. The secret is persisted before rendering, so a render
// failure leaves the new secret on file.
func (s *TwoFactorService) Setup(ctx context.Context, email string) (domain.TwoFactorSetupResult, error) {
	if email == "" {
		return domain.TwoFactorSetupResult{}, validationErr("Email required")
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TwoFactorSetupResult{}, ErrUserNotFound
		}
		return domain.TwoFactorSetupResult{}, fmt.Errorf("lookup email: %w", err)
	}

	key, err := s.TOTP.Generate(user.Email)
	if err != nil {
		return domain.TwoFactorSetupResult{}, fmt.Errorf("generate secret: %w", err)
	}

	if err := s.Store.Users().UpdateTwoFactorSecret(ctx, user.ID, key.Secret); err != nil {
		return domain.TwoFactorSetupResult{}, fmt.Errorf("store secret: %w", err)
	}

	qr, err := s.TOTP.QRDataURL(key, qrImageSize)
	if err != nil {
		return domain.TwoFactorSetupResult{}, fmt.Errorf("%w: %v", ErrRenderQR, err)
	}

	slogx.FromContext(ctx).Info("two-factor secret generated", "user_id", user.ID)

	return domain.TwoFactorSetupResult{QRCodeURL: qr}, nil
}

// Verify checks a TOTP code against the stored secret and flips the
// enabled flag on first success. Already-enabled users simply re-verify;
// the flag never toggles back.
func (s *TwoFactorService) Verify(ctx context.Context, email, code string) error {
	if email == "" || code == "" {
		return validationErr("Email and token required")
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrTwoFactorNotSetup
		}
		return fmt.Errorf("lookup email: %w", err)
	}
	if user.TwoFactorSecret == "" {
		return ErrTwoFactorNotSetup
	}

	if !s.TOTP.Verify(user.TwoFactorSecret, code) {
		return ErrInvalidTwoFactorCode
	}

	if !user.TwoFactorEnabled {
		if err := s.Store.Users().EnableTwoFactor(ctx, user.ID); err != nil {
			return fmt.Errorf("enable two-factor: %w", err)
		}
		slogx.FromContext(ctx).Info("two-factor enabled", "user_id", user.ID)
	}

	return nil
}
