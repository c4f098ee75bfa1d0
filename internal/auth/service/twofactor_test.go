package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tabkeep/authd/pkg/totpx"
)

func TestTwoFactorSetup(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("requires email", func(t *testing.T) {
		_, twofa, _ := newTestServices(t)

		_, err := twofa.Setup(ctx, "")
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.Equal(t, "Email required", verr.Msg)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, twofa, _ := newTestServices(t)

		_, err := twofa.Setup(ctx, "nobody@x.com")
		require.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("persists secret and returns a QR data URL", func(t *testing.T) {
		auth, twofa, st := newTestServices(t)

		_, err := auth.Signup(ctx, validSignup())
		require.NoError(t, err)

		res, err := twofa.Setup(ctx, "ann@x.com")
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(res.QRCodeURL, "data:image/png;base64,"))

		user, err := st.Users().GetUserByEmail(ctx, "ann@x.com")
		require.NoError(t, err)
		require.NotEmpty(t, user.TwoFactorSecret)
		require.False(t, user.TwoFactorEnabled, "setup alone must not enable 2FA")
	})

	t.Run("re-running setup overwrites the previous secret", func(t *testing.T) {
		auth, twofa, st := newTestServices(t)

		_, err := auth.Signup(ctx, validSignup())
		require.NoError(t, err)

		_, err = twofa.Setup(ctx, "ann@x.com")
		require.NoError(t, err)
		first, err := st.Users().GetUserByEmail(ctx, "ann@x.com")
		require.NoError(t, err)

		_, err = twofa.Setup(ctx, "ann@x.com")
		require.NoError(t, err)
		second, err := st.Users().GetUserByEmail(ctx, "ann@x.com")
		require.NoError(t, err)

		require.NotEqual(t, first.TwoFactorSecret, second.TwoFactorSecret)
	})

	t.Run("render failure still persists the secret", func(t *testing.T) {
		auth, twofa, st := newTestServices(t)
		twofa.TOTP = &renderFailEngine{Engine: twofa.TOTP}

		_, err := auth.Signup(ctx, validSignup())
		require.NoError(t, err)

		_, err = twofa.Setup(ctx, "ann@x.com")
		require.ErrorIs(t, err, ErrRenderQR)

		user, err := st.Users().GetUserByEmail(ctx, "ann@x.com")
		require.NoError(t, err)
		require.NotEmpty(t, user.TwoFactorSecret)
	})
}

func TestTwoFactorVerify(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("requires email and code", func(t *testing.T) {
		_, twofa, _ := newTestServices(t)

		for _, pair := range [][2]string{{"", "123456"}, {"ann@x.com", ""}, {"", ""}} {
			err := twofa.Verify(ctx, pair[0], pair[1])
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.Equal(t, "Email and token required", verr.Msg)
		}
	})

	t.Run("unknown user or missing secret", func(t *testing.T) {
		auth, twofa, _ := newTestServices(t)

		require.ErrorIs(t, twofa.Verify(ctx, "nobody@x.com", "123456"), ErrTwoFactorNotSetup)

		_, err := auth.Signup(ctx, validSignup())
		require.NoError(t, err)
		require.ErrorIs(t, twofa.Verify(ctx, "ann@x.com", "123456"), ErrTwoFactorNotSetup)
	})

	t.Run("invalid code", func(t *testing.T) {
		auth, twofa, st := newTestServices(t)

		_, err := auth.Signup(ctx, validSignup())
		require.NoError(t, err)
		_, err = twofa.Setup(ctx, "ann@x.com")
		require.NoError(t, err)

		require.ErrorIs(t, twofa.Verify(ctx, "ann@x.com", "12345"), ErrInvalidTwoFactorCode)

		user, err := st.Users().GetUserByEmail(ctx, "ann@x.com")
		require.NoError(t, err)
		require.False(t, user.TwoFactorEnabled)
	})

	t.Run("first success enables, later successes are idempotent", func(t *testing.T) {
		auth, twofa, st := newTestServices(t)

		_, err := auth.Signup(ctx, validSignup())
		require.NoError(t, err)
		_, err = twofa.Setup(ctx, "ann@x.com")
		require.NoError(t, err)

		user, err := st.Users().GetUserByEmail(ctx, "ann@x.com")
		require.NoError(t, err)

		now := time.Now().UTC()
		require.NoError(t, twofa.Verify(ctx, "ann@x.com", totpCodeAt(t, user.TwoFactorSecret, now)))

		user, err = st.Users().GetUserByEmail(ctx, "ann@x.com")
		require.NoError(t, err)
		require.True(t, user.TwoFactorEnabled)

		// Second verification with an independently valid code keeps the
		// flag set; it never toggles back.
		step := time.Duration(totpx.DefaultPeriod) * time.Second
		require.NoError(t, twofa.Verify(ctx, "ann@x.com", totpCodeAt(t, user.TwoFactorSecret, now.Add(step))))

		user, err = st.Users().GetUserByEmail(ctx, "ann@x.com")
		require.NoError(t, err)
		require.True(t, user.TwoFactorEnabled)
	})

	t.Run("round trip with login 2FA check", func(t *testing.T) {
		auth, twofa, st := newTestServices(t)
		secret := enrollTwoFactor(t, auth, twofa, st)

		code := totpCodeAt(t, secret, time.Now().UTC())
		res, err := auth.Login(ctx, "ann@x.com", "secret1", code)
		require.NoError(t, err)
		require.NotEmpty(t, res.Token)
	})
}

// renderFailEngine delegates everything but fails QR rendering.
type renderFailEngine struct {
	totpx.Engine
}

func (e *renderFailEngine) QRDataURL(k totpx.Key, size int) (string, error) {
	return "", errors.New("boom")
}
