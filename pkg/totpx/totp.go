// Package totpx wraps time-based one-time password generation and
// verification behind a small capability interface so the auth flow can be
// tested with fakes.
package totpx

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	// DefaultPeriod is the RFC 6238 time step in seconds.
	DefaultPeriod = 30

	// DefaultSkew accepts codes from one step either side of the current
	// window to tolerate client clock drift.
	DefaultSkew = 1
)

// Key is a freshly generated shared secret plus its provisioning URI.
type Key struct {
	Secret string // base32 encoded
	URL    string // otpauth:// URI embedding issuer and account
}

// Engine is the TOTP capability used by the auth flow.
type Engine interface {
	// Generate mints a new shared secret for the given account name.
	Generate(account string) (Key, error)

	// Verify reports whether code is valid for secret within the
	// configured clock-skew tolerance.
	Verify(secret, code string) bool

	// QRDataURL renders the provisioning URI of k as a PNG image encoded
	// as a data URL.
	QRDataURL(k Key, size int) (string, error)
}

// TOTP implements Engine with six-digit SHA1 codes, the interoperable
// defaults understood by every mainstream authenticator app.
type TOTP struct {
	Issuer string
	Period uint
	Skew   uint
}

// New returns a TOTP engine with default period and skew.
func New(issuer string) *TOTP {
	return &TOTP{
		Issuer: issuer,
		Period: DefaultPeriod,
		Skew:   DefaultSkew,
	}
}

func (t *TOTP) Generate(account string) (Key, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      t.Issuer,
		AccountName: account,
		Period:      t.Period,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return Key{}, fmt.Errorf("totpx: generate key: %w", err)
	}

	return Key{Secret: key.Secret(), URL: key.URL()}, nil
}

func (t *TOTP) Verify(secret, code string) bool {
	ok, err := totp.ValidateCustom(code, secret, time.Now().UTC(), totp.ValidateOpts{
		Period:    t.Period,
		Skew:      t.Skew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}

func (t *TOTP) QRDataURL(k Key, size int) (string, error) {
	key, err := otp.NewKeyFromURL(k.URL)
	if err != nil {
		return "", fmt.Errorf("totpx: parse provisioning url: %w", err)
	}

	img, err := key.Image(size, size)
	if err != nil {
		return "", fmt.Errorf("totpx: render qr image: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("totpx: encode qr png: %w", err)
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
