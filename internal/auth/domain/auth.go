package domain

// AuthResult is returned by signup and by a fully authenticated login.
type AuthResult struct {
	User  Summary
	Token string
}

// LoginResult carries the three possible login outcomes. TwoFactorRequired
// marks the partial outcome: credentials were correct but a TOTP code is
// still needed, so User and Token are unset.
type LoginResult struct {
	TwoFactorRequired bool
	User              Summary
	Token             string
}

// TwoFactorSetupResult is returned by 2FA setup.
type TwoFactorSetupResult struct {
	// QRCodeURL is the provisioning URI rendered as a PNG data URL.
	QRCodeURL string
}
