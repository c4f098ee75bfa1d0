package domain

import "time"

// User is the persistent account record. The id is assigned by the store
// on creation and treated as opaque everywhere else.
type User struct {
	ID               string
	Name             string
	Email            string // unique, stored lowercased
	Phone            string // exactly 10 decimal digits
	PasswordHash     string // bcrypt encoded, never serialized to clients
	TwoFactorSecret  string // base32 TOTP secret, empty until 2FA setup
	TwoFactorEnabled bool   // flips false->true on first successful verify
	CreatedAt        time.Time
}

// Summary is the client-facing view of a user.
type Summary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Summary returns the client-facing view of u.
func (u User) Summary() Summary {
	return Summary{ID: u.ID, Name: u.Name, Email: u.Email}
}
