package auth

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Admin holds the single administrator account configured for the store
type Admin struct {
	Email        string
	PasswordHash string
}

// NewAdmin builds the account from config. A ready bcrypt hash wins over a
// plaintext password, which is hashed here.
func NewAdmin(email, password, passwordHash string) (*Admin, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, errors.New("admin email is required")
	}
	if passwordHash != "" {
		if err := ValidateHash(passwordHash); err != nil {
			return nil, fmt.Errorf("admin password hash: %w", err)
		}
		return &Admin{Email: email, PasswordHash: passwordHash}, nil
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("admin password: %w", err)
	}
	passwordHash = hash
	return &Admin{Email: email, PasswordHash: passwordHash}, nil
}

// Authenticate checks a login attempt. Emails compare case-insensitively.
func (a *Admin) Authenticate(email, password string) error {
	if !strings.EqualFold(strings.TrimSpace(email), a.Email) || !CheckPassword(password, a.PasswordHash) {
		return ErrInvalidCredentials
	}
	return nil
}
