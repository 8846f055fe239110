package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrIdentityNotFound     = errors.New("identity not found")
	ErrEmailAlreadyExists   = errors.New("email already exists")
	ErrProfileNotFound      = errors.New("profile not found")
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	ErrPasswordPolicy       = errors.New("password does not satisfy policy")
	ErrInvalidToken         = errors.New("invalid token")
)

// Identity is an authenticatable principal.
type Identity struct {
	ID             string
	Email          string
	UserName       string
	PasswordHash   string
	EmailConfirmed bool
	UserType       UserType
	Role           Role
	RefreshTokens  []RefreshToken
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// RefreshToken is a long-lived credential bound to one identity.
// Only the hash of the token value is ever persisted.
type RefreshToken struct {
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the token is past its expiry at now.
func (t RefreshToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// NormalizeEmail returns the form used for identity lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// TokenPair is what a successful login or refresh hands back to the client.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
