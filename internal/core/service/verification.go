package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/attireme/auth-service/internal/core/domain"
	"github.com/attireme/auth-service/internal/core/ports"
)

const (
	defaultConfirmationTTL = 72 * time.Hour
	defaultResetTTL        = 24 * time.Hour
	verificationTokenBytes = 32
)

// EncodeToken wraps a provider token for transport in URLs and JSON bodies.
func EncodeToken(raw string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeToken reverses EncodeToken. Padded input is accepted as well.
func DecodeToken(encoded string) (string, error) {
	b, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(encoded, "="))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	return string(b), nil
}

// VerificationTokens issues and redeems single-use email confirmation and
// password reset tokens.
type VerificationTokens struct {
	store ports.VerificationTokenStore
	ttl   map[domain.VerificationPurpose]time.Duration
}

func NewVerificationTokens(store ports.VerificationTokenStore, confirmationTTL, resetTTL time.Duration) *VerificationTokens {
	if confirmationTTL <= 0 {
		confirmationTTL = defaultConfirmationTTL
	}
	if resetTTL <= 0 {
		resetTTL = defaultResetTTL
	}
	return &VerificationTokens{
		store: store,
		ttl: map[domain.VerificationPurpose]time.Duration{
			domain.PurposeEmailConfirmation: confirmationTTL,
			domain.PurposePasswordReset:     resetTTL,
		},
	}
}

// TTL reports how long tokens of purpose stay valid.
func (v *VerificationTokens) TTL(purpose domain.VerificationPurpose) time.Duration {
	return v.ttl[purpose]
}

// Issue creates a token for identityID and returns it in transport encoding.
func (v *VerificationTokens) Issue(ctx context.Context, purpose domain.VerificationPurpose, identityID string) (string, error) {
	buf := make([]byte, verificationTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate %s token: %w", purpose, err)
	}
	raw := hex.EncodeToString(buf)
	if err := v.store.Save(ctx, purpose, identityID, HashToken(raw), v.ttl[purpose]); err != nil {
		return "", fmt.Errorf("save %s token: %w", purpose, err)
	}
	return EncodeToken(raw), nil
}

// Redeem consumes an encoded token. It reports false for tokens that do not
// decode, do not match, or have expired.
func (v *VerificationTokens) Redeem(ctx context.Context, purpose domain.VerificationPurpose, identityID, encoded string) (bool, error) {
	raw, err := DecodeToken(encoded)
	if err != nil || raw == "" {
		return false, nil
	}
	ok, err := v.store.Consume(ctx, purpose, identityID, HashToken(raw))
	if err != nil {
		return false, fmt.Errorf("consume %s token: %w", purpose, err)
	}
	return ok, nil
}
