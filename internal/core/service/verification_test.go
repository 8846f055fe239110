package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attireme/auth-service/internal/core/domain"
	"github.com/attireme/auth-service/internal/infrastructure/db/memory"
)

func TestTokenEncodingRoundTrip(t *testing.T) {
	for _, raw := range []string{"a", "CfDJ8+/==", "0123456789abcdef0123456789abcdef", "ünïcødé"} {
		encoded := EncodeToken(raw)
		assert.NotContains(t, encoded, "=")
		assert.NotContains(t, encoded, "+")
		assert.NotContains(t, encoded, "/")

		decoded, err := DecodeToken(encoded)
		require.NoError(t, err)
		assert.Equal(t, raw, decoded)
	}

	_, err := DecodeToken("%%%")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerificationTokens_SingleUseAndScoped(t *testing.T) {
	v := NewVerificationTokens(memory.NewVerificationTokenStore(), time.Hour, time.Hour)
	ctx := context.Background()

	token, err := v.Issue(ctx, domain.PurposeEmailConfirmation, "id-1")
	require.NoError(t, err)

	ok, err := v.Redeem(ctx, domain.PurposePasswordReset, "id-1", token)
	require.NoError(t, err)
	assert.False(t, ok, "purpose mismatch")

	ok, err = v.Redeem(ctx, domain.PurposeEmailConfirmation, "id-2", token)
	require.NoError(t, err)
	assert.False(t, ok, "identity mismatch")

	ok, err = v.Redeem(ctx, domain.PurposeEmailConfirmation, "id-1", token)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = v.Redeem(ctx, domain.PurposeEmailConfirmation, "id-1", token)
	require.NoError(t, err)
	assert.False(t, ok, "second use")
}

func TestVerificationTokens_ReissueReplaces(t *testing.T) {
	v := NewVerificationTokens(memory.NewVerificationTokenStore(), time.Hour, time.Hour)
	ctx := context.Background()

	first, err := v.Issue(ctx, domain.PurposePasswordReset, "id-1")
	require.NoError(t, err)
	second, err := v.Issue(ctx, domain.PurposePasswordReset, "id-1")
	require.NoError(t, err)

	ok, err := v.Redeem(ctx, domain.PurposePasswordReset, "id-1", first)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = v.Redeem(ctx, domain.PurposePasswordReset, "id-1", second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestValidatePassword(t *testing.T) {
	tests := map[string]bool{
		"Secret1":   true,
		"Admin123!": true,
		"secret1":   false,
		"SECRET1":   false,
		"Secret":    false,
		"Se1":       false,
		"":          false,
	}
	tests["Aa1"+strings.Repeat("x", 69)] = true
	tests["Aa1"+strings.Repeat("x", 70)] = false
	tests["Aa1"+strings.Repeat("é", 35)] = false
	for password, valid := range tests {
		err := ValidatePassword(password)
		if valid {
			assert.NoError(t, err, password)
		} else {
			assert.ErrorIs(t, err, domain.ErrPasswordPolicy, password)
		}
	}
}

func TestValidatePassword_AcceptedPasswordsHash(t *testing.T) {
	password := "Aa1" + strings.Repeat("x", maxPasswordBytes-3)
	require.NoError(t, ValidatePassword(password))

	hash, err := testHasher().Hash(password)
	require.NoError(t, err)
	assert.True(t, testHasher().Compare(hash, password))
}
