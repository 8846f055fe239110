package ports

import (
	"context"
	"time"

	"github.com/attireme/auth-service/internal/core/domain"
)

// VerificationTokenStore keeps outstanding confirmation and reset tokens.
// Saving a token replaces any outstanding token for the same purpose and identity.
type VerificationTokenStore interface {
	Save(ctx context.Context, purpose domain.VerificationPurpose, identityID, tokenHash string, ttl time.Duration) error
	// Consume reports whether tokenHash matched and, if so, removes it.
	Consume(ctx context.Context, purpose domain.VerificationPurpose, identityID, tokenHash string) (bool, error)
}
