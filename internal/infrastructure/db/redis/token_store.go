package redis

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/attireme/auth-service/internal/core/domain"
)

// VerificationTokenStore keeps one outstanding token hash per purpose and identity.
// Key format: verify:<purpose>:<identity_id>
type VerificationTokenStore struct {
	client redis.UniversalClient
}

// NewVerificationTokenStore creates a VerificationTokenStore wrapping the given Redis client.
func NewVerificationTokenStore(client redis.UniversalClient) *VerificationTokenStore {
	return &VerificationTokenStore{client: client}
}

// Save stores tokenHash, replacing any outstanding token; it expires after ttl.
func (s *VerificationTokenStore) Save(ctx context.Context, purpose domain.VerificationPurpose, identityID, tokenHash string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(purpose, identityID), tokenHash, ttl).Err(); err != nil {
		return fmt.Errorf("save verification token: %w", err)
	}
	return nil
}

// Consume removes the stored token when tokenHash matches it. Only the caller
// whose delete succeeds reports true, so a token is redeemed at most once.
func (s *VerificationTokenStore) Consume(ctx context.Context, purpose domain.VerificationPurpose, identityID, tokenHash string) (bool, error) {
	key := s.key(purpose, identityID)
	stored, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load verification token: %w", err)
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(tokenHash)) != 1 {
		return false, nil
	}

	n, err := s.client.Del(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("consume verification token: %w", err)
	}
	return n == 1, nil
}

func (s *VerificationTokenStore) key(purpose domain.VerificationPurpose, identityID string) string {
	return fmt.Sprintf("verify:%s:%s", purpose, identityID)
}
