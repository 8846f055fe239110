package memory

import (
	"context"
	"crypto/subtle"
	"sync"
	"time"

	"github.com/attireme/auth-service/internal/core/domain"
	"github.com/attireme/auth-service/internal/core/ports"
)

var _ ports.VerificationTokenStore = (*VerificationTokenStore)(nil)

type pending struct {
	hash      string
	expiresAt time.Time
}

// VerificationTokenStore is the in-process counterpart of the Redis token store.
type VerificationTokenStore struct {
	mu     sync.Mutex
	tokens map[string]pending
	now    func() time.Time
}

func NewVerificationTokenStore() *VerificationTokenStore {
	return &VerificationTokenStore{tokens: make(map[string]pending), now: time.Now}
}

func tokenKey(purpose domain.VerificationPurpose, identityID string) string {
	return string(purpose) + ":" + identityID
}

func (s *VerificationTokenStore) Save(_ context.Context, purpose domain.VerificationPurpose, identityID, tokenHash string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[tokenKey(purpose, identityID)] = pending{hash: tokenHash, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *VerificationTokenStore) Consume(_ context.Context, purpose domain.VerificationPurpose, identityID, tokenHash string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := tokenKey(purpose, identityID)
	p, ok := s.tokens[key]
	if !ok {
		return false, nil
	}
	if !s.now().Before(p.expiresAt) {
		delete(s.tokens, key)
		return false, nil
	}
	if subtle.ConstantTimeCompare([]byte(p.hash), []byte(tokenHash)) != 1 {
		return false, nil
	}
	delete(s.tokens, key)
	return true, nil
}
