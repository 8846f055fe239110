// Package memory is an in-process credential store for local development and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/attireme/auth-service/internal/core/domain"
	"github.com/attireme/auth-service/internal/core/ports"
)

var _ ports.CredentialStore = (*Store)(nil)

// Store keeps identities and profiles in maps guarded by a single mutex.
type Store struct {
	mu         sync.RWMutex
	identities map[string]*domain.Identity
	byEmail    map[string]string
	users      map[string]domain.UserProfile
	creators   map[string]domain.CreatorProfile
}

func NewStore() *Store {
	return &Store{
		identities: make(map[string]*domain.Identity),
		byEmail:    make(map[string]string),
		users:      make(map[string]domain.UserProfile),
		creators:   make(map[string]domain.CreatorProfile),
	}
}

func clone(in *domain.Identity) *domain.Identity {
	out := *in
	out.RefreshTokens = append([]domain.RefreshToken(nil), in.RefreshTokens...)
	return &out
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Create(_ context.Context, identity *domain.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[identity.Email]; ok {
		return domain.ErrEmailAlreadyExists
	}
	s.identities[identity.ID] = clone(identity)
	s.byEmail[identity.Email] = identity.ID
	return nil
}

func (s *Store) FindByEmail(_ context.Context, email string) (*domain.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[email]
	if !ok {
		return nil, domain.ErrIdentityNotFound
	}
	return clone(s.identities[id]), nil
}

func (s *Store) FindByRefreshToken(_ context.Context, tokenHash string) (*domain.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, identity := range s.identities {
		for _, t := range identity.RefreshTokens {
			if t.TokenHash == tokenHash {
				return clone(identity), nil
			}
		}
	}
	return nil, domain.ErrIdentityNotFound
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	identity, ok := s.identities[id]
	if !ok {
		return domain.ErrIdentityNotFound
	}
	delete(s.byEmail, identity.Email)
	delete(s.identities, id)
	return nil
}

func (s *Store) update(id string, fn func(*domain.Identity) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	identity, ok := s.identities[id]
	if !ok {
		return domain.ErrIdentityNotFound
	}
	if err := fn(identity); err != nil {
		return err
	}
	identity.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *Store) ConfirmEmail(_ context.Context, id string) error {
	return s.update(id, func(i *domain.Identity) error {
		i.EmailConfirmed = true
		return nil
	})
}

func (s *Store) UpdatePasswordHash(_ context.Context, id, hash string) error {
	return s.update(id, func(i *domain.Identity) error {
		i.PasswordHash = hash
		return nil
	})
}

func (s *Store) AppendRefreshToken(_ context.Context, id string, token domain.RefreshToken, keep int) error {
	return s.update(id, func(i *domain.Identity) error {
		i.RefreshTokens = append(i.RefreshTokens, token)
		sort.SliceStable(i.RefreshTokens, func(a, b int) bool {
			return i.RefreshTokens[a].CreatedAt.Before(i.RefreshTokens[b].CreatedAt)
		})
		if keep > 0 && len(i.RefreshTokens) > keep {
			i.RefreshTokens = i.RefreshTokens[len(i.RefreshTokens)-keep:]
		}
		return nil
	})
}

func (s *Store) ReplaceRefreshToken(_ context.Context, id, oldHash string, token domain.RefreshToken) error {
	return s.update(id, func(i *domain.Identity) error {
		for n := range i.RefreshTokens {
			if i.RefreshTokens[n].TokenHash == oldHash {
				i.RefreshTokens[n] = token
				return nil
			}
		}
		return domain.ErrRefreshTokenNotFound
	})
}

func (s *Store) RevokeRefreshTokens(_ context.Context, id string) error {
	return s.update(id, func(i *domain.Identity) error {
		i.RefreshTokens = nil
		return nil
	})
}

func (s *Store) CreateUserProfile(_ context.Context, p *domain.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[p.IdentityID] = *p
	return nil
}

func (s *Store) CreateCreatorProfile(_ context.Context, p *domain.CreatorProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creators[p.IdentityID] = *p
	return nil
}

func (s *Store) FindUserProfile(_ context.Context, identityID string) (*domain.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.users[identityID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return &p, nil
}

func (s *Store) FindCreatorProfile(_ context.Context, identityID string) (*domain.CreatorProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.creators[identityID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return &p, nil
}

func (s *Store) UpdateUserProfile(_ context.Context, p *domain.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[p.IdentityID]; !ok {
		return domain.ErrProfileNotFound
	}
	s.users[p.IdentityID] = *p
	return nil
}

func (s *Store) UpdateCreatorProfile(_ context.Context, p *domain.CreatorProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.creators[p.IdentityID]; !ok {
		return domain.ErrProfileNotFound
	}
	s.creators[p.IdentityID] = *p
	return nil
}

func (s *Store) DeleteProfiles(_ context.Context, identityID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, identityID)
	delete(s.creators, identityID)
	return nil
}
