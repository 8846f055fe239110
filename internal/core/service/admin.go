package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/attireme/auth-service/internal/core/domain"
	"github.com/attireme/auth-service/internal/core/ports"
)

// ErrAdminEmailTaken reports that the administrator email belongs to an
// identity without the Admin role.
var ErrAdminEmailTaken = errors.New("admin email is held by a non-admin identity")

// AdminOptions describes the well-known administrator account.
type AdminOptions struct {
	Email    string
	UserName string
	Password string
}

// AdminBootstrapper makes sure the administrator identity exists.
type AdminBootstrapper struct {
	identities ports.IdentityRepository
	hasher     PasswordHasher
	opts       AdminOptions
	log        zerolog.Logger
}

func NewAdminBootstrapper(identities ports.IdentityRepository, hasher PasswordHasher, opts AdminOptions, log zerolog.Logger) *AdminBootstrapper {
	return &AdminBootstrapper{identities: identities, hasher: hasher, opts: opts, log: log}
}

// EnsureAdmin returns the administrator identity, creating it on first use.
// Concurrent callers converge on the same stored identity.
func (b *AdminBootstrapper) EnsureAdmin(ctx context.Context) (*domain.Identity, error) {
	email := domain.NormalizeEmail(b.opts.Email)
	existing, err := b.identities.FindByEmail(ctx, email)
	if err == nil {
		return checkAdmin(existing)
	}
	if !errors.Is(err, domain.ErrIdentityNotFound) {
		return nil, fmt.Errorf("lookup admin: %w", err)
	}

	hash, err := b.hasher.Hash(b.opts.Password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	admin := &domain.Identity{
		ID:             ulid.Make().String(),
		Email:          email,
		UserName:       b.opts.UserName,
		PasswordHash:   hash,
		EmailConfirmed: true,
		Role:           domain.RoleAdmin,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	err = b.identities.Create(ctx, admin)
	if errors.Is(err, domain.ErrEmailAlreadyExists) {
		existing, err := b.identities.FindByEmail(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("lookup admin: %w", err)
		}
		return checkAdmin(existing)
	}
	if err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}

	b.log.Info().Str("email", email).Msg("admin identity created")
	return admin, nil
}

func checkAdmin(identity *domain.Identity) (*domain.Identity, error) {
	if identity.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("%w: %s", ErrAdminEmailTaken, identity.Email)
	}
	return identity, nil
}
