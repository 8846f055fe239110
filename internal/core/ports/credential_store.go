package ports

import (
	"context"

	"github.com/attireme/auth-service/internal/core/domain"
)

// IdentityRepository persists identities and their refresh tokens.
// Lookups by email expect the normalized form (see domain.NormalizeEmail).
type IdentityRepository interface {
	// Create fails with domain.ErrEmailAlreadyExists when the email is taken.
	Create(ctx context.Context, identity *domain.Identity) error
	FindByEmail(ctx context.Context, email string) (*domain.Identity, error)
	FindByRefreshToken(ctx context.Context, tokenHash string) (*domain.Identity, error)
	Delete(ctx context.Context, id string) error
	ConfirmEmail(ctx context.Context, id string) error
	UpdatePasswordHash(ctx context.Context, id, hash string) error
	// AppendRefreshToken stores token and keeps only the newest keep tokens.
	AppendRefreshToken(ctx context.Context, id string, token domain.RefreshToken, keep int) error
	// ReplaceRefreshToken swaps oldHash for token; domain.ErrRefreshTokenNotFound
	// is returned when oldHash is no longer held by the identity.
	ReplaceRefreshToken(ctx context.Context, id, oldHash string, token domain.RefreshToken) error
	RevokeRefreshTokens(ctx context.Context, id string) error
}

// ProfileRepository persists the role-specific profile attached to an identity.
type ProfileRepository interface {
	CreateUserProfile(ctx context.Context, profile *domain.UserProfile) error
	CreateCreatorProfile(ctx context.Context, profile *domain.CreatorProfile) error
	FindUserProfile(ctx context.Context, identityID string) (*domain.UserProfile, error)
	FindCreatorProfile(ctx context.Context, identityID string) (*domain.CreatorProfile, error)
	// Update methods fail with domain.ErrProfileNotFound when nothing matched.
	UpdateUserProfile(ctx context.Context, profile *domain.UserProfile) error
	UpdateCreatorProfile(ctx context.Context, profile *domain.CreatorProfile) error
	DeleteProfiles(ctx context.Context, identityID string) error
}

// CredentialStore is a storage backend holding both identities and profiles.
type CredentialStore interface {
	IdentityRepository
	ProfileRepository
	Ping(ctx context.Context) error
}
