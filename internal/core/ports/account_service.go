package ports

import (
	"context"

	"github.com/attireme/auth-service/internal/core/domain"
)

// RegisterInput is the data a new account is created from.
type RegisterInput struct {
	UserName string
	Email    string
	Password string
	UserType domain.UserType
}

// AccountService drives the account lifecycle workflows. A non-nil error
// means an unexpected infrastructure failure; every expected result is an outcome.
type AccountService interface {
	Register(ctx context.Context, in RegisterInput) (domain.RegistrationOutcome, error)
	Authenticate(ctx context.Context, email, password string) (domain.AuthenticationResult, error)
	ConfirmEmail(ctx context.Context, email, token string) (domain.ConfirmEmailOutcome, error)
	RequestPasswordReset(ctx context.Context, email string) (domain.PasswordResetRequestOutcome, error)
	ConfirmPasswordReset(ctx context.Context, email, token, newPassword string) (domain.PasswordResetOutcome, error)
	GetProfile(ctx context.Context, email string) (domain.ProfileResult, error)
	// callerEmail is the email claim of the authenticated caller.
	UpdateUserProfile(ctx context.Context, callerEmail, email string, profile domain.UserProfile, expectedRole domain.Role) (domain.ProfileUpdateOutcome, error)
	UpdateCreatorProfile(ctx context.Context, callerEmail, email string, profile domain.CreatorProfile, expectedRole domain.Role) (domain.ProfileUpdateOutcome, error)
	DeleteIdentity(ctx context.Context, email string) (domain.DeletionOutcome, error)
}

// TokenRefresher exchanges refresh tokens for a new token pair.
type TokenRefresher interface {
	Refresh(ctx context.Context, refreshToken string) (domain.RefreshResult, error)
}

// PolicyChecker evaluates whether an access token satisfies a role policy.
type PolicyChecker interface {
	Check(ctx context.Context, token string, required domain.Role) domain.PolicyOutcome
}
