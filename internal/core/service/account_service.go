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

const (
	defaultEmailTimeout = 10 * time.Second
	compensationTimeout = 5 * time.Second
)

// AccountDeps are the collaborators of AccountService.
type AccountDeps struct {
	Store        ports.CredentialStore
	Tokens       *TokenService
	Verification *VerificationTokens
	Mailer       ports.EmailSender
	Hook         ports.ConfirmationHook
	Hasher       PasswordHasher
}

// AccountOptions tunes AccountService.
type AccountOptions struct {
	FrontendURL  string
	EmailTimeout time.Duration
}

// AccountService implements the account lifecycle workflows.
type AccountService struct {
	store        ports.CredentialStore
	tokens       *TokenService
	verification *VerificationTokens
	mailer       ports.EmailSender
	hook         ports.ConfirmationHook
	hasher       PasswordHasher
	opts         AccountOptions
	log          zerolog.Logger
}

func NewAccountService(deps AccountDeps, opts AccountOptions, log zerolog.Logger) *AccountService {
	if opts.EmailTimeout <= 0 {
		opts.EmailTimeout = defaultEmailTimeout
	}
	hasher := deps.Hasher
	if hasher == nil {
		hasher = BcryptHasher{}
	}
	return &AccountService{
		store:        deps.Store,
		tokens:       deps.Tokens,
		verification: deps.Verification,
		mailer:       deps.Mailer,
		hook:         deps.Hook,
		hasher:       hasher,
		opts:         opts,
		log:          log,
	}
}

// Register creates the identity and its empty profile, then sends the
// confirmation email. When the email cannot be delivered the identity is
// removed again.
func (s *AccountService) Register(ctx context.Context, in ports.RegisterInput) (domain.RegistrationOutcome, error) {
	email := domain.NormalizeEmail(in.Email)
	_, err := s.store.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return domain.RegistrationEmailAlreadyExists, nil
	case !errors.Is(err, domain.ErrIdentityNotFound):
		s.log.Error().Err(err).Str("email", email).Msg("register: lookup failed")
		return domain.RegistrationSystemError, nil
	}

	if !in.UserType.Valid() {
		return domain.RegistrationSystemError, nil
	}
	if err := ValidatePassword(in.Password); err != nil {
		return domain.RegistrationSystemError, nil
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		s.log.Error().Err(err).Msg("register: hash password")
		return domain.RegistrationSystemError, nil
	}

	now := time.Now().UTC()
	identity := &domain.Identity{
		ID:           ulid.Make().String(),
		Email:        email,
		UserName:     in.UserName,
		PasswordHash: hash,
		UserType:     in.UserType,
		Role:         in.UserType.Role(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Create(ctx, identity); err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			return domain.RegistrationEmailAlreadyExists, nil
		}
		s.log.Error().Err(err).Str("email", email).Msg("register: create identity")
		return domain.RegistrationSystemError, nil
	}

	if err := s.createEmptyProfile(ctx, identity); err != nil {
		s.log.Error().Err(err).Str("identity_id", identity.ID).Msg("register: create profile")
		s.discard(ctx, identity)
		return domain.RegistrationSystemError, nil
	}

	if err := s.sendConfirmation(ctx, identity); err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("register: confirmation email not sent")
		s.discard(ctx, identity)
		return domain.RegistrationEmailCantBeSent, nil
	}

	return domain.RegistrationSuccess, nil
}

func (s *AccountService) createEmptyProfile(ctx context.Context, identity *domain.Identity) error {
	if identity.Role == domain.RoleCreator {
		return s.store.CreateCreatorProfile(ctx, &domain.CreatorProfile{IdentityID: identity.ID})
	}
	return s.store.CreateUserProfile(ctx, &domain.UserProfile{IdentityID: identity.ID})
}

func (s *AccountService) sendConfirmation(ctx context.Context, identity *domain.Identity) error {
	token, err := s.verification.Issue(ctx, domain.PurposeEmailConfirmation, identity.ID)
	if err != nil {
		return err
	}
	return s.send(ctx, confirmationEmail(s.opts.FrontendURL, identity.Email, token))
}

func (s *AccountService) send(ctx context.Context, email domain.Email) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.EmailTimeout)
	defer cancel()
	return s.mailer.Send(ctx, email)
}

// discard removes a partially registered identity. It runs detached from the
// request so a disconnected client does not leave an orphan behind. Failures
// are logged only.
func (s *AccountService) discard(ctx context.Context, identity *domain.Identity) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer cancel()
	if err := s.store.DeleteProfiles(ctx, identity.ID); err != nil {
		s.log.Error().Err(err).Str("identity_id", identity.ID).Msg("register: compensation failed to delete profile")
	}
	if err := s.store.Delete(ctx, identity.ID); err != nil {
		s.log.Error().Err(err).Str("identity_id", identity.ID).Msg("register: compensation failed to delete identity")
	}
}

// Authenticate verifies the credentials and issues a token pair.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (domain.AuthenticationResult, error) {
	identity, err := s.store.FindByEmail(ctx, domain.NormalizeEmail(email))
	if errors.Is(err, domain.ErrIdentityNotFound) {
		return domain.AuthenticationResult{Outcome: domain.AuthenticationEmailNotFound}, nil
	}
	if err != nil {
		return domain.AuthenticationResult{}, err
	}
	if !s.hasher.Compare(identity.PasswordHash, password) {
		return domain.AuthenticationResult{Outcome: domain.AuthenticationWrongPassword}, nil
	}

	pair, err := s.tokens.IssuePair(ctx, identity)
	if err != nil {
		return domain.AuthenticationResult{}, err
	}
	return domain.AuthenticationResult{Outcome: domain.AuthenticationSuccess, Tokens: pair}, nil
}

// ConfirmEmail redeems a confirmation token. The confirmation hook runs
// afterwards and its failures are only logged.
func (s *AccountService) ConfirmEmail(ctx context.Context, email, token string) (domain.ConfirmEmailOutcome, error) {
	identity, err := s.store.FindByEmail(ctx, domain.NormalizeEmail(email))
	if errors.Is(err, domain.ErrIdentityNotFound) {
		return domain.ConfirmEmailEmailNotFound, nil
	}
	if err != nil {
		return "", err
	}

	ok, err := s.verification.Redeem(ctx, domain.PurposeEmailConfirmation, identity.ID, token)
	if err != nil {
		s.log.Error().Err(err).Str("identity_id", identity.ID).Msg("confirm email: redeem token")
		return domain.ConfirmEmailInvalidToken, nil
	}
	if !ok {
		return domain.ConfirmEmailInvalidToken, nil
	}
	if err := s.store.ConfirmEmail(ctx, identity.ID); err != nil {
		return "", fmt.Errorf("confirm email: %w", err)
	}
	identity.EmailConfirmed = true

	if s.hook != nil {
		if err := s.hook.AfterEmailConfirmed(ctx, identity); err != nil {
			s.log.Warn().Err(err).Str("email", identity.Email).Msg("confirm email: post-confirmation step failed")
		}
	}
	return domain.ConfirmEmailSuccess, nil
}

// RequestPasswordReset emails a reset code to the identity.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) (domain.PasswordResetRequestOutcome, error) {
	identity, err := s.store.FindByEmail(ctx, domain.NormalizeEmail(email))
	if errors.Is(err, domain.ErrIdentityNotFound) {
		return domain.PasswordResetRequestEmailNotFound, nil
	}
	if err != nil {
		return "", err
	}

	code, err := s.verification.Issue(ctx, domain.PurposePasswordReset, identity.ID)
	if err != nil {
		return "", err
	}
	if err := s.send(ctx, passwordResetEmail(identity.Email, code, s.verification.TTL(domain.PurposePasswordReset))); err != nil {
		s.log.Warn().Err(err).Str("email", identity.Email).Msg("password reset: email not sent")
		return domain.PasswordResetRequestEmailCantBeSent, nil
	}
	return domain.PasswordResetRequestSuccess, nil
}

// ConfirmPasswordReset sets a new password when the reset code is valid.
// Every failure past the identity lookup reports UnsupportedPasswordFormat.
func (s *AccountService) ConfirmPasswordReset(ctx context.Context, email, token, newPassword string) (domain.PasswordResetOutcome, error) {
	identity, err := s.store.FindByEmail(ctx, domain.NormalizeEmail(email))
	if errors.Is(err, domain.ErrIdentityNotFound) {
		return domain.PasswordResetEmailNotFound, nil
	}
	if err != nil {
		return "", err
	}

	// Check the policy first so a weak password does not burn the code.
	if err := ValidatePassword(newPassword); err != nil {
		return domain.PasswordResetUnsupportedPasswordFormat, nil
	}
	ok, err := s.verification.Redeem(ctx, domain.PurposePasswordReset, identity.ID, token)
	if err != nil || !ok {
		if err != nil {
			s.log.Error().Err(err).Str("identity_id", identity.ID).Msg("password reset: redeem token")
		}
		return domain.PasswordResetUnsupportedPasswordFormat, nil
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return domain.PasswordResetUnsupportedPasswordFormat, nil
	}
	if err := s.store.UpdatePasswordHash(ctx, identity.ID, hash); err != nil {
		s.log.Error().Err(err).Str("identity_id", identity.ID).Msg("password reset: update hash")
		return domain.PasswordResetUnsupportedPasswordFormat, nil
	}
	if err := s.store.RevokeRefreshTokens(ctx, identity.ID); err != nil {
		s.log.Warn().Err(err).Str("identity_id", identity.ID).Msg("password reset: revoke refresh tokens")
	}
	return domain.PasswordResetSuccess, nil
}

// GetProfile returns the role-specific profile of the identity.
func (s *AccountService) GetProfile(ctx context.Context, email string) (domain.ProfileResult, error) {
	identity, err := s.store.FindByEmail(ctx, domain.NormalizeEmail(email))
	if errors.Is(err, domain.ErrIdentityNotFound) {
		return domain.ProfileResult{Outcome: domain.ProfileEmailNotFound}, nil
	}
	if err != nil {
		return domain.ProfileResult{}, err
	}

	switch identity.Role {
	case domain.RoleAdmin:
		return domain.ProfileResult{Outcome: domain.ProfileUserIsAdmin}, nil
	case domain.RoleUser:
		p, err := s.store.FindUserProfile(ctx, identity.ID)
		if errors.Is(err, domain.ErrProfileNotFound) {
			return domain.ProfileResult{Outcome: domain.ProfileUserNotInitialized}, nil
		}
		if err != nil {
			return domain.ProfileResult{}, err
		}
		return domain.ProfileResult{Outcome: domain.ProfileSuccess, Profile: &domain.Profile{User: p}}, nil
	case domain.RoleCreator:
		p, err := s.store.FindCreatorProfile(ctx, identity.ID)
		if errors.Is(err, domain.ErrProfileNotFound) {
			return domain.ProfileResult{Outcome: domain.ProfileCreatorNotInitialized}, nil
		}
		if err != nil {
			return domain.ProfileResult{}, err
		}
		return domain.ProfileResult{Outcome: domain.ProfileSuccess, Profile: &domain.Profile{Creator: p}}, nil
	default:
		return domain.ProfileResult{Outcome: domain.ProfileUserNotInitialized}, nil
	}
}

// UpdateUserProfile replaces the User profile of email.
func (s *AccountService) UpdateUserProfile(ctx context.Context, callerEmail, email string, profile domain.UserProfile, expectedRole domain.Role) (domain.ProfileUpdateOutcome, error) {
	identity, outcome, err := s.authorizeProfileUpdate(ctx, callerEmail, email, expectedRole)
	if identity == nil {
		return outcome, err
	}
	if identity.Role != domain.RoleUser {
		return domain.ProfileUpdateWrongUserType, nil
	}
	profile.IdentityID = identity.ID
	return s.profileWritten(s.store.UpdateUserProfile(ctx, &profile))
}

// UpdateCreatorProfile replaces the Creator profile of email.
func (s *AccountService) UpdateCreatorProfile(ctx context.Context, callerEmail, email string, profile domain.CreatorProfile, expectedRole domain.Role) (domain.ProfileUpdateOutcome, error) {
	identity, outcome, err := s.authorizeProfileUpdate(ctx, callerEmail, email, expectedRole)
	if identity == nil {
		return outcome, err
	}
	if identity.Role != domain.RoleCreator {
		return domain.ProfileUpdateWrongUserType, nil
	}
	profile.IdentityID = identity.ID
	return s.profileWritten(s.store.UpdateCreatorProfile(ctx, &profile))
}

// authorizeProfileUpdate returns the target identity, or a nil identity with
// the outcome to report.
func (s *AccountService) authorizeProfileUpdate(ctx context.Context, callerEmail, email string, expectedRole domain.Role) (*domain.Identity, domain.ProfileUpdateOutcome, error) {
	identity, err := s.store.FindByEmail(ctx, domain.NormalizeEmail(email))
	if errors.Is(err, domain.ErrIdentityNotFound) {
		return nil, domain.ProfileUpdateEmailNotFound, nil
	}
	if err != nil {
		return nil, "", err
	}
	if domain.NormalizeEmail(callerEmail) != identity.Email {
		return nil, domain.ProfileUpdateInvalidToken, nil
	}
	if identity.Role == domain.RoleAdmin {
		return nil, domain.ProfileUpdateUserIsAdmin, nil
	}
	if identity.Role != expectedRole {
		return nil, domain.ProfileUpdateWrongUserType, nil
	}
	return identity, "", nil
}

func (s *AccountService) profileWritten(err error) (domain.ProfileUpdateOutcome, error) {
	if errors.Is(err, domain.ErrProfileNotFound) {
		return domain.ProfileUpdateEmailNotFound, nil
	}
	if err != nil {
		return "", err
	}
	return domain.ProfileUpdateSuccess, nil
}

// DeleteIdentity removes an identity with its profile and tokens. The
// administrator account cannot be deleted.
func (s *AccountService) DeleteIdentity(ctx context.Context, email string) (domain.DeletionOutcome, error) {
	identity, err := s.store.FindByEmail(ctx, domain.NormalizeEmail(email))
	if errors.Is(err, domain.ErrIdentityNotFound) {
		return domain.DeletionEmailNotFound, nil
	}
	if err != nil {
		return "", err
	}
	if identity.Role == domain.RoleAdmin {
		return domain.DeletionUserIsAdmin, nil
	}
	if err := s.store.DeleteProfiles(ctx, identity.ID); err != nil {
		return "", fmt.Errorf("delete profiles: %w", err)
	}
	if err := s.store.Delete(ctx, identity.ID); err != nil {
		return "", fmt.Errorf("delete identity: %w", err)
	}
	s.log.Info().Str("identity_id", identity.ID).Msg("identity deleted")
	return domain.DeletionSuccess, nil
}
