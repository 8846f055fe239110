package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/attireme/auth-service/internal/core/domain"
	"github.com/attireme/auth-service/internal/core/ports"
)

// PolicyEvaluator decides whether an access token satisfies a role policy.
type PolicyEvaluator struct {
	tokens     *TokenService
	identities ports.IdentityRepository
	log        zerolog.Logger
}

func NewPolicyEvaluator(tokens *TokenService, identities ports.IdentityRepository, log zerolog.Logger) *PolicyEvaluator {
	return &PolicyEvaluator{tokens: tokens, identities: identities, log: log}
}

// Check validates token and compares its role claim with required. Identities
// that are missing or unconfirmed only pass the Admin policy.
func (p *PolicyEvaluator) Check(ctx context.Context, token string, required domain.Role) domain.PolicyOutcome {
	claims, err := p.tokens.Validate(token)
	if err != nil {
		return domain.PolicyFailure
	}
	if claims.Email == "" {
		return domain.PolicyEmailNotConfirmed
	}

	identity, err := p.identities.FindByEmail(ctx, domain.NormalizeEmail(claims.Email))
	if err != nil && !errors.Is(err, domain.ErrIdentityNotFound) {
		p.log.Error().Err(err).Str("role", required.String()).Msg("policy check: identity lookup failed")
		return domain.PolicyFailure
	}
	confirmed := identity != nil && identity.EmailConfirmed
	if !confirmed && required != domain.RoleAdmin {
		return domain.PolicyEmailNotConfirmed
	}

	if claims.HasRole(required) {
		return domain.PolicySuccess
	}
	return domain.PolicyFailure
}

func (p *PolicyEvaluator) CheckUser(ctx context.Context, token string) domain.PolicyOutcome {
	return p.Check(ctx, token, domain.RoleUser)
}

func (p *PolicyEvaluator) CheckCreator(ctx context.Context, token string) domain.PolicyOutcome {
	return p.Check(ctx, token, domain.RoleCreator)
}

func (p *PolicyEvaluator) CheckAdmin(ctx context.Context, token string) domain.PolicyOutcome {
	return p.Check(ctx, token, domain.RoleAdmin)
}
