package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"

	"github.com/attireme/auth-service/internal/core/domain"
	"github.com/attireme/auth-service/internal/core/ports"
)

const (
	defaultAccessTTL        = 60 * time.Minute
	defaultRefreshTTL       = 7 * 24 * time.Hour
	defaultRefreshRetention = 5
	refreshTokenBytes       = 32
)

// AccessClaims is the claim set carried by access tokens.
type AccessClaims struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// HasRole reports whether the token was issued for role.
func (c *AccessClaims) HasRole(role domain.Role) bool {
	r, ok := domain.ParseRole(c.Role)
	return ok && r == role
}

// TokenOptions configures token issuance.
type TokenOptions struct {
	Secret           string
	Issuer           string
	Audience         string
	AccessTTL        time.Duration
	RefreshTTL       time.Duration
	RefreshRetention int
}

// TokenService issues and validates access tokens and rotates refresh tokens.
type TokenService struct {
	identities ports.IdentityRepository
	opts       TokenOptions
	now        func() time.Time
}

func NewTokenService(identities ports.IdentityRepository, opts TokenOptions) *TokenService {
	if opts.AccessTTL <= 0 {
		opts.AccessTTL = defaultAccessTTL
	}
	if opts.RefreshTTL <= 0 {
		opts.RefreshTTL = defaultRefreshTTL
	}
	if opts.RefreshRetention <= 0 {
		opts.RefreshRetention = defaultRefreshRetention
	}
	return &TokenService{identities: identities, opts: opts, now: time.Now}
}

// IssueAccessToken signs a short-lived HS256 token for identity.
func (s *TokenService) IssueAccessToken(identity *domain.Identity) (string, error) {
	now := s.now().UTC()
	claims := AccessClaims{
		Email:    identity.Email,
		Username: identity.UserName,
		Role:     identity.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        ulid.Make().String(),
			Subject:   identity.ID,
			Issuer:    s.opts.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.opts.AccessTTL)),
		},
	}
	if s.opts.Audience != "" {
		claims.Audience = jwt.ClaimStrings{s.opts.Audience}
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.opts.Secret))
}

// Validate checks signature, issuer, audience and expiry of an access token.
func (s *TokenService) Validate(token string) (*AccessClaims, error) {
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.opts.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(s.opts.Issuer))
	}
	if s.opts.Audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(s.opts.Audience))
	}

	claims := &AccessClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.opts.Secret), nil
	}, parserOpts...)
	if err != nil || !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

// GenerateRefreshToken returns a fresh opaque token value and its stored form.
func (s *TokenService) GenerateRefreshToken() (string, domain.RefreshToken, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", domain.RefreshToken{}, fmt.Errorf("generate refresh token: %w", err)
	}
	value := base64.RawURLEncoding.EncodeToString(buf)
	now := s.now().UTC()
	return value, domain.RefreshToken{
		TokenHash: HashToken(value),
		CreatedAt: now,
		ExpiresAt: now.Add(s.opts.RefreshTTL),
	}, nil
}

// IssuePair mints an access token and attaches a new refresh token to identity.
func (s *TokenService) IssuePair(ctx context.Context, identity *domain.Identity) (*domain.TokenPair, error) {
	access, err := s.IssueAccessToken(identity)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	value, stored, err := s.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}
	if err := s.identities.AppendRefreshToken(ctx, identity.ID, stored, s.opts.RefreshRetention); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	return &domain.TokenPair{AccessToken: access, RefreshToken: value}, nil
}

// Refresh exchanges a refresh token for a new pair. The presented token is
// rotated out and cannot be used again.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (domain.RefreshResult, error) {
	hash := HashToken(refreshToken)
	identity, err := s.identities.FindByRefreshToken(ctx, hash)
	if errors.Is(err, domain.ErrIdentityNotFound) {
		return domain.RefreshResult{Outcome: domain.RefreshEmailNotFound}, nil
	}
	if err != nil {
		return domain.RefreshResult{}, err
	}

	var current *domain.RefreshToken
	for i := range identity.RefreshTokens {
		if identity.RefreshTokens[i].TokenHash == hash {
			current = &identity.RefreshTokens[i]
			break
		}
	}
	if current == nil {
		return domain.RefreshResult{Outcome: domain.RefreshEmailNotFound}, nil
	}
	if current.Expired(s.now()) {
		return domain.RefreshResult{Outcome: domain.RefreshExpired}, nil
	}

	access, err := s.IssueAccessToken(identity)
	if err != nil {
		return domain.RefreshResult{}, fmt.Errorf("issue access token: %w", err)
	}
	value, stored, err := s.GenerateRefreshToken()
	if err != nil {
		return domain.RefreshResult{}, err
	}
	err = s.identities.ReplaceRefreshToken(ctx, identity.ID, hash, stored)
	if errors.Is(err, domain.ErrRefreshTokenNotFound) {
		// rotated concurrently by another request
		return domain.RefreshResult{Outcome: domain.RefreshEmailNotFound}, nil
	}
	if err != nil {
		return domain.RefreshResult{}, fmt.Errorf("rotate refresh token: %w", err)
	}

	return domain.RefreshResult{
		Outcome: domain.RefreshSuccess,
		Tokens:  &domain.TokenPair{AccessToken: access, RefreshToken: value},
	}, nil
}

// HashToken returns the hex SHA-256 digest under which opaque tokens are stored.
func HashToken(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
