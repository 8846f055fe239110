package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/attireme/auth-service/internal/core/domain"
)

func (s *Store) CreateUserProfile(ctx context.Context, p *domain.UserProfile) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO user_profiles (identity_id, full_name, address, phone_number) VALUES ($1, $2, $3, $4)`,
		p.IdentityID, p.FullName, p.Address, p.PhoneNumber)
	if err != nil {
		return fmt.Errorf("insert user profile: %w", err)
	}
	return nil
}

func (s *Store) CreateCreatorProfile(ctx context.Context, p *domain.CreatorProfile) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO creator_profiles (identity_id, business_name, address, phone_number) VALUES ($1, $2, $3, $4)`,
		p.IdentityID, p.BusinessName, p.Address, p.PhoneNumber)
	if err != nil {
		return fmt.Errorf("insert creator profile: %w", err)
	}
	return nil
}

func (s *Store) FindUserProfile(ctx context.Context, identityID string) (*domain.UserProfile, error) {
	p := domain.UserProfile{IdentityID: identityID}
	err := s.pool.QueryRow(ctx,
		`SELECT full_name, address, phone_number FROM user_profiles WHERE identity_id = $1`, identityID).
		Scan(&p.FullName, &p.Address, &p.PhoneNumber)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user profile: %w", err)
	}
	return &p, nil
}

func (s *Store) FindCreatorProfile(ctx context.Context, identityID string) (*domain.CreatorProfile, error) {
	p := domain.CreatorProfile{IdentityID: identityID}
	err := s.pool.QueryRow(ctx,
		`SELECT business_name, address, phone_number FROM creator_profiles WHERE identity_id = $1`, identityID).
		Scan(&p.BusinessName, &p.Address, &p.PhoneNumber)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find creator profile: %w", err)
	}
	return &p, nil
}

func (s *Store) UpdateUserProfile(ctx context.Context, p *domain.UserProfile) error {
	return s.execProfile(ctx,
		`UPDATE user_profiles SET full_name = $2, address = $3, phone_number = $4 WHERE identity_id = $1`,
		p.IdentityID, p.FullName, p.Address, p.PhoneNumber)
}

func (s *Store) UpdateCreatorProfile(ctx context.Context, p *domain.CreatorProfile) error {
	return s.execProfile(ctx,
		`UPDATE creator_profiles SET business_name = $2, address = $3, phone_number = $4 WHERE identity_id = $1`,
		p.IdentityID, p.BusinessName, p.Address, p.PhoneNumber)
}

func (s *Store) execProfile(ctx context.Context, query string, args ...any) error {
	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

func (s *Store) DeleteProfiles(ctx context.Context, identityID string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM user_profiles WHERE identity_id = $1`, identityID); err != nil {
		return fmt.Errorf("delete user profile: %w", err)
	}
	if _, err := s.pool.Exec(ctx, `DELETE FROM creator_profiles WHERE identity_id = $1`, identityID); err != nil {
		return fmt.Errorf("delete creator profile: %w", err)
	}
	return nil
}
