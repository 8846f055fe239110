package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/attireme/auth-service/internal/core/domain"
)

const identityColumns = `i.id, i.email, i.user_name, i.password_hash, i.email_confirmed, i.user_type, i.role, i.created_at, i.updated_at`

func scanIdentity(row pgx.Row) (*domain.Identity, error) {
	var (
		identity       domain.Identity
		userType, role string
	)
	err := row.Scan(&identity.ID, &identity.Email, &identity.UserName, &identity.PasswordHash,
		&identity.EmailConfirmed, &userType, &role, &identity.CreatedAt, &identity.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrIdentityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan identity: %w", err)
	}
	identity.UserType = domain.UserType(userType)
	identity.Role = domain.Role(role)
	return &identity, nil
}

func (s *Store) Create(ctx context.Context, identity *domain.Identity) error {
	const query = `
		INSERT INTO identities (id, email, user_name, password_hash, email_confirmed, user_type, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := s.pool.Exec(ctx, query, identity.ID, identity.Email, identity.UserName, identity.PasswordHash,
		identity.EmailConfirmed, string(identity.UserType), identity.Role.String(), identity.CreatedAt, identity.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert identity: %w", err)
	}
	return nil
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+identityColumns+` FROM identities i WHERE i.email = $1`, email)
	return s.withTokens(ctx, row)
}

func (s *Store) FindByRefreshToken(ctx context.Context, tokenHash string) (*domain.Identity, error) {
	const query = `SELECT ` + identityColumns + `
		FROM identities i
		JOIN refresh_tokens r ON r.identity_id = i.id
		WHERE r.token_hash = $1`
	return s.withTokens(ctx, s.pool.QueryRow(ctx, query, tokenHash))
}

func (s *Store) withTokens(ctx context.Context, row pgx.Row) (*domain.Identity, error) {
	identity, err := scanIdentity(row)
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx,
		`SELECT token_hash, expires_at, created_at FROM refresh_tokens WHERE identity_id = $1 ORDER BY created_at`,
		identity.ID)
	if err != nil {
		return nil, fmt.Errorf("query refresh tokens: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t domain.RefreshToken
		if err := rows.Scan(&t.TokenHash, &t.ExpiresAt, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan refresh token: %w", err)
		}
		identity.RefreshTokens = append(identity.RefreshTokens, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate refresh tokens: %w", err)
	}
	return identity, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM identities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete identity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrIdentityNotFound
	}
	return nil
}

func (s *Store) execIdentity(ctx context.Context, query string, args ...any) error {
	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update identity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrIdentityNotFound
	}
	return nil
}

func (s *Store) ConfirmEmail(ctx context.Context, id string) error {
	return s.execIdentity(ctx, `UPDATE identities SET email_confirmed = TRUE, updated_at = $2 WHERE id = $1`, id, time.Now().UTC())
}

func (s *Store) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	return s.execIdentity(ctx, `UPDATE identities SET password_hash = $2, updated_at = $3 WHERE id = $1`, id, hash, time.Now().UTC())
}

const insertRefreshToken = `INSERT INTO refresh_tokens (token_hash, identity_id, expires_at, created_at) VALUES ($1, $2, $3, $4)`

func (s *Store) AppendRefreshToken(ctx context.Context, id string, token domain.RefreshToken, keep int) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, insertRefreshToken, token.TokenHash, id, token.ExpiresAt, token.CreatedAt); err != nil {
			if isForeignKeyViolation(err) {
				return domain.ErrIdentityNotFound
			}
			return fmt.Errorf("insert refresh token: %w", err)
		}
		if keep <= 0 {
			return nil
		}
		const prune = `
			DELETE FROM refresh_tokens
			WHERE identity_id = $1 AND token_hash NOT IN (
				SELECT token_hash FROM refresh_tokens WHERE identity_id = $1 ORDER BY created_at DESC LIMIT $2
			)`
		if _, err := tx.Exec(ctx, prune, id, keep); err != nil {
			return fmt.Errorf("prune refresh tokens: %w", err)
		}
		return nil
	})
}

func (s *Store) ReplaceRefreshToken(ctx context.Context, id, oldHash string, token domain.RefreshToken) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM refresh_tokens WHERE identity_id = $1 AND token_hash = $2`, id, oldHash)
		if err != nil {
			return fmt.Errorf("delete refresh token: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrRefreshTokenNotFound
		}
		if _, err := tx.Exec(ctx, insertRefreshToken, token.TokenHash, id, token.ExpiresAt, token.CreatedAt); err != nil {
			return fmt.Errorf("insert refresh token: %w", err)
		}
		return nil
	})
}

func (s *Store) RevokeRefreshTokens(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE identity_id = $1`, id); err != nil {
		return fmt.Errorf("revoke refresh tokens: %w", err)
	}
	return nil
}
