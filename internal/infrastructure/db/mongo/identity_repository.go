package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/attireme/auth-service/internal/core/domain"
)

type mongoRefreshToken struct {
	TokenHash string    `bson:"token_hash"`
	ExpiresAt time.Time `bson:"expires_at"`
	CreatedAt time.Time `bson:"created_at"`
}

type mongoIdentity struct {
	ID             string              `bson:"_id"`
	Email          string              `bson:"email"`
	UserName       string              `bson:"user_name"`
	PasswordHash   string              `bson:"password_hash"`
	EmailConfirmed bool                `bson:"email_confirmed"`
	UserType       string              `bson:"user_type,omitempty"`
	Role           string              `bson:"role"`
	RefreshTokens  []mongoRefreshToken `bson:"refresh_tokens"`
	CreatedAt      int64               `bson:"created_at"`
	UpdatedAt      int64               `bson:"updated_at"`
}

func toRefreshDoc(t domain.RefreshToken) mongoRefreshToken {
	return mongoRefreshToken{TokenHash: t.TokenHash, ExpiresAt: t.ExpiresAt.UTC(), CreatedAt: t.CreatedAt.UTC()}
}

func (m mongoIdentity) toDomain() *domain.Identity {
	tokens := make([]domain.RefreshToken, 0, len(m.RefreshTokens))
	for _, t := range m.RefreshTokens {
		tokens = append(tokens, domain.RefreshToken{TokenHash: t.TokenHash, ExpiresAt: t.ExpiresAt, CreatedAt: t.CreatedAt})
	}
	return &domain.Identity{
		ID:             m.ID,
		Email:          m.Email,
		UserName:       m.UserName,
		PasswordHash:   m.PasswordHash,
		EmailConfirmed: m.EmailConfirmed,
		UserType:       domain.UserType(m.UserType),
		Role:           domain.Role(m.Role),
		RefreshTokens:  tokens,
		CreatedAt:      unixToTime(m.CreatedAt),
		UpdatedAt:      unixToTime(m.UpdatedAt),
	}
}

func (s *Store) Create(ctx context.Context, identity *domain.Identity) error {
	tokens := make([]mongoRefreshToken, 0, len(identity.RefreshTokens))
	for _, t := range identity.RefreshTokens {
		tokens = append(tokens, toRefreshDoc(t))
	}
	doc := mongoIdentity{
		ID:             identity.ID,
		Email:          identity.Email,
		UserName:       identity.UserName,
		PasswordHash:   identity.PasswordHash,
		EmailConfirmed: identity.EmailConfirmed,
		UserType:       string(identity.UserType),
		Role:           identity.Role.String(),
		RefreshTokens:  tokens,
		CreatedAt:      identity.CreatedAt.Unix(),
		UpdatedAt:      identity.UpdatedAt.Unix(),
	}

	if _, err := s.identities.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert identity: %w", err)
	}
	return nil
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (*domain.Identity, error) {
	var doc mongoIdentity
	if err := s.identities.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("find identity: %w", err)
	}
	return doc.toDomain(), nil
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *Store) FindByRefreshToken(ctx context.Context, tokenHash string) (*domain.Identity, error) {
	return s.findOne(ctx, bson.M{"refresh_tokens.token_hash": tokenHash})
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.identities.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete identity: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrIdentityNotFound
	}
	return nil
}

func (s *Store) updateIdentity(ctx context.Context, filter bson.M, set bson.M, notFound error) error {
	set["updated_at"] = time.Now().UTC().Unix()
	res, err := s.identities.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update identity: %w", err)
	}
	if res.MatchedCount == 0 {
		return notFound
	}
	return nil
}

func (s *Store) ConfirmEmail(ctx context.Context, id string) error {
	return s.updateIdentity(ctx, bson.M{"_id": id}, bson.M{"email_confirmed": true}, domain.ErrIdentityNotFound)
}

func (s *Store) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	return s.updateIdentity(ctx, bson.M{"_id": id}, bson.M{"password_hash": hash}, domain.ErrIdentityNotFound)
}

func (s *Store) AppendRefreshToken(ctx context.Context, id string, token domain.RefreshToken, keep int) error {
	push := bson.M{
		"$each": bson.A{toRefreshDoc(token)},
		"$sort": bson.M{"created_at": 1},
	}
	if keep > 0 {
		push["$slice"] = -keep
	}
	update := bson.M{
		"$push": bson.M{"refresh_tokens": push},
		"$set":  bson.M{"updated_at": time.Now().UTC().Unix()},
	}

	res, err := s.identities.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("append refresh token: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrIdentityNotFound
	}
	return nil
}

func (s *Store) ReplaceRefreshToken(ctx context.Context, id, oldHash string, token domain.RefreshToken) error {
	filter := bson.M{"_id": id, "refresh_tokens.token_hash": oldHash}
	return s.updateIdentity(ctx, filter, bson.M{"refresh_tokens.$": toRefreshDoc(token)}, domain.ErrRefreshTokenNotFound)
}

func (s *Store) RevokeRefreshTokens(ctx context.Context, id string) error {
	return s.updateIdentity(ctx, bson.M{"_id": id}, bson.M{"refresh_tokens": bson.A{}}, domain.ErrIdentityNotFound)
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
