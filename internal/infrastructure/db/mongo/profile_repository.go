package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/attireme/auth-service/internal/core/domain"
)

type mongoUserProfile struct {
	IdentityID  string `bson:"_id"`
	FullName    string `bson:"full_name"`
	Address     string `bson:"address"`
	PhoneNumber string `bson:"phone_number"`
}

type mongoCreatorProfile struct {
	IdentityID   string `bson:"_id"`
	BusinessName string `bson:"business_name"`
	Address      string `bson:"address"`
	PhoneNumber  string `bson:"phone_number"`
}

func (s *Store) CreateUserProfile(ctx context.Context, p *domain.UserProfile) error {
	doc := mongoUserProfile{IdentityID: p.IdentityID, FullName: p.FullName, Address: p.Address, PhoneNumber: p.PhoneNumber}
	if _, err := s.users.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert user profile: %w", err)
	}
	return nil
}

func (s *Store) CreateCreatorProfile(ctx context.Context, p *domain.CreatorProfile) error {
	doc := mongoCreatorProfile{IdentityID: p.IdentityID, BusinessName: p.BusinessName, Address: p.Address, PhoneNumber: p.PhoneNumber}
	if _, err := s.creators.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert creator profile: %w", err)
	}
	return nil
}

func (s *Store) FindUserProfile(ctx context.Context, identityID string) (*domain.UserProfile, error) {
	var doc mongoUserProfile
	if err := s.users.FindOne(ctx, bson.M{"_id": identityID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find user profile: %w", err)
	}
	return &domain.UserProfile{IdentityID: doc.IdentityID, FullName: doc.FullName, Address: doc.Address, PhoneNumber: doc.PhoneNumber}, nil
}

func (s *Store) FindCreatorProfile(ctx context.Context, identityID string) (*domain.CreatorProfile, error) {
	var doc mongoCreatorProfile
	if err := s.creators.FindOne(ctx, bson.M{"_id": identityID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find creator profile: %w", err)
	}
	return &domain.CreatorProfile{IdentityID: doc.IdentityID, BusinessName: doc.BusinessName, Address: doc.Address, PhoneNumber: doc.PhoneNumber}, nil
}

func (s *Store) UpdateUserProfile(ctx context.Context, p *domain.UserProfile) error {
	set := bson.M{"full_name": p.FullName, "address": p.Address, "phone_number": p.PhoneNumber}
	return updateProfile(ctx, s.users, p.IdentityID, set)
}

func (s *Store) UpdateCreatorProfile(ctx context.Context, p *domain.CreatorProfile) error {
	set := bson.M{"business_name": p.BusinessName, "address": p.Address, "phone_number": p.PhoneNumber}
	return updateProfile(ctx, s.creators, p.IdentityID, set)
}

func updateProfile(ctx context.Context, coll *mongo.Collection, identityID string, set bson.M) error {
	res, err := coll.UpdateOne(ctx, bson.M{"_id": identityID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

func (s *Store) DeleteProfiles(ctx context.Context, identityID string) error {
	if _, err := s.users.DeleteOne(ctx, bson.M{"_id": identityID}); err != nil {
		return fmt.Errorf("delete user profile: %w", err)
	}
	if _, err := s.creators.DeleteOne(ctx, bson.M{"_id": identityID}); err != nil {
		return fmt.Errorf("delete creator profile: %w", err)
	}
	return nil
}
