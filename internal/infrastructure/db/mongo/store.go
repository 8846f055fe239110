package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	identityCollection = "identities"
	userCollection     = "user_profiles"
	creatorCollection  = "creator_profiles"
)

// Store is the MongoDB credential store. Profiles live in their own
// collections keyed by identity ID.
type Store struct {
	db         *mongo.Database
	identities *mongo.Collection
	users      *mongo.Collection
	creators   *mongo.Collection
}

func NewStore(db *mongo.Database) *Store {
	return &Store{
		db:         db,
		identities: db.Collection(identityCollection),
		users:      db.Collection(userCollection),
		creators:   db.Collection(creatorCollection),
	}
}

// EnsureIndexes creates the unique email index and the refresh token lookup index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "refresh_tokens.token_hash", Value: 1}}},
	}
	if _, err := s.identities.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("create identity indexes: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, readpref.Primary())
}
