package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/attireme/auth-service/internal/core/domain"
)

func TestStore_Identities(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create maps duplicate key", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 11000, Message: "E11000 duplicate key error",
		}))
		err := NewStore(mt.DB).Create(ctx, &domain.Identity{ID: "01", Email: "jane@example.com"})
		assert.ErrorIs(mt, err, domain.ErrEmailAlreadyExists)
	})

	mt.Run("find by email decodes the document", func(mt *mtest.T) {
		created := time.Now().Unix()
		mt.AddMockResponses(mtest.CreateCursorResponse(1, "auth.identities", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "01HX"},
			{Key: "email", Value: "jane@example.com"},
			{Key: "user_name", Value: "jane"},
			{Key: "email_confirmed", Value: true},
			{Key: "role", Value: "Creator"},
			{Key: "refresh_tokens", Value: bson.A{
				bson.D{{Key: "token_hash", Value: "abc"}, {Key: "expires_at", Value: time.Now().Add(time.Hour)}},
			}},
			{Key: "created_at", Value: created},
		}))

		identity, err := NewStore(mt.DB).FindByEmail(ctx, "jane@example.com")
		require.NoError(mt, err)
		assert.Equal(mt, "01HX", identity.ID)
		assert.Equal(mt, domain.RoleCreator, identity.Role)
		assert.True(mt, identity.EmailConfirmed)
		require.Len(mt, identity.RefreshTokens, 1)
		assert.Equal(mt, "abc", identity.RefreshTokens[0].TokenHash)
		assert.Equal(mt, created, identity.CreatedAt.Unix())
	})

	mt.Run("find by email not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "auth.identities", mtest.FirstBatch))
		_, err := NewStore(mt.DB).FindByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(mt, err, domain.ErrIdentityNotFound)
	})

	mt.Run("replace refresh token reports rotation race", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))
		err := NewStore(mt.DB).ReplaceRefreshToken(ctx, "01", "old", domain.RefreshToken{TokenHash: "new"})
		assert.ErrorIs(mt, err, domain.ErrRefreshTokenNotFound)
	})

	mt.Run("append refresh token", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))
		err := NewStore(mt.DB).AppendRefreshToken(ctx, "01", domain.RefreshToken{TokenHash: "new"}, 5)
		assert.NoError(mt, err)
	})

	mt.Run("delete missing identity", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))
		err := NewStore(mt.DB).Delete(ctx, "01")
		assert.ErrorIs(mt, err, domain.ErrIdentityNotFound)
	})
}

func TestStore_Profiles(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("update missing profile", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))
		err := NewStore(mt.DB).UpdateUserProfile(ctx, &domain.UserProfile{IdentityID: "01", FullName: "Jane"})
		assert.ErrorIs(mt, err, domain.ErrProfileNotFound)
	})

	mt.Run("find creator profile", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(1, "auth.creator_profiles", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "01"},
			{Key: "business_name", Value: "Shop"},
			{Key: "phone_number", Value: "+1"},
		}))
		p, err := NewStore(mt.DB).FindCreatorProfile(ctx, "01")
		require.NoError(mt, err)
		assert.Equal(mt, "Shop", p.BusinessName)
		assert.Equal(mt, "+1", p.PhoneNumber)
	})

	mt.Run("find user profile not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "auth.user_profiles", mtest.FirstBatch))
		_, err := NewStore(mt.DB).FindUserProfile(ctx, "01")
		assert.ErrorIs(mt, err, domain.ErrProfileNotFound)
	})
}
