package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/videotube/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestUserRepository_Create(t *testing.T) {
	mt := setupMockT(t)

	mt.Run("success assigns id and timestamps", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		user := &models.User{Username: "alice", Email: "alice@example.com", PasswordHash: "hash"}
		err := repo.Create(context.Background(), user)

		require.NoError(mt, err)
		assert.False(mt, user.ID.IsZero())
		assert.False(mt, user.CreatedAt.IsZero())
		assert.Equal(mt, user.CreatedAt, user.UpdatedAt)
		assert.NotNil(mt, user.WatchHistory)
	})

	mt.Run("duplicate username", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(duplicateKeyReply())

		err := repo.Create(context.Background(), &models.User{Username: "alice"})

		assert.ErrorIs(mt, err, ErrDuplicate)
	})
}

func TestUserRepository_GetByID(t *testing.T) {
	mt := setupMockT(t)
	id := primitive.NewObjectID()

	tests := []struct {
		name          string
		response      bson.D
		expectedError error
	}{
		{
			name: "found",
			response: cursor("users", bson.D{
				{Key: "_id", Value: id},
				{Key: "username", Value: "alice"},
				{Key: "email", Value: "alice@example.com"},
				{Key: "password", Value: "hash"},
				{Key: "refreshToken", Value: "rt"},
			}),
		},
		{
			name:          "not found",
			response:      cursor("users"),
			expectedError: ErrNotFound,
		},
	}

	for _, tt := range tests {
		mt.Run(tt.name, func(mt *mtest.T) {
			repo := NewUserRepository(mt.DB)
			mt.AddMockResponses(tt.response)

			user, err := repo.GetByID(context.Background(), id)

			if tt.expectedError != nil {
				assert.ErrorIs(mt, err, tt.expectedError)
				assert.Nil(mt, user)
				return
			}
			require.NoError(mt, err)
			assert.Equal(mt, id, user.ID)
			assert.Equal(mt, "hash", user.PasswordHash)
			assert.Equal(mt, "rt", user.RefreshToken)
		})
	}
}

func TestUserRepository_GetByLogin(t *testing.T) {
	mt := setupMockT(t)

	mt.Run("lowercases the username branch", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(cursor("users", bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "username", Value: "alice"}}))

		user, err := repo.GetByLogin(context.Background(), "Alice")

		require.NoError(mt, err)
		assert.Equal(mt, "alice", user.Username)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		or := started.Command.Lookup("filter", "$or").Array()
		values, err := or.Values()
		require.NoError(mt, err)
		require.Len(mt, values, 2)
		assert.Equal(mt, "alice", values[0].Document().Lookup("username").StringValue())
		assert.Equal(mt, "Alice", values[1].Document().Lookup("email").StringValue())
	})

	mt.Run("not found", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(cursor("users"))

		_, err := repo.GetByLogin(context.Background(), "ghost")

		assert.ErrorIs(mt, err, ErrNotFound)
	})
}

func TestUserRepository_ExistsByUsernameOrEmail(t *testing.T) {
	mt := setupMockT(t)

	tests := []struct {
		name     string
		response bson.D
		expected bool
		wantErr  bool
	}{
		{name: "taken", response: countReply(1), expected: true},
		{name: "free", response: cursor("users"), expected: false},
		{name: "database error", response: commandErrorReply(), wantErr: true},
	}

	for _, tt := range tests {
		mt.Run(tt.name, func(mt *mtest.T) {
			repo := NewUserRepository(mt.DB)
			mt.AddMockResponses(tt.response)

			exists, err := repo.ExistsByUsernameOrEmail(context.Background(), "alice", "alice@example.com")

			if tt.wantErr {
				assert.Error(mt, err)
				return
			}
			require.NoError(mt, err)
			assert.Equal(mt, tt.expected, exists)
		})
	}
}

func TestUserRepository_RefreshToken(t *testing.T) {
	mt := setupMockT(t)
	id := primitive.NewObjectID()

	mt.Run("set", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))

		assert.NoError(mt, repo.SetRefreshToken(context.Background(), id, "rt"))
	})

	mt.Run("set on missing user", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		assert.ErrorIs(mt, repo.SetRefreshToken(context.Background(), id, "rt"), ErrNotFound)
	})

	mt.Run("replace with stale token", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		err := repo.ReplaceRefreshToken(context.Background(), id, "old", "new")

		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("replace", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))

		assert.NoError(mt, repo.ReplaceRefreshToken(context.Background(), id, "old", "new"))
	})

	mt.Run("clear", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))

		assert.NoError(mt, repo.ClearRefreshToken(context.Background(), id))
	})
}
