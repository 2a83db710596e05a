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

func TestVideoRepository_Create(t *testing.T) {
	mt := setupMockT(t)

	mt.Run("success", func(mt *mtest.T) {
		repo := NewVideoRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		video := &models.Video{Title: "clip", Owner: primitive.NewObjectID(), IsPublished: true}
		err := repo.Create(context.Background(), video)

		require.NoError(mt, err)
		assert.False(mt, video.ID.IsZero())
		assert.False(mt, video.CreatedAt.IsZero())
	})

	mt.Run("database error", func(mt *mtest.T) {
		repo := NewVideoRepository(mt.DB)
		mt.AddMockResponses(commandErrorReply())

		err := repo.Create(context.Background(), &models.Video{Title: "clip"})

		assert.Error(mt, err)
		assert.NotErrorIs(mt, err, ErrNotFound)
	})
}

func TestVideoRepository_GetByID(t *testing.T) {
	mt := setupMockT(t)
	id, owner := primitive.NewObjectID(), primitive.NewObjectID()

	mt.Run("found", func(mt *mtest.T) {
		repo := NewVideoRepository(mt.DB)
		mt.AddMockResponses(cursor("videos", videoDoc(id, owner, "clip")))

		video, err := repo.GetByID(context.Background(), id)

		require.NoError(mt, err)
		assert.Equal(mt, owner, video.Owner)
		assert.Equal(mt, 12.5, video.Duration)
	})

	mt.Run("not found", func(mt *mtest.T) {
		repo := NewVideoRepository(mt.DB)
		mt.AddMockResponses(cursor("videos"))

		_, err := repo.GetByID(context.Background(), id)

		assert.ErrorIs(mt, err, ErrNotFound)
	})
}

func TestVideoRepository_GetWithOwner(t *testing.T) {
	mt := setupMockT(t)
	id, owner := primitive.NewObjectID(), primitive.NewObjectID()

	mt.Run("joins owner", func(mt *mtest.T) {
		repo := NewVideoRepository(mt.DB)
		doc := append(videoDoc(id, owner, "clip"), bson.E{Key: "ownerDetails", Value: ownerDoc(owner, "alice")})
		mt.AddMockResponses(cursor("videos", doc))

		video, err := repo.GetWithOwner(context.Background(), id)

		require.NoError(mt, err)
		require.NotNil(mt, video.OwnerDetails)
		assert.Equal(mt, "alice", video.OwnerDetails.Username)
		assert.Equal(mt, "clip", video.Title)
	})

	mt.Run("not found", func(mt *mtest.T) {
		repo := NewVideoRepository(mt.DB)
		mt.AddMockResponses(cursor("videos"))

		_, err := repo.GetWithOwner(context.Background(), id)

		assert.ErrorIs(mt, err, ErrNotFound)
	})
}

func TestVideoRepository_List(t *testing.T) {
	mt := setupMockT(t)
	owner := primitive.NewObjectID()

	tests := []struct {
		name          string
		query         models.ListVideosQuery
		responses     []bson.D
		expectedCount int
		expectedTotal int64
		expectedError bool
	}{
		{
			name:  "page with search",
			query: models.ListVideosQuery{Page: 1, Limit: 2, Query: "cl.p", SortBy: models.SortByViews, SortDesc: true},
			responses: []bson.D{
				cursor("videos", videoDoc(primitive.NewObjectID(), owner, "clip"), videoDoc(primitive.NewObjectID(), owner, "clap")),
				countReply(5),
			},
			expectedCount: 2,
			expectedTotal: 5,
		},
		{
			name:          "empty",
			query:         models.ListVideosQuery{Page: 3, Limit: 10, SortBy: models.SortByCreatedAt, OwnerID: &owner},
			responses:     []bson.D{cursor("videos"), cursor("videos")},
			expectedCount: 0,
			expectedTotal: 0,
		},
		{
			name:          "aggregate error",
			query:         models.ListVideosQuery{Page: 1, Limit: 10, SortBy: models.SortByCreatedAt},
			responses:     []bson.D{commandErrorReply()},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		mt.Run(tt.name, func(mt *mtest.T) {
			repo := NewVideoRepository(mt.DB)
			mt.AddMockResponses(tt.responses...)

			videos, total, err := repo.List(context.Background(), tt.query)

			if tt.expectedError {
				assert.Error(mt, err)
				return
			}
			require.NoError(mt, err)
			assert.Len(mt, videos, tt.expectedCount)
			assert.NotNil(mt, videos)
			assert.Equal(mt, tt.expectedTotal, total)
		})
	}
}

func TestVideoRepository_Updates(t *testing.T) {
	mt := setupMockT(t)
	id, owner := primitive.NewObjectID(), primitive.NewObjectID()

	mt.Run("update details returns new document", func(mt *mtest.T) {
		repo := NewVideoRepository(mt.DB)
		mt.AddMockResponses(modifyReply(videoDoc(id, owner, "renamed")))

		video, err := repo.UpdateDetails(context.Background(), id, "renamed", "desc", "thumb")

		require.NoError(mt, err)
		assert.Equal(mt, "renamed", video.Title)
	})

	mt.Run("update thumbnail on missing video", func(mt *mtest.T) {
		repo := NewVideoRepository(mt.DB)
		mt.AddMockResponses(modifyReply(nil))

		_, err := repo.UpdateThumbnail(context.Background(), id, "thumb")

		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("set published", func(mt *mtest.T) {
		repo := NewVideoRepository(mt.DB)
		mt.AddMockResponses(modifyReply(videoDoc(id, owner, "clip")))

		video, err := repo.SetPublished(context.Background(), id, true)

		require.NoError(mt, err)
		assert.True(mt, video.IsPublished)
	})
}

func TestVideoRepository_DeleteByOwner(t *testing.T) {
	mt := setupMockT(t)
	id, owner := primitive.NewObjectID(), primitive.NewObjectID()

	mt.Run("deletes owned video", func(mt *mtest.T) {
		repo := NewVideoRepository(mt.DB)
		mt.AddMockResponses(modifyReply(videoDoc(id, owner, "clip")))

		video, err := repo.DeleteByOwner(context.Background(), id, owner)

		require.NoError(mt, err)
		assert.Equal(mt, id, video.ID)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "findAndModify", started.CommandName)
		assert.Equal(mt, owner, started.Command.Lookup("query", "owner").ObjectID())
		assert.True(mt, started.Command.Lookup("remove").Boolean())
	})

	mt.Run("not found or not owner", func(mt *mtest.T) {
		repo := NewVideoRepository(mt.DB)
		mt.AddMockResponses(modifyReply(nil))

		video, err := repo.DeleteByOwner(context.Background(), id, primitive.NewObjectID())

		assert.ErrorIs(mt, err, ErrNotFound)
		assert.Nil(mt, video)
	})
}
