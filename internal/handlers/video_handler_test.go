package handlers

import (
	"errors"
	"net/http"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/videotube/backend/internal/apperror"
	"github.com/videotube/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestVideoHandler_Publish(t *testing.T) {
	owner := primitive.NewObjectID()
	fields := map[string]string{"title": "Cats", "description": "Cats being cats"}
	bothFiles := map[string]string{"videoFile": "cats.mp4", "thumbnail": "cats.jpg"}

	tests := []struct {
		name            string
		userID          primitive.ObjectID
		files           map[string]string
		serviceErr      error
		expectedStatus  int
		expectedMessage string
		expectCall      bool
	}{
		{
			name:            "success",
			userID:          owner,
			files:           bothFiles,
			expectedStatus:  http.StatusCreated,
			expectedMessage: "video published successfully",
			expectCall:      true,
		},
		{
			name:            "thumbnail upload fails",
			userID:          owner,
			files:           bothFiles,
			serviceErr:      apperror.Upload(apperror.PhaseSecondary, "failed to upload thumbnail", errors.New("gateway down")),
			expectedStatus:  http.StatusInternalServerError,
			expectedMessage: "failed to upload thumbnail",
			expectCall:      true,
		},
		{
			name:            "persistence fails",
			userID:          owner,
			files:           bothFiles,
			serviceErr:      apperror.Persistence("failed to save video", errors.New("timeout")),
			expectedStatus:  http.StatusInternalServerError,
			expectedMessage: "failed to save video",
			expectCall:      true,
		},
		{
			name:            "missing thumbnail",
			userID:          owner,
			files:           map[string]string{"videoFile": "cats.mp4"},
			serviceErr:      apperror.Validation("video file and thumbnail are required"),
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "video file and thumbnail are required",
			expectCall:      true,
		},
		{
			name:           "unauthenticated",
			files:          bothFiles,
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockVideoService{video: &models.Video{ID: primitive.NewObjectID(), Title: "Cats", IsPublished: true}, err: tt.serviceErr}
			tempDir := t.TempDir()
			router := setupRouter(NewVideoHandler(svc, tempDir, newLogger()), tt.userID)
			body, contentType := multipartBody(t, fields, tt.files)

			w := serve(router, http.MethodPost, "/api/v1/videos", body, contentType)

			assert.Equal(t, tt.expectedStatus, w.Code)
			env := decodeEnvelope(t, w)
			assert.Equal(t, tt.expectedStatus, env.StatusCode)
			if tt.expectedMessage != "" {
				assert.Equal(t, tt.expectedMessage, env.Message)
			}
			if !tt.expectCall {
				assert.True(t, svc.published.OwnerID.IsZero())
				return
			}
			assert.Equal(t, owner, svc.published.OwnerID)
			assert.Equal(t, "Cats", svc.published.Title)
			assert.Equal(t, "content of cats.mp4", svc.videoFile.content)
			if _, ok := tt.files["thumbnail"]; ok {
				assert.Equal(t, "content of cats.jpg", svc.thumbnail.content)
			} else {
				assert.Empty(t, svc.published.ThumbnailPath)
			}

			entries, err := os.ReadDir(tempDir)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestVideoHandler_Update(t *testing.T) {
	owner := primitive.NewObjectID()
	videoID := primitive.NewObjectID()

	tests := []struct {
		name           string
		path           string
		serviceErr     error
		expectedStatus int
	}{
		{name: "success", path: "/api/v1/videos/" + videoID.Hex(), expectedStatus: http.StatusOK},
		{name: "not the owner", path: "/api/v1/videos/" + videoID.Hex(), serviceErr: apperror.Authorization("you are not the owner of this video"), expectedStatus: http.StatusForbidden},
		{name: "missing video", path: "/api/v1/videos/" + videoID.Hex(), serviceErr: apperror.NotFound("video not found"), expectedStatus: http.StatusNotFound},
		{name: "invalid id", path: "/api/v1/videos/42", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockVideoService{video: &models.Video{ID: videoID}, err: tt.serviceErr}
			router := setupRouter(NewVideoHandler(svc, t.TempDir(), newLogger()), owner)
			body, contentType := multipartBody(t,
				map[string]string{"title": "New", "description": "Better"},
				map[string]string{"thumbnail": "new.png"},
			)

			w := serve(router, http.MethodPatch, tt.path, body, contentType)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusBadRequest {
				assert.True(t, svc.updated.VideoID.IsZero())
				return
			}
			assert.Equal(t, videoID, svc.updated.VideoID)
			assert.Equal(t, owner, svc.updated.RequesterID)
			assert.Equal(t, "New", svc.updated.Title)
			assert.Equal(t, "content of new.png", svc.thumbnail.content)
		})
	}
}

func TestVideoHandler_ReplaceThumbnail(t *testing.T) {
	owner := primitive.NewObjectID()
	videoID := primitive.NewObjectID()
	svc := &mockVideoService{video: &models.Video{ID: videoID, Thumbnail: "https://media.test/new.png"}}
	router := setupRouter(NewVideoHandler(svc, t.TempDir(), newLogger()), owner)
	body, contentType := multipartBody(t, nil, map[string]string{"thumbnail": "new.png"})

	w := serve(router, http.MethodPatch, "/api/v1/videos/"+videoID.Hex()+"/thumbnail", body, contentType)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, videoID, svc.calledID)
	assert.Equal(t, owner, svc.requester)
	assert.Equal(t, "content of new.png", svc.thumbnail.content)
}

func TestVideoHandler_DeleteAndToggle(t *testing.T) {
	owner := primitive.NewObjectID()
	videoID := primitive.NewObjectID()

	tests := []struct {
		name           string
		method         string
		path           string
		serviceErr     error
		expectedStatus int
	}{
		{name: "delete", method: http.MethodDelete, path: "/api/v1/videos/" + videoID.Hex(), expectedStatus: http.StatusOK},
		{name: "delete not owned", method: http.MethodDelete, path: "/api/v1/videos/" + videoID.Hex(), serviceErr: apperror.NotFound("video not found"), expectedStatus: http.StatusNotFound},
		{name: "toggle", method: http.MethodPatch, path: "/api/v1/videos/toggle/publish/" + videoID.Hex(), expectedStatus: http.StatusOK},
		{name: "toggle by stranger", method: http.MethodPatch, path: "/api/v1/videos/toggle/publish/" + videoID.Hex(), serviceErr: apperror.Authorization("you are not the owner of this video"), expectedStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockVideoService{video: &models.Video{ID: videoID}, err: tt.serviceErr}
			router := setupRouter(NewVideoHandler(svc, t.TempDir(), newLogger()), owner)

			w := serve(router, tt.method, tt.path, nil, "")

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, videoID, svc.calledID)
			assert.Equal(t, owner, svc.requester)
		})
	}
}

func TestVideoHandler_List(t *testing.T) {
	ownerID := primitive.NewObjectID()

	tests := []struct {
		name           string
		query          string
		expectedStatus int
		validateFunc   func(t *testing.T, q models.ListVideosQuery)
	}{
		{
			name:           "defaults",
			query:          "",
			expectedStatus: http.StatusOK,
			validateFunc: func(t *testing.T, q models.ListVideosQuery) {
				assert.Equal(t, 0, q.Page)
				assert.Equal(t, 0, q.Limit)
				assert.True(t, q.SortDesc)
				assert.Nil(t, q.OwnerID)
			},
		},
		{
			name:           "all parameters",
			query:          "?page=2&limit=5&query=cat&sortBy=views&sortType=asc&userId=" + ownerID.Hex(),
			expectedStatus: http.StatusOK,
			validateFunc: func(t *testing.T, q models.ListVideosQuery) {
				assert.Equal(t, 2, q.Page)
				assert.Equal(t, 5, q.Limit)
				assert.Equal(t, "cat", q.Query)
				assert.Equal(t, models.SortByViews, q.SortBy)
				assert.False(t, q.SortDesc)
				require.NotNil(t, q.OwnerID)
				assert.Equal(t, ownerID, *q.OwnerID)
			},
		},
		{
			name:           "malformed numbers fall back to defaults",
			query:          "?page=abc&limit=-3",
			expectedStatus: http.StatusOK,
			validateFunc: func(t *testing.T, q models.ListVideosQuery) {
				assert.Equal(t, 0, q.Page)
				assert.Equal(t, 0, q.Limit)
			},
		},
		{
			name:           "invalid owner filter",
			query:          "?userId=nope",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockVideoService{page: &models.VideoPage{Videos: []models.VideoWithOwner{}, Pagination: models.NewPagination(0, 1, 10)}}
			router := setupRouter(NewVideoHandler(svc, t.TempDir(), newLogger()), primitive.NilObjectID)

			w := serve(router, http.MethodGet, "/api/v1/videos"+tt.query, nil, "")

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.validateFunc != nil {
				tt.validateFunc(t, svc.query)
			}
		})
	}
}

func TestVideoHandler_GetByID(t *testing.T) {
	videoID := primitive.NewObjectID()

	t.Run("found", func(t *testing.T) {
		svc := &mockVideoService{withOwner: &models.VideoWithOwner{}}
		router := setupRouter(NewVideoHandler(svc, t.TempDir(), newLogger()), primitive.NilObjectID)

		w := serve(router, http.MethodGet, "/api/v1/videos/"+videoID.Hex(), nil, "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, videoID, svc.calledID)
	})

	t.Run("missing", func(t *testing.T) {
		svc := &mockVideoService{err: apperror.NotFound("video not found")}
		router := setupRouter(NewVideoHandler(svc, t.TempDir(), newLogger()), primitive.NilObjectID)

		w := serve(router, http.MethodGet, "/api/v1/videos/"+videoID.Hex(), nil, "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "video not found", decodeEnvelope(t, w).Message)
	})
}
