package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/videotube/backend/internal/apperror"
)

func TestBaseHandler_RespondServiceError(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		expectedStatus  int
		expectedMessage string
	}{
		{name: "validation", err: apperror.Validation("title and description are required"), expectedStatus: http.StatusBadRequest, expectedMessage: "title and description are required"},
		{name: "unauthenticated", err: apperror.Unauthenticated("invalid user credentials"), expectedStatus: http.StatusUnauthorized, expectedMessage: "invalid user credentials"},
		{name: "authorization", err: apperror.Authorization("not the owner"), expectedStatus: http.StatusForbidden, expectedMessage: "not the owner"},
		{name: "not found", err: apperror.NotFound("video not found"), expectedStatus: http.StatusNotFound, expectedMessage: "video not found"},
		{name: "conflict", err: apperror.Conflict("user already exists"), expectedStatus: http.StatusConflict, expectedMessage: "user already exists"},
		{
			name:            "upload hides cause",
			err:             apperror.Upload(apperror.PhaseSecondary, "failed to upload thumbnail", errors.New("s3: access denied")),
			expectedStatus:  http.StatusInternalServerError,
			expectedMessage: "failed to upload thumbnail",
		},
		{name: "unclassified", err: errors.New("boom"), expectedStatus: http.StatusInternalServerError, expectedMessage: "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{logger: newLogger()}
			w := httptest.NewRecorder()

			h.respondServiceError(w, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			env := decodeEnvelope(t, w)
			assert.Equal(t, tt.expectedStatus, env.StatusCode)
			assert.Equal(t, tt.expectedMessage, env.Message)
			assert.False(t, env.Success)
			assert.JSONEq(t, "null", string(env.Data))
			assert.NotContains(t, w.Body.String(), "access denied")
		})
	}
}

func TestBaseHandler_RespondJSON(t *testing.T) {
	h := &BaseHandler{logger: newLogger()}
	w := httptest.NewRecorder()

	h.respondJSON(w, http.StatusCreated, map[string]string{"name": "Mix"}, "playlist created successfully")

	assert.Equal(t, http.StatusCreated, w.Code)
	env := decodeEnvelope(t, w)
	assert.True(t, env.Success)
	assert.Equal(t, http.StatusCreated, env.StatusCode)
	assert.JSONEq(t, `{"name":"Mix"}`, string(env.Data))
}

func TestBaseHandler_ObjectIDParam(t *testing.T) {
	h := &BaseHandler{logger: newLogger()}
	r := chi.NewRouter()
	r.Get("/{videoId}", func(w http.ResponseWriter, r *http.Request) {
		if _, ok := h.objectIDParam(w, r, "videoId"); ok {
			w.WriteHeader(http.StatusNoContent)
		}
	})

	tests := []struct {
		name           string
		path           string
		expectedStatus int
	}{
		{name: "valid id", path: "/65f1c2a4b3d2e1f0a9b8c7d6", expectedStatus: http.StatusNoContent},
		{name: "not hex", path: "/not-an-id", expectedStatus: http.StatusBadRequest},
		{name: "short hex", path: "/65f1c2", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusBadRequest {
				assert.Equal(t, "invalid videoId", decodeEnvelope(t, w).Message)
			}
		})
	}
}

func TestBaseHandler_RequireUserID(t *testing.T) {
	h := &BaseHandler{logger: newLogger()}
	w := httptest.NewRecorder()

	_, ok := h.requireUserID(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
