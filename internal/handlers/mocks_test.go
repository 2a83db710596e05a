package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"github.com/videotube/backend/internal/middleware"
	"github.com/videotube/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// routeRegistrar is implemented by every handler
type routeRegistrar interface {
	RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler)
}

// setupRouter mounts a handler under /api/v1 behind a fake auth middleware.
// A zero userID makes protected routes behave as if no token was sent.
func setupRouter(h routeRegistrar, userID primitive.ObjectID) http.Handler {
	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		h.RegisterRoutes(r, fakeAuth(userID))
	})
	return r
}

func fakeAuth(userID primitive.ObjectID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID.IsZero() {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(middleware.WithUserID(r.Context(), userID)))
		})
	}
}

func serve(router http.Handler, method, target string, body []byte, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func serveJSON(router http.Handler, method, target string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	return serve(router, method, target, body, "application/json")
}

// envelope mirrors models.APIResponse with raw data
type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

// multipartBody builds a multipart form; files maps field names to file names with fixed content
func multipartBody(t *testing.T, fields map[string]string, files map[string]string) ([]byte, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, value := range fields {
		require.NoError(t, mw.WriteField(name, value))
	}
	for field, filename := range files {
		part, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write([]byte("content of " + filename))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return buf.Bytes(), mw.FormDataContentType()
}

// fileSnapshot records whether a temp path existed and what it held when a service saw it
type fileSnapshot struct {
	path    string
	content string
}

func snapshot(path string) fileSnapshot {
	if path == "" {
		return fileSnapshot{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fileSnapshot{path: path}
	}
	return fileSnapshot{path: path, content: string(data)}
}

func newLogger() *zap.Logger {
	return zap.NewNop()
}

// mockUserService is a mock implementation of UserService
type mockUserService struct {
	user   *models.User
	result *models.AuthResult
	err    error

	registered   models.RegisterRequest
	avatar       fileSnapshot
	cover        fileSnapshot
	login        models.LoginRequest
	refreshToken string
	loggedOut    primitive.ObjectID
}

func (m *mockUserService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	m.registered = req
	m.avatar = snapshot(req.AvatarPath)
	m.cover = snapshot(req.CoverImagePath)
	return m.user, m.err
}

func (m *mockUserService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResult, error) {
	m.login = req
	return m.result, m.err
}

func (m *mockUserService) Refresh(ctx context.Context, refreshToken string) (*models.AuthResult, error) {
	m.refreshToken = refreshToken
	return m.result, m.err
}

func (m *mockUserService) Logout(ctx context.Context, userID primitive.ObjectID) error {
	m.loggedOut = userID
	return m.err
}

func (m *mockUserService) GetByID(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	return m.user, m.err
}

// mockVideoService is a mock implementation of VideoService
type mockVideoService struct {
	video     *models.Video
	withOwner *models.VideoWithOwner
	page      *models.VideoPage
	err       error

	published models.PublishVideoRequest
	updated   models.UpdateVideoRequest
	videoFile fileSnapshot
	thumbnail fileSnapshot
	query     models.ListVideosQuery
	calledID  primitive.ObjectID
	requester primitive.ObjectID
}

func (m *mockVideoService) Publish(ctx context.Context, req models.PublishVideoRequest) (*models.Video, error) {
	m.published = req
	m.videoFile = snapshot(req.VideoPath)
	m.thumbnail = snapshot(req.ThumbnailPath)
	return m.video, m.err
}

func (m *mockVideoService) Update(ctx context.Context, req models.UpdateVideoRequest) (*models.Video, error) {
	m.updated = req
	m.thumbnail = snapshot(req.ThumbnailPath)
	return m.video, m.err
}

func (m *mockVideoService) ReplaceThumbnail(ctx context.Context, videoID primitive.ObjectID, localPath string, requesterID primitive.ObjectID) (*models.Video, error) {
	m.calledID, m.requester = videoID, requesterID
	m.thumbnail = snapshot(localPath)
	return m.video, m.err
}

func (m *mockVideoService) Delete(ctx context.Context, videoID, requesterID primitive.ObjectID) (*models.Video, error) {
	m.calledID, m.requester = videoID, requesterID
	return m.video, m.err
}

func (m *mockVideoService) TogglePublish(ctx context.Context, videoID, requesterID primitive.ObjectID) (*models.Video, error) {
	m.calledID, m.requester = videoID, requesterID
	return m.video, m.err
}

func (m *mockVideoService) GetByID(ctx context.Context, videoID primitive.ObjectID) (*models.VideoWithOwner, error) {
	m.calledID = videoID
	return m.withOwner, m.err
}

func (m *mockVideoService) List(ctx context.Context, q models.ListVideosQuery) (*models.VideoPage, error) {
	m.query = q
	return m.page, m.err
}
