package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/videotube/backend/internal/mediastore"
	"github.com/videotube/backend/internal/models"
	"github.com/videotube/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// tempFile creates a small file named name in a per-test directory
func tempFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o600))
	return path
}

func notFound(what string) error {
	return fmt.Errorf("failed to get %s: %w", what, repositories.ErrNotFound)
}

// mockMediaStore is a mock implementation of MediaStore that records every call
type mockMediaStore struct {
	uploadErrs map[string]error
	deleteErr  error
	duration   *float64
	emptyURL   bool

	uploads []string
	deletes []string
}

func (m *mockMediaStore) Upload(ctx context.Context, localPath string) (*mediastore.Asset, error) {
	m.uploads = append(m.uploads, localPath)
	if err := m.uploadErrs[localPath]; err != nil {
		return nil, err
	}
	if m.emptyURL {
		return &mediastore.Asset{}, nil
	}
	asset := &mediastore.Asset{URL: "https://media.test/" + filepath.Base(localPath)}
	if strings.HasSuffix(localPath, ".mp4") {
		asset.Duration = m.duration
	}
	return asset, nil
}

func (m *mockMediaStore) Delete(ctx context.Context, remoteURL string) error {
	m.deletes = append(m.deletes, remoteURL)
	return m.deleteErr
}

// mockObserver is a mock implementation of CompensationObserver
type mockObserver struct {
	actions  []string
	failures int
}

func (m *mockObserver) ObserveCompensation(action string, err error) {
	m.actions = append(m.actions, action)
	if err != nil {
		m.failures++
	}
}

// mockVideoRepository is a mock implementation of VideoRepository
type mockVideoRepository struct {
	video     *models.Video
	withOwner *models.VideoWithOwner
	listed    []models.VideoWithOwner
	total     int64
	getErr    error
	createErr error
	updateErr error
	deleteErr error
	listErr   error

	created      *models.Video
	updateCalled bool
	listQuery    models.ListVideosQuery
}

func (m *mockVideoRepository) Create(ctx context.Context, video *models.Video) error {
	if m.createErr != nil {
		return m.createErr
	}
	video.ID = primitive.NewObjectID()
	m.created = video
	return nil
}

func (m *mockVideoRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Video, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.video, nil
}

func (m *mockVideoRepository) GetWithOwner(ctx context.Context, id primitive.ObjectID) (*models.VideoWithOwner, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.withOwner, nil
}

func (m *mockVideoRepository) List(ctx context.Context, q models.ListVideosQuery) ([]models.VideoWithOwner, int64, error) {
	m.listQuery = q
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	return m.listed, m.total, nil
}

func (m *mockVideoRepository) UpdateDetails(ctx context.Context, id primitive.ObjectID, title, description, thumbnail string) (*models.Video, error) {
	m.updateCalled = true
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	updated := *m.video
	updated.Title, updated.Description, updated.Thumbnail = title, description, thumbnail
	return &updated, nil
}

func (m *mockVideoRepository) UpdateThumbnail(ctx context.Context, id primitive.ObjectID, thumbnail string) (*models.Video, error) {
	m.updateCalled = true
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	updated := *m.video
	updated.Thumbnail = thumbnail
	return &updated, nil
}

func (m *mockVideoRepository) SetPublished(ctx context.Context, id primitive.ObjectID, published bool) (*models.Video, error) {
	m.updateCalled = true
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	updated := *m.video
	updated.IsPublished = published
	return &updated, nil
}

func (m *mockVideoRepository) DeleteByOwner(ctx context.Context, id, owner primitive.ObjectID) (*models.Video, error) {
	if m.deleteErr != nil {
		return nil, m.deleteErr
	}
	if m.video == nil || m.video.Owner != owner {
		return nil, notFound("video")
	}
	return m.video, nil
}

// mockUserRepository is a mock implementation of UserRepository
type mockUserRepository struct {
	user       *models.User
	exists     bool
	existsErr  error
	getErr     error
	createErr  error
	tokenErr   error
	replaceErr error

	created      *models.User
	storedToken  string
	clearCalled  bool
	replacedWith string
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = primitive.NewObjectID()
	m.created = user
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.user, nil
}

func (m *mockUserRepository) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.user, nil
}

func (m *mockUserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	return m.exists, m.existsErr
}

func (m *mockUserRepository) SetRefreshToken(ctx context.Context, id primitive.ObjectID, token string) error {
	if m.tokenErr != nil {
		return m.tokenErr
	}
	m.storedToken = token
	return nil
}

func (m *mockUserRepository) ReplaceRefreshToken(ctx context.Context, id primitive.ObjectID, oldToken, newToken string) error {
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.replacedWith = newToken
	return nil
}

func (m *mockUserRepository) ClearRefreshToken(ctx context.Context, id primitive.ObjectID) error {
	m.clearCalled = true
	return m.tokenErr
}

// mockTokenIssuer is a mock implementation of TokenIssuer
type mockTokenIssuer struct {
	subject     string
	validateErr error
	generateErr error
	issued      int
}

func (m *mockTokenIssuer) GenerateTokens(userID, username string) (string, string, error) {
	if m.generateErr != nil {
		return "", "", m.generateErr
	}
	m.issued++
	return fmt.Sprintf("access-%d", m.issued), fmt.Sprintf("refresh-%d", m.issued), nil
}

func (m *mockTokenIssuer) ValidateRefreshToken(token string) (string, error) {
	if m.validateErr != nil {
		return "", m.validateErr
	}
	return m.subject, nil
}
