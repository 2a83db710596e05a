package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/videotube/backend/internal/apperror"
	"github.com/videotube/backend/internal/models"
	"github.com/videotube/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func TestUserService_Register(t *testing.T) {
	tests := []struct {
		name            string
		username        string
		withCover       bool
		noAvatar        bool
		exists          bool
		failAvatar      bool
		failCover       bool
		createErr       error
		expectedKind    apperror.Kind
		expectedPhase   apperror.Phase
		expectedDeletes []string
	}{
		{name: "success with cover", username: "  Alice ", withCover: true},
		{name: "success without cover", username: "alice"},
		{name: "missing username", username: " ", expectedKind: apperror.KindValidation},
		{name: "missing avatar", username: "alice", noAvatar: true, expectedKind: apperror.KindValidation},
		{name: "already exists", username: "alice", exists: true, expectedKind: apperror.KindConflict},
		{
			name:          "avatar upload fails",
			username:      "alice",
			failAvatar:    true,
			expectedKind:  apperror.KindUpload,
			expectedPhase: apperror.PhasePrimary,
		},
		{
			name:            "cover upload fails",
			username:        "alice",
			withCover:       true,
			failCover:       true,
			expectedKind:    apperror.KindUpload,
			expectedPhase:   apperror.PhaseSecondary,
			expectedDeletes: []string{"https://media.test/avatar.png"},
		},
		{
			name:            "duplicate on insert",
			username:        "alice",
			withCover:       true,
			createErr:       fmt.Errorf("failed to create user: %w", repositories.ErrDuplicate),
			expectedKind:    apperror.KindConflict,
			expectedDeletes: []string{"https://media.test/cover.png", "https://media.test/avatar.png"},
		},
		{
			name:            "insert fails",
			username:        "alice",
			createErr:       errors.New("disk full"),
			expectedKind:    apperror.KindPersistence,
			expectedDeletes: []string{"https://media.test/avatar.png"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			avatarPath := tempFile(t, "avatar.png")
			coverPath := ""
			if tt.withCover {
				coverPath = tempFile(t, "cover.png")
			}
			media := &mockMediaStore{uploadErrs: map[string]error{}}
			if tt.failAvatar {
				media.uploadErrs[avatarPath] = errors.New("gateway down")
			}
			if tt.failCover {
				media.uploadErrs[coverPath] = errors.New("gateway down")
			}
			if tt.noAvatar {
				avatarPath = ""
			}
			repo := &mockUserRepository{exists: tt.exists, createErr: tt.createErr}
			svc := NewUserService(repo, &mockTokenIssuer{}, media, nil, zap.NewNop())

			user, err := svc.Register(context.Background(), models.RegisterRequest{
				Username:       tt.username,
				Email:          "alice@example.com",
				FullName:       "Alice Liddell",
				Password:       "s3cret",
				AvatarPath:     avatarPath,
				CoverImagePath: coverPath,
			})

			assert.Equal(t, tt.expectedDeletes, media.deletes)
			if tt.expectedKind != "" {
				require.Error(t, err)
				appErr := apperror.From(err)
				assert.Equal(t, tt.expectedKind, appErr.Kind)
				assert.Equal(t, tt.expectedPhase, appErr.Phase)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "alice", user.Username)
			assert.Equal(t, "https://media.test/avatar.png", user.Avatar)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret")))
			if tt.withCover {
				assert.Equal(t, "https://media.test/cover.png", user.CoverImage)
			} else {
				assert.Empty(t, user.CoverImage)
			}
		})
	}
}

func TestUserService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{ID: primitive.NewObjectID(), Username: "alice", PasswordHash: string(hash)}

	tests := []struct {
		name         string
		login        string
		password     string
		getErr       error
		tokenErr     error
		generateErr  error
		expectedKind apperror.Kind
	}{
		{name: "success", login: "alice", password: "s3cret"},
		{name: "missing password", login: "alice", expectedKind: apperror.KindValidation},
		{name: "unknown user", login: "bob", password: "x", getErr: notFound("user"), expectedKind: apperror.KindNotFound},
		{name: "wrong password", login: "alice", password: "nope", expectedKind: apperror.KindUnauthenticated},
		{name: "token generation fails", login: "alice", password: "s3cret", generateErr: errors.New("bad key"), expectedKind: apperror.KindInternal},
		{name: "token store fails", login: "alice", password: "s3cret", tokenErr: errors.New("timeout"), expectedKind: apperror.KindPersistence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stored := *user
			repo := &mockUserRepository{user: &stored, getErr: tt.getErr, tokenErr: tt.tokenErr}
			tokens := &mockTokenIssuer{generateErr: tt.generateErr}
			svc := NewUserService(repo, tokens, &mockMediaStore{}, nil, zap.NewNop())

			result, err := svc.Login(context.Background(), models.LoginRequest{Login: tt.login, Password: tt.password})

			if tt.expectedKind != "" {
				require.Error(t, err)
				assert.Equal(t, tt.expectedKind, apperror.From(err).Kind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "access-1", result.AccessToken)
			assert.Equal(t, "refresh-1", result.RefreshToken)
			assert.Equal(t, "refresh-1", repo.storedToken)
		})
	}
}

func TestUserService_Refresh(t *testing.T) {
	userID := primitive.NewObjectID()

	tests := []struct {
		name         string
		token        string
		subject      string
		validateErr  error
		storedToken  string
		getErr       error
		replaceErr   error
		expectedKind apperror.Kind
	}{
		{name: "rotates tokens", token: "rt", subject: userID.Hex(), storedToken: "rt"},
		{name: "empty token", token: "", expectedKind: apperror.KindUnauthenticated},
		{name: "invalid token", token: "rt", validateErr: errors.New("expired"), expectedKind: apperror.KindUnauthenticated},
		{name: "subject is not an id", token: "rt", subject: "42", expectedKind: apperror.KindUnauthenticated},
		{name: "user gone", token: "rt", subject: userID.Hex(), getErr: notFound("user"), expectedKind: apperror.KindUnauthenticated},
		{name: "token already used", token: "rt", subject: userID.Hex(), storedToken: "newer", expectedKind: apperror.KindUnauthenticated},
		{
			name:         "lost rotation race",
			token:        "rt",
			subject:      userID.Hex(),
			storedToken:  "rt",
			replaceErr:   fmt.Errorf("failed to rotate refresh token: %w", repositories.ErrNotFound),
			expectedKind: apperror.KindUnauthenticated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockUserRepository{
				user:       &models.User{ID: userID, Username: "alice", RefreshToken: tt.storedToken},
				getErr:     tt.getErr,
				replaceErr: tt.replaceErr,
			}
			tokens := &mockTokenIssuer{subject: tt.subject, validateErr: tt.validateErr}
			svc := NewUserService(repo, tokens, &mockMediaStore{}, nil, zap.NewNop())

			result, err := svc.Refresh(context.Background(), tt.token)

			if tt.expectedKind != "" {
				require.Error(t, err)
				assert.Equal(t, tt.expectedKind, apperror.From(err).Kind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "refresh-1", result.RefreshToken)
			assert.Equal(t, "refresh-1", repo.replacedWith)
		})
	}
}

func TestUserService_LogoutAndGet(t *testing.T) {
	t.Run("logout clears token", func(t *testing.T) {
		repo := &mockUserRepository{}
		svc := NewUserService(repo, &mockTokenIssuer{}, &mockMediaStore{}, nil, zap.NewNop())

		require.NoError(t, svc.Logout(context.Background(), primitive.NewObjectID()))
		assert.True(t, repo.clearCalled)
	})

	t.Run("logout failure", func(t *testing.T) {
		repo := &mockUserRepository{tokenErr: errors.New("timeout")}
		svc := NewUserService(repo, &mockTokenIssuer{}, &mockMediaStore{}, nil, zap.NewNop())

		err := svc.Logout(context.Background(), primitive.NewObjectID())

		assert.True(t, apperror.Is(err, apperror.KindPersistence))
	})

	t.Run("get missing user", func(t *testing.T) {
		repo := &mockUserRepository{getErr: notFound("user")}
		svc := NewUserService(repo, &mockTokenIssuer{}, &mockMediaStore{}, nil, zap.NewNop())

		_, err := svc.GetByID(context.Background(), primitive.NewObjectID())

		assert.True(t, apperror.Is(err, apperror.KindNotFound))
	})
}
