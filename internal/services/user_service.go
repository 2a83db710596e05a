package services

import (
	"context"
	"errors"
	"strings"

	"github.com/videotube/backend/internal/apperror"
	"github.com/videotube/backend/internal/models"
	"github.com/videotube/backend/internal/repositories"
	"github.com/videotube/backend/internal/saga"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository is the interface that wraps methods for users collection data access
type UserRepository interface {
	// Method Create inserts "user" and fills its ID and timestamps.
	//
	// repositories.ErrDuplicate is returned (wrapped) if the username or the email is already taken.
	Create(ctx context.Context, user *models.User) error
	// Method GetByID retrieves a user by ID.
	//
	// repositories.ErrNotFound is returned (wrapped) if no user has this ID.
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	// Method GetByLogin retrieves a user by username or email.
	//
	// Please reference GetByID method for more information about error values.
	GetByLogin(ctx context.Context, login string) (*models.User, error)
	// Method ExistsByUsernameOrEmail reports whether "username" or "email" is already taken.
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	// Method SetRefreshToken stores the refresh token issued at login.
	SetRefreshToken(ctx context.Context, id primitive.ObjectID, token string) error
	// Method ReplaceRefreshToken stores "newToken" only if "oldToken" is still the stored one.
	//
	// repositories.ErrNotFound is returned (wrapped) if the stored token differs, so a refresh token works once.
	ReplaceRefreshToken(ctx context.Context, id primitive.ObjectID, oldToken, newToken string) error
	// Method ClearRefreshToken removes the stored refresh token.
	ClearRefreshToken(ctx context.Context, id primitive.ObjectID) error
}

// TokenIssuer is the interface that wraps JWT issuing and refresh token validation
type TokenIssuer interface {
	// Method GenerateTokens issues an access token and a refresh token for a user.
	GenerateTokens(userID, username string) (string, string, error)
	// Method ValidateRefreshToken checks a refresh token and returns the user ID it was issued for.
	ValidateRefreshToken(token string) (string, error)
}

type userService struct {
	repo    UserRepository
	tokens  TokenIssuer
	janitor *assetJanitor
	logger  *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(repo UserRepository, tokens TokenIssuer, media MediaStore, observer CompensationObserver, logger *zap.Logger) *userService {
	return &userService{
		repo:    repo,
		tokens:  tokens,
		janitor: newAssetJanitor(media, observer, logger),
		logger:  logger,
	}
}

// Register creates a user account with an avatar and an optional cover image.
//
// The avatar is the primary upload and the cover image the secondary one; a failed step deletes
// the images already uploaded, the same way a failed video publish does.
func (s *userService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.TrimSpace(req.Email)
	fullName := strings.TrimSpace(req.FullName)
	if username == "" || email == "" || fullName == "" || strings.TrimSpace(req.Password) == "" {
		return nil, apperror.Validation("all fields are required")
	}
	if !fileExists(req.AvatarPath) {
		return nil, apperror.Validation("avatar file is required")
	}

	exists, err := s.repo.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, apperror.Internal("internal server error", err)
	}
	if exists {
		return nil, apperror.Conflict("user with this username or email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Internal("failed to hash password", err)
	}

	sg := saga.New()

	avatar, err := s.janitor.upload(ctx, req.AvatarPath)
	if err != nil {
		return nil, apperror.Upload(apperror.PhasePrimary, "failed to upload avatar", err)
	}
	sg.Add(actionDeleteAvatar, s.janitor.deletion(actionDeleteAvatar, avatar.URL))

	user := &models.User{
		Username:     username,
		Email:        email,
		FullName:     fullName,
		Avatar:       avatar.URL,
		PasswordHash: string(hash),
	}

	if req.CoverImagePath != "" {
		cover, err := s.janitor.upload(ctx, req.CoverImagePath)
		if err != nil {
			s.janitor.rollback(ctx, sg, "register")
			return nil, apperror.Upload(apperror.PhaseSecondary, "failed to upload cover image", err)
		}
		sg.Add(actionDeleteCoverImage, s.janitor.deletion(actionDeleteCoverImage, cover.URL))
		user.CoverImage = cover.URL
	}

	if err := s.repo.Create(ctx, user); err != nil {
		s.janitor.rollback(ctx, sg, "register")
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperror.Conflict("user with this username or email already exists")
		}
		return nil, apperror.Persistence("failed to register user", err)
	}
	sg.Complete()

	s.logger.Info("user registered", zap.String("user_id", user.ID.Hex()))
	return user, nil
}

// Login checks credentials and issues a token pair; the refresh token is stored on the user
func (s *userService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResult, error) {
	login := strings.TrimSpace(req.Login)
	if login == "" || req.Password == "" {
		return nil, apperror.Validation("username or email and password are required")
	}

	user, err := s.repo.GetByLogin(ctx, login)
	if err != nil {
		return nil, readError(err, "user does not exist")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperror.Unauthenticated("invalid user credentials")
	}

	access, refresh, err := s.tokens.GenerateTokens(user.ID.Hex(), user.Username)
	if err != nil {
		return nil, apperror.Internal("failed to generate tokens", err)
	}

	if err := s.repo.SetRefreshToken(ctx, user.ID, refresh); err != nil {
		return nil, writeError(err, "user does not exist", "failed to store refresh token")
	}
	user.RefreshToken = refresh

	return &models.AuthResult{User: user, AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh exchanges a valid, unused refresh token for a new token pair
func (s *userService) Refresh(ctx context.Context, token string) (*models.AuthResult, error) {
	if token == "" {
		return nil, apperror.Unauthenticated("unauthorized request")
	}

	subject, err := s.tokens.ValidateRefreshToken(token)
	if err != nil {
		return nil, apperror.Unauthenticated("invalid refresh token")
	}
	userID, err := primitive.ObjectIDFromHex(subject)
	if err != nil {
		return nil, apperror.Unauthenticated("invalid refresh token")
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperror.Unauthenticated("invalid refresh token")
		}
		return nil, apperror.Internal("internal server error", err)
	}
	if user.RefreshToken != token {
		return nil, apperror.Unauthenticated("refresh token is expired or used")
	}

	access, refresh, err := s.tokens.GenerateTokens(user.ID.Hex(), user.Username)
	if err != nil {
		return nil, apperror.Internal("failed to generate tokens", err)
	}

	if err := s.repo.ReplaceRefreshToken(ctx, user.ID, token, refresh); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperror.Unauthenticated("refresh token is expired or used")
		}
		return nil, apperror.Persistence("failed to store refresh token", err)
	}
	user.RefreshToken = refresh

	return &models.AuthResult{User: user, AccessToken: access, RefreshToken: refresh}, nil
}

// Logout forgets the stored refresh token of a user
func (s *userService) Logout(ctx context.Context, userID primitive.ObjectID) error {
	if err := s.repo.ClearRefreshToken(ctx, userID); err != nil {
		return apperror.Persistence("failed to log out", err)
	}
	return nil
}

// GetByID retrieves a user
func (s *userService) GetByID(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, readError(err, "user does not exist")
	}
	return user, nil
}
