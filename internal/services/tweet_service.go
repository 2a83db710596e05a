package services

import (
	"context"
	"strings"

	"github.com/videotube/backend/internal/apperror"
	"github.com/videotube/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// TweetRepository is the interface that wraps methods for tweets collection data access
type TweetRepository interface {
	// Method Create inserts "tweet" and fills its ID and timestamps.
	Create(ctx context.Context, tweet *models.Tweet) error
	// Method ListByOwner retrieves every tweet of a user, newest first.
	ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Tweet, error)
	// Method UpdateByOwner changes the content of a tweet posted by "owner".
	//
	// repositories.ErrNotFound is returned (wrapped) if the tweet is absent or posted by someone else.
	UpdateByOwner(ctx context.Context, id, owner primitive.ObjectID, content string) (*models.Tweet, error)
	// Method DeleteByOwner deletes a tweet posted by "owner".
	//
	// Please reference UpdateByOwner method for more information about error values.
	DeleteByOwner(ctx context.Context, id, owner primitive.ObjectID) (*models.Tweet, error)
}

// UserReader is the interface that wraps user lookup
type UserReader interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

type tweetService struct {
	repo   TweetRepository
	users  UserReader
	logger *zap.Logger
}

// NewTweetService creates a new tweet service
func NewTweetService(repo TweetRepository, users UserReader, logger *zap.Logger) *tweetService {
	return &tweetService{
		repo:   repo,
		users:  users,
		logger: logger,
	}
}

// Create posts a tweet
func (s *tweetService) Create(ctx context.Context, owner primitive.ObjectID, content string) (*models.Tweet, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.Validation("tweet is required")
	}

	tweet := &models.Tweet{Content: content, Owner: owner}
	if err := s.repo.Create(ctx, tweet); err != nil {
		return nil, apperror.Persistence("failed to create tweet", err)
	}
	return tweet, nil
}

// ListByUser retrieves the tweets of an existing user
func (s *tweetService) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Tweet, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, readError(err, "user does not exist")
	}

	tweets, err := s.repo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, apperror.Internal("internal server error", err)
	}
	return tweets, nil
}

// Update edits a tweet of the requester.
// An absent tweet and a tweet of another user are both reported as not found.
func (s *tweetService) Update(ctx context.Context, tweetID, owner primitive.ObjectID, content string) (*models.Tweet, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.Validation("tweet is required")
	}

	tweet, err := s.repo.UpdateByOwner(ctx, tweetID, owner, content)
	if err != nil {
		return nil, writeError(err, "tweet not found", "failed to update tweet")
	}
	return tweet, nil
}

// Delete removes a tweet of the requester
func (s *tweetService) Delete(ctx context.Context, tweetID, owner primitive.ObjectID) (*models.Tweet, error) {
	tweet, err := s.repo.DeleteByOwner(ctx, tweetID, owner)
	if err != nil {
		return nil, writeError(err, "tweet not found", "failed to delete tweet")
	}
	return tweet, nil
}
