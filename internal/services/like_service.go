package services

import (
	"context"
	"errors"

	"github.com/videotube/backend/internal/apperror"
	"github.com/videotube/backend/internal/models"
	"github.com/videotube/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// LikeRepository is the interface that wraps methods for likes collection data access
type LikeRepository interface {
	// Method Create inserts "like" and fills its ID and timestamps.
	//
	// repositories.ErrDuplicate is returned (wrapped) if the user already likes the target.
	Create(ctx context.Context, like *models.Like) error
	// Method DeleteByTarget removes the like of a target by "likedBy" and returns it.
	//
	// repositories.ErrNotFound is returned (wrapped) if there is no such like.
	DeleteByTarget(ctx context.Context, target models.LikeTarget, targetID, likedBy primitive.ObjectID) (*models.Like, error)
	// Method CountByTarget counts the likes of a target.
	CountByTarget(ctx context.Context, target models.LikeTarget, targetID primitive.ObjectID) (int64, error)
	// Method LikedVideos retrieves the videos liked by a user.
	LikedVideos(ctx context.Context, likedBy primitive.ObjectID) ([]models.Video, error)
}

type likeService struct {
	repo   LikeRepository
	logger *zap.Logger
}

// NewLikeService creates a new like service
func NewLikeService(repo LikeRepository, logger *zap.Logger) *likeService {
	return &likeService{
		repo:   repo,
		logger: logger,
	}
}

// Toggle removes the requester's like of a target if it exists and creates it otherwise
func (s *likeService) Toggle(ctx context.Context, target models.LikeTarget, targetID, userID primitive.ObjectID) (*models.LikeToggleResult, error) {
	switch target {
	case models.LikeTargetVideo, models.LikeTargetComment, models.LikeTargetTweet:
	default:
		return nil, apperror.Validation("invalid like target")
	}

	result := &models.LikeToggleResult{}

	existing, err := s.repo.DeleteByTarget(ctx, target, targetID, userID)
	switch {
	case err == nil:
		result.Data = existing
	case errors.Is(err, repositories.ErrNotFound):
		like := models.NewLike(target, targetID, userID)
		if err := s.repo.Create(ctx, like); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return nil, apperror.Conflict("like is already registered")
			}
			return nil, apperror.Persistence("failed to like", err)
		}
		result.Data = like
		result.Liked = true
	default:
		return nil, apperror.Persistence("failed to unlike", err)
	}

	count, err := s.repo.CountByTarget(ctx, target, targetID)
	if err != nil {
		return nil, apperror.Internal("internal server error", err)
	}
	result.LikeCount = count

	return result, nil
}

// LikedVideos retrieves the videos liked by a user
func (s *likeService) LikedVideos(ctx context.Context, userID primitive.ObjectID) (*models.LikedVideos, error) {
	videos, err := s.repo.LikedVideos(ctx, userID)
	if err != nil {
		return nil, apperror.Internal("internal server error", err)
	}
	return &models.LikedVideos{Videos: videos, Count: len(videos)}, nil
}
