package services

import (
	"context"
	"strings"

	"github.com/videotube/backend/internal/apperror"
	"github.com/videotube/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// CommentRepository is the interface that wraps methods for comments collection data access
type CommentRepository interface {
	// Method Create inserts "comment" and fills its ID and timestamps.
	Create(ctx context.Context, comment *models.Comment) error
	// Method ListByVideo retrieves one page of a video's comments, newest first, joined with their authors.
	//
	// The total number of comments of the video is returned together with the page.
	ListByVideo(ctx context.Context, videoID primitive.ObjectID, page, limit int) ([]models.CommentView, int64, error)
	// Method UpdateByOwner changes the content of a comment written by "owner".
	//
	// repositories.ErrNotFound is returned (wrapped) if the comment is absent or written by someone else.
	UpdateByOwner(ctx context.Context, id, owner primitive.ObjectID, content string) (*models.Comment, error)
	// Method DeleteByOwner deletes a comment written by "owner".
	//
	// Please reference UpdateByOwner method for more information about error values.
	DeleteByOwner(ctx context.Context, id, owner primitive.ObjectID) (*models.Comment, error)
}

type commentService struct {
	repo   CommentRepository
	logger *zap.Logger
}

// NewCommentService creates a new comment service
func NewCommentService(repo CommentRepository, logger *zap.Logger) *commentService {
	return &commentService{
		repo:   repo,
		logger: logger,
	}
}

// List retrieves one page of comments of a video
func (s *commentService) List(ctx context.Context, videoID primitive.ObjectID, page, limit int) (*models.CommentPage, error) {
	page, limit = pageBounds(page, limit)

	comments, total, err := s.repo.ListByVideo(ctx, videoID, page, limit)
	if err != nil {
		return nil, apperror.Internal("internal server error", err)
	}

	return &models.CommentPage{
		Comments:   comments,
		Pagination: models.CommentPaginationOf(models.NewPagination(total, page, limit)),
	}, nil
}

// Add posts a comment on a video
func (s *commentService) Add(ctx context.Context, videoID, owner primitive.ObjectID, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.Validation("comment is required")
	}

	comment := &models.Comment{Content: content, Video: videoID, Owner: owner}
	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, apperror.Persistence("failed to add comment", err)
	}
	return comment, nil
}

// Update edits a comment of the requester.
// An absent comment and a comment of another user are both reported as not found.
func (s *commentService) Update(ctx context.Context, commentID, owner primitive.ObjectID, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.Validation("comment is required")
	}

	comment, err := s.repo.UpdateByOwner(ctx, commentID, owner, content)
	if err != nil {
		return nil, writeError(err, "comment not found", "failed to update comment")
	}
	return comment, nil
}

// Delete removes a comment of the requester
func (s *commentService) Delete(ctx context.Context, commentID, owner primitive.ObjectID) (*models.Comment, error) {
	comment, err := s.repo.DeleteByOwner(ctx, commentID, owner)
	if err != nil {
		return nil, writeError(err, "comment not found", "failed to delete comment")
	}
	return comment, nil
}
