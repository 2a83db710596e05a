package services

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/videotube/backend/internal/apperror"
	"github.com/videotube/backend/internal/models"
	"github.com/videotube/backend/internal/saga"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// VideoRepository is the interface that wraps methods for videos collection data access
type VideoRepository interface {
	// Method Create inserts "video" and fills its ID and timestamps.
	//
	// If some error occurs during insertion, the error is returned and nothing is stored.
	Create(ctx context.Context, video *models.Video) error
	// Method GetByID retrieves a video by its ID.
	//
	// repositories.ErrNotFound is returned (wrapped) if no video has this ID.
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Video, error)
	// Method GetWithOwner retrieves a video by its ID joined with the owner's public profile.
	//
	// Please reference GetByID method for more information about error values.
	GetWithOwner(ctx context.Context, id primitive.ObjectID) (*models.VideoWithOwner, error)
	// Method List retrieves one page of published videos and the total number of matching videos.
	//
	// "q" must already be normalized: Page >= 1, Limit within bounds and SortBy one of the Sort constants.
	List(ctx context.Context, q models.ListVideosQuery) ([]models.VideoWithOwner, int64, error)
	// Method UpdateDetails sets title, description and thumbnail of a video and returns the updated record.
	//
	// Please reference GetByID method for more information about error values.
	UpdateDetails(ctx context.Context, id primitive.ObjectID, title, description, thumbnail string) (*models.Video, error)
	// Method UpdateThumbnail sets the thumbnail of a video and returns the updated record.
	UpdateThumbnail(ctx context.Context, id primitive.ObjectID, thumbnail string) (*models.Video, error)
	// Method SetPublished sets the publication flag of a video and returns the updated record.
	SetPublished(ctx context.Context, id primitive.ObjectID, published bool) (*models.Video, error)
	// Method DeleteByOwner deletes a video only if "owner" owns it and returns the deleted record.
	//
	// repositories.ErrNotFound is returned (wrapped) if the video is absent or owned by someone else.
	DeleteByOwner(ctx context.Context, id, owner primitive.ObjectID) (*models.Video, error)
}

type videoService struct {
	repo    VideoRepository
	janitor *assetJanitor
	logger  *zap.Logger
}

// NewVideoService creates a new video service
func NewVideoService(repo VideoRepository, media MediaStore, observer CompensationObserver, logger *zap.Logger) *videoService {
	return &videoService{
		repo:    repo,
		janitor: newAssetJanitor(media, observer, logger),
		logger:  logger,
	}
}

// Publish uploads the video file and the thumbnail, then stores a published video record.
//
// Uploads run one after another. Every upload that succeeded is deleted again when a later step fails,
// so a record is stored only with both remote handles and no remote asset outlives a failed publish
// unless its compensating delete fails too. Compensation failures are logged, never returned.
func (s *videoService) Publish(ctx context.Context, req models.PublishVideoRequest) (*models.Video, error) {
	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	if title == "" || description == "" {
		return nil, apperror.Validation("title and description are required")
	}
	if !fileExists(req.VideoPath) || !fileExists(req.ThumbnailPath) {
		return nil, apperror.Validation("video file and thumbnail are required")
	}

	sg := saga.New()

	videoAsset, err := s.janitor.upload(ctx, req.VideoPath)
	if err != nil {
		return nil, apperror.Upload(apperror.PhasePrimary, "failed to upload video file", err)
	}
	sg.Add(actionDeleteVideoFile, s.janitor.deletion(actionDeleteVideoFile, videoAsset.URL))

	thumbAsset, err := s.janitor.upload(ctx, req.ThumbnailPath)
	if err != nil {
		s.janitor.rollback(ctx, sg, "publish")
		return nil, apperror.Upload(apperror.PhaseSecondary, "failed to upload thumbnail", err)
	}
	sg.Add(actionDeleteThumbnail, s.janitor.deletion(actionDeleteThumbnail, thumbAsset.URL))

	video := &models.Video{
		VideoFile:   videoAsset.URL,
		Thumbnail:   thumbAsset.URL,
		Owner:       req.OwnerID,
		Title:       title,
		Description: description,
		IsPublished: true,
	}
	if videoAsset.Duration != nil {
		video.Duration = *videoAsset.Duration
	}

	if err := s.repo.Create(ctx, video); err != nil {
		s.janitor.rollback(ctx, sg, "publish")
		return nil, apperror.Persistence("failed to save video", err)
	}
	sg.Complete()

	s.logger.Info("video published",
		zap.String("video_id", video.ID.Hex()),
		zap.String("owner_id", req.OwnerID.Hex()),
		zap.Float64("duration", video.Duration),
	)
	return video, nil
}

// Update edits title and description and replaces the thumbnail of a video owned by the requester.
//
// The old thumbnail is deleted only after the record references the new one.
func (s *videoService) Update(ctx context.Context, req models.UpdateVideoRequest) (*models.Video, error) {
	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	if title == "" || description == "" {
		return nil, apperror.Validation("title and description are required")
	}
	if !fileExists(req.ThumbnailPath) {
		return nil, apperror.Validation("thumbnail is required")
	}

	return s.replaceThumbnail(ctx, req.VideoID, req.RequesterID, req.ThumbnailPath, func(thumbnail string) (*models.Video, error) {
		return s.repo.UpdateDetails(ctx, req.VideoID, title, description, thumbnail)
	})
}

// ReplaceThumbnail swaps the thumbnail of a video owned by the requester
func (s *videoService) ReplaceThumbnail(ctx context.Context, videoID primitive.ObjectID, localPath string, requesterID primitive.ObjectID) (*models.Video, error) {
	if !fileExists(localPath) {
		return nil, apperror.Validation("thumbnail is required")
	}

	return s.replaceThumbnail(ctx, videoID, requesterID, localPath, func(thumbnail string) (*models.Video, error) {
		return s.repo.UpdateThumbnail(ctx, videoID, thumbnail)
	})
}

// replaceThumbnail checks ownership, uploads the new thumbnail, persists it with save
// and finally deletes the thumbnail it replaced
func (s *videoService) replaceThumbnail(
	ctx context.Context,
	videoID, requesterID primitive.ObjectID,
	localPath string,
	save func(thumbnail string) (*models.Video, error),
) (*models.Video, error) {
	current, err := s.ownedVideo(ctx, videoID, requesterID)
	if err != nil {
		return nil, err
	}

	asset, err := s.janitor.upload(ctx, localPath)
	if err != nil {
		return nil, apperror.Upload(apperror.PhaseSecondary, "failed to upload thumbnail", err)
	}

	sg := saga.New()
	sg.Add(actionDeleteThumbnail, s.janitor.deletion(actionDeleteThumbnail, asset.URL))

	updated, err := save(asset.URL)
	if err != nil {
		s.janitor.rollback(ctx, sg, "replace_thumbnail")
		return nil, writeError(err, "video not found", "failed to update video")
	}
	sg.Complete()

	if current.Thumbnail != asset.URL {
		s.janitor.discard(ctx, actionDeleteOldThumbnail, current.Thumbnail)
	}
	return updated, nil
}

// Delete removes a video owned by the requester, then deletes its remote assets.
//
// A video that is absent or owned by someone else is reported as not found and no remote asset is touched.
func (s *videoService) Delete(ctx context.Context, videoID, requesterID primitive.ObjectID) (*models.Video, error) {
	video, err := s.repo.DeleteByOwner(ctx, videoID, requesterID)
	if err != nil {
		return nil, writeError(err, "video not found", "failed to delete video")
	}

	s.janitor.discard(ctx, actionDeleteVideoFile, video.VideoFile)
	s.janitor.discard(ctx, actionDeleteThumbnail, video.Thumbnail)

	s.logger.Info("video deleted", zap.String("video_id", videoID.Hex()))
	return video, nil
}

// TogglePublish flips the publication flag of a video owned by the requester
func (s *videoService) TogglePublish(ctx context.Context, videoID, requesterID primitive.ObjectID) (*models.Video, error) {
	current, err := s.ownedVideo(ctx, videoID, requesterID)
	if err != nil {
		return nil, err
	}

	video, err := s.repo.SetPublished(ctx, videoID, !current.IsPublished)
	if err != nil {
		return nil, writeError(err, "video not found", "failed to update video")
	}
	return video, nil
}

// GetByID retrieves a video with its owner's profile
func (s *videoService) GetByID(ctx context.Context, videoID primitive.ObjectID) (*models.VideoWithOwner, error) {
	video, err := s.repo.GetWithOwner(ctx, videoID)
	if err != nil {
		return nil, readError(err, "video not found")
	}
	return video, nil
}

// List retrieves one page of published videos.
//
// Page defaults to 1, limit to 10 (at most 100), sortBy to createdAt. Unknown sort fields are a validation error.
func (s *videoService) List(ctx context.Context, q models.ListVideosQuery) (*models.VideoPage, error) {
	q.Page, q.Limit = pageBounds(q.Page, q.Limit)
	q.Query = strings.TrimSpace(q.Query)

	switch q.SortBy {
	case "":
		q.SortBy = models.SortByCreatedAt
	case models.SortByCreatedAt, models.SortByViews, models.SortByDuration, models.SortByTitle:
	default:
		return nil, apperror.Validation(fmt.Sprintf("invalid sortBy %q", q.SortBy))
	}

	videos, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, apperror.Internal("internal server error", err)
	}

	return &models.VideoPage{
		Videos:     videos,
		Pagination: models.NewPagination(total, q.Page, q.Limit),
	}, nil
}

// ownedVideo loads a video and checks that requesterID owns it
func (s *videoService) ownedVideo(ctx context.Context, videoID, requesterID primitive.ObjectID) (*models.Video, error) {
	video, err := s.repo.GetByID(ctx, videoID)
	if err != nil {
		return nil, readError(err, "video not found")
	}
	if video.Owner != requesterID {
		return nil, apperror.Authorization("you are not allowed to modify this video")
	}
	return video, nil
}

// fileExists reports whether path names a regular file
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
