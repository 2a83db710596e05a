package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/videotube/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// LikeService is the interface that wraps methods for like business logic.
type LikeService interface {
	// Method Toggle likes a video, a comment or a tweet, or removes an existing like of it.
	//
	// "target" selects the kind of resource, please reference LikeTarget constants for correct values.
	// The result carries the like (created or removed) and the number of likes of the target afterwards.
	Toggle(ctx context.Context, target models.LikeTarget, targetID, userID primitive.ObjectID) (*models.LikeToggleResult, error)
	// Method LikedVideos retrieve the videos a user liked.
	LikedVideos(ctx context.Context, userID primitive.ObjectID) (*models.LikedVideos, error)
}

// LikeHandler handles HTTP requests for likes
type LikeHandler struct {
	BaseHandler
	likeService LikeService
}

// NewLikeHandler creates a new like handler
func NewLikeHandler(svc LikeService, logger *zap.Logger) *LikeHandler {
	return &LikeHandler{
		BaseHandler: BaseHandler{logger: logger},
		likeService: svc,
	}
}

// RegisterRoutes registers all like handler routes
func (h *LikeHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/likes", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/toggle/v/{videoId}", h.ToggleVideoLike)
		r.Post("/toggle/c/{commentId}", h.ToggleCommentLike)
		r.Post("/toggle/t/{tweetId}", h.ToggleTweetLike)
		r.Get("/videos", h.LikedVideos)
	})
}

// ToggleVideoLike handles POST /likes/toggle/v/{videoId}
// @Summary Toggle video like
// @Description Like a video or remove an existing like. Requires authentication.
// @Tags likes
// @Produce json
// @Security ApiKeyAuth
// @Param videoId path string true "Video ID"
// @Success 200 {object} models.APIResponse{data=models.LikeToggleResult} "Liked or unliked"
// @Failure 400 {object} models.APIResponse "Invalid video ID"
// @Router /likes/toggle/v/{videoId} [post]
func (h *LikeHandler) ToggleVideoLike(w http.ResponseWriter, r *http.Request) {
	h.toggle(models.LikeTargetVideo, "videoId")(w, r)
}

// ToggleCommentLike handles POST /likes/toggle/c/{commentId}
// @Summary Toggle comment like
// @Description Like a comment or remove an existing like. Requires authentication.
// @Tags likes
// @Produce json
// @Security ApiKeyAuth
// @Param commentId path string true "Comment ID"
// @Success 200 {object} models.APIResponse{data=models.LikeToggleResult} "Liked or unliked"
// @Failure 400 {object} models.APIResponse "Invalid comment ID"
// @Router /likes/toggle/c/{commentId} [post]
func (h *LikeHandler) ToggleCommentLike(w http.ResponseWriter, r *http.Request) {
	h.toggle(models.LikeTargetComment, "commentId")(w, r)
}

// ToggleTweetLike handles POST /likes/toggle/t/{tweetId}
// @Summary Toggle tweet like
// @Description Like a tweet or remove an existing like. Requires authentication.
// @Tags likes
// @Produce json
// @Security ApiKeyAuth
// @Param tweetId path string true "Tweet ID"
// @Success 200 {object} models.APIResponse{data=models.LikeToggleResult} "Liked or unliked"
// @Failure 400 {object} models.APIResponse "Invalid tweet ID"
// @Router /likes/toggle/t/{tweetId} [post]
func (h *LikeHandler) ToggleTweetLike(w http.ResponseWriter, r *http.Request) {
	h.toggle(models.LikeTargetTweet, "tweetId")(w, r)
}

// toggle builds the handler of one like target
func (h *LikeHandler) toggle(target models.LikeTarget, param string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := h.requireUserID(w, r)
		if !ok {
			return
		}
		targetID, ok := h.objectIDParam(w, r, param)
		if !ok {
			return
		}

		result, err := h.likeService.Toggle(r.Context(), target, targetID, userID)
		if err != nil {
			h.respondServiceError(w, r, err)
			return
		}

		message := string(target) + " unliked successfully"
		if result.Liked {
			message = string(target) + " liked successfully"
		}
		h.respondJSON(w, http.StatusOK, result, message)
	}
}

// LikedVideos handles GET /likes/videos
// @Summary Liked videos
// @Description Get the videos the authenticated user liked. Requires authentication.
// @Tags likes
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.APIResponse{data=models.LikedVideos} "Liked videos"
// @Failure 401 {object} models.APIResponse "Unauthorized"
// @Router /likes/videos [get]
func (h *LikeHandler) LikedVideos(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}

	videos, err := h.likeService.LikedVideos(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, videos, "liked videos fetched successfully")
}
