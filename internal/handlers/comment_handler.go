package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/videotube/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// CommentService is the interface that wraps methods for comment business logic.
type CommentService interface {
	// Method List retrieve one page of the comments of a video, newest first, with their owners.
	//
	// Zero "page" and "limit" fall back to defaults.
	List(ctx context.Context, videoID primitive.ObjectID, page, limit int) (*models.CommentPage, error)
	// Method Add creates a comment on a video.
	Add(ctx context.Context, videoID, owner primitive.ObjectID, content string) (*models.Comment, error)
	// Method Update changes the content of a comment owned by "owner".
	//
	// A comment that does not exist or belongs to somebody else is reported as not found.
	Update(ctx context.Context, commentID, owner primitive.ObjectID, content string) (*models.Comment, error)
	// Method Delete removes a comment owned by "owner".
	//
	// Please reference Update method for the not found rule.
	Delete(ctx context.Context, commentID, owner primitive.ObjectID) (*models.Comment, error)
}

// CommentHandler handles HTTP requests for comments
type CommentHandler struct {
	BaseHandler
	commentService CommentService
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(svc CommentService, logger *zap.Logger) *CommentHandler {
	return &CommentHandler{
		BaseHandler:    BaseHandler{logger: logger},
		commentService: svc,
	}
}

// RegisterRoutes registers all comment handler routes
func (h *CommentHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/comments", func(r chi.Router) {
		r.Get("/{videoId}", h.List)
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/{videoId}", h.Add)
			r.Patch("/c/{commentId}", h.Update)
			r.Delete("/c/{commentId}", h.Delete)
		})
	})
}

// List handles GET /comments/{videoId}
// @Summary List comments
// @Description Get one page of the comments of a video, newest first
// @Tags comments
// @Produce json
// @Param videoId path string true "Video ID"
// @Param page query int false "Page number, default: 1"
// @Param limit query int false "Page size, default: 10"
// @Success 200 {object} models.APIResponse{data=models.CommentPage} "Comments"
// @Failure 400 {object} models.APIResponse "Invalid video ID"
// @Router /comments/{videoId} [get]
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	videoID, ok := h.objectIDParam(w, r, "videoId")
	if !ok {
		return
	}

	page, err := h.commentService.List(r.Context(), videoID, queryInt(r, "page"), queryInt(r, "limit"))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, page, "comments fetched successfully")
}

// Add handles POST /comments/{videoId}
// @Summary Add comment
// @Description Comment on a video. Requires authentication.
// @Tags comments
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param videoId path string true "Video ID"
// @Param request body models.CommentRequest true "Comment"
// @Success 201 {object} models.APIResponse{data=models.Comment} "Comment added"
// @Failure 400 {object} models.APIResponse "Empty comment"
// @Router /comments/{videoId} [post]
func (h *CommentHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}
	videoID, ok := h.objectIDParam(w, r, "videoId")
	if !ok {
		return
	}
	var req models.CommentRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	comment, err := h.commentService.Add(r.Context(), videoID, userID, req.Comment)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, comment, "comment added successfully")
}

// Update handles PATCH /comments/c/{commentId}
// @Summary Update comment
// @Description Change the content of an own comment. Requires authentication.
// @Tags comments
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param commentId path string true "Comment ID"
// @Param request body models.CommentRequest true "Comment"
// @Success 200 {object} models.APIResponse{data=models.Comment} "Comment updated"
// @Failure 404 {object} models.APIResponse "Comment not found"
// @Router /comments/c/{commentId} [patch]
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}
	commentID, ok := h.objectIDParam(w, r, "commentId")
	if !ok {
		return
	}
	var req models.CommentRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	comment, err := h.commentService.Update(r.Context(), commentID, userID, req.Comment)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, comment, "comment updated successfully")
}

// Delete handles DELETE /comments/c/{commentId}
// @Summary Delete comment
// @Description Delete an own comment. Requires authentication.
// @Tags comments
// @Produce json
// @Security ApiKeyAuth
// @Param commentId path string true "Comment ID"
// @Success 200 {object} models.APIResponse{data=models.Comment} "Comment deleted"
// @Failure 404 {object} models.APIResponse "Comment not found"
// @Router /comments/c/{commentId} [delete]
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}
	commentID, ok := h.objectIDParam(w, r, "commentId")
	if !ok {
		return
	}

	comment, err := h.commentService.Delete(r.Context(), commentID, userID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, comment, "comment deleted successfully")
}
