package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/videotube/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// TweetService is the interface that wraps methods for tweet business logic.
type TweetService interface {
	// Method Create posts a tweet on behalf of "owner".
	Create(ctx context.Context, owner primitive.ObjectID, content string) (*models.Tweet, error)
	// Method ListByUser retrieve the tweets of a user, newest first.
	//
	// If the user does not exist, the not found error will be returned together with "nil" value.
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Tweet, error)
	// Method Update changes the content of a tweet owned by "owner".
	Update(ctx context.Context, tweetID, owner primitive.ObjectID, content string) (*models.Tweet, error)
	// Method Delete removes a tweet owned by "owner".
	Delete(ctx context.Context, tweetID, owner primitive.ObjectID) (*models.Tweet, error)
}

// TweetHandler handles HTTP requests for tweets
type TweetHandler struct {
	BaseHandler
	tweetService TweetService
}

// NewTweetHandler creates a new tweet handler
func NewTweetHandler(svc TweetService, logger *zap.Logger) *TweetHandler {
	return &TweetHandler{
		BaseHandler:  BaseHandler{logger: logger},
		tweetService: svc,
	}
}

// RegisterRoutes registers all tweet handler routes
func (h *TweetHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/tweets", func(r chi.Router) {
		r.Get("/user/{userId}", h.ListByUser)
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/", h.Create)
			r.Patch("/{tweetId}", h.Update)
			r.Delete("/{tweetId}", h.Delete)
		})
	})
}

// Create handles POST /tweets
// @Summary Create tweet
// @Description Post a tweet. Requires authentication.
// @Tags tweets
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.TweetRequest true "Tweet"
// @Success 201 {object} models.APIResponse{data=models.Tweet} "Tweet created"
// @Failure 400 {object} models.APIResponse "Empty tweet"
// @Router /tweets [post]
func (h *TweetHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}
	var req models.TweetRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	tweet, err := h.tweetService.Create(r.Context(), userID, req.Tweet)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, tweet, "tweet created successfully")
}

// ListByUser handles GET /tweets/user/{userId}
// @Summary List tweets of a user
// @Description Get the tweets of a user, newest first
// @Tags tweets
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} models.APIResponse{data=[]models.Tweet} "Tweets"
// @Failure 404 {object} models.APIResponse "User not found"
// @Router /tweets/user/{userId} [get]
func (h *TweetHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.objectIDParam(w, r, "userId")
	if !ok {
		return
	}

	tweets, err := h.tweetService.ListByUser(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, tweets, "tweets fetched successfully")
}

// Update handles PATCH /tweets/{tweetId}
// @Summary Update tweet
// @Description Change the content of an own tweet. Requires authentication.
// @Tags tweets
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param tweetId path string true "Tweet ID"
// @Param request body models.TweetRequest true "Tweet"
// @Success 200 {object} models.APIResponse{data=models.Tweet} "Tweet updated"
// @Failure 404 {object} models.APIResponse "Tweet not found"
// @Router /tweets/{tweetId} [patch]
func (h *TweetHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}
	tweetID, ok := h.objectIDParam(w, r, "tweetId")
	if !ok {
		return
	}
	var req models.TweetRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	tweet, err := h.tweetService.Update(r.Context(), tweetID, userID, req.Tweet)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, tweet, "tweet updated successfully")
}

// Delete handles DELETE /tweets/{tweetId}
// @Summary Delete tweet
// @Description Delete an own tweet. Requires authentication.
// @Tags tweets
// @Produce json
// @Security ApiKeyAuth
// @Param tweetId path string true "Tweet ID"
// @Success 200 {object} models.APIResponse{data=models.Tweet} "Tweet deleted"
// @Failure 404 {object} models.APIResponse "Tweet not found"
// @Router /tweets/{tweetId} [delete]
func (h *TweetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}
	tweetID, ok := h.objectIDParam(w, r, "tweetId")
	if !ok {
		return
	}

	tweet, err := h.tweetService.Delete(r.Context(), tweetID, userID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, tweet, "tweet deleted successfully")
}
