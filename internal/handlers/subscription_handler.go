package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/videotube/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// SubscriptionService is the interface that wraps methods for subscription business logic.
type SubscriptionService interface {
	// Method Toggle subscribes "subscriber" to "channel" or cancels an existing subscription.
	//
	// Subscribing to the own channel is a validation error.
	Toggle(ctx context.Context, subscriber, channel primitive.ObjectID) (*models.SubscriptionToggleResult, error)
	// Method Subscribers retrieve the public profiles of the users subscribed to a channel.
	Subscribers(ctx context.Context, channel primitive.ObjectID) (*models.ChannelSubscribers, error)
	// Method Channels retrieve the public profiles of the channels a user subscribes to.
	Channels(ctx context.Context, subscriber primitive.ObjectID) (*models.SubscribedChannels, error)
}

// SubscriptionHandler handles HTTP requests for subscriptions
type SubscriptionHandler struct {
	BaseHandler
	subscriptionService SubscriptionService
}

// NewSubscriptionHandler creates a new subscription handler
func NewSubscriptionHandler(svc SubscriptionService, logger *zap.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		BaseHandler:         BaseHandler{logger: logger},
		subscriptionService: svc,
	}
}

// RegisterRoutes registers all subscription handler routes
func (h *SubscriptionHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/subscriptions", func(r chi.Router) {
		r.Get("/c/{channelId}", h.Subscribers)
		r.Get("/u/{subscriberId}", h.Channels)
		r.With(authMiddleware).Post("/c/{channelId}", h.Toggle)
	})
}

// Toggle handles POST /subscriptions/c/{channelId}
// @Summary Toggle subscription
// @Description Subscribe to a channel or cancel an existing subscription. Requires authentication.
// @Tags subscriptions
// @Produce json
// @Security ApiKeyAuth
// @Param channelId path string true "Channel (user) ID"
// @Success 200 {object} models.APIResponse{data=models.SubscriptionToggleResult} "Subscribed or unsubscribed"
// @Failure 400 {object} models.APIResponse "Own channel or invalid ID"
// @Router /subscriptions/c/{channelId} [post]
func (h *SubscriptionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}
	channelID, ok := h.objectIDParam(w, r, "channelId")
	if !ok {
		return
	}

	result, err := h.subscriptionService.Toggle(r.Context(), userID, channelID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	message := "unsubscribed successfully"
	if result.Subscribed {
		message = "subscribed successfully"
	}
	h.respondJSON(w, http.StatusOK, result, message)
}

// Subscribers handles GET /subscriptions/c/{channelId}
// @Summary Channel subscribers
// @Description Get the users subscribed to a channel
// @Tags subscriptions
// @Produce json
// @Param channelId path string true "Channel (user) ID"
// @Success 200 {object} models.APIResponse{data=models.ChannelSubscribers} "Subscribers"
// @Failure 400 {object} models.APIResponse "Invalid channel ID"
// @Router /subscriptions/c/{channelId} [get]
func (h *SubscriptionHandler) Subscribers(w http.ResponseWriter, r *http.Request) {
	channelID, ok := h.objectIDParam(w, r, "channelId")
	if !ok {
		return
	}

	subscribers, err := h.subscriptionService.Subscribers(r.Context(), channelID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, subscribers, "subscribers fetched successfully")
}

// Channels handles GET /subscriptions/u/{subscriberId}
// @Summary Subscribed channels
// @Description Get the channels a user subscribes to
// @Tags subscriptions
// @Produce json
// @Param subscriberId path string true "Subscriber (user) ID"
// @Success 200 {object} models.APIResponse{data=models.SubscribedChannels} "Channels"
// @Failure 400 {object} models.APIResponse "Invalid subscriber ID"
// @Router /subscriptions/u/{subscriberId} [get]
func (h *SubscriptionHandler) Channels(w http.ResponseWriter, r *http.Request) {
	subscriberID, ok := h.objectIDParam(w, r, "subscriberId")
	if !ok {
		return
	}

	channels, err := h.subscriptionService.Channels(r.Context(), subscriberID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, channels, "subscribed channels fetched successfully")
}
