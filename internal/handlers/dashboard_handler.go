package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/videotube/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// DashboardService is the interface that wraps methods for channel statistics and service health.
type DashboardService interface {
	// Method Stats retrieve the totals of a channel: videos, views, likes and subscribers, plus its profile fields.
	//
	// A channel without videos has zero totals.
	Stats(ctx context.Context, owner primitive.ObjectID) (*models.ChannelStats, error)
	// Method Videos retrieve all videos of a channel with their like and comment counts.
	Videos(ctx context.Context, owner primitive.ObjectID) ([]models.ChannelVideo, error)
	// Method Health reports whether the record store answers.
	//
	// The returned status is never "nil"; the error tells that the record store is down.
	Health(ctx context.Context) (*models.HealthStatus, error)
}

// DashboardHandler handles HTTP requests for the channel dashboard and the health check
type DashboardHandler struct {
	BaseHandler
	dashboardService DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(svc DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler:      BaseHandler{logger: logger},
		dashboardService: svc,
	}
}

// RegisterRoutes registers all dashboard handler routes
func (h *DashboardHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Get("/healthcheck", h.Health)
	r.Route("/dashboard", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/stats", h.Stats)
		r.Get("/videos", h.Videos)
	})
}

// Stats handles GET /dashboard/stats
// @Summary Channel stats
// @Description Get the totals of the authenticated user's channel. Requires authentication.
// @Tags dashboard
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.APIResponse{data=models.ChannelStats} "Channel stats"
// @Failure 401 {object} models.APIResponse "Unauthorized"
// @Failure 404 {object} models.APIResponse "Channel not found"
// @Router /dashboard/stats [get]
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}

	stats, err := h.dashboardService.Stats(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, stats, "channel stats fetched successfully")
}

// Videos handles GET /dashboard/videos
// @Summary Channel videos
// @Description Get the videos of the authenticated user's channel with like and comment counts. Requires authentication.
// @Tags dashboard
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.APIResponse{data=[]models.ChannelVideo} "Channel videos"
// @Failure 401 {object} models.APIResponse "Unauthorized"
// @Router /dashboard/videos [get]
func (h *DashboardHandler) Videos(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}

	videos, err := h.dashboardService.Videos(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, videos, "channel videos fetched successfully")
}

// Health handles GET /healthcheck
// @Summary Health check
// @Description Report whether the service and its database are up
// @Tags healthcheck
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.HealthStatus} "Healthy"
// @Failure 503 {object} models.APIResponse{data=models.HealthStatus} "Database unreachable"
// @Router /healthcheck [get]
func (h *DashboardHandler) Health(w http.ResponseWriter, r *http.Request) {
	status, err := h.dashboardService.Health(r.Context())
	if err != nil {
		h.logger.Warn("health check failed", zap.Error(err))
		h.respondJSON(w, http.StatusServiceUnavailable, status, "service unavailable")
		return
	}

	h.respondJSON(w, http.StatusOK, status, "service is healthy")
}
