package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/videotube/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// PlaylistService is the interface that wraps methods for playlist business logic.
type PlaylistService interface {
	// Method Create creates a playlist owned by "owner". Name and description are required.
	Create(ctx context.Context, owner primitive.ObjectID, req models.PlaylistRequest) (*models.Playlist, error)
	// Method ListByUser retrieve the playlists of a user.
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Playlist, error)
	// Method GetByID retrieve a playlist by its ID.
	GetByID(ctx context.Context, playlistID primitive.ObjectID) (*models.Playlist, error)
	// Method Update changes name and description of a playlist.
	//
	// A missing playlist is reported as not found, a playlist of somebody else as forbidden.
	// The same rule applies to Delete, AddVideo and RemoveVideo.
	Update(ctx context.Context, playlistID, requesterID primitive.ObjectID, req models.PlaylistRequest) (*models.Playlist, error)
	// Method Delete removes a playlist.
	Delete(ctx context.Context, playlistID, requesterID primitive.ObjectID) (*models.Playlist, error)
	// Method AddVideo appends a video to a playlist; a video already present is a conflict.
	AddVideo(ctx context.Context, playlistID, videoID, requesterID primitive.ObjectID) (*models.Playlist, error)
	// Method RemoveVideo removes a video from a playlist; a video not present is reported as not found.
	RemoveVideo(ctx context.Context, playlistID, videoID, requesterID primitive.ObjectID) (*models.Playlist, error)
}

// PlaylistHandler handles HTTP requests for playlists
type PlaylistHandler struct {
	BaseHandler
	playlistService PlaylistService
}

// NewPlaylistHandler creates a new playlist handler
func NewPlaylistHandler(svc PlaylistService, logger *zap.Logger) *PlaylistHandler {
	return &PlaylistHandler{
		BaseHandler:     BaseHandler{logger: logger},
		playlistService: svc,
	}
}

// RegisterRoutes registers all playlist handler routes
func (h *PlaylistHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/playlists", func(r chi.Router) {
		r.Get("/user/{userId}", h.ListByUser)
		r.Get("/{playlistId}", h.GetByID)
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/", h.Create)
			r.Patch("/{playlistId}", h.Update)
			r.Delete("/{playlistId}", h.Delete)
			r.Patch("/add/{videoId}/{playlistId}", h.AddVideo)
			r.Patch("/remove/{videoId}/{playlistId}", h.RemoveVideo)
		})
	})
}

// Create handles POST /playlists
// @Summary Create playlist
// @Description Create a playlist. Requires authentication.
// @Tags playlists
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.PlaylistRequest true "Playlist"
// @Success 201 {object} models.APIResponse{data=models.Playlist} "Playlist created"
// @Failure 400 {object} models.APIResponse "Missing name or description"
// @Router /playlists [post]
func (h *PlaylistHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}
	var req models.PlaylistRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	playlist, err := h.playlistService.Create(r.Context(), userID, req)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, playlist, "playlist created successfully")
}

// ListByUser handles GET /playlists/user/{userId}
// @Summary List playlists of a user
// @Tags playlists
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} models.APIResponse{data=[]models.Playlist} "Playlists"
// @Failure 400 {object} models.APIResponse "Invalid user ID"
// @Router /playlists/user/{userId} [get]
func (h *PlaylistHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.objectIDParam(w, r, "userId")
	if !ok {
		return
	}

	playlists, err := h.playlistService.ListByUser(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, playlists, "playlists fetched successfully")
}

// GetByID handles GET /playlists/{playlistId}
// @Summary Get playlist
// @Tags playlists
// @Produce json
// @Param playlistId path string true "Playlist ID"
// @Success 200 {object} models.APIResponse{data=models.Playlist} "Playlist"
// @Failure 404 {object} models.APIResponse "Playlist not found"
// @Router /playlists/{playlistId} [get]
func (h *PlaylistHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	playlistID, ok := h.objectIDParam(w, r, "playlistId")
	if !ok {
		return
	}

	playlist, err := h.playlistService.GetByID(r.Context(), playlistID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, playlist, "playlist fetched successfully")
}

// Update handles PATCH /playlists/{playlistId}
// @Summary Update playlist
// @Description Change name and description of an own playlist. Requires authentication.
// @Tags playlists
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param playlistId path string true "Playlist ID"
// @Param request body models.PlaylistRequest true "Playlist"
// @Success 200 {object} models.APIResponse{data=models.Playlist} "Playlist updated"
// @Failure 403 {object} models.APIResponse "Not the owner"
// @Failure 404 {object} models.APIResponse "Playlist not found"
// @Router /playlists/{playlistId} [patch]
func (h *PlaylistHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}
	playlistID, ok := h.objectIDParam(w, r, "playlistId")
	if !ok {
		return
	}
	var req models.PlaylistRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	playlist, err := h.playlistService.Update(r.Context(), playlistID, userID, req)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, playlist, "playlist updated successfully")
}

// Delete handles DELETE /playlists/{playlistId}
// @Summary Delete playlist
// @Description Delete an own playlist. Requires authentication.
// @Tags playlists
// @Produce json
// @Security ApiKeyAuth
// @Param playlistId path string true "Playlist ID"
// @Success 200 {object} models.APIResponse{data=models.Playlist} "Playlist deleted"
// @Failure 403 {object} models.APIResponse "Not the owner"
// @Failure 404 {object} models.APIResponse "Playlist not found"
// @Router /playlists/{playlistId} [delete]
func (h *PlaylistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}
	playlistID, ok := h.objectIDParam(w, r, "playlistId")
	if !ok {
		return
	}

	playlist, err := h.playlistService.Delete(r.Context(), playlistID, userID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, playlist, "playlist deleted successfully")
}

// AddVideo handles PATCH /playlists/add/{videoId}/{playlistId}
// @Summary Add video to playlist
// @Description Append a video to an own playlist. Requires authentication.
// @Tags playlists
// @Produce json
// @Security ApiKeyAuth
// @Param videoId path string true "Video ID"
// @Param playlistId path string true "Playlist ID"
// @Success 200 {object} models.APIResponse{data=models.Playlist} "Video added"
// @Failure 403 {object} models.APIResponse "Not the owner"
// @Failure 404 {object} models.APIResponse "Playlist not found"
// @Failure 409 {object} models.APIResponse "Video already in the playlist"
// @Router /playlists/add/{videoId}/{playlistId} [patch]
func (h *PlaylistHandler) AddVideo(w http.ResponseWriter, r *http.Request) {
	h.changeVideos(w, r, h.playlistService.AddVideo, "video added to the playlist")
}

// RemoveVideo handles PATCH /playlists/remove/{videoId}/{playlistId}
// @Summary Remove video from playlist
// @Description Remove a video from an own playlist. Requires authentication.
// @Tags playlists
// @Produce json
// @Security ApiKeyAuth
// @Param videoId path string true "Video ID"
// @Param playlistId path string true "Playlist ID"
// @Success 200 {object} models.APIResponse{data=models.Playlist} "Video removed"
// @Failure 403 {object} models.APIResponse "Not the owner"
// @Failure 404 {object} models.APIResponse "Playlist or video not found"
// @Router /playlists/remove/{videoId}/{playlistId} [patch]
func (h *PlaylistHandler) RemoveVideo(w http.ResponseWriter, r *http.Request) {
	h.changeVideos(w, r, h.playlistService.RemoveVideo, "video removed from the playlist")
}

type playlistVideoChange func(ctx context.Context, playlistID, videoID, requesterID primitive.ObjectID) (*models.Playlist, error)

func (h *PlaylistHandler) changeVideos(w http.ResponseWriter, r *http.Request, change playlistVideoChange, message string) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}
	videoID, ok := h.objectIDParam(w, r, "videoId")
	if !ok {
		return
	}
	playlistID, ok := h.objectIDParam(w, r, "playlistId")
	if !ok {
		return
	}

	playlist, err := change(r.Context(), playlistID, videoID, userID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, playlist, message)
}
