package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/videotube/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// VideoService is the interface that wraps methods for video business logic.
type VideoService interface {
	// Method Publish uploads the video file and the thumbnail to the media store and saves the video record.
	//
	// The record is saved only after both uploads succeed.
	// If the thumbnail upload or the save fails, the uploaded assets are deleted again
	// and the error is returned together with "nil" value.
	Publish(ctx context.Context, req models.PublishVideoRequest) (*models.Video, error)
	// Method Update changes title and description of a video and replaces its thumbnail.
	//
	// Only the owner may update a video. The previous thumbnail is deleted after the record is saved.
	Update(ctx context.Context, req models.UpdateVideoRequest) (*models.Video, error)
	// Method ReplaceThumbnail uploads a new thumbnail for a video and deletes the previous one.
	//
	// Please reference Update method for ownership and cleanup rules.
	ReplaceThumbnail(ctx context.Context, videoID primitive.ObjectID, localPath string, requesterID primitive.ObjectID) (*models.Video, error)
	// Method Delete removes a video owned by the requester together with its remote assets.
	//
	// A video that does not exist or is not owned by the requester is reported as not found.
	Delete(ctx context.Context, videoID, requesterID primitive.ObjectID) (*models.Video, error)
	// Method TogglePublish flips the published flag of a video owned by the requester.
	TogglePublish(ctx context.Context, videoID, requesterID primitive.ObjectID) (*models.Video, error)
	// Method GetByID retrieve a video with a summary of its owner.
	GetByID(ctx context.Context, videoID primitive.ObjectID) (*models.VideoWithOwner, error)
	// Method List retrieve one page of published videos.
	//
	// "q" configures search, owner filter, sorting and paging. Zero page and limit fall back to defaults.
	List(ctx context.Context, q models.ListVideosQuery) (*models.VideoPage, error)
}

// VideoHandler handles HTTP requests for videos
type VideoHandler struct {
	BaseHandler
	videoService VideoService
	tempDir      string
}

// NewVideoHandler creates a new video handler
func NewVideoHandler(svc VideoService, tempDir string, logger *zap.Logger) *VideoHandler {
	return &VideoHandler{
		BaseHandler:  BaseHandler{logger: logger},
		videoService: svc,
		tempDir:      tempDir,
	}
}

// RegisterRoutes registers all video handler routes
func (h *VideoHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/videos", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{videoId}", h.GetByID)
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/", h.Publish)
			r.Patch("/{videoId}", h.Update)
			r.Patch("/{videoId}/thumbnail", h.ReplaceThumbnail)
			r.Delete("/{videoId}", h.Delete)
			r.Patch("/toggle/publish/{videoId}", h.TogglePublish)
		})
	})
}

// List handles GET /videos
// @Summary List videos
// @Description Get one page of published videos with their owners
// @Tags videos
// @Produce json
// @Param page query int false "Page number, default: 1"
// @Param limit query int false "Page size, default: 10, max: 100"
// @Param query query string false "Case-insensitive search in title and description"
// @Param sortBy query string false "createdAt, views, duration or title, default: createdAt"
// @Param sortType query string false "asc or desc, default: desc"
// @Param userId query string false "Owner filter"
// @Success 200 {object} models.APIResponse{data=models.VideoPage} "Videos"
// @Failure 400 {object} models.APIResponse "Invalid parameters"
// @Failure 500 {object} models.APIResponse "Internal server error"
// @Router /videos [get]
func (h *VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := models.ListVideosQuery{
		Page:     queryInt(r, "page"),
		Limit:    queryInt(r, "limit"),
		Query:    query.Get("query"),
		SortBy:   query.Get("sortBy"),
		SortDesc: query.Get("sortType") != "asc",
	}

	if userID := query.Get("userId"); userID != "" {
		ownerID, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "invalid userId")
			return
		}
		q.OwnerID = &ownerID
	}

	page, err := h.videoService.List(r.Context(), q)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, page, "videos fetched successfully")
}

// GetByID handles GET /videos/{videoId}
// @Summary Get video
// @Description Get a video with a summary of its owner
// @Tags videos
// @Produce json
// @Param videoId path string true "Video ID"
// @Success 200 {object} models.APIResponse{data=models.VideoWithOwner} "Video"
// @Failure 400 {object} models.APIResponse "Invalid video ID"
// @Failure 404 {object} models.APIResponse "Video not found"
// @Router /videos/{videoId} [get]
func (h *VideoHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	videoID, ok := h.objectIDParam(w, r, "videoId")
	if !ok {
		return
	}

	video, err := h.videoService.GetByID(r.Context(), videoID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, video, "video fetched successfully")
}

// Publish handles POST /videos
// @Summary Publish video
// @Description Upload a video file and its thumbnail and create the video. Requires authentication.
// @Tags videos
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param title formData string true "Title"
// @Param description formData string true "Description"
// @Param videoFile formData file true "Video file"
// @Param thumbnail formData file true "Thumbnail image"
// @Success 201 {object} models.APIResponse{data=models.Video} "Video published"
// @Failure 400 {object} models.APIResponse "Missing fields or files"
// @Failure 401 {object} models.APIResponse "Unauthorized"
// @Failure 500 {object} models.APIResponse "Upload or persistence failure"
// @Router /videos [post]
func (h *VideoHandler) Publish(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}

	intake := newUploadIntake(h.tempDir, h.logger)
	defer intake.cleanup(r)

	if err := intake.parse(r); err != nil {
		h.logger.Error("failed to parse publish form", zap.Error(err))
		h.respondError(w, http.StatusBadRequest, "failed to parse request")
		return
	}

	req := models.PublishVideoRequest{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		OwnerID:     userID,
	}

	var err error
	if req.VideoPath, err = intake.save(r, "videoFile"); err != nil {
		h.logger.Error("failed to save video file", zap.Error(err))
		h.respondError(w, http.StatusBadRequest, "failed to process video file")
		return
	}
	if req.ThumbnailPath, err = intake.save(r, "thumbnail"); err != nil {
		h.logger.Error("failed to save thumbnail", zap.Error(err))
		h.respondError(w, http.StatusBadRequest, "failed to process thumbnail")
		return
	}

	video, err := h.videoService.Publish(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, video, "video published successfully")
}

// Update handles PATCH /videos/{videoId}
// @Summary Update video
// @Description Change title and description and replace the thumbnail. Only the owner may update. Requires authentication.
// @Tags videos
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param videoId path string true "Video ID"
// @Param title formData string true "Title"
// @Param description formData string true "Description"
// @Param thumbnail formData file true "New thumbnail image"
// @Success 200 {object} models.APIResponse{data=models.Video} "Video updated"
// @Failure 400 {object} models.APIResponse "Missing fields or thumbnail"
// @Failure 403 {object} models.APIResponse "Not the owner"
// @Failure 404 {object} models.APIResponse "Video not found"
// @Failure 500 {object} models.APIResponse "Upload or persistence failure"
// @Router /videos/{videoId} [patch]
func (h *VideoHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}
	videoID, ok := h.objectIDParam(w, r, "videoId")
	if !ok {
		return
	}

	intake := newUploadIntake(h.tempDir, h.logger)
	defer intake.cleanup(r)

	if err := intake.parse(r); err != nil {
		h.logger.Error("failed to parse update form", zap.Error(err))
		h.respondError(w, http.StatusBadRequest, "failed to parse request")
		return
	}

	thumbnailPath, err := intake.save(r, "thumbnail")
	if err != nil {
		h.logger.Error("failed to save thumbnail", zap.Error(err))
		h.respondError(w, http.StatusBadRequest, "failed to process thumbnail")
		return
	}

	video, err := h.videoService.Update(r.Context(), models.UpdateVideoRequest{
		VideoID:       videoID,
		RequesterID:   userID,
		Title:         r.FormValue("title"),
		Description:   r.FormValue("description"),
		ThumbnailPath: thumbnailPath,
	})
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, video, "video updated successfully")
}

// ReplaceThumbnail handles PATCH /videos/{videoId}/thumbnail
// @Summary Replace thumbnail
// @Description Upload a new thumbnail and delete the previous one. Only the owner may replace it. Requires authentication.
// @Tags videos
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param videoId path string true "Video ID"
// @Param thumbnail formData file true "New thumbnail image"
// @Success 200 {object} models.APIResponse{data=models.Video} "Thumbnail replaced"
// @Failure 400 {object} models.APIResponse "Missing thumbnail"
// @Failure 403 {object} models.APIResponse "Not the owner"
// @Failure 404 {object} models.APIResponse "Video not found"
// @Failure 500 {object} models.APIResponse "Upload or persistence failure"
// @Router /videos/{videoId}/thumbnail [patch]
func (h *VideoHandler) ReplaceThumbnail(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}
	videoID, ok := h.objectIDParam(w, r, "videoId")
	if !ok {
		return
	}

	intake := newUploadIntake(h.tempDir, h.logger)
	defer intake.cleanup(r)

	if err := intake.parse(r); err != nil {
		h.logger.Error("failed to parse thumbnail form", zap.Error(err))
		h.respondError(w, http.StatusBadRequest, "failed to parse request")
		return
	}

	thumbnailPath, err := intake.save(r, "thumbnail")
	if err != nil {
		h.logger.Error("failed to save thumbnail", zap.Error(err))
		h.respondError(w, http.StatusBadRequest, "failed to process thumbnail")
		return
	}

	video, err := h.videoService.ReplaceThumbnail(r.Context(), videoID, thumbnailPath, userID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, video, "thumbnail updated successfully")
}

// Delete handles DELETE /videos/{videoId}
// @Summary Delete video
// @Description Delete a video owned by the requester and its remote assets. Requires authentication.
// @Tags videos
// @Produce json
// @Security ApiKeyAuth
// @Param videoId path string true "Video ID"
// @Success 200 {object} models.APIResponse{data=models.Video} "Video deleted"
// @Failure 400 {object} models.APIResponse "Invalid video ID"
// @Failure 404 {object} models.APIResponse "Video not found"
// @Router /videos/{videoId} [delete]
func (h *VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}
	videoID, ok := h.objectIDParam(w, r, "videoId")
	if !ok {
		return
	}

	video, err := h.videoService.Delete(r.Context(), videoID, userID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, video, "video deleted successfully")
}

// TogglePublish handles PATCH /videos/toggle/publish/{videoId}
// @Summary Toggle publish status
// @Description Flip the published flag of a video owned by the requester. Requires authentication.
// @Tags videos
// @Produce json
// @Security ApiKeyAuth
// @Param videoId path string true "Video ID"
// @Success 200 {object} models.APIResponse{data=models.Video} "Publish status toggled"
// @Failure 403 {object} models.APIResponse "Not the owner"
// @Failure 404 {object} models.APIResponse "Video not found"
// @Router /videos/toggle/publish/{videoId} [patch]
func (h *VideoHandler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}
	videoID, ok := h.objectIDParam(w, r, "videoId")
	if !ok {
		return
	}

	video, err := h.videoService.TogglePublish(r.Context(), videoID, userID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, video, "publish status toggled successfully")
}
