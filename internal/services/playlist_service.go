package services

import (
	"context"
	"errors"
	"strings"

	"github.com/videotube/backend/internal/apperror"
	"github.com/videotube/backend/internal/models"
	"github.com/videotube/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// PlaylistRepository is the interface that wraps methods for playlists collection data access
type PlaylistRepository interface {
	// Method Create inserts "playlist" and fills its ID and timestamps.
	Create(ctx context.Context, playlist *models.Playlist) error
	// Method GetByID retrieves a playlist by ID.
	//
	// repositories.ErrNotFound is returned (wrapped) if no playlist has this ID.
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Playlist, error)
	// Method ListByOwner retrieves the playlists of a user, newest first.
	ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Playlist, error)
	// Method UpdateDetails sets name and description of a playlist.
	UpdateDetails(ctx context.Context, id primitive.ObjectID, name, description string) (*models.Playlist, error)
	// Method AddVideo appends a video to a playlist.
	//
	// repositories.ErrNotFound is returned (wrapped) if the playlist is absent or already holds the video.
	AddVideo(ctx context.Context, id, videoID primitive.ObjectID) (*models.Playlist, error)
	// Method RemoveVideo removes a video from a playlist.
	//
	// repositories.ErrNotFound is returned (wrapped) if the playlist is absent or does not hold the video.
	RemoveVideo(ctx context.Context, id, videoID primitive.ObjectID) (*models.Playlist, error)
	// Method Delete removes a playlist.
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type playlistService struct {
	repo   PlaylistRepository
	logger *zap.Logger
}

// NewPlaylistService creates a new playlist service
func NewPlaylistService(repo PlaylistRepository, logger *zap.Logger) *playlistService {
	return &playlistService{
		repo:   repo,
		logger: logger,
	}
}

// Create creates an empty playlist of the requester
func (s *playlistService) Create(ctx context.Context, owner primitive.ObjectID, req models.PlaylistRequest) (*models.Playlist, error) {
	name, description, err := playlistFields(req)
	if err != nil {
		return nil, err
	}

	playlist := &models.Playlist{Name: name, Description: description, Owner: owner}
	if err := s.repo.Create(ctx, playlist); err != nil {
		return nil, apperror.Persistence("failed to create playlist", err)
	}
	return playlist, nil
}

// ListByUser retrieves the playlists of a user
func (s *playlistService) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Playlist, error) {
	playlists, err := s.repo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, apperror.Internal("internal server error", err)
	}
	return playlists, nil
}

// GetByID retrieves a playlist
func (s *playlistService) GetByID(ctx context.Context, playlistID primitive.ObjectID) (*models.Playlist, error) {
	playlist, err := s.repo.GetByID(ctx, playlistID)
	if err != nil {
		return nil, readError(err, "playlist not found")
	}
	return playlist, nil
}

// Update renames a playlist of the requester
func (s *playlistService) Update(ctx context.Context, playlistID, requesterID primitive.ObjectID, req models.PlaylistRequest) (*models.Playlist, error) {
	name, description, err := playlistFields(req)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedPlaylist(ctx, playlistID, requesterID); err != nil {
		return nil, err
	}

	playlist, err := s.repo.UpdateDetails(ctx, playlistID, name, description)
	if err != nil {
		return nil, writeError(err, "playlist not found", "failed to update playlist")
	}
	return playlist, nil
}

// Delete removes a playlist of the requester
func (s *playlistService) Delete(ctx context.Context, playlistID, requesterID primitive.ObjectID) (*models.Playlist, error) {
	playlist, err := s.ownedPlaylist(ctx, playlistID, requesterID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, playlistID); err != nil {
		return nil, writeError(err, "playlist not found", "failed to delete playlist")
	}
	return playlist, nil
}

// AddVideo appends a video to a playlist of the requester.
// A video already in the playlist is a conflict.
func (s *playlistService) AddVideo(ctx context.Context, playlistID, videoID, requesterID primitive.ObjectID) (*models.Playlist, error) {
	if _, err := s.ownedPlaylist(ctx, playlistID, requesterID); err != nil {
		return nil, err
	}

	playlist, err := s.repo.AddVideo(ctx, playlistID, videoID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperror.Conflict("video is already in the playlist")
		}
		return nil, apperror.Persistence("failed to add video to playlist", err)
	}
	return playlist, nil
}

// RemoveVideo removes a video from a playlist of the requester
func (s *playlistService) RemoveVideo(ctx context.Context, playlistID, videoID, requesterID primitive.ObjectID) (*models.Playlist, error) {
	if _, err := s.ownedPlaylist(ctx, playlistID, requesterID); err != nil {
		return nil, err
	}

	playlist, err := s.repo.RemoveVideo(ctx, playlistID, videoID)
	if err != nil {
		return nil, writeError(err, "video not found in the playlist", "failed to remove video from playlist")
	}
	return playlist, nil
}

// ownedPlaylist loads a playlist and checks that requesterID owns it
func (s *playlistService) ownedPlaylist(ctx context.Context, playlistID, requesterID primitive.ObjectID) (*models.Playlist, error) {
	playlist, err := s.repo.GetByID(ctx, playlistID)
	if err != nil {
		return nil, readError(err, "playlist not found")
	}
	if playlist.Owner != requesterID {
		return nil, apperror.Authorization("you are not allowed to modify this playlist")
	}
	return playlist, nil
}

func playlistFields(req models.PlaylistRequest) (string, string, error) {
	name := strings.TrimSpace(req.Name)
	description := strings.TrimSpace(req.Description)
	if name == "" || description == "" {
		return "", "", apperror.Validation("name and description are required")
	}
	return name, description, nil
}
