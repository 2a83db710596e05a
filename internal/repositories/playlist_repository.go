package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/videotube/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// playlistRepository implements PlaylistRepository
type playlistRepository struct {
	coll *mongo.Collection
}

// NewPlaylistRepository creates a new playlist repository
func NewPlaylistRepository(db *mongo.Database) *playlistRepository {
	return &playlistRepository{coll: db.Collection(playlistsCollection)}
}

// Create inserts a new playlist, assigning its id and timestamps
func (r *playlistRepository) Create(ctx context.Context, playlist *models.Playlist) error {
	now := time.Now().UTC()
	playlist.ID = primitive.NewObjectID()
	playlist.CreatedAt = now
	playlist.UpdatedAt = now
	if playlist.Videos == nil {
		playlist.Videos = []primitive.ObjectID{}
	}

	if _, err := r.coll.InsertOne(ctx, playlist); err != nil {
		return fmt.Errorf("failed to create playlist: %w", translate(err))
	}
	return nil
}

// GetByID retrieves a playlist by id
func (r *playlistRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Playlist, error) {
	var playlist models.Playlist
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&playlist); err != nil {
		return nil, fmt.Errorf("failed to get playlist: %w", translate(err))
	}
	return &playlist, nil
}

// ListByOwner returns the playlists of a user, newest first
func (r *playlistRepository) ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Playlist, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.coll.Find(ctx, bson.M{"owner": owner}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}

	playlists := []models.Playlist{}
	if err := cursor.All(ctx, &playlists); err != nil {
		return nil, fmt.Errorf("failed to decode playlists: %w", err)
	}
	return playlists, nil
}

// UpdateDetails sets name and description
func (r *playlistRepository) UpdateDetails(ctx context.Context, id primitive.ObjectID, name, description string) (*models.Playlist, error) {
	update := bson.M{"$set": bson.M{"name": name, "description": description, "updatedAt": time.Now().UTC()}}
	return r.findOneAndUpdate(ctx, bson.M{"_id": id}, update)
}

// AddVideo appends a video that is not yet in the playlist.
// ErrNotFound means the playlist is gone or already holds the video.
func (r *playlistRepository) AddVideo(ctx context.Context, id, videoID primitive.ObjectID) (*models.Playlist, error) {
	filter := bson.M{"_id": id, "videos": bson.M{"$ne": videoID}}
	update := bson.M{
		"$push": bson.M{"videos": videoID},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	return r.findOneAndUpdate(ctx, filter, update)
}

// RemoveVideo removes a video from the playlist.
// ErrNotFound means the playlist is gone or does not hold the video.
func (r *playlistRepository) RemoveVideo(ctx context.Context, id, videoID primitive.ObjectID) (*models.Playlist, error) {
	filter := bson.M{"_id": id, "videos": videoID}
	update := bson.M{
		"$pull": bson.M{"videos": videoID},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	return r.findOneAndUpdate(ctx, filter, update)
}

// Delete removes a playlist
func (r *playlistRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("failed to delete playlist: %w", ErrNotFound)
	}
	return nil
}

func (r *playlistRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*models.Playlist, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var playlist models.Playlist
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&playlist); err != nil {
		return nil, fmt.Errorf("failed to update playlist: %w", translate(err))
	}
	return &playlist, nil
}
