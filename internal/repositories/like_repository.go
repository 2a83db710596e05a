package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/videotube/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// likeRepository implements LikeRepository
type likeRepository struct {
	coll *mongo.Collection
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(db *mongo.Database) *likeRepository {
	return &likeRepository{coll: db.Collection(likesCollection)}
}

// Create inserts a new like, assigning its id and timestamps
func (r *likeRepository) Create(ctx context.Context, like *models.Like) error {
	now := time.Now().UTC()
	like.ID = primitive.NewObjectID()
	like.CreatedAt = now
	like.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, like); err != nil {
		return fmt.Errorf("failed to create like: %w", translate(err))
	}
	return nil
}

// DeleteByTarget removes the like of target by likedBy and returns it
func (r *likeRepository) DeleteByTarget(ctx context.Context, target models.LikeTarget, targetID, likedBy primitive.ObjectID) (*models.Like, error) {
	filter := bson.M{string(target): targetID, "likedBy": likedBy}

	var like models.Like
	if err := r.coll.FindOneAndDelete(ctx, filter).Decode(&like); err != nil {
		return nil, fmt.Errorf("failed to delete like: %w", translate(err))
	}
	return &like, nil
}

// CountByTarget counts the likes of a target
func (r *likeRepository) CountByTarget(ctx context.Context, target models.LikeTarget, targetID primitive.ObjectID) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{string(target): targetID})
	if err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}
	return count, nil
}

// LikedVideos returns the videos liked by a user, most recent like first
func (r *likeRepository) LikedVideos(ctx context.Context, likedBy primitive.ObjectID) ([]models.Video, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"likedBy": likedBy, "video": bson.M{"$exists": true}}}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: videosCollection},
			{Key: "localField", Value: "video"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "video"},
		}}},
		unwind("video", false),
		{{Key: "$replaceRoot", Value: bson.M{"newRoot": "$video"}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to list liked videos: %w", err)
	}

	videos := []models.Video{}
	if err := cursor.All(ctx, &videos); err != nil {
		return nil, fmt.Errorf("failed to decode liked videos: %w", err)
	}
	return videos, nil
}
