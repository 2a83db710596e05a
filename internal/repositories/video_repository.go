package repositories

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/videotube/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// videoRepository implements VideoRepository
type videoRepository struct {
	coll *mongo.Collection
}

// NewVideoRepository creates a new video repository
func NewVideoRepository(db *mongo.Database) *videoRepository {
	return &videoRepository{coll: db.Collection(videosCollection)}
}

// Create inserts a new video, assigning its id and timestamps
func (r *videoRepository) Create(ctx context.Context, video *models.Video) error {
	now := time.Now().UTC()
	video.ID = primitive.NewObjectID()
	video.CreatedAt = now
	video.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, video); err != nil {
		return fmt.Errorf("failed to create video: %w", translate(err))
	}
	return nil
}

// GetByID retrieves a video by id
func (r *videoRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Video, error) {
	var video models.Video
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&video); err != nil {
		return nil, fmt.Errorf("failed to get video: %w", translate(err))
	}
	return &video, nil
}

// GetWithOwner retrieves a video joined with its owner's profile
func (r *videoRepository) GetWithOwner(ctx context.Context, id primitive.ObjectID) (*models.VideoWithOwner, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": id}}},
		{{Key: "$limit", Value: 1}},
		ownerLookup("owner", "ownerDetails"),
		unwind("ownerDetails", true),
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to get video: %w", err)
	}

	var videos []models.VideoWithOwner
	if err := cursor.All(ctx, &videos); err != nil {
		return nil, fmt.Errorf("failed to decode video: %w", err)
	}
	if len(videos) == 0 {
		return nil, fmt.Errorf("failed to get video: %w", ErrNotFound)
	}
	return &videos[0], nil
}

// List returns one page of published videos and the total number of matches
func (r *videoRepository) List(ctx context.Context, q models.ListVideosQuery) ([]models.VideoWithOwner, int64, error) {
	match := bson.M{"isPublished": true}
	if q.Query != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(q.Query), Options: "i"}
		match["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
		}
	}
	if q.OwnerID != nil {
		match["owner"] = *q.OwnerID
	}

	direction := 1
	if q.SortDesc {
		direction = -1
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		// _id breaks ties so pages do not overlap
		{{Key: "$sort", Value: bson.D{{Key: q.SortBy, Value: direction}, {Key: "_id", Value: direction}}}},
	}
	pipeline = append(pipeline, page(q.Page, q.Limit)...)
	pipeline = append(pipeline, ownerLookup("owner", "ownerDetails"), unwind("ownerDetails", true))

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list videos: %w", err)
	}

	videos := []models.VideoWithOwner{}
	if err := cursor.All(ctx, &videos); err != nil {
		return nil, 0, fmt.Errorf("failed to decode videos: %w", err)
	}

	total, err := r.coll.CountDocuments(ctx, match)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count videos: %w", err)
	}

	return videos, total, nil
}

// UpdateDetails sets title, description and thumbnail and returns the updated video
func (r *videoRepository) UpdateDetails(ctx context.Context, id primitive.ObjectID, title, description, thumbnail string) (*models.Video, error) {
	update := bson.M{"$set": bson.M{
		"title":       title,
		"description": description,
		"thumbnail":   thumbnail,
		"updatedAt":   time.Now().UTC(),
	}}
	return r.findOneAndUpdate(ctx, bson.M{"_id": id}, update)
}

// UpdateThumbnail sets the thumbnail URL and returns the updated video
func (r *videoRepository) UpdateThumbnail(ctx context.Context, id primitive.ObjectID, thumbnail string) (*models.Video, error) {
	update := bson.M{"$set": bson.M{"thumbnail": thumbnail, "updatedAt": time.Now().UTC()}}
	return r.findOneAndUpdate(ctx, bson.M{"_id": id}, update)
}

// SetPublished sets the publication flag and returns the updated video
func (r *videoRepository) SetPublished(ctx context.Context, id primitive.ObjectID, published bool) (*models.Video, error) {
	update := bson.M{"$set": bson.M{"isPublished": published, "updatedAt": time.Now().UTC()}}
	return r.findOneAndUpdate(ctx, bson.M{"_id": id}, update)
}

// DeleteByOwner deletes the video only if it belongs to owner and returns the deleted document
func (r *videoRepository) DeleteByOwner(ctx context.Context, id, owner primitive.ObjectID) (*models.Video, error) {
	var video models.Video
	err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": id, "owner": owner}).Decode(&video)
	if err != nil {
		return nil, fmt.Errorf("failed to delete video: %w", translate(err))
	}
	return &video, nil
}

func (r *videoRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*models.Video, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var video models.Video
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&video); err != nil {
		return nil, fmt.Errorf("failed to update video: %w", translate(err))
	}
	return &video, nil
}
