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

// commentRepository implements CommentRepository
type commentRepository struct {
	coll *mongo.Collection
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *mongo.Database) *commentRepository {
	return &commentRepository{coll: db.Collection(commentsCollection)}
}

// Create inserts a new comment, assigning its id and timestamps
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	now := time.Now().UTC()
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, comment); err != nil {
		return fmt.Errorf("failed to create comment: %w", translate(err))
	}
	return nil
}

// ListByVideo returns one page of a video's comments, newest first, with the total count
func (r *commentRepository) ListByVideo(ctx context.Context, videoID primitive.ObjectID, pageNumber, limit int) ([]models.CommentView, int64, error) {
	match := bson.M{"video": videoID}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}}},
	}
	pipeline = append(pipeline, page(pageNumber, limit)...)
	pipeline = append(pipeline,
		ownerLookup("owner", "owner"),
		unwind("owner", false),
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "content", Value: 1},
			{Key: "owner", Value: 1},
			{Key: "createdAt", Value: 1},
			{Key: "updatedAt", Value: 1},
		}}},
	)

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list comments: %w", err)
	}

	comments := []models.CommentView{}
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, 0, fmt.Errorf("failed to decode comments: %w", err)
	}

	total, err := r.coll.CountDocuments(ctx, match)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count comments: %w", err)
	}

	return comments, total, nil
}

// UpdateByOwner changes the content of a comment written by owner
func (r *commentRepository) UpdateByOwner(ctx context.Context, id, owner primitive.ObjectID, content string) (*models.Comment, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{"content": content, "updatedAt": time.Now().UTC()}}

	var comment models.Comment
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id, "owner": owner}, update, opts).Decode(&comment)
	if err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", translate(err))
	}
	return &comment, nil
}

// DeleteByOwner deletes a comment written by owner
func (r *commentRepository) DeleteByOwner(ctx context.Context, id, owner primitive.ObjectID) (*models.Comment, error) {
	var comment models.Comment
	err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": id, "owner": owner}).Decode(&comment)
	if err != nil {
		return nil, fmt.Errorf("failed to delete comment: %w", translate(err))
	}
	return &comment, nil
}
