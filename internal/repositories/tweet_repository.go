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

// tweetRepository implements TweetRepository
type tweetRepository struct {
	coll *mongo.Collection
}

// NewTweetRepository creates a new tweet repository
func NewTweetRepository(db *mongo.Database) *tweetRepository {
	return &tweetRepository{coll: db.Collection(tweetsCollection)}
}

// Create inserts a new tweet, assigning its id and timestamps
func (r *tweetRepository) Create(ctx context.Context, tweet *models.Tweet) error {
	now := time.Now().UTC()
	tweet.ID = primitive.NewObjectID()
	tweet.CreatedAt = now
	tweet.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, tweet); err != nil {
		return fmt.Errorf("failed to create tweet: %w", translate(err))
	}
	return nil
}

// ListByOwner returns every tweet of a user, newest first
func (r *tweetRepository) ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Tweet, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := r.coll.Find(ctx, bson.M{"owner": owner}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list tweets: %w", err)
	}

	tweets := []models.Tweet{}
	if err := cursor.All(ctx, &tweets); err != nil {
		return nil, fmt.Errorf("failed to decode tweets: %w", err)
	}
	return tweets, nil
}

// UpdateByOwner changes the content of a tweet posted by owner
func (r *tweetRepository) UpdateByOwner(ctx context.Context, id, owner primitive.ObjectID, content string) (*models.Tweet, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{"content": content, "updatedAt": time.Now().UTC()}}

	var tweet models.Tweet
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id, "owner": owner}, update, opts).Decode(&tweet)
	if err != nil {
		return nil, fmt.Errorf("failed to update tweet: %w", translate(err))
	}
	return &tweet, nil
}

// DeleteByOwner deletes a tweet posted by owner
func (r *tweetRepository) DeleteByOwner(ctx context.Context, id, owner primitive.ObjectID) (*models.Tweet, error) {
	var tweet models.Tweet
	if err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": id, "owner": owner}).Decode(&tweet); err != nil {
		return nil, fmt.Errorf("failed to delete tweet: %w", translate(err))
	}
	return &tweet, nil
}
