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

// subscriptionRepository implements SubscriptionRepository
type subscriptionRepository struct {
	coll *mongo.Collection
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *mongo.Database) *subscriptionRepository {
	return &subscriptionRepository{coll: db.Collection(subscriptionsCollection)}
}

// Create inserts a new subscription, assigning its id and timestamps
func (r *subscriptionRepository) Create(ctx context.Context, sub *models.Subscription) error {
	now := time.Now().UTC()
	sub.ID = primitive.NewObjectID()
	sub.CreatedAt = now
	sub.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, sub); err != nil {
		return fmt.Errorf("failed to create subscription: %w", translate(err))
	}
	return nil
}

// DeleteByPair removes the subscription of subscriber to channel and returns it
func (r *subscriptionRepository) DeleteByPair(ctx context.Context, subscriber, channel primitive.ObjectID) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.coll.FindOneAndDelete(ctx, bson.M{"subscriber": subscriber, "channel": channel}).Decode(&sub)
	if err != nil {
		return nil, fmt.Errorf("failed to delete subscription: %w", translate(err))
	}
	return &sub, nil
}

// CountByChannel counts the subscribers of a channel
func (r *subscriptionRepository) CountByChannel(ctx context.Context, channel primitive.ObjectID) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"channel": channel})
	if err != nil {
		return 0, fmt.Errorf("failed to count subscribers: %w", err)
	}
	return count, nil
}

// Subscribers returns the profiles of the users subscribed to channel
func (r *subscriptionRepository) Subscribers(ctx context.Context, channel primitive.ObjectID) ([]models.OwnerSummary, error) {
	return r.profiles(ctx, bson.M{"channel": channel}, "subscriber")
}

// Channels returns the profiles of the channels subscriber is subscribed to
func (r *subscriptionRepository) Channels(ctx context.Context, subscriber primitive.ObjectID) ([]models.OwnerSummary, error) {
	return r.profiles(ctx, bson.M{"subscriber": subscriber}, "channel")
}

// profiles joins the user referenced by field for every matching subscription
func (r *subscriptionRepository) profiles(ctx context.Context, match bson.M, field string) ([]models.OwnerSummary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		ownerLookup(field, field),
		unwind(field, false),
		{{Key: "$replaceRoot", Value: bson.M{"newRoot": "$" + field}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to list %ss: %w", field, err)
	}

	users := []models.OwnerSummary{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode %ss: %w", field, err)
	}
	return users, nil
}
