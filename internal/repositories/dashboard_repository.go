package repositories

import (
	"context"
	"fmt"

	"github.com/videotube/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// dashboardRepository implements DashboardRepository and HealthRepository
type dashboardRepository struct {
	db *mongo.Database
}

// NewDashboardRepository creates a new dashboard repository
func NewDashboardRepository(db *mongo.Database) *dashboardRepository {
	return &dashboardRepository{db: db}
}

// countLookup joins the ids of the documents of from that reference the current video
func countLookup(from, as string) bson.D {
	return bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: from},
		{Key: "localField", Value: "_id"},
		{Key: "foreignField", Value: "video"},
		{Key: "as", Value: as},
		{Key: "pipeline", Value: mongo.Pipeline{
			{{Key: "$project", Value: bson.M{"_id": 1}}},
		}},
	}}}
}

// ChannelStats aggregates the counters of a channel and reads its profile
func (r *dashboardRepository) ChannelStats(ctx context.Context, owner primitive.ObjectID) (*models.ChannelStats, error) {
	var user models.User
	err := r.db.Collection(usersCollection).
		FindOne(ctx, bson.M{"_id": owner}, options.FindOne().SetProjection(bson.M{"username": 1, "avatar": 1, "coverImage": 1})).
		Decode(&user)
	if err != nil {
		return nil, fmt.Errorf("failed to get channel: %w", translate(err))
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"owner": owner}}},
		countLookup(likesCollection, "likes"),
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "totalVideos", Value: bson.M{"$sum": 1}},
			{Key: "totalViews", Value: bson.M{"$sum": "$views"}},
			{Key: "totalLikes", Value: bson.M{"$sum": bson.M{"$size": "$likes"}}},
		}}},
	}

	cursor, err := r.db.Collection(videosCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate channel stats: %w", err)
	}

	var totals []models.ChannelStats
	if err := cursor.All(ctx, &totals); err != nil {
		return nil, fmt.Errorf("failed to decode channel stats: %w", err)
	}

	stats := &models.ChannelStats{}
	// A channel without videos yields no group
	if len(totals) > 0 {
		stats = &totals[0]
	}

	subscribers, err := r.db.Collection(subscriptionsCollection).CountDocuments(ctx, bson.M{"channel": owner})
	if err != nil {
		return nil, fmt.Errorf("failed to count subscribers: %w", err)
	}

	stats.TotalSubscribers = subscribers
	stats.Username = user.Username
	stats.Avatar = user.Avatar
	stats.CoverImage = user.CoverImage
	return stats, nil
}

// ChannelVideos returns every video of a channel with like and comment counts, newest first
func (r *dashboardRepository) ChannelVideos(ctx context.Context, owner primitive.ObjectID) ([]models.ChannelVideo, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"owner": owner}}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		countLookup(likesCollection, "likes"),
		countLookup(commentsCollection, "comments"),
		{{Key: "$addFields", Value: bson.M{
			"likeCount":    bson.M{"$size": "$likes"},
			"commentCount": bson.M{"$size": "$comments"},
		}}},
		{{Key: "$project", Value: bson.M{"likes": 0, "comments": 0}}},
	}

	cursor, err := r.db.Collection(videosCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to list channel videos: %w", err)
	}

	videos := []models.ChannelVideo{}
	if err := cursor.All(ctx, &videos); err != nil {
		return nil, fmt.Errorf("failed to decode channel videos: %w", err)
	}
	return videos, nil
}

// Ping checks that the primary is reachable
func (r *dashboardRepository) Ping(ctx context.Context) error {
	if err := r.db.Client().Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}
