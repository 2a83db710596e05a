package models

// ChannelStats aggregates a channel's counters and profile fields
type ChannelStats struct {
	TotalVideos      int64  `json:"totalVideos" bson:"totalVideos"`
	TotalViews       int64  `json:"totalViews" bson:"totalViews"`
	TotalLikes       int64  `json:"totalLikes" bson:"totalLikes"`
	TotalSubscribers int64  `json:"totalSubscribers" bson:"totalSubscribers"`
	Username         string `json:"username" bson:"username"`
	Avatar           string `json:"avatar" bson:"avatar"`
	CoverImage       string `json:"coverImage" bson:"coverImage"`
}

// ChannelVideo is one of the channel owner's videos with engagement counters
type ChannelVideo struct {
	Video        `bson:",inline"`
	LikeCount    int64 `json:"likeCount" bson:"likeCount"`
	CommentCount int64 `json:"commentCount" bson:"commentCount"`
}

// HealthStatus reports dependency health
type HealthStatus struct {
	Database string `json:"database"`
}
