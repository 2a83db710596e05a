package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LikeTarget is the kind of resource a like points at; its value is the bson field name
type LikeTarget string

const (
	LikeTargetVideo   LikeTarget = "video"
	LikeTargetComment LikeTarget = "comment"
	LikeTargetTweet   LikeTarget = "tweet"
)

// Like represents a user's like of a video, a comment or a tweet.
// Exactly one of Video, Comment and Tweet is set.
type Like struct {
	ID        primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	Video     *primitive.ObjectID `json:"video,omitempty" bson:"video,omitempty"`
	Comment   *primitive.ObjectID `json:"comment,omitempty" bson:"comment,omitempty"`
	Tweet     *primitive.ObjectID `json:"tweet,omitempty" bson:"tweet,omitempty"`
	LikedBy   primitive.ObjectID  `json:"likedBy" bson:"likedBy"`
	CreatedAt time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// NewLike builds a like of the given target by a user
func NewLike(target LikeTarget, targetID, likedBy primitive.ObjectID) *Like {
	like := &Like{LikedBy: likedBy}
	id := targetID
	switch target {
	case LikeTargetVideo:
		like.Video = &id
	case LikeTargetComment:
		like.Comment = &id
	case LikeTargetTweet:
		like.Tweet = &id
	}
	return like
}

// LikeToggleResult is the outcome of a like toggle
type LikeToggleResult struct {
	Data      *Like `json:"data"`
	LikeCount int64 `json:"likeCount"`
	Liked     bool  `json:"liked"`
}

// LikedVideos lists the videos a user liked
type LikedVideos struct {
	Videos []Video `json:"videos"`
	Count  int     `json:"count"`
}
