package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Video represents a published (or unpublished) video record.
// VideoFile and Thumbnail are media store URLs.
type Video struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	VideoFile   string             `json:"videoFile" bson:"videoFile"`
	Thumbnail   string             `json:"thumbnail" bson:"thumbnail"`
	Owner       primitive.ObjectID `json:"owner" bson:"owner"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description" bson:"description"`
	Duration    float64            `json:"duration" bson:"duration"` // seconds
	Views       int64              `json:"views" bson:"views"`
	IsPublished bool               `json:"isPublished" bson:"isPublished"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// VideoWithOwner is a video joined with its owner's public profile
type VideoWithOwner struct {
	Video        `bson:",inline"`
	OwnerDetails *OwnerSummary `json:"ownerDetails" bson:"ownerDetails,omitempty"`
}

// PublishVideoRequest carries the inputs of a publish.
// VideoPath and ThumbnailPath point at local temp files.
type PublishVideoRequest struct {
	Title         string
	Description   string
	VideoPath     string
	ThumbnailPath string
	OwnerID       primitive.ObjectID
}

// UpdateVideoRequest carries a metadata edit with thumbnail replacement
type UpdateVideoRequest struct {
	VideoID       primitive.ObjectID
	RequesterID   primitive.ObjectID
	Title         string
	Description   string
	ThumbnailPath string
}

// Video sort fields
const (
	SortByCreatedAt = "createdAt"
	SortByViews     = "views"
	SortByDuration  = "duration"
	SortByTitle     = "title"
)

// ListVideosQuery filters and orders the public video listing
type ListVideosQuery struct {
	Page     int
	Limit    int
	Query    string
	SortBy   string
	SortDesc bool
	OwnerID  *primitive.ObjectID
}

// VideoPage is one page of the video listing
type VideoPage struct {
	Videos     []VideoWithOwner `json:"videos"`
	Pagination Pagination       `json:"pagination"`
}
