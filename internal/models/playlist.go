package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Playlist represents an ordered list of videos owned by a user
type Playlist struct {
	ID          primitive.ObjectID   `json:"_id" bson:"_id,omitempty"`
	Name        string               `json:"name" bson:"name"`
	Description string               `json:"description" bson:"description"`
	Videos      []primitive.ObjectID `json:"videos" bson:"videos"`
	Owner       primitive.ObjectID   `json:"owner" bson:"owner"`
	CreatedAt   time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// PlaylistRequest is the body of playlist create and update
type PlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
