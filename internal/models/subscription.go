package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Subscription links a subscriber to a channel (both are users)
type Subscription struct {
	ID         primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Subscriber primitive.ObjectID `json:"subscriber" bson:"subscriber"`
	Channel    primitive.ObjectID `json:"channel" bson:"channel"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// SubscriptionToggleResult is the outcome of a subscription toggle
type SubscriptionToggleResult struct {
	Subscription *Subscription `json:"subscription"`
	Count        int64         `json:"count"`
	Subscribed   bool          `json:"subscribed"`
}

// ChannelSubscribers lists who subscribes to a channel
type ChannelSubscribers struct {
	Subscribers []OwnerSummary `json:"subscribers"`
	Count       int            `json:"count"`
}

// SubscribedChannels lists the channels a user subscribes to
type SubscribedChannels struct {
	Channels []OwnerSummary `json:"channels"`
	Count    int            `json:"count"`
}
