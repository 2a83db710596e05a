package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment represents a comment on a video
type Comment struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Content   string             `json:"content" bson:"content"`
	Video     primitive.ObjectID `json:"video" bson:"video"`
	Owner     primitive.ObjectID `json:"owner" bson:"owner"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// CommentView is a comment joined with its author
type CommentView struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id"`
	Content   string             `json:"content" bson:"content"`
	Owner     OwnerSummary       `json:"owner" bson:"owner"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// CommentRequest is the body of comment create and update
type CommentRequest struct {
	Comment string `json:"comment"`
}

// CommentPagination describes the position of a comments page
type CommentPagination struct {
	TotalComments int64 `json:"totalComments"`
	TotalPages    int   `json:"totalPages"`
	HasNextPage   bool  `json:"hasNextPage"`
	HasPrevPage   bool  `json:"hasPrevPage"`
	NextPage      *int  `json:"nextPage"`
	PrevPage      *int  `json:"prevPage"`
}

// CommentPage is one page of a video's comments
type CommentPage struct {
	Comments   []CommentView     `json:"comments"`
	Pagination CommentPagination `json:"pagination"`
}
