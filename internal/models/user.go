package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a registered account and its channel profile
type User struct {
	ID           primitive.ObjectID   `json:"_id" bson:"_id,omitempty"`
	Username     string               `json:"username" bson:"username"`
	Email        string               `json:"email" bson:"email"`
	FullName     string               `json:"fullName" bson:"fullName"`
	Avatar       string               `json:"avatar" bson:"avatar"`
	CoverImage   string               `json:"coverImage" bson:"coverImage"`
	WatchHistory []primitive.ObjectID `json:"watchHistory" bson:"watchHistory"`
	PasswordHash string               `json:"-" bson:"password"`               // Never serialize password hash
	RefreshToken string               `json:"-" bson:"refreshToken,omitempty"` // Never serialize refresh token
	CreatedAt    time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// OwnerSummary is the public part of a user embedded into other resources
type OwnerSummary struct {
	ID         primitive.ObjectID `json:"_id" bson:"_id"`
	Username   string             `json:"username" bson:"username"`
	FullName   string             `json:"fullName,omitempty" bson:"fullName,omitempty"`
	Avatar     string             `json:"avatar" bson:"avatar"`
	CoverImage string             `json:"coverImage,omitempty" bson:"coverImage,omitempty"`
}

// RegisterRequest carries registration fields and the temp paths of uploaded images
type RegisterRequest struct {
	Username       string
	Email          string
	FullName       string
	Password       string
	AvatarPath     string
	CoverImagePath string
}

// LoginRequest represents a login request, login is a username or an email
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// RefreshRequest represents a token refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// AuthResult is returned by login and refresh
type AuthResult struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
