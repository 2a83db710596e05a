package repositories

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrNotFound is returned when no document matches the filter
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a unique index
	ErrDuplicate = errors.New("duplicate record")
)

// Collection names
const (
	usersCollection         = "users"
	videosCollection        = "videos"
	commentsCollection      = "comments"
	likesCollection         = "likes"
	tweetsCollection        = "tweets"
	subscriptionsCollection = "subscriptions"
	playlistsCollection     = "playlists"
)

// translate maps driver errors onto the repository sentinel errors
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	default:
		return err
	}
}
