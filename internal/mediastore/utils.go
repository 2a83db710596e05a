package mediastore

import (
	"strings"

	"github.com/google/uuid"
)

// Storage folders by content kind
const (
	kindVideo = "video"
	kindImage = "image"
	kindAudio = "audio"
	kindRaw   = "raw"
)

// GenerateFileName generates a new file name based on the file extension
// It creates a UUID-based filename with the provided extension
func GenerateFileName(extension string) string {
	newUUID := uuid.New().String()
	// Ensure extension starts with a dot if it doesn't already
	if extension != "" && extension[0] != '.' {
		return newUUID + "." + extension
	}
	return newUUID + extension
}

// kindOf maps a content type onto its storage folder
func kindOf(contentType string) string {
	switch {
	case strings.HasPrefix(contentType, "video/"):
		return kindVideo
	case strings.HasPrefix(contentType, "image/"):
		return kindImage
	case strings.HasPrefix(contentType, "audio/"):
		return kindAudio
	default:
		return kindRaw
	}
}

// baseContentType drops parameters such as charset from a content type
func baseContentType(contentType string) string {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.TrimSpace(contentType)
}

// sizeWriter tracks the total number of bytes written
type sizeWriter struct {
	size int64
}

// Write implements io.Writer interface
// It tracks the size of data written and returns the length and nil error
func (sw *sizeWriter) Write(p []byte) (int, error) {
	n := len(p)
	sw.size += int64(n)
	return n, nil
}

// Size returns the total number of bytes written
func (sw *sizeWriter) Size() int64 {
	return sw.size
}
