// Package mediastore is the media store gateway: it moves local temp files to
// durable storage, returns their public URLs and deletes them by URL.
package mediastore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

// UploadTempPrefix starts the name of every temp file holding a request upload
const UploadTempPrefix = "upload-"

var (
	// ErrEmptyPath is returned when Upload is called without a local path
	ErrEmptyPath = errors.New("local path is empty")
	// ErrForeignURL is returned when Delete gets a URL this store did not issue
	ErrForeignURL = errors.New("url does not belong to this media store")
)

// Asset describes an uploaded file
type Asset struct {
	URL         string
	ContentType string
	Size        int64
	// Duration is set for video assets only, in seconds
	Duration *float64
}

// Gateway uploads local files to a media store and deletes them by URL
type Gateway interface {
	// Method Upload stores the file at localPath and returns its public description.
	//
	// Any failure (missing file, transport, timeout) is returned as an error together with "nil" value.
	Upload(ctx context.Context, localPath string) (*Asset, error)
	// Method Delete removes the asset behind remoteURL.
	//
	// Callers treat deletion as best effort: they log the error and carry on.
	Delete(ctx context.Context, remoteURL string) error
}

// fileInfo is what a driver needs to know about a local file before storing it
type fileInfo struct {
	contentType string
	extension   string
	kind        string
	size        int64
	duration    *float64
}

// inspector sniffs content type and measures video duration of local files
type inspector struct {
	prober DurationProber
	logger *zap.Logger
}

// inspect describes the file at localPath.
// A failed duration probe is not fatal: the asset is stored without a duration.
func (in *inspector) inspect(ctx context.Context, localPath string) (*fileInfo, error) {
	if strings.TrimSpace(localPath) == "" {
		return nil, ErrEmptyPath
	}

	stat, err := os.Stat(localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if stat.IsDir() {
		return nil, fmt.Errorf("failed to stat file: %s is a directory", localPath)
	}

	mtype, err := mimetype.DetectFile(localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to detect content type: %w", err)
	}

	contentType := baseContentType(mtype.String())
	info := &fileInfo{
		contentType: contentType,
		extension:   mtype.Extension(),
		kind:        kindOf(contentType),
		size:        stat.Size(),
	}

	if info.kind == kindVideo && in.prober != nil {
		duration, err := in.prober.Probe(ctx, localPath)
		if err != nil {
			in.logger.Warn("failed to probe video duration",
				zap.String("path", localPath),
				zap.Error(err),
			)
		} else {
			info.duration = &duration
		}
	}

	return info, nil
}
