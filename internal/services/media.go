package services

import (
	"context"
	"errors"

	"github.com/videotube/backend/internal/mediastore"
	"github.com/videotube/backend/internal/saga"
	"go.uber.org/zap"
)

// MediaStore is the interface that wraps the media store gateway methods used by services
type MediaStore interface {
	// Method Upload stores the local file at "localPath" and returns its remote handle.
	//
	// Duration is set only for video files. Any error means nothing usable was stored.
	Upload(ctx context.Context, localPath string) (*mediastore.Asset, error)
	// Method Delete removes a previously stored object by its remote URL.
	//
	// Callers treat deletion as best effort and never surface its error.
	Delete(ctx context.Context, remoteURL string) error
}

// CompensationObserver records the outcome of compensating and cleanup deletes
type CompensationObserver interface {
	ObserveCompensation(action string, err error)
}

// Compensation and cleanup action names
const (
	actionDeleteVideoFile    = "delete_video_file"
	actionDeleteThumbnail    = "delete_thumbnail"
	actionDeleteOldThumbnail = "delete_old_thumbnail"
	actionDeleteAvatar       = "delete_avatar"
	actionDeleteCoverImage   = "delete_cover_image"
)

// assetJanitor deletes remote assets on behalf of a service when an operation
// has to be undone or an asset has been superseded
type assetJanitor struct {
	media    MediaStore
	observer CompensationObserver
	logger   *zap.Logger
}

var errNoRemoteHandle = errors.New("media store returned no remote handle")

// upload stores a local file and guarantees a usable remote handle on success
func (j *assetJanitor) upload(ctx context.Context, localPath string) (*mediastore.Asset, error) {
	asset, err := j.media.Upload(ctx, localPath)
	if err != nil {
		return nil, err
	}
	if asset == nil || asset.URL == "" {
		return nil, errNoRemoteHandle
	}
	return asset, nil
}

// deletion returns a compensation that deletes the asset at url
func (j *assetJanitor) deletion(action, url string) saga.Compensation {
	return func(ctx context.Context) error {
		err := j.media.Delete(ctx, url)
		j.observer.ObserveCompensation(action, err)
		return err
	}
}

// rollback runs the compensations of sg; failures are logged and never returned
func (j *assetJanitor) rollback(ctx context.Context, sg *saga.Saga, operation string) {
	for _, failure := range sg.Compensate(ctx) {
		j.logger.Warn("compensation failed, remote asset may be orphaned",
			zap.String("operation", operation),
			zap.String("action", failure.Name),
			zap.Error(failure.Err),
		)
	}
}

// discard deletes an asset that no record references anymore
func (j *assetJanitor) discard(ctx context.Context, action, url string) {
	if url == "" {
		return
	}
	if err := j.deletion(action, url)(context.WithoutCancel(ctx)); err != nil {
		j.logger.Warn("failed to delete remote asset",
			zap.String("action", action),
			zap.String("url", url),
			zap.Error(err),
		)
	}
}

// nopObserver discards observations
type nopObserver struct{}

func (nopObserver) ObserveCompensation(string, error) {}

func newAssetJanitor(media MediaStore, observer CompensationObserver, logger *zap.Logger) *assetJanitor {
	if observer == nil {
		observer = nopObserver{}
	}
	return &assetJanitor{media: media, observer: observer, logger: logger}
}
