package jobs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/hibiken/asynq"
	"github.com/videotube/backend/internal/mediastore"
	"go.uber.org/zap"
)

// AssetDeleter deletes remote assets by URL
type AssetDeleter interface {
	// Method Delete removes the asset behind remoteURL.
	//
	// If the asset cannot be removed, the error is returned.
	Delete(ctx context.Context, remoteURL string) error
}

// Worker handles queued media tasks
type Worker struct {
	media  AssetDeleter
	logger *zap.Logger
}

// NewWorker creates a new worker instance.
//
// "media" must be the plain gateway, not a RetryingGateway, or failed retries would queue themselves again.
func NewWorker(media AssetDeleter, logger *zap.Logger) *Worker {
	return &Worker{
		media:  media,
		logger: logger,
	}
}

// Mux returns a task multiplexer with all worker handlers registered
func (w *Worker) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeDeleteAsset, w.HandleDeleteAsset)
	return mux
}

// HandleDeleteAsset deletes the asset named by the task payload.
//
// An asset that is already gone counts as deleted. Malformed payloads and foreign URLs are not retried.
func (w *Worker) HandleDeleteAsset(ctx context.Context, t *asynq.Task) error {
	url, err := parseDeleteAssetPayload(t)
	if err != nil {
		w.logger.Error("dropping malformed task", zap.String("type", t.Type()), zap.Error(err))
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	err = w.media.Delete(ctx, url)
	switch {
	case err == nil, errors.Is(err, fs.ErrNotExist):
		w.logger.Info("orphaned asset deleted", zap.String("url", url))
		return nil
	case errors.Is(err, mediastore.ErrForeignURL):
		w.logger.Error("dropping delete of foreign asset", zap.String("url", url), zap.Error(err))
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	retried, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)
	w.logger.Warn("asset delete failed again",
		zap.String("url", url),
		zap.Int("retried", retried),
		zap.Int("max_retry", maxRetry),
		zap.Error(err),
	)
	return fmt.Errorf("failed to delete asset: %w", err)
}
