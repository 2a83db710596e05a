package jobs

import (
	"context"
	"errors"

	"github.com/hibiken/asynq"
	"github.com/videotube/backend/internal/mediastore"
	"go.uber.org/zap"
)

// TaskEnqueuer defines the subset of the asynq client used to queue tasks
type TaskEnqueuer interface {
	// Method EnqueueContext puts "task" on a queue chosen by "opts".
	//
	// If the task cannot be queued, the error is returned together with "nil" value.
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// RetryingGateway is a media store gateway whose failed deletes are queued for a later retry
type RetryingGateway struct {
	mediastore.Gateway
	queue    TaskEnqueuer
	maxRetry int
	logger   *zap.Logger
}

// NewRetryingGateway wraps gateway so that deletes it refuses are retried by the worker
func NewRetryingGateway(gateway mediastore.Gateway, queue TaskEnqueuer, maxRetry int, logger *zap.Logger) *RetryingGateway {
	return &RetryingGateway{
		Gateway:  gateway,
		queue:    queue,
		maxRetry: maxRetry,
		logger:   logger,
	}
}

// Delete removes the asset at remoteURL.
//
// A failed delete is queued for retry and its error is still returned, so callers see the same
// outcome as without the queue. URLs the store never issued are not queued.
func (g *RetryingGateway) Delete(ctx context.Context, remoteURL string) error {
	err := g.Gateway.Delete(ctx, remoteURL)
	if err == nil || errors.Is(err, mediastore.ErrForeignURL) {
		return err
	}

	task, taskErr := NewDeleteAssetTask(remoteURL)
	if taskErr != nil {
		g.logger.Error("failed to build asset delete task", zap.String("url", remoteURL), zap.Error(taskErr))
		return err
	}

	// The request may already be cancelled, which is often why the delete failed
	info, queueErr := g.queue.EnqueueContext(context.WithoutCancel(ctx), task,
		asynq.Queue(QueueMedia),
		asynq.MaxRetry(g.maxRetry),
	)
	if queueErr != nil {
		g.logger.Error("failed to queue asset delete, asset may be orphaned",
			zap.String("url", remoteURL),
			zap.Error(queueErr),
		)
		return err
	}

	g.logger.Info("asset delete queued for retry",
		zap.String("url", remoteURL),
		zap.String("task_id", info.ID),
	)
	return err
}
