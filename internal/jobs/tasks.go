// Package jobs holds the background work of the backend: retrying remote asset deletes
// that failed during a request and sweeping abandoned upload temp files.
package jobs

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// TypeDeleteAsset deletes one remote asset by URL
	TypeDeleteAsset = "media:delete_asset"
	// QueueMedia is the queue media tasks are enqueued to
	QueueMedia = "media"
)

type deleteAssetPayload struct {
	URL string `json:"url"`
}

// NewDeleteAssetTask creates a task deleting the asset at remoteURL
func NewDeleteAssetTask(remoteURL string) (*asynq.Task, error) {
	if remoteURL == "" {
		return nil, fmt.Errorf("remote url is empty")
	}
	payload, err := json.Marshal(deleteAssetPayload{URL: remoteURL})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", TypeDeleteAsset, err)
	}
	return asynq.NewTask(TypeDeleteAsset, payload), nil
}

func parseDeleteAssetPayload(t *asynq.Task) (string, error) {
	var p deleteAssetPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return "", fmt.Errorf("failed to parse %s payload: %w", TypeDeleteAsset, err)
	}
	if p.URL == "" {
		return "", fmt.Errorf("%s payload has no url", TypeDeleteAsset)
	}
	return p.URL, nil
}
