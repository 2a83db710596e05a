package mediastore

import (
	"context"
	"time"
)

// OperationObserver receives the outcome of every gateway call
type OperationObserver interface {
	ObserveMediaOperation(driver, operation string, err error, duration time.Duration)
}

// instrumentedGateway decorates a Gateway with metrics
type instrumentedGateway struct {
	next     Gateway
	driver   string
	observer OperationObserver
}

// Instrument wraps next so that each call is reported to observer under the driver label
func Instrument(next Gateway, driver string, observer OperationObserver) Gateway {
	return &instrumentedGateway{next: next, driver: driver, observer: observer}
}

// Upload implements Gateway
func (g *instrumentedGateway) Upload(ctx context.Context, localPath string) (*Asset, error) {
	start := time.Now()
	asset, err := g.next.Upload(ctx, localPath)
	g.observer.ObserveMediaOperation(g.driver, "upload", err, time.Since(start))
	return asset, err
}

// Delete implements Gateway
func (g *instrumentedGateway) Delete(ctx context.Context, remoteURL string) error {
	start := time.Now()
	err := g.next.Delete(ctx, remoteURL)
	g.observer.ObserveMediaOperation(g.driver, "delete", err, time.Since(start))
	return err
}
