package services

import (
	"context"

	"github.com/videotube/backend/internal/apperror"
	"github.com/videotube/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// DashboardRepository is the interface that wraps channel statistics queries
type DashboardRepository interface {
	// Method ChannelStats aggregates video, view, like and subscriber counters of a channel with its profile fields.
	//
	// repositories.ErrNotFound is returned (wrapped) if the channel owner does not exist.
	ChannelStats(ctx context.Context, owner primitive.ObjectID) (*models.ChannelStats, error)
	// Method ChannelVideos retrieves every video of a channel with like and comment counts.
	ChannelVideos(ctx context.Context, owner primitive.ObjectID) ([]models.ChannelVideo, error)
}

// Pinger is the interface that wraps the record store health probe
type Pinger interface {
	Ping(ctx context.Context) error
}

// Database health values
const (
	StatusUp   = "up"
	StatusDown = "down"
)

type dashboardService struct {
	repo   DashboardRepository
	pinger Pinger
	logger *zap.Logger
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(repo DashboardRepository, pinger Pinger, logger *zap.Logger) *dashboardService {
	return &dashboardService{
		repo:   repo,
		pinger: pinger,
		logger: logger,
	}
}

// Stats retrieves the counters of the requester's channel
func (s *dashboardService) Stats(ctx context.Context, owner primitive.ObjectID) (*models.ChannelStats, error) {
	stats, err := s.repo.ChannelStats(ctx, owner)
	if err != nil {
		return nil, readError(err, "channel not found")
	}
	return stats, nil
}

// Videos retrieves the requester's videos with engagement counters
func (s *dashboardService) Videos(ctx context.Context, owner primitive.ObjectID) ([]models.ChannelVideo, error) {
	videos, err := s.repo.ChannelVideos(ctx, owner)
	if err != nil {
		return nil, apperror.Internal("internal server error", err)
	}
	return videos, nil
}

// Health pings the record store; the error is returned alongside the status for logging
func (s *dashboardService) Health(ctx context.Context) (*models.HealthStatus, error) {
	if err := s.pinger.Ping(ctx); err != nil {
		s.logger.Warn("database health check failed", zap.Error(err))
		return &models.HealthStatus{Database: StatusDown}, err
	}
	return &models.HealthStatus{Database: StatusUp}, nil
}
