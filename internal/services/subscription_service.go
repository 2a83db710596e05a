package services

import (
	"context"
	"errors"

	"github.com/videotube/backend/internal/apperror"
	"github.com/videotube/backend/internal/models"
	"github.com/videotube/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// SubscriptionRepository is the interface that wraps methods for subscriptions collection data access
type SubscriptionRepository interface {
	// Method Create inserts "sub" and fills its ID and timestamps.
	//
	// repositories.ErrDuplicate is returned (wrapped) if the pair already exists.
	Create(ctx context.Context, sub *models.Subscription) error
	// Method DeleteByPair removes the subscription of "subscriber" to "channel" and returns it.
	//
	// repositories.ErrNotFound is returned (wrapped) if there is no such subscription.
	DeleteByPair(ctx context.Context, subscriber, channel primitive.ObjectID) (*models.Subscription, error)
	// Method CountByChannel counts the subscribers of a channel.
	CountByChannel(ctx context.Context, channel primitive.ObjectID) (int64, error)
	// Method Subscribers retrieves the public profiles of a channel's subscribers.
	Subscribers(ctx context.Context, channel primitive.ObjectID) ([]models.OwnerSummary, error)
	// Method Channels retrieves the public profiles of the channels a user subscribes to.
	Channels(ctx context.Context, subscriber primitive.ObjectID) ([]models.OwnerSummary, error)
}

type subscriptionService struct {
	repo   SubscriptionRepository
	logger *zap.Logger
}

// NewSubscriptionService creates a new subscription service
func NewSubscriptionService(repo SubscriptionRepository, logger *zap.Logger) *subscriptionService {
	return &subscriptionService{
		repo:   repo,
		logger: logger,
	}
}

// Toggle subscribes the requester to a channel or cancels an existing subscription
func (s *subscriptionService) Toggle(ctx context.Context, subscriber, channel primitive.ObjectID) (*models.SubscriptionToggleResult, error) {
	if subscriber == channel {
		return nil, apperror.Validation("you can not subscribe to your own channel")
	}

	result := &models.SubscriptionToggleResult{}

	existing, err := s.repo.DeleteByPair(ctx, subscriber, channel)
	switch {
	case err == nil:
		result.Subscription = existing
	case errors.Is(err, repositories.ErrNotFound):
		sub := &models.Subscription{Subscriber: subscriber, Channel: channel}
		if err := s.repo.Create(ctx, sub); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return nil, apperror.Conflict("subscription is already registered")
			}
			return nil, apperror.Persistence("failed to subscribe", err)
		}
		result.Subscription = sub
		result.Subscribed = true
	default:
		return nil, apperror.Persistence("failed to unsubscribe", err)
	}

	count, err := s.repo.CountByChannel(ctx, channel)
	if err != nil {
		return nil, apperror.Internal("internal server error", err)
	}
	result.Count = count

	return result, nil
}

// Subscribers retrieves who subscribes to a channel
func (s *subscriptionService) Subscribers(ctx context.Context, channel primitive.ObjectID) (*models.ChannelSubscribers, error) {
	users, err := s.repo.Subscribers(ctx, channel)
	if err != nil {
		return nil, apperror.Internal("internal server error", err)
	}
	return &models.ChannelSubscribers{Subscribers: users, Count: len(users)}, nil
}

// Channels retrieves the channels a user subscribes to
func (s *subscriptionService) Channels(ctx context.Context, subscriber primitive.ObjectID) (*models.SubscribedChannels, error) {
	channels, err := s.repo.Channels(ctx, subscriber)
	if err != nil {
		return nil, apperror.Internal("internal server error", err)
	}
	return &models.SubscribedChannels{Channels: channels, Count: len(channels)}, nil
}
