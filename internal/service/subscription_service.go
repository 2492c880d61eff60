package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vedran77/vidtube/internal/domain"
	"github.com/vedran77/vidtube/internal/metrics"
	"github.com/vedran77/vidtube/internal/repository"
)

type SubscriptionService struct {
	subRepo  repository.SubscriptionRepository
	userRepo repository.UserRepository
	notifier Notifier
}

func NewSubscriptionService(subRepo repository.SubscriptionRepository, userRepo repository.UserRepository) *SubscriptionService {
	return &SubscriptionService{
		subRepo:  subRepo,
		userRepo: userRepo,
	}
}

// SetNotifier sets the real-time notifier (optional dependency).
func (s *SubscriptionService) SetNotifier(n Notifier) {
	s.notifier = n
}

type ToggleSubscriptionResult struct {
	Subscribed   bool                 `json:"subscribed"`
	Subscription *domain.Subscription `json:"subscription"`
}

func (s *SubscriptionService) Toggle(ctx context.Context, callerID, channelID primitive.ObjectID) (*ToggleSubscriptionResult, error) {
	if callerID == channelID {
		return nil, ErrSelfSubscribe
	}

	channel, err := s.userRepo.GetByID(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if channel == nil {
		return nil, ErrChannelNotFound
	}

	deleted, err := s.subRepo.Delete(ctx, callerID, channelID)
	if err != nil {
		return nil, fmt.Errorf("removing subscription: %w", err)
	}
	if deleted != nil {
		metrics.RecordToggle("subscription", false)
		return &ToggleSubscriptionResult{Subscribed: false, Subscription: deleted}, nil
	}

	sub := &domain.Subscription{
		ID:         primitive.NewObjectID(),
		Subscriber: callerID,
		Channel:    channelID,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.subRepo.Create(ctx, sub); err != nil {
		if !errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("creating subscription: %w", err)
		}
		existing, err := s.subRepo.Get(ctx, callerID, channelID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, fmt.Errorf("subscription to %s changed concurrently", channelID.Hex())
		}
		return &ToggleSubscriptionResult{Subscribed: true, Subscription: existing}, nil
	}

	metrics.RecordToggle("subscription", true)
	if s.notifier != nil {
		s.notifier.NotifySubscription(sub)
	}

	return &ToggleSubscriptionResult{Subscribed: true, Subscription: sub}, nil
}

func (s *SubscriptionService) Subscribers(ctx context.Context, channelID primitive.ObjectID) ([]domain.ChannelSubscriber, error) {
	if err := s.requireUser(ctx, channelID, ErrChannelNotFound); err != nil {
		return nil, err
	}
	return s.subRepo.ListSubscribers(ctx, channelID)
}

func (s *SubscriptionService) SubscribedChannels(ctx context.Context, subscriberID primitive.ObjectID) ([]domain.SubscribedChannel, error) {
	if err := s.requireUser(ctx, subscriberID, ErrUserNotFound); err != nil {
		return nil, err
	}
	return s.subRepo.ListSubscribedChannels(ctx, subscriberID)
}

func (s *SubscriptionService) requireUser(ctx context.Context, userID primitive.ObjectID, notFound error) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return notFound
	}
	return nil
}
