package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vedran77/vidtube/internal/domain"
	"github.com/vedran77/vidtube/internal/repository"
)

type TweetService struct {
	tweetRepo repository.TweetRepository
	userRepo  repository.UserRepository
}

func NewTweetService(tweetRepo repository.TweetRepository, userRepo repository.UserRepository) *TweetService {
	return &TweetService{
		tweetRepo: tweetRepo,
		userRepo:  userRepo,
	}
}

type TweetInput struct {
	Content string `json:"content" validate:"required,notblank,max=280"`
}

func (s *TweetService) Create(ctx context.Context, ownerID primitive.ObjectID, input TweetInput) (*domain.Tweet, error) {
	now := time.Now().UTC()
	tweet := &domain.Tweet{
		ID:        primitive.NewObjectID(),
		Content:   strings.TrimSpace(input.Content),
		Owner:     ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.tweetRepo.Create(ctx, tweet); err != nil {
		return nil, fmt.Errorf("creating tweet: %w", err)
	}
	return tweet, nil
}

func (s *TweetService) ListByOwner(ctx context.Context, userID primitive.ObjectID) ([]domain.TweetWithOwner, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return s.tweetRepo.ListByOwner(ctx, userID)
}

func (s *TweetService) ownedTweet(ctx context.Context, callerID, tweetID primitive.ObjectID) (*domain.Tweet, error) {
	tweet, err := s.tweetRepo.GetByID(ctx, tweetID)
	if err != nil {
		return nil, err
	}
	if tweet == nil {
		return nil, ErrTweetNotFound
	}
	if tweet.Owner != callerID {
		return nil, ErrNotTweetOwner
	}
	return tweet, nil
}

func (s *TweetService) Update(ctx context.Context, callerID, tweetID primitive.ObjectID, input TweetInput) (*domain.Tweet, error) {
	if _, err := s.ownedTweet(ctx, callerID, tweetID); err != nil {
		return nil, err
	}

	updated, err := s.tweetRepo.UpdateContent(ctx, tweetID, strings.TrimSpace(input.Content))
	if err != nil {
		return nil, fmt.Errorf("updating tweet: %w", err)
	}
	if updated == nil {
		return nil, ErrTweetNotFound
	}
	return updated, nil
}

func (s *TweetService) Delete(ctx context.Context, callerID, tweetID primitive.ObjectID) (*domain.Tweet, error) {
	tweet, err := s.ownedTweet(ctx, callerID, tweetID)
	if err != nil {
		return nil, err
	}
	if err := s.tweetRepo.Delete(ctx, tweetID); err != nil {
		return nil, fmt.Errorf("deleting tweet: %w", err)
	}
	return tweet, nil
}
