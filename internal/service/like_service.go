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

type LikeService struct {
	likeRepo    repository.LikeRepository
	videoRepo   repository.VideoRepository
	commentRepo repository.CommentRepository
	tweetRepo   repository.TweetRepository
	notifier    Notifier
}

func NewLikeService(
	likeRepo repository.LikeRepository,
	videoRepo repository.VideoRepository,
	commentRepo repository.CommentRepository,
	tweetRepo repository.TweetRepository,
) *LikeService {
	return &LikeService{
		likeRepo:    likeRepo,
		videoRepo:   videoRepo,
		commentRepo: commentRepo,
		tweetRepo:   tweetRepo,
	}
}

// SetNotifier sets the real-time notifier (optional dependency).
func (s *LikeService) SetNotifier(n Notifier) {
	s.notifier = n
}

type ToggleLikeResult struct {
	Liked bool         `json:"liked"`
	Like  *domain.Like `json:"like"`
}

// Toggle likes the target when the caller has not liked it yet and unlikes it
// otherwise. The unique index on likes makes a lost race on insert mean the
// like already exists, so the result is the same as a successful insert.
func (s *LikeService) Toggle(ctx context.Context, callerID primitive.ObjectID, target domain.LikeTarget) (*ToggleLikeResult, error) {
	if !target.Kind.Valid() {
		return nil, ErrInvalidLikeKind
	}

	owner, err := s.targetOwner(ctx, target)
	if err != nil {
		return nil, err
	}

	deleted, err := s.likeRepo.Delete(ctx, callerID, target)
	if err != nil {
		return nil, fmt.Errorf("removing like: %w", err)
	}
	if deleted != nil {
		metrics.RecordToggle(string(target.Kind), false)
		return &ToggleLikeResult{Liked: false, Like: deleted}, nil
	}

	like := &domain.Like{
		ID:        primitive.NewObjectID(),
		LikedBy:   callerID,
		Target:    target,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.likeRepo.Create(ctx, like); err != nil {
		if !errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("creating like: %w", err)
		}
		existing, err := s.likeRepo.Get(ctx, callerID, target)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, fmt.Errorf("like on %s %s changed concurrently", target.Kind, target.ID.Hex())
		}
		return &ToggleLikeResult{Liked: true, Like: existing}, nil
	}

	metrics.RecordToggle(string(target.Kind), true)
	if s.notifier != nil && owner != callerID {
		s.notifier.NotifyLike(owner, like)
	}

	return &ToggleLikeResult{Liked: true, Like: like}, nil
}

// targetOwner checks that the liked resource exists and returns its owner.
func (s *LikeService) targetOwner(ctx context.Context, target domain.LikeTarget) (primitive.ObjectID, error) {
	switch target.Kind {
	case domain.LikeKindVideo:
		v, err := s.videoRepo.GetByID(ctx, target.ID)
		if err != nil {
			return primitive.NilObjectID, err
		}
		if v == nil {
			return primitive.NilObjectID, ErrVideoNotFound
		}
		return v.Owner, nil
	case domain.LikeKindComment:
		c, err := s.commentRepo.GetByID(ctx, target.ID)
		if err != nil {
			return primitive.NilObjectID, err
		}
		if c == nil {
			return primitive.NilObjectID, ErrCommentNotFound
		}
		return c.Owner, nil
	case domain.LikeKindTweet:
		t, err := s.tweetRepo.GetByID(ctx, target.ID)
		if err != nil {
			return primitive.NilObjectID, err
		}
		if t == nil {
			return primitive.NilObjectID, ErrTweetNotFound
		}
		return t.Owner, nil
	}
	return primitive.NilObjectID, ErrInvalidLikeKind
}

func (s *LikeService) LikedVideos(ctx context.Context, userID primitive.ObjectID, page domain.Page) ([]domain.LikedVideo, error) {
	return s.likeRepo.ListLikedVideos(ctx, userID, page)
}
