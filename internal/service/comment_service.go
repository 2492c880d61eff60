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

type CommentService struct {
	commentRepo repository.CommentRepository
	videoRepo   repository.VideoRepository
	notifier    Notifier
}

func NewCommentService(commentRepo repository.CommentRepository, videoRepo repository.VideoRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		videoRepo:   videoRepo,
	}
}

// SetNotifier sets the real-time notifier (optional dependency).
func (s *CommentService) SetNotifier(n Notifier) {
	s.notifier = n
}

type CommentInput struct {
	Content string `json:"content" validate:"required,notblank,max=2000"`
}

func (s *CommentService) List(ctx context.Context, videoID primitive.ObjectID, page domain.Page) ([]domain.CommentWithOwner, error) {
	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, ErrVideoNotFound
	}

	return s.commentRepo.ListByVideo(ctx, videoID, page)
}

func (s *CommentService) Add(ctx context.Context, callerID, videoID primitive.ObjectID, input CommentInput) (*domain.Comment, error) {
	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, ErrVideoNotFound
	}

	now := time.Now().UTC()
	comment := &domain.Comment{
		ID:        primitive.NewObjectID(),
		Content:   strings.TrimSpace(input.Content),
		Video:     videoID,
		Owner:     callerID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("creating comment: %w", err)
	}

	if s.notifier != nil {
		s.notifier.NotifyComment(video.Owner, comment)
	}

	return comment, nil
}

func (s *CommentService) ownedComment(ctx context.Context, callerID, commentID primitive.ObjectID) (*domain.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, ErrCommentNotFound
	}
	if comment.Owner != callerID {
		return nil, ErrNotCommentOwner
	}
	return comment, nil
}

func (s *CommentService) Update(ctx context.Context, callerID, commentID primitive.ObjectID, input CommentInput) (*domain.Comment, error) {
	if _, err := s.ownedComment(ctx, callerID, commentID); err != nil {
		return nil, err
	}

	updated, err := s.commentRepo.UpdateContent(ctx, commentID, strings.TrimSpace(input.Content))
	if err != nil {
		return nil, fmt.Errorf("updating comment: %w", err)
	}
	if updated == nil {
		return nil, ErrCommentNotFound
	}
	return updated, nil
}

func (s *CommentService) Delete(ctx context.Context, callerID, commentID primitive.ObjectID) (*domain.Comment, error) {
	comment, err := s.ownedComment(ctx, callerID, commentID)
	if err != nil {
		return nil, err
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return nil, fmt.Errorf("deleting comment: %w", err)
	}
	return comment, nil
}
