package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"github.com/vedran77/vidtube/internal/domain"
	"github.com/vedran77/vidtube/internal/logging"
	"github.com/vedran77/vidtube/internal/media"
	"github.com/vedran77/vidtube/internal/repository"
)

type VideoService struct {
	videoRepo repository.VideoRepository
	userRepo  repository.UserRepository
	media     MediaDelegate
}

func NewVideoService(videoRepo repository.VideoRepository, userRepo repository.UserRepository, media MediaDelegate) *VideoService {
	return &VideoService{
		videoRepo: videoRepo,
		userRepo:  userRepo,
		media:     media,
	}
}

type PublishVideoInput struct {
	Title       string  `json:"title" validate:"required,notblank,max=200"`
	Description string  `json:"description" validate:"required,notblank,max=5000"`
	Duration    float64 `json:"duration" validate:"gte=0"`

	VideoPath     string `json:"-" validate:"-"`
	ThumbnailPath string `json:"-" validate:"-"`
}

type UpdateVideoInput struct {
	Title       *string `json:"title" validate:"omitempty,notblank,max=200"`
	Description *string `json:"description" validate:"omitempty,notblank,max=5000"`

	ThumbnailPath string `json:"-" validate:"-"`
}

// Publish uploads the video file and thumbnail concurrently. If either upload
// or the store write fails, every asset already uploaded is deleted again.
func (s *VideoService) Publish(ctx context.Context, ownerID primitive.ObjectID, input PublishVideoInput) (*domain.Video, error) {
	if input.VideoPath == "" {
		return nil, ErrVideoFileRequired
	}
	if input.ThumbnailPath == "" {
		return nil, ErrThumbnailRequired
	}

	var videoAsset, thumbAsset *media.Asset

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a, err := s.media.Upload(gctx, input.VideoPath)
		if err != nil {
			return fmt.Errorf("video file: %w", err)
		}
		videoAsset = a
		return nil
	})
	g.Go(func() error {
		a, err := s.media.Upload(gctx, input.ThumbnailPath)
		if err != nil {
			return fmt.Errorf("thumbnail: %w", err)
		}
		thumbAsset = a
		return nil
	})

	rollback := func() {
		cleanupCtx := context.WithoutCancel(ctx)
		if videoAsset != nil {
			s.media.Delete(cleanupCtx, videoAsset.URL)
		}
		if thumbAsset != nil {
			s.media.Delete(cleanupCtx, thumbAsset.URL)
		}
	}

	if err := g.Wait(); err != nil {
		rollback()
		return nil, fmt.Errorf("%w: %w", ErrMediaUpload, err)
	}

	now := time.Now().UTC()
	video := &domain.Video{
		ID:          primitive.NewObjectID(),
		VideoFile:   videoAsset.URL,
		Thumbnail:   thumbAsset.URL,
		Owner:       ownerID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Duration:    input.Duration,
		IsPublished: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.videoRepo.Create(ctx, video); err != nil {
		rollback()
		return nil, fmt.Errorf("creating video: %w", err)
	}

	return video, nil
}

func (s *VideoService) List(ctx context.Context, q domain.VideoQuery) ([]domain.VideoWithOwner, error) {
	return s.videoRepo.ListPublished(ctx, q)
}

// Get returns a video by id regardless of its published state. Viewing
// counts a view and moves the video to the front of the viewer's history.
func (s *VideoService) Get(ctx context.Context, viewerID, videoID primitive.ObjectID) (*domain.VideoDetail, error) {
	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, ErrVideoNotFound
	}

	if err := s.videoRepo.IncrementViews(ctx, videoID); err != nil {
		return nil, fmt.Errorf("incrementing views: %w", err)
	}
	if err := s.userRepo.PushWatchHistory(ctx, viewerID, videoID); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("video_id", videoID.Hex()).Msg("recording watch history failed")
	}

	detail, err := s.videoRepo.GetDetail(ctx, videoID, viewerID)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, ErrVideoNotFound
	}
	return detail, nil
}

func (s *VideoService) ownedVideo(ctx context.Context, callerID, videoID primitive.ObjectID) (*domain.Video, error) {
	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, ErrVideoNotFound
	}
	if video.Owner != callerID {
		return nil, ErrNotVideoOwner
	}
	return video, nil
}

func (s *VideoService) Update(ctx context.Context, callerID, videoID primitive.ObjectID, input UpdateVideoInput) (*domain.Video, error) {
	if input.Title == nil && input.Description == nil && input.ThumbnailPath == "" {
		return nil, ErrNothingToUpdate
	}

	video, err := s.ownedVideo(ctx, callerID, videoID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		video.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		video.Description = strings.TrimSpace(*input.Description)
	}

	oldThumbnail := video.Thumbnail
	if input.ThumbnailPath != "" {
		asset, err := s.media.Upload(ctx, input.ThumbnailPath)
		if err != nil {
			return nil, fmt.Errorf("%w: thumbnail: %w", ErrMediaUpload, err)
		}
		video.Thumbnail = asset.URL
	}
	video.UpdatedAt = time.Now().UTC()

	cleanupCtx := context.WithoutCancel(ctx)
	if err := s.videoRepo.Update(ctx, video); err != nil {
		if video.Thumbnail != oldThumbnail {
			s.media.Delete(cleanupCtx, video.Thumbnail)
		}
		return nil, fmt.Errorf("updating video: %w", err)
	}

	if video.Thumbnail != oldThumbnail {
		s.media.Delete(cleanupCtx, oldThumbnail)
	}
	return video, nil
}

// Delete removes the video record and then its media. Likes and comments
// that reference the video are left in place; listings skip them.
func (s *VideoService) Delete(ctx context.Context, callerID, videoID primitive.ObjectID) error {
	video, err := s.ownedVideo(ctx, callerID, videoID)
	if err != nil {
		return err
	}

	if err := s.videoRepo.Delete(ctx, videoID); err != nil {
		return fmt.Errorf("deleting video: %w", err)
	}

	// The record is gone; finish removing its media even if the caller left.
	cleanupCtx := context.WithoutCancel(ctx)
	s.media.Delete(cleanupCtx, video.VideoFile)
	s.media.Delete(cleanupCtx, video.Thumbnail)
	return nil
}

func (s *VideoService) TogglePublish(ctx context.Context, callerID, videoID primitive.ObjectID) (*domain.Video, error) {
	video, err := s.ownedVideo(ctx, callerID, videoID)
	if err != nil {
		return nil, err
	}

	video.IsPublished = !video.IsPublished
	video.UpdatedAt = time.Now().UTC()

	if err := s.videoRepo.Update(ctx, video); err != nil {
		return nil, fmt.Errorf("toggling publish state: %w", err)
	}
	return video, nil
}
