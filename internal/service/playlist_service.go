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

type PlaylistService struct {
	playlistRepo repository.PlaylistRepository
	videoRepo    repository.VideoRepository
	userRepo     repository.UserRepository
}

func NewPlaylistService(
	playlistRepo repository.PlaylistRepository,
	videoRepo repository.VideoRepository,
	userRepo repository.UserRepository,
) *PlaylistService {
	return &PlaylistService{
		playlistRepo: playlistRepo,
		videoRepo:    videoRepo,
		userRepo:     userRepo,
	}
}

type CreatePlaylistInput struct {
	Name        string `json:"name" validate:"required,notblank,max=100"`
	Description string `json:"description" validate:"required,notblank,max=1000"`
}

type UpdatePlaylistInput struct {
	Name        *string `json:"name" validate:"omitempty,notblank,max=100"`
	Description *string `json:"description" validate:"omitempty,notblank,max=1000"`
}

func (s *PlaylistService) Create(ctx context.Context, ownerID primitive.ObjectID, input CreatePlaylistInput) (*domain.Playlist, error) {
	now := time.Now().UTC()
	playlist := &domain.Playlist{
		ID:          primitive.NewObjectID(),
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Owner:       ownerID,
		Videos:      []primitive.ObjectID{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.playlistRepo.Create(ctx, playlist); err != nil {
		return nil, fmt.Errorf("creating playlist: %w", err)
	}
	return playlist, nil
}

func (s *PlaylistService) Get(ctx context.Context, playlistID primitive.ObjectID) (*domain.PlaylistDetail, error) {
	detail, err := s.playlistRepo.GetDetail(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, ErrPlaylistNotFound
	}
	return detail, nil
}

func (s *PlaylistService) ListByOwner(ctx context.Context, userID primitive.ObjectID) ([]domain.PlaylistDetail, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return s.playlistRepo.ListByOwner(ctx, userID)
}

func (s *PlaylistService) ownedPlaylist(ctx context.Context, callerID, playlistID primitive.ObjectID) (*domain.Playlist, error) {
	playlist, err := s.playlistRepo.GetByID(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if playlist == nil {
		return nil, ErrPlaylistNotFound
	}
	if playlist.Owner != callerID {
		return nil, ErrNotPlaylistOwner
	}
	return playlist, nil
}

func (s *PlaylistService) Update(ctx context.Context, callerID, playlistID primitive.ObjectID, input UpdatePlaylistInput) (*domain.Playlist, error) {
	if input.Name == nil && input.Description == nil {
		return nil, ErrNothingToUpdate
	}

	playlist, err := s.ownedPlaylist(ctx, callerID, playlistID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		playlist.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		playlist.Description = strings.TrimSpace(*input.Description)
	}
	playlist.UpdatedAt = time.Now().UTC()

	if err := s.playlistRepo.Update(ctx, playlist); err != nil {
		return nil, fmt.Errorf("updating playlist: %w", err)
	}
	return playlist, nil
}

func (s *PlaylistService) Delete(ctx context.Context, callerID, playlistID primitive.ObjectID) error {
	if _, err := s.ownedPlaylist(ctx, callerID, playlistID); err != nil {
		return err
	}
	if err := s.playlistRepo.Delete(ctx, playlistID); err != nil {
		return fmt.Errorf("deleting playlist: %w", err)
	}
	return nil
}

func (s *PlaylistService) AddVideo(ctx context.Context, callerID, playlistID, videoID primitive.ObjectID) (*domain.Playlist, error) {
	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, ErrVideoNotFound
	}

	playlist, err := s.ownedPlaylist(ctx, callerID, playlistID)
	if err != nil {
		return nil, err
	}
	if playlist.Contains(videoID) {
		return nil, ErrVideoAlreadyInList
	}

	// The store re-checks membership so concurrent adds stay unique.
	updated, err := s.playlistRepo.AddVideo(ctx, playlistID, videoID)
	if err != nil {
		return nil, fmt.Errorf("adding video to playlist: %w", err)
	}
	if updated == nil {
		return nil, ErrVideoAlreadyInList
	}
	return updated, nil
}

// RemoveVideo does not require the video to still exist, so entries for
// deleted videos can be cleaned up.
func (s *PlaylistService) RemoveVideo(ctx context.Context, callerID, playlistID, videoID primitive.ObjectID) (*domain.Playlist, error) {
	playlist, err := s.ownedPlaylist(ctx, callerID, playlistID)
	if err != nil {
		return nil, err
	}
	if !playlist.Contains(videoID) {
		return nil, ErrVideoNotInPlaylist
	}

	updated, err := s.playlistRepo.RemoveVideo(ctx, playlistID, videoID)
	if err != nil {
		return nil, fmt.Errorf("removing video from playlist: %w", err)
	}
	if updated == nil {
		return nil, ErrVideoNotInPlaylist
	}
	return updated, nil
}
