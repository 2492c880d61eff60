package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vedran77/vidtube/internal/domain"
)

// ErrDuplicate is returned when a write violates a unique index.
var ErrDuplicate = errors.New("duplicate key")

// Lookups by id return (nil, nil) when nothing matches.

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetByEmailOrUsername(ctx context.Context, email, username string) (*domain.User, error)
	SetRefreshToken(ctx context.Context, id primitive.ObjectID, token string) error
	SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error
	UpdateAccount(ctx context.Context, id primitive.ObjectID, fullname, email string) (*domain.User, error)
	SetAvatar(ctx context.Context, id primitive.ObjectID, url string) (*domain.User, error)
	// SetCoverImage unsets the cover image when url is empty.
	SetCoverImage(ctx context.Context, id primitive.ObjectID, url string) (*domain.User, error)
	PushWatchHistory(ctx context.Context, userID, videoID primitive.ObjectID) error
	GetWatchHistory(ctx context.Context, userID primitive.ObjectID) ([]domain.VideoWithOwner, error)
	GetChannelProfile(ctx context.Context, username string, viewerID primitive.ObjectID) (*domain.ChannelProfile, error)
}

type VideoRepository interface {
	Create(ctx context.Context, video *domain.Video) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Video, error)
	GetWithOwner(ctx context.Context, id primitive.ObjectID) (*domain.VideoWithOwner, error)
	GetDetail(ctx context.Context, id, viewerID primitive.ObjectID) (*domain.VideoDetail, error)
	ListPublished(ctx context.Context, q domain.VideoQuery) ([]domain.VideoWithOwner, error)
	Update(ctx context.Context, video *domain.Video) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	IncrementViews(ctx context.Context, id primitive.ObjectID) error
}

type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Comment, error)
	ListByVideo(ctx context.Context, videoID primitive.ObjectID, page domain.Page) ([]domain.CommentWithOwner, error)
	UpdateContent(ctx context.Context, id primitive.ObjectID, content string) (*domain.Comment, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type LikeRepository interface {
	// Create returns ErrDuplicate when the like already exists.
	Create(ctx context.Context, like *domain.Like) error
	Get(ctx context.Context, likedBy primitive.ObjectID, target domain.LikeTarget) (*domain.Like, error)
	// Delete returns the removed like, or nil when there was none.
	Delete(ctx context.Context, likedBy primitive.ObjectID, target domain.LikeTarget) (*domain.Like, error)
	ListLikedVideos(ctx context.Context, userID primitive.ObjectID, page domain.Page) ([]domain.LikedVideo, error)
}

type SubscriptionRepository interface {
	// Create returns ErrDuplicate when the subscription already exists.
	Create(ctx context.Context, sub *domain.Subscription) error
	Get(ctx context.Context, subscriberID, channelID primitive.ObjectID) (*domain.Subscription, error)
	// Delete returns the removed subscription, or nil when there was none.
	Delete(ctx context.Context, subscriberID, channelID primitive.ObjectID) (*domain.Subscription, error)
	ListSubscribers(ctx context.Context, channelID primitive.ObjectID) ([]domain.ChannelSubscriber, error)
	ListSubscribedChannels(ctx context.Context, subscriberID primitive.ObjectID) ([]domain.SubscribedChannel, error)
}

type PlaylistRepository interface {
	Create(ctx context.Context, playlist *domain.Playlist) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Playlist, error)
	GetDetail(ctx context.Context, id primitive.ObjectID) (*domain.PlaylistDetail, error)
	ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]domain.PlaylistDetail, error)
	Update(ctx context.Context, playlist *domain.Playlist) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// AddVideo returns nil when the video is already in the playlist.
	AddVideo(ctx context.Context, playlistID, videoID primitive.ObjectID) (*domain.Playlist, error)
	// RemoveVideo returns nil when the video is not in the playlist.
	RemoveVideo(ctx context.Context, playlistID, videoID primitive.ObjectID) (*domain.Playlist, error)
}

type TweetRepository interface {
	Create(ctx context.Context, tweet *domain.Tweet) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Tweet, error)
	ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]domain.TweetWithOwner, error)
	UpdateContent(ctx context.Context, id primitive.ObjectID, content string) (*domain.Tweet, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type DashboardRepository interface {
	ChannelStats(ctx context.Context, channelID primitive.ObjectID) (*domain.ChannelStats, error)
	ChannelVideos(ctx context.Context, channelID primitive.ObjectID) ([]domain.Video, error)
}
