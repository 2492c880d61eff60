package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vedran77/vidtube/internal/domain"
	"github.com/vedran77/vidtube/internal/media"
)

// Kind classifies a service error so the transport can map it to a status
// in one place.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindForbidden
	KindUnauthorized
	KindConflict
)

type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// KindOf reports the classification of err. Errors that did not originate
// from this package are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

var (
	ErrUserNotFound     = newError(KindNotFound, "user not found")
	ErrChannelNotFound  = newError(KindNotFound, "channel not found")
	ErrVideoNotFound    = newError(KindNotFound, "video not found")
	ErrCommentNotFound  = newError(KindNotFound, "comment not found")
	ErrTweetNotFound    = newError(KindNotFound, "tweet not found")
	ErrPlaylistNotFound = newError(KindNotFound, "playlist not found")

	ErrNotVideoOwner    = newError(KindForbidden, "only the video owner can perform this action")
	ErrNotCommentOwner  = newError(KindForbidden, "only the comment author can perform this action")
	ErrNotTweetOwner    = newError(KindForbidden, "only the tweet author can perform this action")
	ErrNotPlaylistOwner = newError(KindForbidden, "only the playlist owner can perform this action")

	ErrEmailTaken    = newError(KindConflict, "email already taken")
	ErrUsernameTaken = newError(KindConflict, "username already taken")
	ErrUserExists    = newError(KindConflict, "user with email or username already exists")

	ErrInvalidCreds        = newError(KindUnauthorized, "invalid credentials")
	ErrWrongPassword       = newError(KindUnauthorized, "old password is incorrect")
	ErrInvalidRefreshToken = newError(KindUnauthorized, "refresh token is expired or used")

	ErrAvatarRequired     = newError(KindValidation, "avatar file is required")
	ErrVideoFileRequired  = newError(KindValidation, "video file is required")
	ErrThumbnailRequired  = newError(KindValidation, "thumbnail is required")
	ErrNoCoverImage       = newError(KindValidation, "no cover image to delete")
	ErrNothingToUpdate    = newError(KindValidation, "at least one field is required")
	ErrSelfSubscribe      = newError(KindValidation, "you cannot subscribe to your own channel")
	ErrInvalidLikeKind    = newError(KindValidation, "invalid like target")
	ErrVideoAlreadyInList = newError(KindValidation, "video is already in the playlist")
	ErrVideoNotInPlaylist = newError(KindValidation, "video is not in the playlist")

	ErrMediaUpload = newError(KindInternal, "failed to upload media")
)

// MediaDelegate stores uploaded files outside the database. Delete is
// best-effort and never fails the caller.
type MediaDelegate interface {
	Upload(ctx context.Context, localPath string) (*media.Asset, error)
	Delete(ctx context.Context, url string)
}

// Notifier pushes real-time events to the owner of a liked, subscribed or
// commented resource.
type Notifier interface {
	NotifyLike(recipient primitive.ObjectID, like *domain.Like)
	NotifySubscription(sub *domain.Subscription)
	NotifyComment(recipient primitive.ObjectID, comment *domain.Comment)
}
