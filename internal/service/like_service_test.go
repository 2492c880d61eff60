package service

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vedran77/vidtube/internal/domain"
)

type likeFixture struct {
	svc      *LikeService
	likes    *fakeLikeRepo
	notifier *fakeNotifier
	owner    primitive.ObjectID
	video    *domain.Video
	comment  *domain.Comment
	tweet    *domain.Tweet
}

func newLikeFixture() *likeFixture {
	owner := primitive.NewObjectID()
	video := newVideo(owner)
	comment := &domain.Comment{ID: primitive.NewObjectID(), Video: video.ID, Owner: owner, Content: "nice"}
	tweet := &domain.Tweet{ID: primitive.NewObjectID(), Owner: owner, Content: "hello"}

	likes := newFakeLikeRepo()
	notifier := &fakeNotifier{}
	svc := NewLikeService(likes, newFakeVideoRepo(video), newFakeCommentRepo(comment), newFakeTweetRepo(tweet))
	svc.SetNotifier(notifier)

	return &likeFixture{svc: svc, likes: likes, notifier: notifier, owner: owner, video: video, comment: comment, tweet: tweet}
}

func TestLikeToggleRoundTrip(t *testing.T) {
	f := newLikeFixture()
	caller := primitive.NewObjectID()

	targets := []domain.LikeTarget{
		{Kind: domain.LikeKindVideo, ID: f.video.ID},
		{Kind: domain.LikeKindComment, ID: f.comment.ID},
		{Kind: domain.LikeKindTweet, ID: f.tweet.ID},
	}

	for _, target := range targets {
		t.Run(string(target.Kind), func(t *testing.T) {
			first, err := f.svc.Toggle(context.Background(), caller, target)
			if err != nil {
				t.Fatalf("first toggle: %v", err)
			}
			if !first.Liked || first.Like == nil {
				t.Fatalf("first toggle = %+v, want liked", first)
			}

			second, err := f.svc.Toggle(context.Background(), caller, target)
			if err != nil {
				t.Fatalf("second toggle: %v", err)
			}
			if second.Liked || second.Like == nil || second.Like.ID != first.Like.ID {
				t.Fatalf("second toggle = %+v, want the deleted like", second)
			}

			if l, _ := f.likes.Get(context.Background(), caller, target); l != nil {
				t.Error("like should not exist after toggling twice")
			}
		})
	}

	if len(f.notifier.sent) != 3 {
		t.Errorf("notifications = %v, want one per new like", f.notifier.sent)
	}
	for _, n := range f.notifier.sent {
		if n.recipient != f.owner {
			t.Errorf("notification went to %s, want owner", n.recipient.Hex())
		}
	}
}

func TestLikeToggleOwnLikeNotNotified(t *testing.T) {
	f := newLikeFixture()

	res, err := f.svc.Toggle(context.Background(), f.owner, domain.LikeTarget{Kind: domain.LikeKindVideo, ID: f.video.ID})
	if err != nil || !res.Liked {
		t.Fatalf("toggle = %+v, %v", res, err)
	}
	if len(f.notifier.sent) != 0 {
		t.Errorf("liking your own video should not notify, got %v", f.notifier.sent)
	}
}

func TestLikeToggleMissingTarget(t *testing.T) {
	tests := []struct {
		kind domain.LikeKind
		want error
	}{
		{domain.LikeKindVideo, ErrVideoNotFound},
		{domain.LikeKindComment, ErrCommentNotFound},
		{domain.LikeKindTweet, ErrTweetNotFound},
		{domain.LikeKind("channel"), ErrInvalidLikeKind},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			f := newLikeFixture()
			_, err := f.svc.Toggle(context.Background(), primitive.NewObjectID(), domain.LikeTarget{Kind: tt.kind, ID: primitive.NewObjectID()})
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			if len(f.likes.likes) != 0 {
				t.Error("no like should be stored for a missing target")
			}
		})
	}
}

func TestLikeToggleLostInsertRace(t *testing.T) {
	f := newLikeFixture()
	f.likes.raceOnCreate = true
	caller := primitive.NewObjectID()
	target := domain.LikeTarget{Kind: domain.LikeKindVideo, ID: f.video.ID}

	res, err := f.svc.Toggle(context.Background(), caller, target)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !res.Liked || res.Like == nil {
		t.Fatalf("result = %+v, want liked with the existing row", res)
	}
	if stored, _ := f.likes.Get(context.Background(), caller, target); stored == nil || stored.ID != res.Like.ID {
		t.Errorf("result should carry the stored like")
	}
}

func TestLikedVideos(t *testing.T) {
	f := newLikeFixture()
	caller := primitive.NewObjectID()

	if _, err := f.svc.Toggle(context.Background(), caller, domain.LikeTarget{Kind: domain.LikeKindVideo, ID: f.video.ID}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Toggle(context.Background(), caller, domain.LikeTarget{Kind: domain.LikeKindTweet, ID: f.tweet.ID}); err != nil {
		t.Fatal(err)
	}

	liked, err := f.svc.LikedVideos(context.Background(), caller, domain.Page{Number: 1, Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(liked) != 1 || liked[0].Video.ID != f.video.ID {
		t.Errorf("liked videos = %+v, want only the video", liked)
	}
}
