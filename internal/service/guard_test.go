package service

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vedran77/vidtube/internal/domain"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want Kind
	}{
		{ErrVideoNotFound, KindNotFound},
		{ErrNotTweetOwner, KindForbidden},
		{ErrEmailTaken, KindConflict},
		{ErrInvalidCreds, KindUnauthorized},
		{ErrSelfSubscribe, KindValidation},
		{errors.New("boom"), KindInternal},
	}

	for _, tt := range tests {
		if got := KindOf(tt.err); got != tt.want {
			t.Errorf("KindOf(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestOwnershipGuards(t *testing.T) {
	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()
	video := newVideo(owner)
	comment := &domain.Comment{ID: primitive.NewObjectID(), Video: video.ID, Owner: owner, Content: "first"}
	tweet := &domain.Tweet{ID: primitive.NewObjectID(), Owner: owner, Content: "hi"}

	videos := newFakeVideoRepo(video)
	comments := newFakeCommentRepo(comment)
	tweets := newFakeTweetRepo(tweet)
	m := newFakeMedia()

	videoSvc := NewVideoService(videos, newFakeUserRepo(), m)
	commentSvc := NewCommentService(comments, videos)
	tweetSvc := NewTweetService(tweets, newFakeUserRepo())
	ctx := context.Background()
	title := "changed"

	tests := []struct {
		name string
		run  func() error
		want error
	}{
		{"video update", func() error {
			_, err := videoSvc.Update(ctx, stranger, video.ID, UpdateVideoInput{Title: &title})
			return err
		}, ErrNotVideoOwner},
		{"video delete", func() error { return videoSvc.Delete(ctx, stranger, video.ID) }, ErrNotVideoOwner},
		{"video toggle publish", func() error { _, err := videoSvc.TogglePublish(ctx, stranger, video.ID); return err }, ErrNotVideoOwner},
		{"video missing", func() error { return videoSvc.Delete(ctx, owner, primitive.NewObjectID()) }, ErrVideoNotFound},
		{"comment update", func() error {
			_, err := commentSvc.Update(ctx, stranger, comment.ID, CommentInput{Content: "x"})
			return err
		}, ErrNotCommentOwner},
		{"comment delete", func() error { _, err := commentSvc.Delete(ctx, stranger, comment.ID); return err }, ErrNotCommentOwner},
		{"comment missing", func() error { _, err := commentSvc.Delete(ctx, owner, primitive.NewObjectID()); return err }, ErrCommentNotFound},
		{"tweet update", func() error {
			_, err := tweetSvc.Update(ctx, stranger, tweet.ID, TweetInput{Content: "x"})
			return err
		}, ErrNotTweetOwner},
		{"tweet delete", func() error { _, err := tweetSvc.Delete(ctx, stranger, tweet.ID); return err }, ErrNotTweetOwner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}

	if videos.videos[video.ID].Title != "clip" {
		t.Error("stranger update must not change the video")
	}
	if comments.comments[comment.ID].Content != "first" {
		t.Error("stranger update must not change the comment")
	}
	if len(m.deleted) != 0 {
		t.Errorf("no media should be deleted, got %v", m.deleted)
	}
}

func TestCommentAddNotifiesVideoOwner(t *testing.T) {
	owner := primitive.NewObjectID()
	video := newVideo(owner)
	notifier := &fakeNotifier{}
	svc := NewCommentService(newFakeCommentRepo(), newFakeVideoRepo(video))
	svc.SetNotifier(notifier)
	ctx := context.Background()

	c, err := svc.Add(ctx, primitive.NewObjectID(), video.ID, CommentInput{Content: "  great  "})
	if err != nil {
		t.Fatal(err)
	}
	if c.Content != "great" {
		t.Errorf("content = %q, want trimmed", c.Content)
	}
	if _, err := svc.Add(ctx, owner, video.ID, CommentInput{Content: "thanks"}); err != nil {
		t.Fatal(err)
	}
	// The owner's own comment still reaches the video's watchers.
	if len(notifier.sent) != 2 {
		t.Fatalf("notifications = %v, want two", notifier.sent)
	}
	for _, n := range notifier.sent {
		if n.kind != "comment" || n.recipient != owner {
			t.Errorf("notification = %+v, want comment for the owner", n)
		}
	}

	if _, err := svc.List(ctx, primitive.NewObjectID(), domain.Page{Number: 1, Limit: 10}); !errors.Is(err, ErrVideoNotFound) {
		t.Errorf("list for missing video = %v, want ErrVideoNotFound", err)
	}
	list, err := svc.List(ctx, video.ID, domain.Page{Number: 1, Limit: 10})
	if err != nil || len(list) != 2 {
		t.Errorf("list = %d, %v, want 2", len(list), err)
	}
}

func TestDashboardStatsMissingChannel(t *testing.T) {
	svc := NewDashboardService(&fakeDashboardRepo{})
	if _, err := svc.Stats(context.Background(), primitive.NewObjectID()); !errors.Is(err, ErrChannelNotFound) {
		t.Errorf("error = %v, want ErrChannelNotFound", err)
	}
}
