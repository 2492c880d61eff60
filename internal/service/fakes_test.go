package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vedran77/vidtube/internal/domain"
	"github.com/vedran77/vidtube/internal/media"
	"github.com/vedran77/vidtube/internal/repository"
)

type fakeUserRepo struct {
	users     map[primitive.ObjectID]*domain.User
	history   map[primitive.ObjectID][]primitive.ObjectID
	calls     int
	createErr error
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	r := &fakeUserRepo{
		users:   map[primitive.ObjectID]*domain.User{},
		history: map[primitive.ObjectID][]primitive.ObjectID{},
	}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	r.calls++
	if r.createErr != nil {
		return r.createErr
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.calls++
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmailOrUsername(ctx context.Context, email, username string) (*domain.User, error) {
	r.calls++
	for _, u := range r.users {
		if (email != "" && u.Email == strings.ToLower(email)) || (username != "" && u.Username == strings.ToLower(username)) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) SetRefreshToken(ctx context.Context, id primitive.ObjectID, token string) error {
	r.calls++
	if u, ok := r.users[id]; ok {
		u.RefreshToken = token
	}
	return nil
}

func (r *fakeUserRepo) SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	r.calls++
	if u, ok := r.users[id]; ok {
		u.PasswordHash = hash
	}
	return nil
}

func (r *fakeUserRepo) UpdateAccount(ctx context.Context, id primitive.ObjectID, fullname, email string) (*domain.User, error) {
	r.calls++
	for _, u := range r.users {
		if u.ID != id && u.Email == email {
			return nil, repository.ErrDuplicate
		}
	}
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	u.Fullname, u.Email = fullname, email
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) SetAvatar(ctx context.Context, id primitive.ObjectID, url string) (*domain.User, error) {
	r.calls++
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	u.Avatar = url
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) SetCoverImage(ctx context.Context, id primitive.ObjectID, url string) (*domain.User, error) {
	r.calls++
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	u.CoverImage = url
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) PushWatchHistory(ctx context.Context, userID, videoID primitive.ObjectID) error {
	r.calls++
	r.history[userID] = append([]primitive.ObjectID{videoID}, r.history[userID]...)
	return nil
}

func (r *fakeUserRepo) GetWatchHistory(ctx context.Context, userID primitive.ObjectID) ([]domain.VideoWithOwner, error) {
	r.calls++
	out := []domain.VideoWithOwner{}
	for _, id := range r.history[userID] {
		out = append(out, domain.VideoWithOwner{ID: id})
	}
	return out, nil
}

func (r *fakeUserRepo) GetChannelProfile(ctx context.Context, username string, viewerID primitive.ObjectID) (*domain.ChannelProfile, error) {
	r.calls++
	for _, u := range r.users {
		if u.Username == strings.ToLower(username) {
			return &domain.ChannelProfile{ID: u.ID, Username: u.Username}, nil
		}
	}
	return nil, nil
}

type fakeVideoRepo struct {
	videos map[primitive.ObjectID]*domain.Video
	calls  int
}

func newFakeVideoRepo(videos ...*domain.Video) *fakeVideoRepo {
	r := &fakeVideoRepo{videos: map[primitive.ObjectID]*domain.Video{}}
	for _, v := range videos {
		r.videos[v.ID] = v
	}
	return r
}

func (r *fakeVideoRepo) Create(ctx context.Context, video *domain.Video) error {
	r.calls++
	r.videos[video.ID] = video
	return nil
}

func (r *fakeVideoRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Video, error) {
	r.calls++
	v, ok := r.videos[id]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (r *fakeVideoRepo) GetWithOwner(ctx context.Context, id primitive.ObjectID) (*domain.VideoWithOwner, error) {
	r.calls++
	v, ok := r.videos[id]
	if !ok {
		return nil, nil
	}
	return &domain.VideoWithOwner{ID: v.ID, Title: v.Title, Views: v.Views}, nil
}

func (r *fakeVideoRepo) GetDetail(ctx context.Context, id, viewerID primitive.ObjectID) (*domain.VideoDetail, error) {
	w, err := r.GetWithOwner(ctx, id)
	if err != nil || w == nil {
		return nil, err
	}
	return &domain.VideoDetail{VideoWithOwner: *w}, nil
}

func (r *fakeVideoRepo) ListPublished(ctx context.Context, q domain.VideoQuery) ([]domain.VideoWithOwner, error) {
	r.calls++
	out := []domain.VideoWithOwner{}
	for _, v := range r.videos {
		if v.IsPublished {
			out = append(out, domain.VideoWithOwner{ID: v.ID})
		}
	}
	return out, nil
}

func (r *fakeVideoRepo) Update(ctx context.Context, video *domain.Video) error {
	r.calls++
	cp := *video
	r.videos[video.ID] = &cp
	return nil
}

func (r *fakeVideoRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.calls++
	delete(r.videos, id)
	return nil
}

func (r *fakeVideoRepo) IncrementViews(ctx context.Context, id primitive.ObjectID) error {
	r.calls++
	if v, ok := r.videos[id]; ok {
		v.Views++
	}
	return nil
}

type fakeCommentRepo struct {
	comments map[primitive.ObjectID]*domain.Comment
}

func newFakeCommentRepo(comments ...*domain.Comment) *fakeCommentRepo {
	r := &fakeCommentRepo{comments: map[primitive.ObjectID]*domain.Comment{}}
	for _, c := range comments {
		r.comments[c.ID] = c
	}
	return r
}

func (r *fakeCommentRepo) Create(ctx context.Context, comment *domain.Comment) error {
	r.comments[comment.ID] = comment
	return nil
}

func (r *fakeCommentRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Comment, error) {
	c, ok := r.comments[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCommentRepo) ListByVideo(ctx context.Context, videoID primitive.ObjectID, page domain.Page) ([]domain.CommentWithOwner, error) {
	out := []domain.CommentWithOwner{}
	for _, c := range r.comments {
		if c.Video == videoID {
			out = append(out, domain.CommentWithOwner{ID: c.ID, Content: c.Content, Video: c.Video})
		}
	}
	return out, nil
}

func (r *fakeCommentRepo) UpdateContent(ctx context.Context, id primitive.ObjectID, content string) (*domain.Comment, error) {
	c, ok := r.comments[id]
	if !ok {
		return nil, nil
	}
	c.Content = content
	cp := *c
	return &cp, nil
}

func (r *fakeCommentRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	delete(r.comments, id)
	return nil
}

type likeKey struct {
	likedBy primitive.ObjectID
	target  domain.LikeTarget
}

type fakeLikeRepo struct {
	likes map[likeKey]*domain.Like
	// raceOnCreate simulates a concurrent insert winning the unique index.
	raceOnCreate bool
}

func newFakeLikeRepo() *fakeLikeRepo {
	return &fakeLikeRepo{likes: map[likeKey]*domain.Like{}}
}

func (r *fakeLikeRepo) Create(ctx context.Context, like *domain.Like) error {
	key := likeKey{like.LikedBy, like.Target}
	if r.raceOnCreate {
		r.raceOnCreate = false
		winner := *like
		winner.ID = primitive.NewObjectID()
		r.likes[key] = &winner
		return repository.ErrDuplicate
	}
	if _, ok := r.likes[key]; ok {
		return repository.ErrDuplicate
	}
	r.likes[key] = like
	return nil
}

func (r *fakeLikeRepo) Get(ctx context.Context, likedBy primitive.ObjectID, target domain.LikeTarget) (*domain.Like, error) {
	return r.likes[likeKey{likedBy, target}], nil
}

func (r *fakeLikeRepo) Delete(ctx context.Context, likedBy primitive.ObjectID, target domain.LikeTarget) (*domain.Like, error) {
	key := likeKey{likedBy, target}
	l, ok := r.likes[key]
	if !ok {
		return nil, nil
	}
	delete(r.likes, key)
	return l, nil
}

func (r *fakeLikeRepo) ListLikedVideos(ctx context.Context, userID primitive.ObjectID, page domain.Page) ([]domain.LikedVideo, error) {
	out := []domain.LikedVideo{}
	for k, l := range r.likes {
		if k.likedBy == userID && k.target.Kind == domain.LikeKindVideo {
			out = append(out, domain.LikedVideo{Video: domain.VideoWithOwner{ID: k.target.ID}, LikedAt: l.CreatedAt})
		}
	}
	return out, nil
}

type subKey struct {
	subscriber, channel primitive.ObjectID
}

type fakeSubscriptionRepo struct {
	subs  map[subKey]*domain.Subscription
	calls int
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{subs: map[subKey]*domain.Subscription{}}
}

func (r *fakeSubscriptionRepo) Create(ctx context.Context, sub *domain.Subscription) error {
	r.calls++
	key := subKey{sub.Subscriber, sub.Channel}
	if _, ok := r.subs[key]; ok {
		return repository.ErrDuplicate
	}
	r.subs[key] = sub
	return nil
}

func (r *fakeSubscriptionRepo) Get(ctx context.Context, subscriberID, channelID primitive.ObjectID) (*domain.Subscription, error) {
	r.calls++
	return r.subs[subKey{subscriberID, channelID}], nil
}

func (r *fakeSubscriptionRepo) Delete(ctx context.Context, subscriberID, channelID primitive.ObjectID) (*domain.Subscription, error) {
	r.calls++
	key := subKey{subscriberID, channelID}
	s, ok := r.subs[key]
	if !ok {
		return nil, nil
	}
	delete(r.subs, key)
	return s, nil
}

func (r *fakeSubscriptionRepo) ListSubscribers(ctx context.Context, channelID primitive.ObjectID) ([]domain.ChannelSubscriber, error) {
	r.calls++
	out := []domain.ChannelSubscriber{}
	for k, s := range r.subs {
		if k.channel == channelID {
			out = append(out, domain.ChannelSubscriber{Subscriber: domain.UserSummary{ID: k.subscriber}, SubscribedAt: s.CreatedAt})
		}
	}
	return out, nil
}

func (r *fakeSubscriptionRepo) ListSubscribedChannels(ctx context.Context, subscriberID primitive.ObjectID) ([]domain.SubscribedChannel, error) {
	r.calls++
	out := []domain.SubscribedChannel{}
	for k, s := range r.subs {
		if k.subscriber == subscriberID {
			out = append(out, domain.SubscribedChannel{Channel: domain.UserSummary{ID: k.channel}, SubscribedAt: s.CreatedAt})
		}
	}
	return out, nil
}

type fakePlaylistRepo struct {
	playlists map[primitive.ObjectID]*domain.Playlist
	writes    int
}

func newFakePlaylistRepo(playlists ...*domain.Playlist) *fakePlaylistRepo {
	r := &fakePlaylistRepo{playlists: map[primitive.ObjectID]*domain.Playlist{}}
	for _, p := range playlists {
		r.playlists[p.ID] = p
	}
	return r
}

func (r *fakePlaylistRepo) Create(ctx context.Context, playlist *domain.Playlist) error {
	r.playlists[playlist.ID] = playlist
	return nil
}

func (r *fakePlaylistRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Playlist, error) {
	p, ok := r.playlists[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	cp.Videos = append([]primitive.ObjectID(nil), p.Videos...)
	return &cp, nil
}

func (r *fakePlaylistRepo) GetDetail(ctx context.Context, id primitive.ObjectID) (*domain.PlaylistDetail, error) {
	p, ok := r.playlists[id]
	if !ok {
		return nil, nil
	}
	return &domain.PlaylistDetail{ID: p.ID, Name: p.Name, TotalVideos: len(p.Videos), Videos: []domain.VideoWithOwner{}}, nil
}

func (r *fakePlaylistRepo) ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]domain.PlaylistDetail, error) {
	out := []domain.PlaylistDetail{}
	for _, p := range r.playlists {
		if p.Owner == ownerID {
			out = append(out, domain.PlaylistDetail{ID: p.ID, Name: p.Name})
		}
	}
	return out, nil
}

func (r *fakePlaylistRepo) Update(ctx context.Context, playlist *domain.Playlist) error {
	cp := *playlist
	r.playlists[playlist.ID] = &cp
	return nil
}

func (r *fakePlaylistRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	delete(r.playlists, id)
	return nil
}

func (r *fakePlaylistRepo) AddVideo(ctx context.Context, playlistID, videoID primitive.ObjectID) (*domain.Playlist, error) {
	r.writes++
	p, ok := r.playlists[playlistID]
	if !ok || p.Contains(videoID) {
		return nil, nil
	}
	p.Videos = append(p.Videos, videoID)
	return r.GetByID(ctx, playlistID)
}

func (r *fakePlaylistRepo) RemoveVideo(ctx context.Context, playlistID, videoID primitive.ObjectID) (*domain.Playlist, error) {
	r.writes++
	p, ok := r.playlists[playlistID]
	if !ok || !p.Contains(videoID) {
		return nil, nil
	}
	kept := p.Videos[:0]
	for _, id := range p.Videos {
		if id != videoID {
			kept = append(kept, id)
		}
	}
	p.Videos = kept
	return r.GetByID(ctx, playlistID)
}

type fakeTweetRepo struct {
	tweets map[primitive.ObjectID]*domain.Tweet
}

func newFakeTweetRepo(tweets ...*domain.Tweet) *fakeTweetRepo {
	r := &fakeTweetRepo{tweets: map[primitive.ObjectID]*domain.Tweet{}}
	for _, t := range tweets {
		r.tweets[t.ID] = t
	}
	return r
}

func (r *fakeTweetRepo) Create(ctx context.Context, tweet *domain.Tweet) error {
	r.tweets[tweet.ID] = tweet
	return nil
}

func (r *fakeTweetRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Tweet, error) {
	t, ok := r.tweets[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTweetRepo) ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]domain.TweetWithOwner, error) {
	out := []domain.TweetWithOwner{}
	for _, t := range r.tweets {
		if t.Owner == ownerID {
			out = append(out, domain.TweetWithOwner{ID: t.ID, Content: t.Content})
		}
	}
	return out, nil
}

func (r *fakeTweetRepo) UpdateContent(ctx context.Context, id primitive.ObjectID, content string) (*domain.Tweet, error) {
	t, ok := r.tweets[id]
	if !ok {
		return nil, nil
	}
	t.Content = content
	cp := *t
	return &cp, nil
}

func (r *fakeTweetRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	delete(r.tweets, id)
	return nil
}

type fakeDashboardRepo struct {
	stats  map[primitive.ObjectID]*domain.ChannelStats
	videos []domain.Video
}

func (r *fakeDashboardRepo) ChannelStats(ctx context.Context, channelID primitive.ObjectID) (*domain.ChannelStats, error) {
	return r.stats[channelID], nil
}

func (r *fakeDashboardRepo) ChannelVideos(ctx context.Context, channelID primitive.ObjectID) ([]domain.Video, error) {
	return r.videos, nil
}

// fakeMedia records uploads and deletes. Paths listed in fail make Upload
// return an error.
type fakeMedia struct {
	mu       sync.Mutex
	fail     map[string]bool
	uploaded []string
	deleted  []string
}

func newFakeMedia(failing ...string) *fakeMedia {
	m := &fakeMedia{fail: map[string]bool{}}
	for _, p := range failing {
		m.fail[p] = true
	}
	return m
}

func (m *fakeMedia) Upload(ctx context.Context, localPath string) (*media.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail[localPath] {
		return nil, errors.New("upload rejected")
	}
	url := "http://media.test/" + localPath
	m.uploaded = append(m.uploaded, url)
	return &media.Asset{URL: url, Key: localPath}, nil
}

func (m *fakeMedia) Delete(ctx context.Context, url string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if url != "" && ctx.Err() == nil {
		m.deleted = append(m.deleted, url)
	}
}

type notification struct {
	kind      string
	recipient primitive.ObjectID
}

type fakeNotifier struct {
	sent []notification
}

func (n *fakeNotifier) NotifyLike(recipient primitive.ObjectID, like *domain.Like) {
	n.sent = append(n.sent, notification{"like", recipient})
}

func (n *fakeNotifier) NotifySubscription(sub *domain.Subscription) {
	n.sent = append(n.sent, notification{"subscription", sub.Channel})
}

func (n *fakeNotifier) NotifyComment(recipient primitive.ObjectID, comment *domain.Comment) {
	n.sent = append(n.sent, notification{"comment", recipient})
}

func newUser(username string) *domain.User {
	return &domain.User{
		ID:       primitive.NewObjectID(),
		Username: username,
		Email:    username + "@example.com",
		Fullname: "User " + username,
	}
}

func newVideo(owner primitive.ObjectID) *domain.Video {
	return &domain.Video{
		ID:          primitive.NewObjectID(),
		Owner:       owner,
		Title:       "clip",
		VideoFile:   "http://media.test/clip.mp4",
		Thumbnail:   "http://media.test/clip.png",
		IsPublished: true,
	}
}

var (
	_ repository.UserRepository         = (*fakeUserRepo)(nil)
	_ repository.VideoRepository        = (*fakeVideoRepo)(nil)
	_ repository.CommentRepository      = (*fakeCommentRepo)(nil)
	_ repository.LikeRepository         = (*fakeLikeRepo)(nil)
	_ repository.SubscriptionRepository = (*fakeSubscriptionRepo)(nil)
	_ repository.PlaylistRepository     = (*fakePlaylistRepo)(nil)
	_ repository.TweetRepository        = (*fakeTweetRepo)(nil)
	_ repository.DashboardRepository    = (*fakeDashboardRepo)(nil)
	_ MediaDelegate                     = (*fakeMedia)(nil)
	_ Notifier                          = (*fakeNotifier)(nil)
)
