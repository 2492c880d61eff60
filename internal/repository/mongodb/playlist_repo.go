package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vedran77/vidtube/internal/database"
	"github.com/vedran77/vidtube/internal/domain"
	"github.com/vedran77/vidtube/internal/metrics"
)

type PlaylistRepo struct {
	coll *mongo.Collection
}

func NewPlaylistRepo(db *mongo.Database) *PlaylistRepo {
	return &PlaylistRepo{coll: db.Collection(database.PlaylistsCollection)}
}

func (r *PlaylistRepo) Create(ctx context.Context, playlist *domain.Playlist) error {
	if playlist.Videos == nil {
		playlist.Videos = []primitive.ObjectID{}
	}
	return insertOne(ctx, r.coll, playlist)
}

func (r *PlaylistRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Playlist, error) {
	return findOne[domain.Playlist](ctx, r.coll, bson.D{{Key: "_id", Value: id}})
}

func (r *PlaylistRepo) GetDetail(ctx context.Context, id primitive.ObjectID) (*domain.PlaylistDetail, error) {
	return aggregateOne[domain.PlaylistDetail](ctx, r.coll, playlistDetailPipeline(id))
}

func (r *PlaylistRepo) ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]domain.PlaylistDetail, error) {
	return aggregate[domain.PlaylistDetail](ctx, r.coll, ownerPlaylistsPipeline(ownerID))
}

func (r *PlaylistRepo) Update(ctx context.Context, playlist *domain.Playlist) (err error) {
	defer metrics.ObserveStore(r.coll.Name(), "update", time.Now(), &err)

	playlist.UpdatedAt = time.Now().UTC()
	_, err = r.coll.UpdateByID(ctx, playlist.ID, bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: playlist.Name},
		{Key: "description", Value: playlist.Description},
		{Key: "updatedAt", Value: playlist.UpdatedAt},
	}}})
	return err
}

func (r *PlaylistRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.coll, id)
}

// AddVideo only matches while the video is absent, so two concurrent adds
// cannot both succeed.
func (r *PlaylistRepo) AddVideo(ctx context.Context, playlistID, videoID primitive.ObjectID) (*domain.Playlist, error) {
	filter := bson.D{
		{Key: "_id", Value: playlistID},
		{Key: "videos", Value: bson.D{{Key: "$ne", Value: videoID}}},
	}
	update := bson.D{
		{Key: "$push", Value: bson.D{{Key: "videos", Value: videoID}}},
		{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: time.Now().UTC()}}},
	}
	return findOneAndUpdate[domain.Playlist](ctx, r.coll, filter, update)
}

func (r *PlaylistRepo) RemoveVideo(ctx context.Context, playlistID, videoID primitive.ObjectID) (*domain.Playlist, error) {
	filter := bson.D{
		{Key: "_id", Value: playlistID},
		{Key: "videos", Value: videoID},
	}
	update := bson.D{
		{Key: "$pull", Value: bson.D{{Key: "videos", Value: videoID}}},
		{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: time.Now().UTC()}}},
	}
	return findOneAndUpdate[domain.Playlist](ctx, r.coll, filter, update)
}
