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

type VideoRepo struct {
	coll *mongo.Collection
}

func NewVideoRepo(db *mongo.Database) *VideoRepo {
	return &VideoRepo{coll: db.Collection(database.VideosCollection)}
}

func (r *VideoRepo) Create(ctx context.Context, video *domain.Video) error {
	return insertOne(ctx, r.coll, video)
}

func (r *VideoRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Video, error) {
	return findOne[domain.Video](ctx, r.coll, bson.D{{Key: "_id", Value: id}})
}

func (r *VideoRepo) GetWithOwner(ctx context.Context, id primitive.ObjectID) (*domain.VideoWithOwner, error) {
	return aggregateOne[domain.VideoWithOwner](ctx, r.coll, videoWithOwnerPipeline(id))
}

func (r *VideoRepo) GetDetail(ctx context.Context, id, viewerID primitive.ObjectID) (*domain.VideoDetail, error) {
	return aggregateOne[domain.VideoDetail](ctx, r.coll, videoDetailPipeline(id, viewerID))
}

func (r *VideoRepo) ListPublished(ctx context.Context, q domain.VideoQuery) ([]domain.VideoWithOwner, error) {
	return aggregate[domain.VideoWithOwner](ctx, r.coll, publishedVideosPipeline(q))
}

// Update writes the mutable fields. Owner and media file are never changed.
func (r *VideoRepo) Update(ctx context.Context, video *domain.Video) (err error) {
	defer metrics.ObserveStore(r.coll.Name(), "update", time.Now(), &err)

	video.UpdatedAt = time.Now().UTC()
	_, err = r.coll.UpdateByID(ctx, video.ID, bson.D{{Key: "$set", Value: bson.D{
		{Key: "title", Value: video.Title},
		{Key: "description", Value: video.Description},
		{Key: "thumbnail", Value: video.Thumbnail},
		{Key: "isPublished", Value: video.IsPublished},
		{Key: "updatedAt", Value: video.UpdatedAt},
	}}})
	return err
}

func (r *VideoRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.coll, id)
}

func (r *VideoRepo) IncrementViews(ctx context.Context, id primitive.ObjectID) (err error) {
	defer metrics.ObserveStore(r.coll.Name(), "update", time.Now(), &err)

	_, err = r.coll.UpdateByID(ctx, id, bson.D{{Key: "$inc", Value: bson.D{{Key: "views", Value: 1}}}})
	return err
}
