package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vedran77/vidtube/internal/database"
	"github.com/vedran77/vidtube/internal/domain"
)

type LikeRepo struct {
	coll *mongo.Collection
}

func NewLikeRepo(db *mongo.Database) *LikeRepo {
	return &LikeRepo{coll: db.Collection(database.LikesCollection)}
}

func likeFilter(likedBy primitive.ObjectID, target domain.LikeTarget) bson.D {
	return bson.D{
		{Key: "likedBy", Value: likedBy},
		{Key: "target.kind", Value: string(target.Kind)},
		{Key: "target.id", Value: target.ID},
	}
}

func (r *LikeRepo) Create(ctx context.Context, like *domain.Like) error {
	return insertOne(ctx, r.coll, like)
}

func (r *LikeRepo) Get(ctx context.Context, likedBy primitive.ObjectID, target domain.LikeTarget) (*domain.Like, error) {
	return findOne[domain.Like](ctx, r.coll, likeFilter(likedBy, target))
}

func (r *LikeRepo) Delete(ctx context.Context, likedBy primitive.ObjectID, target domain.LikeTarget) (*domain.Like, error) {
	return findOneAndDelete[domain.Like](ctx, r.coll, likeFilter(likedBy, target))
}

func (r *LikeRepo) ListLikedVideos(ctx context.Context, userID primitive.ObjectID, page domain.Page) ([]domain.LikedVideo, error) {
	return aggregate[domain.LikedVideo](ctx, r.coll, likedVideosPipeline(userID, page))
}
