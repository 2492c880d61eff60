package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vedran77/vidtube/internal/database"
	"github.com/vedran77/vidtube/internal/domain"
)

type TweetRepo struct {
	coll *mongo.Collection
}

func NewTweetRepo(db *mongo.Database) *TweetRepo {
	return &TweetRepo{coll: db.Collection(database.TweetsCollection)}
}

func (r *TweetRepo) Create(ctx context.Context, tweet *domain.Tweet) error {
	return insertOne(ctx, r.coll, tweet)
}

func (r *TweetRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Tweet, error) {
	return findOne[domain.Tweet](ctx, r.coll, bson.D{{Key: "_id", Value: id}})
}

func (r *TweetRepo) ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]domain.TweetWithOwner, error) {
	return aggregate[domain.TweetWithOwner](ctx, r.coll, ownerTweetsPipeline(ownerID))
}

func (r *TweetRepo) UpdateContent(ctx context.Context, id primitive.ObjectID, content string) (*domain.Tweet, error) {
	return findOneAndUpdate[domain.Tweet](ctx, r.coll, bson.D{{Key: "_id", Value: id}}, bson.D{{Key: "$set", Value: bson.D{
		{Key: "content", Value: content},
		{Key: "updatedAt", Value: time.Now().UTC()},
	}}})
}

func (r *TweetRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.coll, id)
}
