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

type CommentRepo struct {
	coll *mongo.Collection
}

func NewCommentRepo(db *mongo.Database) *CommentRepo {
	return &CommentRepo{coll: db.Collection(database.CommentsCollection)}
}

func (r *CommentRepo) Create(ctx context.Context, comment *domain.Comment) error {
	return insertOne(ctx, r.coll, comment)
}

func (r *CommentRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Comment, error) {
	return findOne[domain.Comment](ctx, r.coll, bson.D{{Key: "_id", Value: id}})
}

func (r *CommentRepo) ListByVideo(ctx context.Context, videoID primitive.ObjectID, page domain.Page) ([]domain.CommentWithOwner, error) {
	return aggregate[domain.CommentWithOwner](ctx, r.coll, videoCommentsPipeline(videoID, page))
}

func (r *CommentRepo) UpdateContent(ctx context.Context, id primitive.ObjectID, content string) (*domain.Comment, error) {
	return findOneAndUpdate[domain.Comment](ctx, r.coll, bson.D{{Key: "_id", Value: id}}, bson.D{{Key: "$set", Value: bson.D{
		{Key: "content", Value: content},
		{Key: "updatedAt", Value: time.Now().UTC()},
	}}})
}

func (r *CommentRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.coll, id)
}
