package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vedran77/vidtube/internal/metrics"
	"github.com/vedran77/vidtube/internal/repository"
)

// findOne decodes the first match into T, returning (nil, nil) when there is
// none.
func findOne[T any](ctx context.Context, coll *mongo.Collection, filter any, opts ...*options.FindOneOptions) (_ *T, err error) {
	defer metrics.ObserveStore(coll.Name(), "find_one", time.Now(), &err)

	var out T
	err = coll.FindOne(ctx, filter, opts...).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// aggregate runs pipeline and decodes every result. The returned slice is
// never nil.
func aggregate[T any](ctx context.Context, coll *mongo.Collection, pipeline mongo.Pipeline) (_ []T, err error) {
	defer metrics.ObserveStore(coll.Name(), "aggregate", time.Now(), &err)

	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}

	out := []T{}
	if err = cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func aggregateOne[T any](ctx context.Context, coll *mongo.Collection, pipeline mongo.Pipeline) (*T, error) {
	results, err := aggregate[T](ctx, coll, pipeline)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return &results[0], nil
}

func insertOne(ctx context.Context, coll *mongo.Collection, doc any) (err error) {
	defer metrics.ObserveStore(coll.Name(), "insert", time.Now(), &err)

	_, err = coll.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return repository.ErrDuplicate
	}
	return err
}

// findOneAndUpdate returns the document after the update, or nil when the
// filter matched nothing.
func findOneAndUpdate[T any](ctx context.Context, coll *mongo.Collection, filter, update any) (_ *T, err error) {
	defer metrics.ObserveStore(coll.Name(), "update", time.Now(), &err)

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var out T
	err = coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return nil, repository.ErrDuplicate
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// findOneAndDelete returns the removed document, or nil when there was none.
func findOneAndDelete[T any](ctx context.Context, coll *mongo.Collection, filter any) (_ *T, err error) {
	defer metrics.ObserveStore(coll.Name(), "delete", time.Now(), &err)

	var out T
	err = coll.FindOneAndDelete(ctx, filter).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func deleteByID(ctx context.Context, coll *mongo.Collection, id any) (err error) {
	defer metrics.ObserveStore(coll.Name(), "delete", time.Now(), &err)

	_, err = coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	return err
}
