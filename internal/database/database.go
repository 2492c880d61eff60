package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/vedran77/vidtube/internal/config"
)

const (
	UsersCollection         = "users"
	VideosCollection        = "videos"
	CommentsCollection      = "comments"
	LikesCollection         = "likes"
	SubscriptionsCollection = "subscriptions"
	PlaylistsCollection     = "playlists"
	TweetsCollection        = "tweets"
)

// Connect opens a client and verifies the primary is reachable.
func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.Timeout).
		SetServerSelectionTimeout(cfg.Timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("unable to create mongo client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return client, nil
}

func Ping(ctx context.Context, client *mongo.Client) error {
	return client.Ping(ctx, readpref.Primary())
}

var indexes = map[string][]mongo.IndexModel{
	UsersCollection: {
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	},
	VideosCollection: {
		{Keys: bson.D{{Key: "isPublished", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "createdAt", Value: -1}}},
	},
	CommentsCollection: {
		{Keys: bson.D{{Key: "video", Value: 1}, {Key: "createdAt", Value: -1}}},
	},
	LikesCollection: {
		{
			Keys:    bson.D{{Key: "likedBy", Value: 1}, {Key: "target.kind", Value: 1}, {Key: "target.id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("likes_unique_target"),
		},
		{Keys: bson.D{{Key: "target.id", Value: 1}, {Key: "target.kind", Value: 1}}},
	},
	SubscriptionsCollection: {
		{
			Keys:    bson.D{{Key: "subscriber", Value: 1}, {Key: "channel", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("subscriptions_unique_pair"),
		},
		{Keys: bson.D{{Key: "channel", Value: 1}}},
	},
	PlaylistsCollection: {
		{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "updatedAt", Value: -1}}},
	},
	TweetsCollection: {
		{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "createdAt", Value: -1}}},
	},
}

// EnsureIndexes creates every index the repositories rely on, including the
// unique indexes that make like and subscription toggles idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for collection, models := range indexes {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("creating indexes on %s: %w", collection, err)
		}
	}
	return nil
}
