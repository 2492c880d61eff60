package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vedran77/vidtube/internal/database"
	"github.com/vedran77/vidtube/internal/domain"
)

type SubscriptionRepo struct {
	coll *mongo.Collection
}

func NewSubscriptionRepo(db *mongo.Database) *SubscriptionRepo {
	return &SubscriptionRepo{coll: db.Collection(database.SubscriptionsCollection)}
}

func subscriptionFilter(subscriberID, channelID primitive.ObjectID) bson.D {
	return bson.D{
		{Key: "subscriber", Value: subscriberID},
		{Key: "channel", Value: channelID},
	}
}

func (r *SubscriptionRepo) Create(ctx context.Context, sub *domain.Subscription) error {
	return insertOne(ctx, r.coll, sub)
}

func (r *SubscriptionRepo) Get(ctx context.Context, subscriberID, channelID primitive.ObjectID) (*domain.Subscription, error) {
	return findOne[domain.Subscription](ctx, r.coll, subscriptionFilter(subscriberID, channelID))
}

func (r *SubscriptionRepo) Delete(ctx context.Context, subscriberID, channelID primitive.ObjectID) (*domain.Subscription, error) {
	return findOneAndDelete[domain.Subscription](ctx, r.coll, subscriptionFilter(subscriberID, channelID))
}

func (r *SubscriptionRepo) ListSubscribers(ctx context.Context, channelID primitive.ObjectID) ([]domain.ChannelSubscriber, error) {
	return aggregate[domain.ChannelSubscriber](ctx, r.coll, channelSubscribersPipeline(channelID))
}

func (r *SubscriptionRepo) ListSubscribedChannels(ctx context.Context, subscriberID primitive.ObjectID) ([]domain.SubscribedChannel, error) {
	return aggregate[domain.SubscribedChannel](ctx, r.coll, subscribedChannelsPipeline(subscriberID))
}
