package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Subscription struct {
	ID         primitive.ObjectID `json:"_id" bson:"_id"`
	Subscriber primitive.ObjectID `json:"subscriber" bson:"subscriber"`
	Channel    primitive.ObjectID `json:"channel" bson:"channel"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
}

type ChannelSubscriber struct {
	Subscriber   UserSummary `json:"subscriber" bson:"subscriber"`
	SubscribedAt time.Time   `json:"subscribedAt" bson:"subscribedAt"`
}

type SubscribedChannel struct {
	Channel      UserSummary `json:"channel" bson:"channel"`
	SubscribedAt time.Time   `json:"subscribedAt" bson:"subscribedAt"`
}
